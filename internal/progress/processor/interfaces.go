package processor

import (
	"context"

	"givehub-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressStore defines the database operations required by ProgressProcessor
type ProgressStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (store.User, error)
	GetCampaignByID(ctx context.Context, id primitive.ObjectID) (store.Campaign, error)
	CreateProgressUpdate(ctx context.Context, update store.ProgressUpdate) (store.ProgressUpdate, error)
	GetProgressUpdate(ctx context.Context, id primitive.ObjectID) (store.ProgressUpdate, error)
	ListProgressUpdates(ctx context.Context, params store.ListProgressParams) ([]store.ProgressUpdate, int64, error)
	DeleteProgressUpdate(ctx context.Context, id primitive.ObjectID) error
}
