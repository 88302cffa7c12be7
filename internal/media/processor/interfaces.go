package processor

import (
	"context"
	"io"
	"time"

	"givehub-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaStore defines the database operations required by MediaProcessor
type MediaStore interface {
	CreateMedia(ctx context.Context, media store.Media) (store.Media, error)
	GetMediaByID(ctx context.Context, id primitive.ObjectID) (store.Media, error)
	ListMedia(ctx context.Context, params store.ListMediaParams) ([]store.Media, int64, error)
	UpdateMedia(ctx context.Context, id primitive.ObjectID, params store.UpdateMediaParams) (store.Media, error)
	SetMediaUploaded(ctx context.Context, id primitive.ObjectID, url string) error
	SetMediaStatus(ctx context.Context, id primitive.ObjectID, status store.MediaStatus) error
}

// BlobStorage is a pluggable blob backend. Cloudinary and Google Cloud
// Storage both implement it.
type BlobStorage interface {
	Upload(ctx context.Context, file io.Reader, path, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
	SignedURL(ctx context.Context, path string, expiry time.Duration) (string, error)
	Provider() store.MediaProvider
}
