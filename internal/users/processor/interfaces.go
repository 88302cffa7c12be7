package processor

import (
	"context"

	"givehub-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore defines the database operations required by UserProcessor
type UserStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (store.User, error)
	ListUsers(ctx context.Context, params store.ListUsersParams) ([]store.User, int64, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, params store.UpdateUserParams) (store.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}
