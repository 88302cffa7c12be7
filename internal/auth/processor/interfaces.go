package processor

import (
	"context"
	"time"

	"givehub-server/internal/clients/facebookoauth"
	"givehub-server/internal/clients/googleoauth"
	"givehub-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthStore defines the database operations required by AuthProcessor
type AuthStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, params store.CreateUserParams) (store.User, error)
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (store.User, error)
	GetUserByRefreshToken(ctx context.Context, token string) (store.User, error)
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string, expiresAt time.Time) error
	ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error
	LinkGoogleProvider(ctx context.Context, id primitive.ObjectID, info store.GoogleProviderInfo) error
	LinkFacebookProvider(ctx context.Context, id primitive.ObjectID, info store.FacebookProviderInfo) error
}

// GoogleVerifier defines the Google token verification required by AuthProcessor
type GoogleVerifier interface {
	VerifyIDToken(ctx context.Context, rawToken string) (googleoauth.UserInfo, error)
}

// FacebookVerifier defines the Facebook token verification required by AuthProcessor
type FacebookVerifier interface {
	VerifyAccessToken(ctx context.Context, accessToken string) (facebookoauth.UserInfo, error)
}
