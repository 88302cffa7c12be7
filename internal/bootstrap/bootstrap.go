package bootstrap

import (
	"context"
	"fmt"

	"givehub-server/internal/config"
	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	authHandler "givehub-server/internal/auth/handler"
	authProcessor "givehub-server/internal/auth/processor"
	campaignHandler "givehub-server/internal/campaigns/handler"
	campaignProcessor "givehub-server/internal/campaigns/processor"
	"givehub-server/internal/clients/cloudinary"
	"givehub-server/internal/clients/facebookoauth"
	"givehub-server/internal/clients/gcs"
	"givehub-server/internal/clients/googleoauth"
	donationHandler "givehub-server/internal/donations/handler"
	donationProcessor "givehub-server/internal/donations/processor"
	mediaHandler "givehub-server/internal/media/handler"
	mediaProcessor "givehub-server/internal/media/processor"
	postHandler "givehub-server/internal/posts/handler"
	postProcessor "givehub-server/internal/posts/processor"
	progressHandler "givehub-server/internal/progress/handler"
	progressProcessor "givehub-server/internal/progress/processor"
	userHandler "givehub-server/internal/users/handler"
	userProcessor "givehub-server/internal/users/processor"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	Store  store.Store
	Logger *observability.Logger

	AuthHandler     authHandler.Handler
	UserHandler     userHandler.Handler
	CampaignHandler campaignHandler.Handler
	ProgressHandler progressHandler.Handler
	PostHandler     postHandler.Handler
	MediaHandler    mediaHandler.Handler
	DonationHandler donationHandler.Handler
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: logger}

	var err error
	deps.Store, err = store.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := deps.Store.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	// Social sign-in clients
	googleClient := googleoauth.NewClient(cfg.OAuth.GoogleClientID, logger)
	facebookClient := facebookoauth.NewClient(cfg.OAuth.FacebookAppID, cfg.OAuth.FacebookAppSecret, logger)

	// Blob storage backend
	var blob mediaProcessor.BlobStorage
	switch cfg.Media.Provider {
	case "google_cloud":
		blob, err = gcs.NewClient(ctx, cfg.Media.GCS.ProjectID, cfg.Media.GCS.Bucket, cfg.Media.GCS.CredentialsFile, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create gcs client: %w", err)
		}
	default:
		blob, err = cloudinary.NewClient(
			cfg.Media.Cloudinary.CloudName,
			cfg.Media.Cloudinary.APIKey,
			cfg.Media.Cloudinary.APISecret,
			cfg.Media.Cloudinary.Folder,
			logger,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
		}
	}

	authConfig := authProcessor.AuthConfig{
		JWTSecret:       cfg.Auth.JWTSecret,
		AccessTokenTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
	}
	authProc := authProcessor.New(&deps.Store, authConfig, googleClient, facebookClient, logger)
	deps.AuthHandler = authHandler.New(authProc, logger)

	userProc := userProcessor.New(&deps.Store, logger)
	deps.UserHandler = userHandler.New(userProc, logger)

	campaignProc := campaignProcessor.New(&deps.Store, logger)
	deps.CampaignHandler = campaignHandler.New(campaignProc, logger)

	progressProc := progressProcessor.New(&deps.Store, logger)
	deps.ProgressHandler = progressHandler.New(progressProc, logger)

	postProc := postProcessor.New(&deps.Store, logger)
	deps.PostHandler = postHandler.New(postProc, logger)

	mediaProc := mediaProcessor.New(&deps.Store, blob, logger)
	deps.MediaHandler = mediaHandler.New(mediaProc, logger)

	donationProc := donationProcessor.New(&deps.Store, logger)
	deps.DonationHandler = donationHandler.New(donationProc, logger)

	return deps, nil
}

// Cleanup closes all resources that need cleanup
func (d *Dependencies) Cleanup() {
	if err := d.Store.Close(context.Background()); err != nil {
		d.Logger.Error(context.Background(), "failed to close store", err)
	}
}
