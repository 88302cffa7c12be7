package processor

import (
	"context"

	"givehub-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CampaignStore defines the database operations required by CampaignProcessor
type CampaignStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (store.User, error)
	IncrementCampaignsCreated(ctx context.Context, id primitive.ObjectID, delta int) error

	CreateCampaign(ctx context.Context, campaign store.Campaign) (store.Campaign, error)
	GetCampaignByID(ctx context.Context, id primitive.ObjectID) (store.Campaign, error)
	GetCampaignAndIncrementViews(ctx context.Context, id primitive.ObjectID) (store.Campaign, error)
	ListCampaigns(ctx context.Context, params store.ListCampaignsParams) ([]store.Campaign, int64, error)
	CountOpenCampaignsByCreator(ctx context.Context, creatorID primitive.ObjectID) (int64, error)
	UpdateCampaign(ctx context.Context, id primitive.ObjectID, params store.UpdateCampaignParams) (store.Campaign, error)
	DeleteCampaign(ctx context.Context, id primitive.ObjectID) error
	SetCampaignReview(ctx context.Context, id primitive.ObjectID, review store.CampaignReview, rejectionReason string) (store.Campaign, error)
	TransitionCampaignStatus(ctx context.Context, id primitive.ObjectID, from, to store.CampaignStatus) (store.Campaign, error)
	StartImplementation(ctx context.Context, id primitive.ObjectID) (store.Campaign, error)
	ListReviewQueue(ctx context.Context) ([]store.Campaign, error)
	GetCampaignStatistics(ctx context.Context) (store.CampaignStatistics, error)

	FollowCampaign(ctx context.Context, campaignID, userID primitive.ObjectID) error
	UnfollowCampaign(ctx context.Context, campaignID, userID primitive.ObjectID) error
	ListCampaignFollowers(ctx context.Context, campaignID primitive.ObjectID, page, pageSize int) ([]store.CampaignFollow, int64, error)
	ListFollowedCampaigns(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]store.CampaignFollow, int64, error)
}
