//go:build !integration

package processor

import (
	"context"
	"testing"
	"time"

	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCampaignStore struct {
	getUserByID                func(ctx context.Context, id primitive.ObjectID) (store.User, error)
	incrementCampaignsCreated  func(ctx context.Context, id primitive.ObjectID, delta int) error
	createCampaign             func(ctx context.Context, campaign store.Campaign) (store.Campaign, error)
	getCampaignByID            func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error)
	getCampaignAndIncrementV   func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error)
	listCampaigns              func(ctx context.Context, params store.ListCampaignsParams) ([]store.Campaign, int64, error)
	countOpenCampaignsByOwner  func(ctx context.Context, creatorID primitive.ObjectID) (int64, error)
	updateCampaign             func(ctx context.Context, id primitive.ObjectID, params store.UpdateCampaignParams) (store.Campaign, error)
	deleteCampaign             func(ctx context.Context, id primitive.ObjectID) error
	setCampaignReview          func(ctx context.Context, id primitive.ObjectID, review store.CampaignReview, rejectionReason string) (store.Campaign, error)
	transitionCampaignStatus   func(ctx context.Context, id primitive.ObjectID, from, to store.CampaignStatus) (store.Campaign, error)
	startImplementation        func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error)
	listReviewQueue            func(ctx context.Context) ([]store.Campaign, error)
	getCampaignStatistics      func(ctx context.Context) (store.CampaignStatistics, error)
	followCampaign             func(ctx context.Context, campaignID, userID primitive.ObjectID) error
	unfollowCampaign           func(ctx context.Context, campaignID, userID primitive.ObjectID) error
	listCampaignFollowers      func(ctx context.Context, campaignID primitive.ObjectID, page, pageSize int) ([]store.CampaignFollow, int64, error)
	listFollowedCampaigns      func(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]store.CampaignFollow, int64, error)
}

func (f *fakeCampaignStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (store.User, error) {
	return f.getUserByID(ctx, id)
}

func (f *fakeCampaignStore) IncrementCampaignsCreated(ctx context.Context, id primitive.ObjectID, delta int) error {
	if f.incrementCampaignsCreated == nil {
		return nil
	}
	return f.incrementCampaignsCreated(ctx, id, delta)
}

func (f *fakeCampaignStore) CreateCampaign(ctx context.Context, campaign store.Campaign) (store.Campaign, error) {
	return f.createCampaign(ctx, campaign)
}

func (f *fakeCampaignStore) GetCampaignByID(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
	return f.getCampaignByID(ctx, id)
}

func (f *fakeCampaignStore) GetCampaignAndIncrementViews(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
	return f.getCampaignAndIncrementV(ctx, id)
}

func (f *fakeCampaignStore) ListCampaigns(ctx context.Context, params store.ListCampaignsParams) ([]store.Campaign, int64, error) {
	return f.listCampaigns(ctx, params)
}

func (f *fakeCampaignStore) CountOpenCampaignsByCreator(ctx context.Context, creatorID primitive.ObjectID) (int64, error) {
	if f.countOpenCampaignsByOwner == nil {
		return 0, nil
	}
	return f.countOpenCampaignsByOwner(ctx, creatorID)
}

func (f *fakeCampaignStore) UpdateCampaign(ctx context.Context, id primitive.ObjectID, params store.UpdateCampaignParams) (store.Campaign, error) {
	return f.updateCampaign(ctx, id, params)
}

func (f *fakeCampaignStore) DeleteCampaign(ctx context.Context, id primitive.ObjectID) error {
	return f.deleteCampaign(ctx, id)
}

func (f *fakeCampaignStore) SetCampaignReview(ctx context.Context, id primitive.ObjectID, review store.CampaignReview, rejectionReason string) (store.Campaign, error) {
	return f.setCampaignReview(ctx, id, review, rejectionReason)
}

func (f *fakeCampaignStore) TransitionCampaignStatus(ctx context.Context, id primitive.ObjectID, from, to store.CampaignStatus) (store.Campaign, error) {
	return f.transitionCampaignStatus(ctx, id, from, to)
}

func (f *fakeCampaignStore) StartImplementation(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
	return f.startImplementation(ctx, id)
}

func (f *fakeCampaignStore) ListReviewQueue(ctx context.Context) ([]store.Campaign, error) {
	return f.listReviewQueue(ctx)
}

func (f *fakeCampaignStore) GetCampaignStatistics(ctx context.Context) (store.CampaignStatistics, error) {
	return f.getCampaignStatistics(ctx)
}

func (f *fakeCampaignStore) FollowCampaign(ctx context.Context, campaignID, userID primitive.ObjectID) error {
	return f.followCampaign(ctx, campaignID, userID)
}

func (f *fakeCampaignStore) UnfollowCampaign(ctx context.Context, campaignID, userID primitive.ObjectID) error {
	return f.unfollowCampaign(ctx, campaignID, userID)
}

func (f *fakeCampaignStore) ListCampaignFollowers(ctx context.Context, campaignID primitive.ObjectID, page, pageSize int) ([]store.CampaignFollow, int64, error) {
	return f.listCampaignFollowers(ctx, campaignID, page, pageSize)
}

func (f *fakeCampaignStore) ListFollowedCampaigns(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]store.CampaignFollow, int64, error) {
	return f.listFollowedCampaigns(ctx, userID, page, pageSize)
}

func newTestProcessor(s CampaignStore) CampaignProcessor {
	return New(s, observability.NewLogger())
}

func creatorStore(creator store.User) *fakeCampaignStore {
	return &fakeCampaignStore{
		getUserByID: func(ctx context.Context, id primitive.ObjectID) (store.User, error) {
			return creator, nil
		},
		createCampaign: func(ctx context.Context, campaign store.Campaign) (store.Campaign, error) {
			campaign.ID = primitive.NewObjectID()
			return campaign, nil
		},
	}
}

func validCreateParams() CreateCampaignParams {
	start := time.Now().Add(24 * time.Hour)
	return CreateCampaignParams{
		Title:        "Clean water for Binh Dinh",
		Description:  "Drill three community wells",
		Type:         store.CampaignTypeNormal,
		FundingType:  store.FundingTypeFixed,
		TargetAmount: 30000000,
		ReviewFee:    100000,
		Category:     "community",
		Milestones: []MilestoneInput{
			{Title: "Survey", Budget: 10000000, DurationDays: 30},
			{Title: "Drilling", Budget: 20000000, DurationDays: 60},
		},
		StartDate: start,
		EndDate:   start.Add(90 * 24 * time.Hour),
	}
}

func TestCreate_Success(t *testing.T) {
	creator := store.User{ID: primitive.NewObjectID(), Name: "Jane Doe", Reputation: 10}
	fake := creatorStore(creator)
	var counterDelta int
	fake.incrementCampaignsCreated = func(ctx context.Context, id primitive.ObjectID, delta int) error {
		counterDelta = delta
		return nil
	}
	processor := newTestProcessor(fake)

	campaign, err := processor.Create(context.Background(), Actor{ID: creator.ID, Role: store.UserRoleUser}, validCreateParams())

	require.NoError(t, err)
	assert.Equal(t, store.CampaignStatusPendingReview, campaign.Status)
	assert.Equal(t, creator.Name, campaign.CreatorName)
	assert.Len(t, campaign.Milestones, 2)
	assert.Equal(t, store.MilestoneStatusPending, campaign.Milestones[0].Status)
	assert.Equal(t, 1, counterDelta)
}

func TestCreate_BudgetMismatch(t *testing.T) {
	creator := store.User{ID: primitive.NewObjectID(), Reputation: 10}
	processor := newTestProcessor(creatorStore(creator))

	params := validCreateParams()
	params.Milestones[1].Budget = 15000000

	_, err := processor.Create(context.Background(), Actor{ID: creator.ID, Role: store.UserRoleUser}, params)

	assert.ErrorIs(t, err, ErrMilestoneBudgetMismatch)
}

func TestCreate_DurationOutOfRange(t *testing.T) {
	creator := store.User{ID: primitive.NewObjectID(), Reputation: 10}
	processor := newTestProcessor(creatorStore(creator))

	params := validCreateParams()
	params.Milestones[0].DurationDays = 400

	_, err := processor.Create(context.Background(), Actor{ID: creator.ID, Role: store.UserRoleUser}, params)

	assert.ErrorIs(t, err, ErrMilestoneDurationInvalid)
}

func TestCreate_EndDateBeforeStart(t *testing.T) {
	creator := store.User{ID: primitive.NewObjectID(), Reputation: 10}
	processor := newTestProcessor(creatorStore(creator))

	params := validCreateParams()
	params.EndDate = params.StartDate.Add(-time.Hour)

	_, err := processor.Create(context.Background(), Actor{ID: creator.ID, Role: store.UserRoleUser}, params)

	assert.ErrorIs(t, err, ErrEndDateBeforeStart)
}

func TestCreate_EmergencyRequiresReputation(t *testing.T) {
	creator := store.User{ID: primitive.NewObjectID(), Reputation: 59}
	processor := newTestProcessor(creatorStore(creator))

	params := validCreateParams()
	params.Type = store.CampaignTypeEmergency
	params.Milestones = nil

	_, err := processor.Create(context.Background(), Actor{ID: creator.ID, Role: store.UserRoleUser}, params)

	assert.ErrorIs(t, err, ErrEmergencyReputationTooLow)
}

func TestCreate_EmergencySynthesizesMilestone(t *testing.T) {
	creator := store.User{ID: primitive.NewObjectID(), Reputation: 75}
	processor := newTestProcessor(creatorStore(creator))

	params := validCreateParams()
	params.Type = store.CampaignTypeEmergency
	params.Milestones = nil

	campaign, err := processor.Create(context.Background(), Actor{ID: creator.ID, Role: store.UserRoleUser}, params)

	require.NoError(t, err)
	require.Len(t, campaign.Milestones, 1)
	assert.Equal(t, params.TargetAmount, campaign.Milestones[0].Budget)
	assert.Equal(t, emergencyMilestoneDurationDays, campaign.Milestones[0].DurationDays)
}

func TestCreate_EmergencyRejectsMultipleMilestones(t *testing.T) {
	creator := store.User{ID: primitive.NewObjectID(), Reputation: 75}
	processor := newTestProcessor(creatorStore(creator))

	params := validCreateParams()
	params.Type = store.CampaignTypeEmergency

	_, err := processor.Create(context.Background(), Actor{ID: creator.ID, Role: store.UserRoleUser}, params)

	assert.ErrorIs(t, err, ErrEmergencyMultipleMilestones)
}

func TestCreate_QuotaExceeded(t *testing.T) {
	creator := store.User{ID: primitive.NewObjectID(), Reputation: 10}
	fake := creatorStore(creator)
	fake.countOpenCampaignsByOwner = func(ctx context.Context, creatorID primitive.ObjectID) (int64, error) {
		return 2, nil
	}
	processor := newTestProcessor(fake)

	_, err := processor.Create(context.Background(), Actor{ID: creator.ID, Role: store.UserRoleUser}, validCreateParams())

	assert.ErrorIs(t, err, ErrActiveCampaignLimit)
}

func TestCreate_HighReputationQuota(t *testing.T) {
	creator := store.User{ID: primitive.NewObjectID(), Reputation: 85}
	fake := creatorStore(creator)
	fake.countOpenCampaignsByOwner = func(ctx context.Context, creatorID primitive.ObjectID) (int64, error) {
		return 4, nil
	}
	processor := newTestProcessor(fake)

	_, err := processor.Create(context.Background(), Actor{ID: creator.ID, Role: store.UserRoleUser}, validCreateParams())

	assert.NoError(t, err)
}

func TestOpenCampaignQuota(t *testing.T) {
	assert.Equal(t, int64(2), openCampaignQuota(0))
	assert.Equal(t, int64(3), openCampaignQuota(60))
	assert.Equal(t, int64(5), openCampaignQuota(80))
}

func TestReviewPriority(t *testing.T) {
	assert.Equal(t, 1, reviewPriority(0))
	assert.Equal(t, 2, reviewPriority(50000))
	assert.Equal(t, 3, reviewPriority(200000))
	assert.Equal(t, 4, reviewPriority(500000))
}

func TestUpdate_BlockedOnceFundraising(t *testing.T) {
	creatorID := primitive.NewObjectID()
	campaignID := primitive.NewObjectID()
	fake := &fakeCampaignStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return store.Campaign{ID: campaignID, CreatorID: creatorID, Status: store.CampaignStatusFundraising}, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.Update(context.Background(), Actor{ID: creatorID, Role: store.UserRoleUser}, campaignID, store.UpdateCampaignParams{})

	assert.ErrorIs(t, err, ErrCampaignNotEditable)
}

func TestUpdate_NotOwner(t *testing.T) {
	campaignID := primitive.NewObjectID()
	fake := &fakeCampaignStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return store.Campaign{ID: campaignID, CreatorID: primitive.NewObjectID(), Status: store.CampaignStatusPendingReview}, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.Update(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, campaignID, store.UpdateCampaignParams{})

	assert.ErrorIs(t, err, ErrNotCampaignOwner)
}

func TestDelete_BlockedWithDonations(t *testing.T) {
	creatorID := primitive.NewObjectID()
	campaignID := primitive.NewObjectID()
	fake := &fakeCampaignStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return store.Campaign{ID: campaignID, CreatorID: creatorID, CurrentAmount: 500000}, nil
		},
	}
	processor := newTestProcessor(fake)

	err := processor.Delete(context.Background(), Actor{ID: creatorID, Role: store.UserRoleUser}, campaignID)

	assert.ErrorIs(t, err, ErrCampaignHasDonations)
}

func TestDelete_DecrementsCreatorCounter(t *testing.T) {
	creatorID := primitive.NewObjectID()
	campaignID := primitive.NewObjectID()
	var counterDelta int
	fake := &fakeCampaignStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return store.Campaign{ID: campaignID, CreatorID: creatorID}, nil
		},
		deleteCampaign: func(ctx context.Context, id primitive.ObjectID) error {
			return nil
		},
		incrementCampaignsCreated: func(ctx context.Context, id primitive.ObjectID, delta int) error {
			counterDelta = delta
			return nil
		},
	}
	processor := newTestProcessor(fake)

	err := processor.Delete(context.Background(), Actor{ID: creatorID, Role: store.UserRoleUser}, campaignID)

	require.NoError(t, err)
	assert.Equal(t, -1, counterDelta)
}

func TestReview_RequiresAdmin(t *testing.T) {
	processor := newTestProcessor(&fakeCampaignStore{})

	_, err := processor.Review(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, primitive.NewObjectID(), true, "", "")

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReview_RejectionNeedsReason(t *testing.T) {
	processor := newTestProcessor(&fakeCampaignStore{})

	_, err := processor.Review(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleAdmin}, primitive.NewObjectID(), false, "weak plan", "")

	assert.ErrorIs(t, err, ErrRejectionReasonRequired)
}

func TestReview_SetsPriorityFromFee(t *testing.T) {
	adminID := primitive.NewObjectID()
	campaignID := primitive.NewObjectID()
	var recorded store.CampaignReview
	fake := &fakeCampaignStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return store.Campaign{ID: campaignID, Status: store.CampaignStatusPendingReview, ReviewFee: 600000}, nil
		},
		getUserByID: func(ctx context.Context, id primitive.ObjectID) (store.User, error) {
			return store.User{ID: adminID, Name: "Admin"}, nil
		},
		setCampaignReview: func(ctx context.Context, id primitive.ObjectID, review store.CampaignReview, rejectionReason string) (store.Campaign, error) {
			recorded = review
			return store.Campaign{ID: campaignID, Status: store.CampaignStatusApproved}, nil
		},
	}
	processor := newTestProcessor(fake)

	campaign, err := processor.Review(context.Background(), Actor{ID: adminID, Role: store.UserRoleAdmin}, campaignID, true, "looks solid", "")

	require.NoError(t, err)
	assert.Equal(t, store.CampaignStatusApproved, campaign.Status)
	assert.Equal(t, 4, recorded.Priority)
	assert.Equal(t, store.ReviewStatusApproved, recorded.Status)
}

func TestReview_AlreadyDecided(t *testing.T) {
	fake := &fakeCampaignStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return store.Campaign{Status: store.CampaignStatusApproved}, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.Review(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleAdmin}, primitive.NewObjectID(), true, "", "")

	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestTransitionAllowed(t *testing.T) {
	cases := []struct {
		from, to store.CampaignStatus
		allowed  bool
	}{
		{store.CampaignStatusApproved, store.CampaignStatusFundraising, true},
		{store.CampaignStatusApproved, store.CampaignStatusCancelled, true},
		{store.CampaignStatusPendingReview, store.CampaignStatusCancelled, true},
		{store.CampaignStatusFundraising, store.CampaignStatusImplementation, true},
		{store.CampaignStatusImplementation, store.CampaignStatusCompleted, true},
		{store.CampaignStatusPendingReview, store.CampaignStatusFundraising, false},
		{store.CampaignStatusFundraising, store.CampaignStatusCancelled, false},
		{store.CampaignStatusCompleted, store.CampaignStatusFundraising, false},
		{store.CampaignStatusRejected, store.CampaignStatusFundraising, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, transitionAllowed(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransition_FundraisingToImplementation(t *testing.T) {
	creatorID := primitive.NewObjectID()
	campaignID := primitive.NewObjectID()
	var startedImplementation bool
	fake := &fakeCampaignStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return store.Campaign{ID: campaignID, CreatorID: creatorID, Status: store.CampaignStatusFundraising}, nil
		},
		startImplementation: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			startedImplementation = true
			return store.Campaign{ID: campaignID, Status: store.CampaignStatusImplementation}, nil
		},
	}
	processor := newTestProcessor(fake)

	campaign, err := processor.Transition(context.Background(), Actor{ID: creatorID, Role: store.UserRoleUser}, campaignID, store.CampaignStatusImplementation)

	require.NoError(t, err)
	assert.True(t, startedImplementation)
	assert.Equal(t, store.CampaignStatusImplementation, campaign.Status)
}

func TestTransition_Invalid(t *testing.T) {
	creatorID := primitive.NewObjectID()
	fake := &fakeCampaignStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return store.Campaign{CreatorID: creatorID, Status: store.CampaignStatusCompleted}, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.Transition(context.Background(), Actor{ID: creatorID, Role: store.UserRoleUser}, primitive.NewObjectID(), store.CampaignStatusFundraising)

	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestFollow_Duplicate(t *testing.T) {
	fake := &fakeCampaignStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return store.Campaign{ID: id}, nil
		},
		followCampaign: func(ctx context.Context, campaignID, userID primitive.ObjectID) error {
			return store.ErrDuplicate
		},
	}
	processor := newTestProcessor(fake)

	err := processor.Follow(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())

	assert.ErrorIs(t, err, ErrAlreadyFollowed)
}

func TestUnfollow_NotFollowed(t *testing.T) {
	fake := &fakeCampaignStore{
		unfollowCampaign: func(ctx context.Context, campaignID, userID primitive.ObjectID) error {
			return store.ErrNotFound
		},
	}
	processor := newTestProcessor(fake)

	err := processor.Unfollow(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())

	assert.ErrorIs(t, err, ErrNotFollowed)
}

func TestReviewQueue_RequiresAdmin(t *testing.T) {
	processor := newTestProcessor(&fakeCampaignStore{})

	_, err := processor.ReviewQueue(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser})

	assert.ErrorIs(t, err, ErrForbidden)
}
