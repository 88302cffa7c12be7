//go:build !integration

package processor

import (
	"context"
	"testing"

	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeProgressStore struct {
	getUserByID          func(ctx context.Context, id primitive.ObjectID) (store.User, error)
	getCampaignByID      func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error)
	createProgressUpdate func(ctx context.Context, update store.ProgressUpdate) (store.ProgressUpdate, error)
	getProgressUpdate    func(ctx context.Context, id primitive.ObjectID) (store.ProgressUpdate, error)
	listProgressUpdates  func(ctx context.Context, params store.ListProgressParams) ([]store.ProgressUpdate, int64, error)
	deleteProgressUpdate func(ctx context.Context, id primitive.ObjectID) error
}

func (f *fakeProgressStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (store.User, error) {
	return f.getUserByID(ctx, id)
}

func (f *fakeProgressStore) GetCampaignByID(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
	return f.getCampaignByID(ctx, id)
}

func (f *fakeProgressStore) CreateProgressUpdate(ctx context.Context, update store.ProgressUpdate) (store.ProgressUpdate, error) {
	return f.createProgressUpdate(ctx, update)
}

func (f *fakeProgressStore) GetProgressUpdate(ctx context.Context, id primitive.ObjectID) (store.ProgressUpdate, error) {
	return f.getProgressUpdate(ctx, id)
}

func (f *fakeProgressStore) ListProgressUpdates(ctx context.Context, params store.ListProgressParams) ([]store.ProgressUpdate, int64, error) {
	return f.listProgressUpdates(ctx, params)
}

func (f *fakeProgressStore) DeleteProgressUpdate(ctx context.Context, id primitive.ObjectID) error {
	return f.deleteProgressUpdate(ctx, id)
}

func newTestProcessor(s ProgressStore) ProgressProcessor {
	return New(s, observability.NewLogger())
}

func implementingCampaign(creatorID primitive.ObjectID) store.Campaign {
	return store.Campaign{
		ID:        primitive.NewObjectID(),
		Title:     "Clean water for Binh Dinh",
		CreatorID: creatorID,
		Status:    store.CampaignStatusImplementation,
		Milestones: []store.Milestone{
			{Title: "Survey", Status: store.MilestoneStatusVerified},
			{Title: "Drilling", Status: store.MilestoneStatusActive},
		},
	}
}

func TestCreate_DenormalizesTitles(t *testing.T) {
	creatorID := primitive.NewObjectID()
	campaign := implementingCampaign(creatorID)
	fake := &fakeProgressStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return campaign, nil
		},
		getUserByID: func(ctx context.Context, id primitive.ObjectID) (store.User, error) {
			return store.User{ID: creatorID, Name: "Jane Doe"}, nil
		},
		createProgressUpdate: func(ctx context.Context, update store.ProgressUpdate) (store.ProgressUpdate, error) {
			update.ID = primitive.NewObjectID()
			return update, nil
		},
	}
	processor := newTestProcessor(fake)

	update, err := processor.Create(context.Background(), Actor{ID: creatorID, Role: store.UserRoleUser}, CreateProgressParams{
		CampaignID:         campaign.ID,
		MilestoneIndex:     1,
		Description:        "Second well at 40 meters",
		ProgressPercentage: 55,
	})

	require.NoError(t, err)
	assert.Equal(t, campaign.Title, update.CampaignTitle)
	assert.Equal(t, "Drilling", update.MilestoneTitle)
	assert.Equal(t, "Jane Doe", update.UpdatedByName)
	assert.True(t, update.IsVisible)
}

func TestCreate_PercentageOutOfRange(t *testing.T) {
	processor := newTestProcessor(&fakeProgressStore{})

	_, err := processor.Create(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, CreateProgressParams{
		CampaignID:         primitive.NewObjectID(),
		ProgressPercentage: 101,
	})

	assert.ErrorIs(t, err, ErrInvalidPercentage)
}

func TestCreate_OnlyCreatorMayReport(t *testing.T) {
	campaign := implementingCampaign(primitive.NewObjectID())
	fake := &fakeProgressStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return campaign, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.Create(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, CreateProgressParams{
		CampaignID:     campaign.ID,
		MilestoneIndex: 1,
	})

	assert.ErrorIs(t, err, ErrNotCampaignOwner)
}

func TestCreate_CampaignNotImplementing(t *testing.T) {
	creatorID := primitive.NewObjectID()
	campaign := implementingCampaign(creatorID)
	campaign.Status = store.CampaignStatusFundraising
	fake := &fakeProgressStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return campaign, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.Create(context.Background(), Actor{ID: creatorID, Role: store.UserRoleUser}, CreateProgressParams{
		CampaignID:     campaign.ID,
		MilestoneIndex: 1,
	})

	assert.ErrorIs(t, err, ErrCampaignNotImplementing)
}

func TestCreate_MilestoneNotActive(t *testing.T) {
	creatorID := primitive.NewObjectID()
	campaign := implementingCampaign(creatorID)
	fake := &fakeProgressStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return campaign, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.Create(context.Background(), Actor{ID: creatorID, Role: store.UserRoleUser}, CreateProgressParams{
		CampaignID:     campaign.ID,
		MilestoneIndex: 0,
	})

	assert.ErrorIs(t, err, ErrMilestoneNotActive)
}

func TestCreate_MilestoneIndexOutOfRange(t *testing.T) {
	creatorID := primitive.NewObjectID()
	campaign := implementingCampaign(creatorID)
	fake := &fakeProgressStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return campaign, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.Create(context.Background(), Actor{ID: creatorID, Role: store.UserRoleUser}, CreateProgressParams{
		CampaignID:     campaign.ID,
		MilestoneIndex: 5,
	})

	assert.ErrorIs(t, err, ErrMilestoneNotFound)
}

func TestGetMilestoneSummary(t *testing.T) {
	campaign := implementingCampaign(primitive.NewObjectID())
	fake := &fakeProgressStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return campaign, nil
		},
		listProgressUpdates: func(ctx context.Context, params store.ListProgressParams) ([]store.ProgressUpdate, int64, error) {
			require.NotNil(t, params.CampaignID)
			require.NotNil(t, params.MilestoneIndex)
			assert.Equal(t, 1, *params.MilestoneIndex)
			return []store.ProgressUpdate{{Description: "latest"}}, 7, nil
		},
	}
	processor := newTestProcessor(fake)

	summary, err := processor.GetMilestoneSummary(context.Background(), campaign.ID, 1)

	require.NoError(t, err)
	assert.Equal(t, "Drilling", summary.Milestone.Title)
	assert.Equal(t, campaign.Title, summary.CampaignTitle)
	assert.Len(t, summary.RecentUpdates, 1)
	assert.Equal(t, int64(7), summary.TotalUpdates)
}

func TestGetMilestoneSummary_IndexOutOfRange(t *testing.T) {
	campaign := implementingCampaign(primitive.NewObjectID())
	fake := &fakeProgressStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return campaign, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.GetMilestoneSummary(context.Background(), campaign.ID, 9)

	assert.ErrorIs(t, err, ErrMilestoneNotFound)
}

func TestDelete_UnrelatedUserForbidden(t *testing.T) {
	authorID := primitive.NewObjectID()
	updateID := primitive.NewObjectID()
	campaign := implementingCampaign(primitive.NewObjectID())
	fake := &fakeProgressStore{
		getProgressUpdate: func(ctx context.Context, id primitive.ObjectID) (store.ProgressUpdate, error) {
			return store.ProgressUpdate{ID: updateID, CampaignID: campaign.ID, UpdatedBy: authorID}, nil
		},
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return campaign, nil
		},
	}
	processor := newTestProcessor(fake)

	err := processor.Delete(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, updateID)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDelete_CampaignCreatorCanDelete(t *testing.T) {
	creatorID := primitive.NewObjectID()
	updateID := primitive.NewObjectID()
	campaign := implementingCampaign(creatorID)
	var deleted bool
	fake := &fakeProgressStore{
		getProgressUpdate: func(ctx context.Context, id primitive.ObjectID) (store.ProgressUpdate, error) {
			return store.ProgressUpdate{ID: updateID, CampaignID: campaign.ID, UpdatedBy: primitive.NewObjectID()}, nil
		},
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return campaign, nil
		},
		deleteProgressUpdate: func(ctx context.Context, id primitive.ObjectID) error {
			deleted = true
			return nil
		},
	}
	processor := newTestProcessor(fake)

	err := processor.Delete(context.Background(), Actor{ID: creatorID, Role: store.UserRoleUser}, updateID)

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestDelete_AdminCanDelete(t *testing.T) {
	updateID := primitive.NewObjectID()
	var deleted bool
	fake := &fakeProgressStore{
		getProgressUpdate: func(ctx context.Context, id primitive.ObjectID) (store.ProgressUpdate, error) {
			return store.ProgressUpdate{ID: updateID, UpdatedBy: primitive.NewObjectID()}, nil
		},
		deleteProgressUpdate: func(ctx context.Context, id primitive.ObjectID) error {
			deleted = true
			return nil
		},
	}
	processor := newTestProcessor(fake)

	err := processor.Delete(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleAdmin}, updateID)

	require.NoError(t, err)
	assert.True(t, deleted)
}
