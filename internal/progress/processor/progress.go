package processor

import (
	"context"
	"errors"

	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProgressNotFound        = errors.New("progress update not found")
	ErrCampaignNotFound        = errors.New("campaign not found")
	ErrCampaignNotImplementing = errors.New("campaign is not in implementation")
	ErrMilestoneNotFound       = errors.New("milestone not found")
	ErrMilestoneNotActive      = errors.New("milestone is not active")
	ErrNotCampaignOwner        = errors.New("not the campaign owner")
	ErrForbidden               = errors.New("forbidden")
	ErrInvalidPercentage       = errors.New("progress percentage out of range")
)

// Actor identifies who is performing an operation.
type Actor struct {
	ID   primitive.ObjectID
	Role store.UserRole
}

func (a Actor) isAdmin() bool {
	return a.Role == store.UserRoleAdmin
}

// CreateProgressParams is a progress report against the active milestone.
type CreateProgressParams struct {
	CampaignID         primitive.ObjectID
	MilestoneIndex     int
	Description        string
	ProgressPercentage float64
	Images             []string
	Metadata           *store.ProgressMetadata
}

type ProgressProcessor struct {
	store  ProgressStore
	logger *observability.Logger
}

func New(store ProgressStore, logger *observability.Logger) ProgressProcessor {
	return ProgressProcessor{store: store, logger: logger}
}

// Create appends a progress update. Only the campaign creator may report,
// only while the campaign is in implementation, and only against the active
// milestone.
func (p *ProgressProcessor) Create(ctx context.Context, actor Actor, params CreateProgressParams) (store.ProgressUpdate, error) {
	if params.ProgressPercentage < 0 || params.ProgressPercentage > 100 {
		return store.ProgressUpdate{}, ErrInvalidPercentage
	}

	campaign, err := p.store.GetCampaignByID(ctx, params.CampaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ProgressUpdate{}, ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to get campaign", err)
		return store.ProgressUpdate{}, err
	}
	if campaign.CreatorID != actor.ID {
		return store.ProgressUpdate{}, ErrNotCampaignOwner
	}
	if campaign.Status != store.CampaignStatusImplementation {
		return store.ProgressUpdate{}, ErrCampaignNotImplementing
	}
	if params.MilestoneIndex < 0 || params.MilestoneIndex >= len(campaign.Milestones) {
		return store.ProgressUpdate{}, ErrMilestoneNotFound
	}
	milestone := campaign.Milestones[params.MilestoneIndex]
	if milestone.Status != store.MilestoneStatusActive {
		return store.ProgressUpdate{}, ErrMilestoneNotActive
	}

	author, err := p.store.GetUserByID(ctx, actor.ID)
	if err != nil {
		p.logger.Error(ctx, "failed to load progress author", err)
		return store.ProgressUpdate{}, err
	}

	update, err := p.store.CreateProgressUpdate(ctx, store.ProgressUpdate{
		CampaignID:         campaign.ID,
		CampaignTitle:      campaign.Title,
		MilestoneIndex:     params.MilestoneIndex,
		MilestoneTitle:     milestone.Title,
		UpdatedBy:          author.ID,
		UpdatedByName:      author.Name,
		Description:        params.Description,
		ProgressPercentage: params.ProgressPercentage,
		Images:             params.Images,
		Metadata:           params.Metadata,
		IsVisible:          true,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create progress update", err)
		return store.ProgressUpdate{}, err
	}
	return update, nil
}

// Get returns a single progress update.
func (p *ProgressProcessor) Get(ctx context.Context, id primitive.ObjectID) (store.ProgressUpdate, error) {
	update, err := p.store.GetProgressUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ProgressUpdate{}, ErrProgressNotFound
		}
		p.logger.Error(ctx, "failed to get progress update", err)
		return store.ProgressUpdate{}, err
	}
	return update, nil
}

// List returns progress updates, newest first.
func (p *ProgressProcessor) List(ctx context.Context, params store.ListProgressParams) ([]store.ProgressUpdate, int64, error) {
	updates, total, err := p.store.ListProgressUpdates(ctx, params)
	if err != nil {
		p.logger.Error(ctx, "failed to list progress updates", err)
		return nil, 0, err
	}
	return updates, total, nil
}

// MilestoneSummary bundles the milestone snapshot with its most recent
// progress updates and the total update count.
type MilestoneSummary struct {
	CampaignID     primitive.ObjectID     `json:"campaignId"`
	CampaignTitle  string                 `json:"campaignTitle"`
	MilestoneIndex int                    `json:"milestoneIndex"`
	Milestone      store.Milestone        `json:"milestone"`
	RecentUpdates  []store.ProgressUpdate `json:"recentUpdates"`
	TotalUpdates   int64                  `json:"totalUpdates"`
}

const recentUpdatesLimit = 5

// GetMilestoneSummary returns the milestone state alongside its update history.
func (p *ProgressProcessor) GetMilestoneSummary(ctx context.Context, campaignID primitive.ObjectID, milestoneIndex int) (MilestoneSummary, error) {
	campaign, err := p.store.GetCampaignByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return MilestoneSummary{}, ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to get campaign", err)
		return MilestoneSummary{}, err
	}
	if milestoneIndex < 0 || milestoneIndex >= len(campaign.Milestones) {
		return MilestoneSummary{}, ErrMilestoneNotFound
	}

	visible := true
	updates, total, err := p.store.ListProgressUpdates(ctx, store.ListProgressParams{
		CampaignID:     &campaign.ID,
		MilestoneIndex: &milestoneIndex,
		IsVisible:      &visible,
		Page:           1,
		PageSize:       recentUpdatesLimit,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to list milestone updates", err)
		return MilestoneSummary{}, err
	}

	return MilestoneSummary{
		CampaignID:     campaign.ID,
		CampaignTitle:  campaign.Title,
		MilestoneIndex: milestoneIndex,
		Milestone:      campaign.Milestones[milestoneIndex],
		RecentUpdates:  updates,
		TotalUpdates:   total,
	}, nil
}

// Delete removes a progress update. The author, the campaign creator, or an
// admin may delete.
func (p *ProgressProcessor) Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	update, err := p.store.GetProgressUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProgressNotFound
		}
		p.logger.Error(ctx, "failed to get progress update", err)
		return err
	}
	if update.UpdatedBy != actor.ID && !actor.isAdmin() {
		campaign, err := p.store.GetCampaignByID(ctx, update.CampaignID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			p.logger.Error(ctx, "failed to get campaign", err)
			return err
		}
		if err != nil || campaign.CreatorID != actor.ID {
			return ErrForbidden
		}
	}
	if err := p.store.DeleteProgressUpdate(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProgressNotFound
		}
		p.logger.Error(ctx, "failed to delete progress update", err)
		return err
	}
	return nil
}
