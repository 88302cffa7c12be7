package processor

import (
	"context"
	"errors"

	"givehub-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestDisbursement opens a request to release the active milestone's
// budget. Only the campaign creator may request, and only while the campaign
// is in implementation.
func (p *DonationProcessor) RequestDisbursement(ctx context.Context, actor Actor, campaignID primitive.ObjectID, milestoneIndex int, notes string) (store.Disbursement, error) {
	campaign, err := p.store.GetCampaignByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Disbursement{}, ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to get campaign", err)
		return store.Disbursement{}, err
	}
	if campaign.CreatorID != actor.ID {
		return store.Disbursement{}, ErrNotCampaignOwner
	}
	if milestoneIndex < 0 || milestoneIndex >= len(campaign.Milestones) {
		return store.Disbursement{}, ErrMilestoneNotActive
	}
	milestone := campaign.Milestones[milestoneIndex]
	if milestone.Status != store.MilestoneStatusActive {
		return store.Disbursement{}, ErrMilestoneNotActive
	}

	disbursement, err := p.store.CreateDisbursement(ctx, store.Disbursement{
		CampaignID:     campaignID,
		MilestoneIndex: milestoneIndex,
		Amount:         milestone.Budget,
		RequestedBy:    actor.ID,
		Notes:          notes,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create disbursement", err)
		return store.Disbursement{}, err
	}
	return disbursement, nil
}

// GetDisbursement returns a disbursement request.
func (p *DonationProcessor) GetDisbursement(ctx context.Context, id primitive.ObjectID) (store.Disbursement, error) {
	disbursement, err := p.store.GetDisbursementByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Disbursement{}, ErrDisbursementNotFound
		}
		p.logger.Error(ctx, "failed to get disbursement", err)
		return store.Disbursement{}, err
	}
	return disbursement, nil
}

// ListDisbursements returns a campaign's disbursement requests.
func (p *DonationProcessor) ListDisbursements(ctx context.Context, campaignID primitive.ObjectID) ([]store.Disbursement, error) {
	disbursements, err := p.store.ListDisbursements(ctx, campaignID)
	if err != nil {
		p.logger.Error(ctx, "failed to list disbursements", err)
		return nil, err
	}
	return disbursements, nil
}

// DecideDisbursement resolves a pending request. Approval releases the
// milestone budget: the milestone is completed with the disbursed amount and
// the next one activates. Admin only.
func (p *DonationProcessor) DecideDisbursement(ctx context.Context, actor Actor, id primitive.ObjectID, approve bool, notes string) (store.Disbursement, error) {
	if !actor.isAdmin() {
		return store.Disbursement{}, ErrForbidden
	}

	status := store.DisbursementStatusApproved
	if !approve {
		status = store.DisbursementStatusRejected
	}
	disbursement, err := p.store.DecideDisbursement(ctx, id, status, actor.ID, notes)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if _, getErr := p.store.GetDisbursementByID(ctx, id); getErr == nil {
				return store.Disbursement{}, ErrDisbursementNotPending
			}
			return store.Disbursement{}, ErrDisbursementNotFound
		}
		p.logger.Error(ctx, "failed to decide disbursement", err)
		return store.Disbursement{}, err
	}

	if approve {
		if _, err := p.store.CompleteMilestone(ctx, disbursement.CampaignID, disbursement.MilestoneIndex, disbursement.Amount); err != nil {
			p.logger.Error(ctx, "failed to complete milestone after disbursement", err)
			return store.Disbursement{}, err
		}
	}
	return disbursement, nil
}
