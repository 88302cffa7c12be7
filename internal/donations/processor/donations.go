package processor

import (
	"context"
	"errors"

	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrDonationNotFound       = errors.New("donation not found")
	ErrDonationNotPending     = errors.New("donation already decided")
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrCampaignNotFundraising = errors.New("campaign is not fundraising")
	ErrAmountTooLow           = errors.New("donation amount too low")
	ErrDisbursementNotFound   = errors.New("disbursement not found")
	ErrDisbursementNotPending = errors.New("disbursement already decided")
	ErrMilestoneNotActive     = errors.New("milestone is not active")
	ErrExpenseNotFound        = errors.New("expense report not found")
	ErrExpenseNotSubmitted    = errors.New("expense report already decided")
	ErrNotCampaignOwner       = errors.New("not the campaign owner")
	ErrForbidden              = errors.New("forbidden")
)

// minDonationAmount is the smallest accepted contribution, in the platform
// currency's base unit.
const minDonationAmount = 1000

// Actor identifies who is performing an operation.
type Actor struct {
	ID   primitive.ObjectID
	Role store.UserRole
}

func (a Actor) isAdmin() bool {
	return a.Role == store.UserRoleAdmin
}

// DonateParams is a new contribution. DonorID is nil for anonymous donations.
type DonateParams struct {
	CampaignID    primitive.ObjectID
	DonorID       *primitive.ObjectID
	Amount        float64
	Message       string
	PaymentMethod store.PaymentMethod
}

type DonationProcessor struct {
	store  DonationStore
	logger *observability.Logger
}

func New(store DonationStore, logger *observability.Logger) DonationProcessor {
	return DonationProcessor{store: store, logger: logger}
}

// Donate opens a pending donation against a fundraising campaign. The amount
// is applied to the campaign only once the payment completes.
func (p *DonationProcessor) Donate(ctx context.Context, params DonateParams) (store.Donation, error) {
	if params.Amount < minDonationAmount {
		return store.Donation{}, ErrAmountTooLow
	}
	campaign, err := p.store.GetCampaignByID(ctx, params.CampaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Donation{}, ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to get campaign", err)
		return store.Donation{}, err
	}
	if campaign.Status != store.CampaignStatusFundraising {
		return store.Donation{}, ErrCampaignNotFundraising
	}

	donation, err := p.store.CreateDonation(ctx, store.Donation{
		CampaignID:    params.CampaignID,
		DonorID:       params.DonorID,
		Amount:        params.Amount,
		Message:       params.Message,
		PaymentMethod: params.PaymentMethod,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create donation", err)
		return store.Donation{}, err
	}
	return donation, nil
}

// Get returns a donation.
func (p *DonationProcessor) Get(ctx context.Context, id primitive.ObjectID) (store.Donation, error) {
	donation, err := p.store.GetDonationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Donation{}, ErrDonationNotFound
		}
		p.logger.Error(ctx, "failed to get donation", err)
		return store.Donation{}, err
	}
	return donation, nil
}

// List returns donations, newest first.
func (p *DonationProcessor) List(ctx context.Context, params store.ListDonationsParams) ([]store.Donation, int64, error) {
	donations, total, err := p.store.ListDonations(ctx, params)
	if err != nil {
		p.logger.Error(ctx, "failed to list donations", err)
		return nil, 0, err
	}
	return donations, total, nil
}

// Complete confirms payment for a pending donation, applying the amount to
// the campaign and the donor's totals. Admin only.
func (p *DonationProcessor) Complete(ctx context.Context, actor Actor, id primitive.ObjectID) (store.Donation, error) {
	if !actor.isAdmin() {
		return store.Donation{}, ErrForbidden
	}
	donation, err := p.store.CompleteDonation(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if _, getErr := p.store.GetDonationByID(ctx, id); getErr == nil {
				return store.Donation{}, ErrDonationNotPending
			}
			return store.Donation{}, ErrDonationNotFound
		}
		p.logger.Error(ctx, "failed to complete donation", err)
		return store.Donation{}, err
	}
	return donation, nil
}

// Fail marks a pending donation failed. Admin only. A completed donation
// cannot fail: its amount is already on the campaign.
func (p *DonationProcessor) Fail(ctx context.Context, actor Actor, id primitive.ObjectID) (store.Donation, error) {
	return p.setStatus(ctx, actor, id, []store.DonationStatus{store.DonationStatusPending}, store.DonationStatusFailed)
}

// Refund marks a pending or completed donation refunded. Admin only. Refunds
// do not rewind the campaign's currentAmount automatically.
func (p *DonationProcessor) Refund(ctx context.Context, actor Actor, id primitive.ObjectID) (store.Donation, error) {
	return p.setStatus(ctx, actor, id, []store.DonationStatus{store.DonationStatusPending, store.DonationStatusCompleted}, store.DonationStatusRefunded)
}

func (p *DonationProcessor) setStatus(ctx context.Context, actor Actor, id primitive.ObjectID, from []store.DonationStatus, to store.DonationStatus) (store.Donation, error) {
	if !actor.isAdmin() {
		return store.Donation{}, ErrForbidden
	}
	donation, err := p.store.SetDonationStatus(ctx, id, from, to)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if _, getErr := p.store.GetDonationByID(ctx, id); getErr == nil {
				return store.Donation{}, ErrDonationNotPending
			}
			return store.Donation{}, ErrDonationNotFound
		}
		p.logger.Error(ctx, "failed to set donation status", err)
		return store.Donation{}, err
	}
	return donation, nil
}
