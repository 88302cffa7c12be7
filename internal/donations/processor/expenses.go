package processor

import (
	"context"
	"errors"

	"givehub-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmitExpenseParams is an expense report for an approved disbursement.
type SubmitExpenseParams struct {
	DisbursementID primitive.ObjectID
	Items          []store.ExpenseItem
	Documents      []string
}

// SubmitExpense files an expense report against an approved disbursement and
// records the total as the milestone's actual spending. Only the campaign
// creator may submit.
func (p *DonationProcessor) SubmitExpense(ctx context.Context, actor Actor, params SubmitExpenseParams) (store.ExpenseReport, error) {
	disbursement, err := p.GetDisbursement(ctx, params.DisbursementID)
	if err != nil {
		return store.ExpenseReport{}, err
	}
	if disbursement.Status != store.DisbursementStatusApproved {
		return store.ExpenseReport{}, ErrDisbursementNotPending
	}

	campaign, err := p.store.GetCampaignByID(ctx, disbursement.CampaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ExpenseReport{}, ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to get campaign", err)
		return store.ExpenseReport{}, err
	}
	if campaign.CreatorID != actor.ID {
		return store.ExpenseReport{}, ErrNotCampaignOwner
	}

	var totalSpent float64
	for _, item := range params.Items {
		totalSpent += item.Amount
	}

	report, err := p.store.CreateExpenseReport(ctx, store.ExpenseReport{
		DisbursementID: disbursement.ID,
		CampaignID:     disbursement.CampaignID,
		MilestoneIndex: disbursement.MilestoneIndex,
		Items:          params.Items,
		TotalSpent:     totalSpent,
		Documents:      params.Documents,
		SubmittedBy:    actor.ID,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create expense report", err)
		return store.ExpenseReport{}, err
	}

	if err := p.store.SetMilestoneActualSpending(ctx, disbursement.CampaignID, disbursement.MilestoneIndex, totalSpent); err != nil {
		p.logger.Error(ctx, "failed to record milestone spending", err)
		return store.ExpenseReport{}, err
	}
	return report, nil
}

// GetExpense returns an expense report.
func (p *DonationProcessor) GetExpense(ctx context.Context, id primitive.ObjectID) (store.ExpenseReport, error) {
	report, err := p.store.GetExpenseReportByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ExpenseReport{}, ErrExpenseNotFound
		}
		p.logger.Error(ctx, "failed to get expense report", err)
		return store.ExpenseReport{}, err
	}
	return report, nil
}

// ListExpenses returns a campaign's expense reports.
func (p *DonationProcessor) ListExpenses(ctx context.Context, campaignID primitive.ObjectID) ([]store.ExpenseReport, error) {
	reports, err := p.store.ListExpenseReports(ctx, campaignID)
	if err != nil {
		p.logger.Error(ctx, "failed to list expense reports", err)
		return nil, err
	}
	return reports, nil
}

// DecideExpense resolves a submitted expense report. Acceptance marks the
// milestone verified. Admin only.
func (p *DonationProcessor) DecideExpense(ctx context.Context, actor Actor, id primitive.ObjectID, accept bool) (store.ExpenseReport, error) {
	if !actor.isAdmin() {
		return store.ExpenseReport{}, ErrForbidden
	}

	status := store.ExpenseStatusAccepted
	if !accept {
		status = store.ExpenseStatusRejected
	}
	report, err := p.store.DecideExpenseReport(ctx, id, status, actor.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if _, getErr := p.store.GetExpenseReportByID(ctx, id); getErr == nil {
				return store.ExpenseReport{}, ErrExpenseNotSubmitted
			}
			return store.ExpenseReport{}, ErrExpenseNotFound
		}
		p.logger.Error(ctx, "failed to decide expense report", err)
		return store.ExpenseReport{}, err
	}

	if accept {
		if err := p.store.VerifyMilestone(ctx, report.CampaignID, report.MilestoneIndex); err != nil {
			p.logger.Error(ctx, "failed to verify milestone", err)
			return store.ExpenseReport{}, err
		}
	}
	return report, nil
}
