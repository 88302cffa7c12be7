package processor

import (
	"context"

	"givehub-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DonationStore defines the database operations required by DonationProcessor
type DonationStore interface {
	GetCampaignByID(ctx context.Context, id primitive.ObjectID) (store.Campaign, error)
	CompleteMilestone(ctx context.Context, campaignID primitive.ObjectID, index int, disbursedAmount float64) (store.Campaign, error)
	SetMilestoneActualSpending(ctx context.Context, campaignID primitive.ObjectID, index int, amount float64) error
	VerifyMilestone(ctx context.Context, campaignID primitive.ObjectID, index int) error

	CreateDonation(ctx context.Context, donation store.Donation) (store.Donation, error)
	GetDonationByID(ctx context.Context, id primitive.ObjectID) (store.Donation, error)
	ListDonations(ctx context.Context, params store.ListDonationsParams) ([]store.Donation, int64, error)
	CompleteDonation(ctx context.Context, id primitive.ObjectID) (store.Donation, error)
	SetDonationStatus(ctx context.Context, id primitive.ObjectID, from []store.DonationStatus, to store.DonationStatus) (store.Donation, error)

	CreateDisbursement(ctx context.Context, disbursement store.Disbursement) (store.Disbursement, error)
	GetDisbursementByID(ctx context.Context, id primitive.ObjectID) (store.Disbursement, error)
	ListDisbursements(ctx context.Context, campaignID primitive.ObjectID) ([]store.Disbursement, error)
	DecideDisbursement(ctx context.Context, id primitive.ObjectID, status store.DisbursementStatus, decidedBy primitive.ObjectID, notes string) (store.Disbursement, error)

	CreateExpenseReport(ctx context.Context, report store.ExpenseReport) (store.ExpenseReport, error)
	GetExpenseReportByID(ctx context.Context, id primitive.ObjectID) (store.ExpenseReport, error)
	ListExpenseReports(ctx context.Context, campaignID primitive.ObjectID) ([]store.ExpenseReport, error)
	DecideExpenseReport(ctx context.Context, id primitive.ObjectID, status store.ExpenseStatus, decidedBy primitive.ObjectID) (store.ExpenseReport, error)
}
