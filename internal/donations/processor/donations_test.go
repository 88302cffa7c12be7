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

type fakeDonationStore struct {
	getCampaignByID            func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error)
	completeMilestone          func(ctx context.Context, campaignID primitive.ObjectID, index int, disbursedAmount float64) (store.Campaign, error)
	setMilestoneActualSpending func(ctx context.Context, campaignID primitive.ObjectID, index int, amount float64) error
	verifyMilestone            func(ctx context.Context, campaignID primitive.ObjectID, index int) error
	createDonation             func(ctx context.Context, donation store.Donation) (store.Donation, error)
	getDonationByID            func(ctx context.Context, id primitive.ObjectID) (store.Donation, error)
	listDonations              func(ctx context.Context, params store.ListDonationsParams) ([]store.Donation, int64, error)
	completeDonation           func(ctx context.Context, id primitive.ObjectID) (store.Donation, error)
	setDonationStatus          func(ctx context.Context, id primitive.ObjectID, from []store.DonationStatus, to store.DonationStatus) (store.Donation, error)
	createDisbursement         func(ctx context.Context, disbursement store.Disbursement) (store.Disbursement, error)
	getDisbursementByID        func(ctx context.Context, id primitive.ObjectID) (store.Disbursement, error)
	listDisbursements          func(ctx context.Context, campaignID primitive.ObjectID) ([]store.Disbursement, error)
	decideDisbursement         func(ctx context.Context, id primitive.ObjectID, status store.DisbursementStatus, decidedBy primitive.ObjectID, notes string) (store.Disbursement, error)
	createExpenseReport        func(ctx context.Context, report store.ExpenseReport) (store.ExpenseReport, error)
	getExpenseReportByID       func(ctx context.Context, id primitive.ObjectID) (store.ExpenseReport, error)
	listExpenseReports         func(ctx context.Context, campaignID primitive.ObjectID) ([]store.ExpenseReport, error)
	decideExpenseReport        func(ctx context.Context, id primitive.ObjectID, status store.ExpenseStatus, decidedBy primitive.ObjectID) (store.ExpenseReport, error)
}

func (f *fakeDonationStore) GetCampaignByID(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
	return f.getCampaignByID(ctx, id)
}

func (f *fakeDonationStore) CompleteMilestone(ctx context.Context, campaignID primitive.ObjectID, index int, disbursedAmount float64) (store.Campaign, error) {
	return f.completeMilestone(ctx, campaignID, index, disbursedAmount)
}

func (f *fakeDonationStore) SetMilestoneActualSpending(ctx context.Context, campaignID primitive.ObjectID, index int, amount float64) error {
	return f.setMilestoneActualSpending(ctx, campaignID, index, amount)
}

func (f *fakeDonationStore) VerifyMilestone(ctx context.Context, campaignID primitive.ObjectID, index int) error {
	return f.verifyMilestone(ctx, campaignID, index)
}

func (f *fakeDonationStore) CreateDonation(ctx context.Context, donation store.Donation) (store.Donation, error) {
	return f.createDonation(ctx, donation)
}

func (f *fakeDonationStore) GetDonationByID(ctx context.Context, id primitive.ObjectID) (store.Donation, error) {
	return f.getDonationByID(ctx, id)
}

func (f *fakeDonationStore) ListDonations(ctx context.Context, params store.ListDonationsParams) ([]store.Donation, int64, error) {
	return f.listDonations(ctx, params)
}

func (f *fakeDonationStore) CompleteDonation(ctx context.Context, id primitive.ObjectID) (store.Donation, error) {
	return f.completeDonation(ctx, id)
}

func (f *fakeDonationStore) SetDonationStatus(ctx context.Context, id primitive.ObjectID, from []store.DonationStatus, to store.DonationStatus) (store.Donation, error) {
	return f.setDonationStatus(ctx, id, from, to)
}

func (f *fakeDonationStore) CreateDisbursement(ctx context.Context, disbursement store.Disbursement) (store.Disbursement, error) {
	return f.createDisbursement(ctx, disbursement)
}

func (f *fakeDonationStore) GetDisbursementByID(ctx context.Context, id primitive.ObjectID) (store.Disbursement, error) {
	return f.getDisbursementByID(ctx, id)
}

func (f *fakeDonationStore) ListDisbursements(ctx context.Context, campaignID primitive.ObjectID) ([]store.Disbursement, error) {
	return f.listDisbursements(ctx, campaignID)
}

func (f *fakeDonationStore) DecideDisbursement(ctx context.Context, id primitive.ObjectID, status store.DisbursementStatus, decidedBy primitive.ObjectID, notes string) (store.Disbursement, error) {
	return f.decideDisbursement(ctx, id, status, decidedBy, notes)
}

func (f *fakeDonationStore) CreateExpenseReport(ctx context.Context, report store.ExpenseReport) (store.ExpenseReport, error) {
	return f.createExpenseReport(ctx, report)
}

func (f *fakeDonationStore) GetExpenseReportByID(ctx context.Context, id primitive.ObjectID) (store.ExpenseReport, error) {
	return f.getExpenseReportByID(ctx, id)
}

func (f *fakeDonationStore) ListExpenseReports(ctx context.Context, campaignID primitive.ObjectID) ([]store.ExpenseReport, error) {
	return f.listExpenseReports(ctx, campaignID)
}

func (f *fakeDonationStore) DecideExpenseReport(ctx context.Context, id primitive.ObjectID, status store.ExpenseStatus, decidedBy primitive.ObjectID) (store.ExpenseReport, error) {
	return f.decideExpenseReport(ctx, id, status, decidedBy)
}

func newTestProcessor(s DonationStore) DonationProcessor {
	return New(s, observability.NewLogger())
}

func admin() Actor {
	return Actor{ID: primitive.NewObjectID(), Role: store.UserRoleAdmin}
}

func TestDonate_Success(t *testing.T) {
	campaignID := primitive.NewObjectID()
	donorID := primitive.NewObjectID()
	fake := &fakeDonationStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return store.Campaign{ID: campaignID, Status: store.CampaignStatusFundraising}, nil
		},
		createDonation: func(ctx context.Context, donation store.Donation) (store.Donation, error) {
			donation.ID = primitive.NewObjectID()
			donation.Status = store.DonationStatusPending
			return donation, nil
		},
	}
	processor := newTestProcessor(fake)

	donation, err := processor.Donate(context.Background(), DonateParams{
		CampaignID:    campaignID,
		DonorID:       &donorID,
		Amount:        50000,
		PaymentMethod: store.PaymentMethodBankTransfer,
	})

	require.NoError(t, err)
	assert.Equal(t, store.DonationStatusPending, donation.Status)
	require.NotNil(t, donation.DonorID)
	assert.Equal(t, donorID, *donation.DonorID)
}

func TestDonate_AmountTooLow(t *testing.T) {
	processor := newTestProcessor(&fakeDonationStore{})

	_, err := processor.Donate(context.Background(), DonateParams{
		CampaignID: primitive.NewObjectID(),
		Amount:     999,
	})

	assert.ErrorIs(t, err, ErrAmountTooLow)
}

func TestDonate_CampaignNotFundraising(t *testing.T) {
	fake := &fakeDonationStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return store.Campaign{ID: id, Status: store.CampaignStatusPendingReview}, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.Donate(context.Background(), DonateParams{
		CampaignID: primitive.NewObjectID(),
		Amount:     50000,
	})

	assert.ErrorIs(t, err, ErrCampaignNotFundraising)
}

func TestComplete_RequiresAdmin(t *testing.T) {
	processor := newTestProcessor(&fakeDonationStore{})

	_, err := processor.Complete(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, primitive.NewObjectID())

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestComplete_AlreadyDecided(t *testing.T) {
	donationID := primitive.NewObjectID()
	fake := &fakeDonationStore{
		completeDonation: func(ctx context.Context, id primitive.ObjectID) (store.Donation, error) {
			return store.Donation{}, store.ErrNotFound
		},
		getDonationByID: func(ctx context.Context, id primitive.ObjectID) (store.Donation, error) {
			return store.Donation{ID: donationID, Status: store.DonationStatusCompleted}, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.Complete(context.Background(), admin(), donationID)

	assert.ErrorIs(t, err, ErrDonationNotPending)
}

func TestComplete_NotFound(t *testing.T) {
	fake := &fakeDonationStore{
		completeDonation: func(ctx context.Context, id primitive.ObjectID) (store.Donation, error) {
			return store.Donation{}, store.ErrNotFound
		},
		getDonationByID: func(ctx context.Context, id primitive.ObjectID) (store.Donation, error) {
			return store.Donation{}, store.ErrNotFound
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.Complete(context.Background(), admin(), primitive.NewObjectID())

	assert.ErrorIs(t, err, ErrDonationNotFound)
}

func TestFail_GuardsPendingStatus(t *testing.T) {
	var from []store.DonationStatus
	fake := &fakeDonationStore{
		setDonationStatus: func(ctx context.Context, id primitive.ObjectID, f []store.DonationStatus, to store.DonationStatus) (store.Donation, error) {
			from = f
			return store.Donation{ID: id, Status: to}, nil
		},
	}
	processor := newTestProcessor(fake)

	donation, err := processor.Fail(context.Background(), admin(), primitive.NewObjectID())

	require.NoError(t, err)
	assert.Equal(t, store.DonationStatusFailed, donation.Status)
	assert.Equal(t, []store.DonationStatus{store.DonationStatusPending}, from)
}

func TestFail_CompletedDonation(t *testing.T) {
	fake := &fakeDonationStore{
		setDonationStatus: func(ctx context.Context, id primitive.ObjectID, from []store.DonationStatus, to store.DonationStatus) (store.Donation, error) {
			return store.Donation{}, store.ErrNotFound
		},
		getDonationByID: func(ctx context.Context, id primitive.ObjectID) (store.Donation, error) {
			return store.Donation{ID: id, Status: store.DonationStatusCompleted}, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.Fail(context.Background(), admin(), primitive.NewObjectID())

	assert.ErrorIs(t, err, ErrDonationNotPending)
}

func TestFail_NotFound(t *testing.T) {
	fake := &fakeDonationStore{
		setDonationStatus: func(ctx context.Context, id primitive.ObjectID, from []store.DonationStatus, to store.DonationStatus) (store.Donation, error) {
			return store.Donation{}, store.ErrNotFound
		},
		getDonationByID: func(ctx context.Context, id primitive.ObjectID) (store.Donation, error) {
			return store.Donation{}, store.ErrNotFound
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.Fail(context.Background(), admin(), primitive.NewObjectID())

	assert.ErrorIs(t, err, ErrDonationNotFound)
}

func TestRefund_AllowsCompletedDonation(t *testing.T) {
	var from []store.DonationStatus
	fake := &fakeDonationStore{
		setDonationStatus: func(ctx context.Context, id primitive.ObjectID, f []store.DonationStatus, to store.DonationStatus) (store.Donation, error) {
			from = f
			return store.Donation{ID: id, Status: to}, nil
		},
	}
	processor := newTestProcessor(fake)

	donation, err := processor.Refund(context.Background(), admin(), primitive.NewObjectID())

	require.NoError(t, err)
	assert.Equal(t, store.DonationStatusRefunded, donation.Status)
	assert.Contains(t, from, store.DonationStatusCompleted)
	assert.Contains(t, from, store.DonationStatusPending)
}

func TestRequestDisbursement_UsesMilestoneBudget(t *testing.T) {
	creatorID := primitive.NewObjectID()
	campaignID := primitive.NewObjectID()
	fake := &fakeDonationStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return store.Campaign{
				ID:        campaignID,
				CreatorID: creatorID,
				Milestones: []store.Milestone{
					{Title: "Phase 1", Budget: 10000000, Status: store.MilestoneStatusActive},
				},
			}, nil
		},
		createDisbursement: func(ctx context.Context, disbursement store.Disbursement) (store.Disbursement, error) {
			disbursement.ID = primitive.NewObjectID()
			disbursement.Status = store.DisbursementStatusPending
			return disbursement, nil
		},
	}
	processor := newTestProcessor(fake)

	disbursement, err := processor.RequestDisbursement(context.Background(), Actor{ID: creatorID, Role: store.UserRoleUser}, campaignID, 0, "phase one funds")

	require.NoError(t, err)
	assert.Equal(t, float64(10000000), disbursement.Amount)
	assert.Equal(t, creatorID, disbursement.RequestedBy)
}

func TestRequestDisbursement_MilestoneNotActive(t *testing.T) {
	creatorID := primitive.NewObjectID()
	fake := &fakeDonationStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return store.Campaign{
				ID:        id,
				CreatorID: creatorID,
				Milestones: []store.Milestone{
					{Title: "Phase 1", Budget: 10000000, Status: store.MilestoneStatusPending},
				},
			}, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.RequestDisbursement(context.Background(), Actor{ID: creatorID, Role: store.UserRoleUser}, primitive.NewObjectID(), 0, "")

	assert.ErrorIs(t, err, ErrMilestoneNotActive)
}

func TestRequestDisbursement_NotOwner(t *testing.T) {
	fake := &fakeDonationStore{
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return store.Campaign{ID: id, CreatorID: primitive.NewObjectID()}, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.RequestDisbursement(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, primitive.NewObjectID(), 0, "")

	assert.ErrorIs(t, err, ErrNotCampaignOwner)
}

func TestDecideDisbursement_ApprovalCompletesMilestone(t *testing.T) {
	campaignID := primitive.NewObjectID()
	disbursementID := primitive.NewObjectID()
	var completedIndex int
	var completedAmount float64
	fake := &fakeDonationStore{
		decideDisbursement: func(ctx context.Context, id primitive.ObjectID, status store.DisbursementStatus, decidedBy primitive.ObjectID, notes string) (store.Disbursement, error) {
			assert.Equal(t, store.DisbursementStatusApproved, status)
			return store.Disbursement{
				ID:             disbursementID,
				CampaignID:     campaignID,
				MilestoneIndex: 1,
				Amount:         20000000,
				Status:         status,
			}, nil
		},
		completeMilestone: func(ctx context.Context, cID primitive.ObjectID, index int, disbursedAmount float64) (store.Campaign, error) {
			completedIndex = index
			completedAmount = disbursedAmount
			return store.Campaign{ID: cID}, nil
		},
	}
	processor := newTestProcessor(fake)

	disbursement, err := processor.DecideDisbursement(context.Background(), admin(), disbursementID, true, "verified receipts")

	require.NoError(t, err)
	assert.Equal(t, store.DisbursementStatusApproved, disbursement.Status)
	assert.Equal(t, 1, completedIndex)
	assert.Equal(t, float64(20000000), completedAmount)
}

func TestDecideDisbursement_RejectionSkipsMilestone(t *testing.T) {
	fake := &fakeDonationStore{
		decideDisbursement: func(ctx context.Context, id primitive.ObjectID, status store.DisbursementStatus, decidedBy primitive.ObjectID, notes string) (store.Disbursement, error) {
			assert.Equal(t, store.DisbursementStatusRejected, status)
			return store.Disbursement{ID: id, Status: status}, nil
		},
	}
	processor := newTestProcessor(fake)

	disbursement, err := processor.DecideDisbursement(context.Background(), admin(), primitive.NewObjectID(), false, "missing receipts")

	require.NoError(t, err)
	assert.Equal(t, store.DisbursementStatusRejected, disbursement.Status)
}

func TestDecideDisbursement_AlreadyDecided(t *testing.T) {
	fake := &fakeDonationStore{
		decideDisbursement: func(ctx context.Context, id primitive.ObjectID, status store.DisbursementStatus, decidedBy primitive.ObjectID, notes string) (store.Disbursement, error) {
			return store.Disbursement{}, store.ErrNotFound
		},
		getDisbursementByID: func(ctx context.Context, id primitive.ObjectID) (store.Disbursement, error) {
			return store.Disbursement{ID: id, Status: store.DisbursementStatusApproved}, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.DecideDisbursement(context.Background(), admin(), primitive.NewObjectID(), true, "")

	assert.ErrorIs(t, err, ErrDisbursementNotPending)
}

func TestSubmitExpense_RecordsActualSpending(t *testing.T) {
	creatorID := primitive.NewObjectID()
	campaignID := primitive.NewObjectID()
	disbursementID := primitive.NewObjectID()
	var recordedSpending float64
	fake := &fakeDonationStore{
		getDisbursementByID: func(ctx context.Context, id primitive.ObjectID) (store.Disbursement, error) {
			return store.Disbursement{
				ID:             disbursementID,
				CampaignID:     campaignID,
				MilestoneIndex: 0,
				Status:         store.DisbursementStatusApproved,
			}, nil
		},
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return store.Campaign{ID: campaignID, CreatorID: creatorID}, nil
		},
		createExpenseReport: func(ctx context.Context, report store.ExpenseReport) (store.ExpenseReport, error) {
			report.ID = primitive.NewObjectID()
			report.Status = store.ExpenseStatusSubmitted
			return report, nil
		},
		setMilestoneActualSpending: func(ctx context.Context, cID primitive.ObjectID, index int, amount float64) error {
			recordedSpending = amount
			return nil
		},
	}
	processor := newTestProcessor(fake)

	report, err := processor.SubmitExpense(context.Background(), Actor{ID: creatorID, Role: store.UserRoleUser}, SubmitExpenseParams{
		DisbursementID: disbursementID,
		Items: []store.ExpenseItem{
			{Description: "Pipes", Amount: 6000000},
			{Description: "Labor", Amount: 3500000},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, float64(9500000), report.TotalSpent)
	assert.Equal(t, float64(9500000), recordedSpending)
}

func TestSubmitExpense_DisbursementNotApproved(t *testing.T) {
	fake := &fakeDonationStore{
		getDisbursementByID: func(ctx context.Context, id primitive.ObjectID) (store.Disbursement, error) {
			return store.Disbursement{ID: id, Status: store.DisbursementStatusPending}, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.SubmitExpense(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, SubmitExpenseParams{
		DisbursementID: primitive.NewObjectID(),
		Items:          []store.ExpenseItem{{Description: "Pipes", Amount: 1000}},
	})

	assert.ErrorIs(t, err, ErrDisbursementNotPending)
}

func TestDecideExpense_AcceptanceVerifiesMilestone(t *testing.T) {
	campaignID := primitive.NewObjectID()
	var verifiedIndex int
	fake := &fakeDonationStore{
		decideExpenseReport: func(ctx context.Context, id primitive.ObjectID, status store.ExpenseStatus, decidedBy primitive.ObjectID) (store.ExpenseReport, error) {
			assert.Equal(t, store.ExpenseStatusAccepted, status)
			return store.ExpenseReport{ID: id, CampaignID: campaignID, MilestoneIndex: 2, Status: status}, nil
		},
		verifyMilestone: func(ctx context.Context, cID primitive.ObjectID, index int) error {
			verifiedIndex = index
			return nil
		},
	}
	processor := newTestProcessor(fake)

	report, err := processor.DecideExpense(context.Background(), admin(), primitive.NewObjectID(), true)

	require.NoError(t, err)
	assert.Equal(t, store.ExpenseStatusAccepted, report.Status)
	assert.Equal(t, 2, verifiedIndex)
}

func TestDecideExpense_AlreadyDecided(t *testing.T) {
	fake := &fakeDonationStore{
		decideExpenseReport: func(ctx context.Context, id primitive.ObjectID, status store.ExpenseStatus, decidedBy primitive.ObjectID) (store.ExpenseReport, error) {
			return store.ExpenseReport{}, store.ErrNotFound
		},
		getExpenseReportByID: func(ctx context.Context, id primitive.ObjectID) (store.ExpenseReport, error) {
			return store.ExpenseReport{ID: id, Status: store.ExpenseStatusAccepted}, nil
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.DecideExpense(context.Background(), admin(), primitive.NewObjectID(), true)

	assert.ErrorIs(t, err, ErrExpenseNotSubmitted)
}
