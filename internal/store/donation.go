package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListDonationsParams filters and paginates donation listings
type ListDonationsParams struct {
	CampaignID *primitive.ObjectID
	DonorID    *primitive.ObjectID
	Status     *DonationStatus
	Page       int
	PageSize   int
}

// CreateDonation inserts a pending donation record
func (s *Store) CreateDonation(ctx context.Context, donation Donation) (Donation, error) {
	now := time.Now().UTC()
	donation.ID = primitive.NewObjectID()
	donation.Status = DonationStatusPending
	donation.CreatedAt = now
	donation.UpdatedAt = now
	if _, err := s.collection(colDonations).InsertOne(ctx, donation); err != nil {
		s.logger.Error(ctx, "failed to create donation", err)
		return Donation{}, fmt.Errorf("failed to create donation: %w", err)
	}
	return donation, nil
}

// GetDonationByID retrieves a donation by ID
func (s *Store) GetDonationByID(ctx context.Context, id primitive.ObjectID) (Donation, error) {
	var donation Donation
	err := s.collection(colDonations).FindOne(ctx, bson.M{"_id": id}).Decode(&donation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Donation{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get donation by id", err)
		return Donation{}, fmt.Errorf("failed to get donation by id: %w", err)
	}
	return donation, nil
}

// ListDonations returns a page of donations, newest first
func (s *Store) ListDonations(ctx context.Context, params ListDonationsParams) ([]Donation, int64, error) {
	filter := bson.M{}
	if params.CampaignID != nil {
		filter["campaignId"] = *params.CampaignID
	}
	if params.DonorID != nil {
		filter["donorId"] = *params.DonorID
	}
	if params.Status != nil {
		filter["status"] = *params.Status
	}

	col := s.collection(colDonations)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		s.logger.Error(ctx, "failed to count donations", err)
		return nil, 0, fmt.Errorf("failed to count donations: %w", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((params.Page - 1) * params.PageSize)).
		SetLimit(int64(params.PageSize))
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		s.logger.Error(ctx, "failed to list donations", err)
		return nil, 0, fmt.Errorf("failed to list donations: %w", err)
	}
	var donations []Donation
	if err := cursor.All(ctx, &donations); err != nil {
		s.logger.Error(ctx, "failed to decode donations", err)
		return nil, 0, fmt.Errorf("failed to decode donations: %w", err)
	}
	return donations, total, nil
}

// CompleteDonation marks a pending donation completed and applies the amount
// to the campaign and the donor in the same transaction, so the campaign's
// currentAmount can never disagree with its completed donation records.
func (s *Store) CompleteDonation(ctx context.Context, id primitive.ObjectID) (Donation, error) {
	var donation Donation
	err := s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		err := s.collection(colDonations).FindOneAndUpdate(sc,
			bson.M{"_id": id, "status": DonationStatusPending},
			bson.M{"$set": bson.M{"status": DonationStatusCompleted, "updatedAt": time.Now().UTC()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&donation)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to complete donation: %w", err)
		}
		if _, err := s.collection(colCampaigns).UpdateByID(sc, donation.CampaignID, bson.M{
			"$inc": bson.M{"currentAmount": donation.Amount, "donorCount": 1},
		}); err != nil {
			return fmt.Errorf("failed to apply donation to campaign: %w", err)
		}
		if donation.DonorID != nil {
			if _, err := s.collection(colUsers).UpdateByID(sc, *donation.DonorID, bson.M{
				"$inc": bson.M{"totalDonated": donation.Amount},
			}); err != nil {
				return fmt.Errorf("failed to apply donation to donor: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error(ctx, "failed to complete donation", err)
		}
		return Donation{}, err
	}
	return donation, nil
}

// SetDonationStatus moves a donation to failed or refunded. The status filter
// acts as a compare-and-swap so a settled record cannot be flipped after its
// amount was applied to the campaign.
func (s *Store) SetDonationStatus(ctx context.Context, id primitive.ObjectID, from []DonationStatus, to DonationStatus) (Donation, error) {
	var donation Donation
	err := s.collection(colDonations).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": from}},
		bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&donation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Donation{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to set donation status", err)
		return Donation{}, fmt.Errorf("failed to set donation status: %w", err)
	}
	return donation, nil
}

// CreateDisbursement inserts a pending disbursement request
func (s *Store) CreateDisbursement(ctx context.Context, disbursement Disbursement) (Disbursement, error) {
	now := time.Now().UTC()
	disbursement.ID = primitive.NewObjectID()
	disbursement.Status = DisbursementStatusPending
	disbursement.CreatedAt = now
	disbursement.UpdatedAt = now
	if _, err := s.collection(colDisbursements).InsertOne(ctx, disbursement); err != nil {
		s.logger.Error(ctx, "failed to create disbursement", err)
		return Disbursement{}, fmt.Errorf("failed to create disbursement: %w", err)
	}
	return disbursement, nil
}

// GetDisbursementByID retrieves a disbursement by ID
func (s *Store) GetDisbursementByID(ctx context.Context, id primitive.ObjectID) (Disbursement, error) {
	var disbursement Disbursement
	err := s.collection(colDisbursements).FindOne(ctx, bson.M{"_id": id}).Decode(&disbursement)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Disbursement{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get disbursement by id", err)
		return Disbursement{}, fmt.Errorf("failed to get disbursement by id: %w", err)
	}
	return disbursement, nil
}

// ListDisbursements returns the disbursements for a campaign, newest first
func (s *Store) ListDisbursements(ctx context.Context, campaignID primitive.ObjectID) ([]Disbursement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection(colDisbursements).Find(ctx, bson.M{"campaignId": campaignID}, opts)
	if err != nil {
		s.logger.Error(ctx, "failed to list disbursements", err)
		return nil, fmt.Errorf("failed to list disbursements: %w", err)
	}
	var disbursements []Disbursement
	if err := cursor.All(ctx, &disbursements); err != nil {
		s.logger.Error(ctx, "failed to decode disbursements", err)
		return nil, fmt.Errorf("failed to decode disbursements: %w", err)
	}
	return disbursements, nil
}

// DecideDisbursement resolves a pending disbursement. The status filter acts
// as a compare-and-swap so a request can only be decided once.
func (s *Store) DecideDisbursement(ctx context.Context, id primitive.ObjectID, status DisbursementStatus, decidedBy primitive.ObjectID, notes string) (Disbursement, error) {
	var disbursement Disbursement
	err := s.collection(colDisbursements).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": DisbursementStatusPending},
		bson.M{"$set": bson.M{
			"status":    status,
			"decidedBy": decidedBy,
			"notes":     notes,
			"updatedAt": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&disbursement)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Disbursement{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to decide disbursement", err)
		return Disbursement{}, fmt.Errorf("failed to decide disbursement: %w", err)
	}
	return disbursement, nil
}

// CreateExpenseReport inserts a submitted expense report
func (s *Store) CreateExpenseReport(ctx context.Context, report ExpenseReport) (ExpenseReport, error) {
	now := time.Now().UTC()
	report.ID = primitive.NewObjectID()
	report.Status = ExpenseStatusSubmitted
	report.CreatedAt = now
	report.UpdatedAt = now
	if _, err := s.collection(colExpenseReports).InsertOne(ctx, report); err != nil {
		s.logger.Error(ctx, "failed to create expense report", err)
		return ExpenseReport{}, fmt.Errorf("failed to create expense report: %w", err)
	}
	return report, nil
}

// GetExpenseReportByID retrieves an expense report by ID
func (s *Store) GetExpenseReportByID(ctx context.Context, id primitive.ObjectID) (ExpenseReport, error) {
	var report ExpenseReport
	err := s.collection(colExpenseReports).FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ExpenseReport{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get expense report by id", err)
		return ExpenseReport{}, fmt.Errorf("failed to get expense report by id: %w", err)
	}
	return report, nil
}

// ListExpenseReports returns the expense reports for a campaign, newest first
func (s *Store) ListExpenseReports(ctx context.Context, campaignID primitive.ObjectID) ([]ExpenseReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.collection(colExpenseReports).Find(ctx, bson.M{"campaignId": campaignID}, opts)
	if err != nil {
		s.logger.Error(ctx, "failed to list expense reports", err)
		return nil, fmt.Errorf("failed to list expense reports: %w", err)
	}
	var reports []ExpenseReport
	if err := cursor.All(ctx, &reports); err != nil {
		s.logger.Error(ctx, "failed to decode expense reports", err)
		return nil, fmt.Errorf("failed to decode expense reports: %w", err)
	}
	return reports, nil
}

// DecideExpenseReport resolves a submitted expense report.
func (s *Store) DecideExpenseReport(ctx context.Context, id primitive.ObjectID, status ExpenseStatus, decidedBy primitive.ObjectID) (ExpenseReport, error) {
	var report ExpenseReport
	err := s.collection(colExpenseReports).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": ExpenseStatusSubmitted},
		bson.M{"$set": bson.M{
			"status":    status,
			"decidedBy": decidedBy,
			"updatedAt": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ExpenseReport{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to decide expense report", err)
		return ExpenseReport{}, fmt.Errorf("failed to decide expense report: %w", err)
	}
	return report, nil
}
