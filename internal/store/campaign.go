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

// openCampaignStatuses are the statuses that count against the per-creator
// open campaign quota.
var openCampaignStatuses = []CampaignStatus{
	CampaignStatusPendingReview,
	CampaignStatusApproved,
	CampaignStatusFundraising,
	CampaignStatusImplementation,
}

// UpdateCampaignParams represents parameters for a partial campaign update
type UpdateCampaignParams struct {
	Title       *string
	Description *string
	Category    *string
	Tags        []string
	StartDate   *time.Time
	EndDate     *time.Time
	CoverImage  *string
	Gallery     []string
	IsFeatured  *bool
}

// ListCampaignsParams filters and paginates the campaign listing
type ListCampaignsParams struct {
	Search        string
	Type          *CampaignType
	FundingType   *FundingType
	Status        *CampaignStatus
	Category      string
	CreatorID     *primitive.ObjectID
	IsFeatured    *bool
	Tag           string
	MinTarget     *float64
	MaxTarget     *float64
	StartDateFrom *time.Time
	StartDateTo   *time.Time
	SortBy        string
	SortOrder     int
	Page          int
	PageSize      int
}

// CampaignStatistics are platform-wide aggregate numbers.
type CampaignStatistics struct {
	TotalCampaigns     int64   `json:"totalCampaigns"`
	ActiveCampaigns    int64   `json:"activeCampaigns"`
	CompletedCampaigns int64   `json:"completedCampaigns"`
	PendingReview      int64   `json:"pendingReview"`
	TotalFundsRaised   float64 `json:"totalFundsRaised"`
}

// CreateCampaign inserts a campaign document prepared by the caller.
func (s *Store) CreateCampaign(ctx context.Context, campaign Campaign) (Campaign, error) {
	now := time.Now().UTC()
	campaign.ID = primitive.NewObjectID()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now
	if _, err := s.collection(colCampaigns).InsertOne(ctx, campaign); err != nil {
		s.logger.Error(ctx, "failed to create campaign", err)
		return Campaign{}, fmt.Errorf("failed to create campaign: %w", err)
	}
	return campaign, nil
}

// GetCampaignByID retrieves a campaign by ID
func (s *Store) GetCampaignByID(ctx context.Context, id primitive.ObjectID) (Campaign, error) {
	var campaign Campaign
	err := s.collection(colCampaigns).FindOne(ctx, bson.M{"_id": id}).Decode(&campaign)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get campaign by id", err)
		return Campaign{}, fmt.Errorf("failed to get campaign by id: %w", err)
	}
	return campaign, nil
}

// GetCampaignAndIncrementViews returns the campaign after bumping viewCount.
func (s *Store) GetCampaignAndIncrementViews(ctx context.Context, id primitive.ObjectID) (Campaign, error) {
	var campaign Campaign
	err := s.collection(colCampaigns).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"viewCount": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&campaign)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get campaign", err)
		return Campaign{}, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

// ListCampaigns returns a page of campaigns and the total match count
func (s *Store) ListCampaigns(ctx context.Context, params ListCampaignsParams) ([]Campaign, int64, error) {
	filter := bson.M{}
	if params.Search != "" {
		regex := primitive.Regex{Pattern: params.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
			bson.M{"creatorName": regex},
		}
	}
	if params.Type != nil {
		filter["type"] = *params.Type
	}
	if params.FundingType != nil {
		filter["fundingType"] = *params.FundingType
	}
	if params.Status != nil {
		filter["status"] = *params.Status
	}
	if params.Category != "" {
		filter["category"] = params.Category
	}
	if params.CreatorID != nil {
		filter["creatorId"] = *params.CreatorID
	}
	if params.IsFeatured != nil {
		filter["isFeatured"] = *params.IsFeatured
	}
	if params.Tag != "" {
		filter["tags"] = params.Tag
	}
	if params.MinTarget != nil || params.MaxTarget != nil {
		amount := bson.M{}
		if params.MinTarget != nil {
			amount["$gte"] = *params.MinTarget
		}
		if params.MaxTarget != nil {
			amount["$lte"] = *params.MaxTarget
		}
		filter["targetAmount"] = amount
	}
	if params.StartDateFrom != nil || params.StartDateTo != nil {
		dates := bson.M{}
		if params.StartDateFrom != nil {
			dates["$gte"] = *params.StartDateFrom
		}
		if params.StartDateTo != nil {
			dates["$lte"] = *params.StartDateTo
		}
		filter["startDate"] = dates
	}

	col := s.collection(colCampaigns)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		s.logger.Error(ctx, "failed to count campaigns", err)
		return nil, 0, fmt.Errorf("failed to count campaigns: %w", err)
	}

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	sortOrder := params.SortOrder
	if sortOrder == 0 {
		sortOrder = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortOrder}}).
		SetSkip(int64((params.Page - 1) * params.PageSize)).
		SetLimit(int64(params.PageSize))

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		s.logger.Error(ctx, "failed to list campaigns", err)
		return nil, 0, fmt.Errorf("failed to list campaigns: %w", err)
	}
	var campaigns []Campaign
	if err := cursor.All(ctx, &campaigns); err != nil {
		s.logger.Error(ctx, "failed to decode campaigns", err)
		return nil, 0, fmt.Errorf("failed to decode campaigns: %w", err)
	}
	return campaigns, total, nil
}

// CountOpenCampaignsByCreator counts campaigns still occupying a quota slot.
func (s *Store) CountOpenCampaignsByCreator(ctx context.Context, creatorID primitive.ObjectID) (int64, error) {
	count, err := s.collection(colCampaigns).CountDocuments(ctx, bson.M{
		"creatorId": creatorID,
		"status":    bson.M{"$in": openCampaignStatuses},
	})
	if err != nil {
		s.logger.Error(ctx, "failed to count open campaigns", err)
		return 0, fmt.Errorf("failed to count open campaigns: %w", err)
	}
	return count, nil
}

// UpdateCampaign applies a partial update and returns the updated document
func (s *Store) UpdateCampaign(ctx context.Context, id primitive.ObjectID, params UpdateCampaignParams) (Campaign, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if params.Title != nil {
		set["title"] = *params.Title
	}
	if params.Description != nil {
		set["description"] = *params.Description
	}
	if params.Category != nil {
		set["category"] = *params.Category
	}
	if params.Tags != nil {
		set["tags"] = params.Tags
	}
	if params.StartDate != nil {
		set["startDate"] = *params.StartDate
	}
	if params.EndDate != nil {
		set["endDate"] = *params.EndDate
	}
	if params.CoverImage != nil {
		set["coverImage"] = *params.CoverImage
	}
	if params.Gallery != nil {
		set["gallery"] = params.Gallery
	}
	if params.IsFeatured != nil {
		set["isFeatured"] = *params.IsFeatured
	}

	var campaign Campaign
	err := s.collection(colCampaigns).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&campaign)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update campaign", err)
		return Campaign{}, fmt.Errorf("failed to update campaign: %w", err)
	}
	return campaign, nil
}

// DeleteCampaign removes a campaign document
func (s *Store) DeleteCampaign(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection(colCampaigns).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		s.logger.Error(ctx, "failed to delete campaign", err)
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCampaignReview records a reviewer decision. The status filter acts as a
// compare-and-swap so only a pending_review campaign can be decided.
func (s *Store) SetCampaignReview(ctx context.Context, id primitive.ObjectID, review CampaignReview, rejectionReason string) (Campaign, error) {
	set := bson.M{
		"review":    review,
		"updatedAt": time.Now().UTC(),
	}
	switch review.Status {
	case ReviewStatusApproved:
		set["status"] = CampaignStatusApproved
		set["approvedAt"] = review.ReviewedAt
	case ReviewStatusRejected:
		set["status"] = CampaignStatusRejected
		set["rejectionReason"] = rejectionReason
	}

	var campaign Campaign
	err := s.collection(colCampaigns).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": CampaignStatusPendingReview},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&campaign)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to set campaign review", err)
		return Campaign{}, fmt.Errorf("failed to set campaign review: %w", err)
	}
	return campaign, nil
}

// TransitionCampaignStatus moves a campaign from one lifecycle state to
// another with a compare-and-swap on the current status. ErrNotFound means
// the campaign is missing or no longer in the expected state.
func (s *Store) TransitionCampaignStatus(ctx context.Context, id primitive.ObjectID, from, to CampaignStatus) (Campaign, error) {
	set := bson.M{"status": to, "updatedAt": time.Now().UTC()}
	if to == CampaignStatusCompleted {
		set["completedAt"] = time.Now().UTC()
	}

	var campaign Campaign
	err := s.collection(colCampaigns).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&campaign)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to transition campaign status", err)
		return Campaign{}, fmt.Errorf("failed to transition campaign status: %w", err)
	}
	return campaign, nil
}

// StartImplementation moves a fundraising campaign into implementation and
// activates its first milestone with a due date derived from the milestone
// duration.
func (s *Store) StartImplementation(ctx context.Context, id primitive.ObjectID) (Campaign, error) {
	campaign, err := s.GetCampaignByID(ctx, id)
	if err != nil {
		return Campaign{}, err
	}
	if len(campaign.Milestones) == 0 {
		return Campaign{}, fmt.Errorf("campaign %s has no milestones", id.Hex())
	}

	now := time.Now().UTC()
	dueDate := now.AddDate(0, 0, campaign.Milestones[0].DurationDays)
	var updated Campaign
	err = s.collection(colCampaigns).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": CampaignStatusFundraising},
		bson.M{"$set": bson.M{
			"status":                  CampaignStatusImplementation,
			"milestones.0.status":     MilestoneStatusActive,
			"milestones.0.startedAt":  now,
			"milestones.0.dueDate":    dueDate,
			"updatedAt":               now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to start implementation", err)
		return Campaign{}, fmt.Errorf("failed to start implementation: %w", err)
	}
	return updated, nil
}

// ListReviewQueue returns pending campaigns, highest review fee first.
func (s *Store) ListReviewQueue(ctx context.Context) ([]Campaign, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "reviewFee", Value: -1},
		{Key: "createdAt", Value: 1},
	})
	cursor, err := s.collection(colCampaigns).Find(ctx,
		bson.M{"status": CampaignStatusPendingReview}, opts)
	if err != nil {
		s.logger.Error(ctx, "failed to list review queue", err)
		return nil, fmt.Errorf("failed to list review queue: %w", err)
	}
	var campaigns []Campaign
	if err := cursor.All(ctx, &campaigns); err != nil {
		s.logger.Error(ctx, "failed to decode review queue", err)
		return nil, fmt.Errorf("failed to decode review queue: %w", err)
	}
	return campaigns, nil
}

// GetCampaignStatistics aggregates platform-wide campaign numbers.
func (s *Store) GetCampaignStatistics(ctx context.Context) (CampaignStatistics, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
			"total": bson.M{"$sum": "$currentAmount"},
		}}},
	}
	cursor, err := s.collection(colCampaigns).Aggregate(ctx, pipeline)
	if err != nil {
		s.logger.Error(ctx, "failed to aggregate campaign statistics", err)
		return CampaignStatistics{}, fmt.Errorf("failed to aggregate campaign statistics: %w", err)
	}
	var rows []struct {
		Status CampaignStatus `bson:"_id"`
		Count  int64          `bson:"count"`
		Total  float64        `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		s.logger.Error(ctx, "failed to decode campaign statistics", err)
		return CampaignStatistics{}, fmt.Errorf("failed to decode campaign statistics: %w", err)
	}

	var stats CampaignStatistics
	for _, row := range rows {
		stats.TotalCampaigns += row.Count
		stats.TotalFundsRaised += row.Total
		switch row.Status {
		case CampaignStatusFundraising, CampaignStatusImplementation:
			stats.ActiveCampaigns += row.Count
		case CampaignStatusCompleted:
			stats.CompletedCampaigns += row.Count
		case CampaignStatusPendingReview:
			stats.PendingReview += row.Count
		}
	}
	return stats, nil
}

// CompleteMilestone marks a milestone completed with its disbursed amount and
// activates the next pending milestone, if any.
func (s *Store) CompleteMilestone(ctx context.Context, campaignID primitive.ObjectID, index int, disbursedAmount float64) (Campaign, error) {
	campaign, err := s.GetCampaignByID(ctx, campaignID)
	if err != nil {
		return Campaign{}, err
	}
	if index < 0 || index >= len(campaign.Milestones) {
		return Campaign{}, ErrNotFound
	}

	now := time.Now().UTC()
	set := bson.M{
		fmt.Sprintf("milestones.%d.status", index):          MilestoneStatusCompleted,
		fmt.Sprintf("milestones.%d.completedAt", index):     now,
		fmt.Sprintf("milestones.%d.disbursedAmount", index): disbursedAmount,
		"updatedAt": now,
	}
	next := index + 1
	if next < len(campaign.Milestones) && campaign.Milestones[next].Status == MilestoneStatusPending {
		dueDate := now.AddDate(0, 0, campaign.Milestones[next].DurationDays)
		set[fmt.Sprintf("milestones.%d.status", next)] = MilestoneStatusActive
		set[fmt.Sprintf("milestones.%d.startedAt", next)] = now
		set[fmt.Sprintf("milestones.%d.dueDate", next)] = dueDate
	}

	var updated Campaign
	err = s.collection(colCampaigns).FindOneAndUpdate(ctx,
		bson.M{"_id": campaignID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to complete milestone", err)
		return Campaign{}, fmt.Errorf("failed to complete milestone: %w", err)
	}
	return updated, nil
}

// SetMilestoneActualSpending records the spending reported for a milestone.
func (s *Store) SetMilestoneActualSpending(ctx context.Context, campaignID primitive.ObjectID, index int, amount float64) error {
	_, err := s.collection(colCampaigns).UpdateByID(ctx, campaignID, bson.M{
		"$set": bson.M{
			fmt.Sprintf("milestones.%d.actualSpending", index): amount,
			"updatedAt": time.Now().UTC(),
		},
	})
	if err != nil {
		s.logger.Error(ctx, "failed to set milestone spending", err)
		return fmt.Errorf("failed to set milestone spending: %w", err)
	}
	return nil
}

// VerifyMilestone marks a completed milestone as verified.
func (s *Store) VerifyMilestone(ctx context.Context, campaignID primitive.ObjectID, index int) error {
	now := time.Now().UTC()
	_, err := s.collection(colCampaigns).UpdateByID(ctx, campaignID, bson.M{
		"$set": bson.M{
			fmt.Sprintf("milestones.%d.status", index):     MilestoneStatusVerified,
			fmt.Sprintf("milestones.%d.verifiedAt", index): now,
			"updatedAt": now,
		},
	})
	if err != nil {
		s.logger.Error(ctx, "failed to verify milestone", err)
		return fmt.Errorf("failed to verify milestone: %w", err)
	}
	return nil
}
