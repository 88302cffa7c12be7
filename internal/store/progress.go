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

// ListProgressParams filters and paginates progress update listings
type ListProgressParams struct {
	CampaignID     *primitive.ObjectID
	MilestoneIndex *int
	UpdatedBy      *primitive.ObjectID
	IsVisible      *bool
	Page           int
	PageSize       int
}

// CreateProgressUpdate appends the update and applies the reported percentage
// to the milestone in one transaction, keeping the milestone's
// progressUpdatesCount in step with the records.
func (s *Store) CreateProgressUpdate(ctx context.Context, update ProgressUpdate) (ProgressUpdate, error) {
	now := time.Now().UTC()
	update.ID = primitive.NewObjectID()
	update.CreatedAt = now
	update.UpdatedAt = now

	err := s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := s.collection(colProgressUpdates).InsertOne(sc, update); err != nil {
			return fmt.Errorf("failed to insert progress update: %w", err)
		}
		prefix := fmt.Sprintf("milestones.%d", update.MilestoneIndex)
		if _, err := s.collection(colCampaigns).UpdateByID(sc, update.CampaignID, bson.M{
			"$set": bson.M{
				prefix + ".progressPercentage": update.ProgressPercentage,
				"updatedAt":                    now,
			},
			"$inc": bson.M{prefix + ".progressUpdatesCount": 1},
		}); err != nil {
			return fmt.Errorf("failed to apply milestone progress: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "failed to create progress update", err)
		return ProgressUpdate{}, err
	}
	return update, nil
}

// GetProgressUpdate retrieves a progress update by ID
func (s *Store) GetProgressUpdate(ctx context.Context, id primitive.ObjectID) (ProgressUpdate, error) {
	var update ProgressUpdate
	err := s.collection(colProgressUpdates).FindOne(ctx, bson.M{"_id": id}).Decode(&update)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ProgressUpdate{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get progress update", err)
		return ProgressUpdate{}, fmt.Errorf("failed to get progress update: %w", err)
	}
	return update, nil
}

// ListProgressUpdates returns a page of progress updates, newest first
func (s *Store) ListProgressUpdates(ctx context.Context, params ListProgressParams) ([]ProgressUpdate, int64, error) {
	filter := bson.M{}
	if params.CampaignID != nil {
		filter["campaignId"] = *params.CampaignID
	}
	if params.MilestoneIndex != nil {
		filter["milestoneIndex"] = *params.MilestoneIndex
	}
	if params.UpdatedBy != nil {
		filter["updatedBy"] = *params.UpdatedBy
	}
	if params.IsVisible != nil {
		filter["isVisible"] = *params.IsVisible
	}

	col := s.collection(colProgressUpdates)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		s.logger.Error(ctx, "failed to count progress updates", err)
		return nil, 0, fmt.Errorf("failed to count progress updates: %w", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((params.Page - 1) * params.PageSize)).
		SetLimit(int64(params.PageSize))
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		s.logger.Error(ctx, "failed to list progress updates", err)
		return nil, 0, fmt.Errorf("failed to list progress updates: %w", err)
	}
	var updates []ProgressUpdate
	if err := cursor.All(ctx, &updates); err != nil {
		s.logger.Error(ctx, "failed to decode progress updates", err)
		return nil, 0, fmt.Errorf("failed to decode progress updates: %w", err)
	}
	return updates, total, nil
}

// DeleteProgressUpdate removes a progress update record. The milestone's
// reported percentage is left as-is; history deletion does not rewind it.
func (s *Store) DeleteProgressUpdate(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection(colProgressUpdates).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		s.logger.Error(ctx, "failed to delete progress update", err)
		return fmt.Errorf("failed to delete progress update: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
