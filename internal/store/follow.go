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

// FollowCampaign inserts a follow record and bumps the campaign follower
// counter in one transaction. Returns ErrDuplicate when already following.
func (s *Store) FollowCampaign(ctx context.Context, campaignID, userID primitive.ObjectID) error {
	err := s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		follow := CampaignFollow{
			ID:         primitive.NewObjectID(),
			CampaignID: campaignID,
			UserID:     userID,
			CreatedAt:  time.Now().UTC(),
		}
		if _, err := s.collection(colCampaignFollows).InsertOne(sc, follow); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("failed to insert follow: %w", err)
		}
		if _, err := s.collection(colCampaigns).UpdateByID(sc, campaignID, bson.M{
			"$inc": bson.M{"followersCount": 1},
		}); err != nil {
			return fmt.Errorf("failed to increment followers count: %w", err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrDuplicate) {
		s.logger.Error(ctx, "failed to follow campaign", err)
	}
	return err
}

// UnfollowCampaign removes the follow record and decrements the counter in
// one transaction. Returns ErrNotFound when no follow exists.
func (s *Store) UnfollowCampaign(ctx context.Context, campaignID, userID primitive.ObjectID) error {
	err := s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := s.collection(colCampaignFollows).DeleteOne(sc, bson.M{
			"campaignId": campaignID,
			"userId":     userID,
		})
		if err != nil {
			return fmt.Errorf("failed to delete follow: %w", err)
		}
		if res.DeletedCount == 0 {
			return ErrNotFound
		}
		if _, err := s.collection(colCampaigns).UpdateByID(sc, campaignID, bson.M{
			"$inc": bson.M{"followersCount": -1},
		}); err != nil {
			return fmt.Errorf("failed to decrement followers count: %w", err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error(ctx, "failed to unfollow campaign", err)
	}
	return err
}

// ListCampaignFollowers returns the follows for a campaign, newest first.
func (s *Store) ListCampaignFollowers(ctx context.Context, campaignID primitive.ObjectID, page, pageSize int) ([]CampaignFollow, int64, error) {
	return s.listFollows(ctx, bson.M{"campaignId": campaignID}, page, pageSize)
}

// ListFollowedCampaigns returns the follows of a user, newest first.
func (s *Store) ListFollowedCampaigns(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]CampaignFollow, int64, error) {
	return s.listFollows(ctx, bson.M{"userId": userID}, page, pageSize)
}

func (s *Store) listFollows(ctx context.Context, filter bson.M, page, pageSize int) ([]CampaignFollow, int64, error) {
	col := s.collection(colCampaignFollows)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		s.logger.Error(ctx, "failed to count follows", err)
		return nil, 0, fmt.Errorf("failed to count follows: %w", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		s.logger.Error(ctx, "failed to list follows", err)
		return nil, 0, fmt.Errorf("failed to list follows: %w", err)
	}
	var follows []CampaignFollow
	if err := cursor.All(ctx, &follows); err != nil {
		s.logger.Error(ctx, "failed to decode follows", err)
		return nil, 0, fmt.Errorf("failed to decode follows: %w", err)
	}
	return follows, total, nil
}
