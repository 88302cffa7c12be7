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

// UpdateMediaParams represents parameters for a partial media update
type UpdateMediaParams struct {
	Tags        []string
	Description *string
	IsPublic    *bool
}

// ListMediaParams filters and paginates the media listing
type ListMediaParams struct {
	UserID   *primitive.ObjectID
	Type     *MediaType
	Status   *MediaStatus
	IsPublic *bool
	Page     int
	PageSize int
}

// CreateMedia inserts a media record
func (s *Store) CreateMedia(ctx context.Context, media Media) (Media, error) {
	now := time.Now().UTC()
	media.ID = primitive.NewObjectID()
	media.CreatedAt = now
	media.UpdatedAt = now
	if _, err := s.collection(colMedia).InsertOne(ctx, media); err != nil {
		s.logger.Error(ctx, "failed to create media", err)
		return Media{}, fmt.Errorf("failed to create media: %w", err)
	}
	return media, nil
}

// GetMediaByID retrieves a media record by ID
func (s *Store) GetMediaByID(ctx context.Context, id primitive.ObjectID) (Media, error) {
	var media Media
	err := s.collection(colMedia).FindOne(ctx, bson.M{"_id": id}).Decode(&media)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Media{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get media by id", err)
		return Media{}, fmt.Errorf("failed to get media by id: %w", err)
	}
	return media, nil
}

// ListMedia returns a page of media records, newest first
func (s *Store) ListMedia(ctx context.Context, params ListMediaParams) ([]Media, int64, error) {
	filter := bson.M{"status": bson.M{"$ne": MediaStatusDeleted}}
	if params.UserID != nil {
		filter["userId"] = *params.UserID
	}
	if params.Type != nil {
		filter["type"] = *params.Type
	}
	if params.Status != nil {
		filter["status"] = *params.Status
	}
	if params.IsPublic != nil {
		filter["isPublic"] = *params.IsPublic
	}

	col := s.collection(colMedia)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		s.logger.Error(ctx, "failed to count media", err)
		return nil, 0, fmt.Errorf("failed to count media: %w", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((params.Page - 1) * params.PageSize)).
		SetLimit(int64(params.PageSize))
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		s.logger.Error(ctx, "failed to list media", err)
		return nil, 0, fmt.Errorf("failed to list media: %w", err)
	}
	var media []Media
	if err := cursor.All(ctx, &media); err != nil {
		s.logger.Error(ctx, "failed to decode media", err)
		return nil, 0, fmt.Errorf("failed to decode media: %w", err)
	}
	return media, total, nil
}

// UpdateMedia applies a partial update and returns the updated record
func (s *Store) UpdateMedia(ctx context.Context, id primitive.ObjectID, params UpdateMediaParams) (Media, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if params.Tags != nil {
		set["tags"] = params.Tags
	}
	if params.Description != nil {
		set["description"] = *params.Description
	}
	if params.IsPublic != nil {
		set["isPublic"] = *params.IsPublic
	}

	var media Media
	err := s.collection(colMedia).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&media)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Media{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update media", err)
		return Media{}, fmt.Errorf("failed to update media: %w", err)
	}
	return media, nil
}

// SetMediaUploaded marks an upload finished, recording the blob URL.
func (s *Store) SetMediaUploaded(ctx context.Context, id primitive.ObjectID, url string) error {
	res, err := s.collection(colMedia).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"url": url, "status": MediaStatusReady, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		s.logger.Error(ctx, "failed to mark media uploaded", err)
		return fmt.Errorf("failed to mark media uploaded: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetMediaStatus moves a media record through its upload lifecycle
func (s *Store) SetMediaStatus(ctx context.Context, id primitive.ObjectID, status MediaStatus) error {
	res, err := s.collection(colMedia).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		s.logger.Error(ctx, "failed to set media status", err)
		return fmt.Errorf("failed to set media status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
