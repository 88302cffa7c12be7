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

// UpdatePostParams represents parameters for a partial post update
type UpdatePostParams struct {
	Content    *PostContent
	Visibility *PostVisibility
	Hashtags   []string
	Mentions   []string
}

// ListPostsParams filters and paginates the feed
type ListPostsParams struct {
	Search     string
	CreatorID  *primitive.ObjectID
	CampaignID *primitive.ObjectID
	Visibility *PostVisibility
	Hashtag    string
	Page       int
	PageSize   int
}

// CreatePost inserts a new post document
func (s *Store) CreatePost(ctx context.Context, post Post) (Post, error) {
	now := time.Now().UTC()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now
	if _, err := s.collection(colPosts).InsertOne(ctx, post); err != nil {
		s.logger.Error(ctx, "failed to create post", err)
		return Post{}, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// GetPostByID retrieves a post that has not been soft-deleted
func (s *Store) GetPostByID(ctx context.Context, id primitive.ObjectID) (Post, error) {
	var post Post
	err := s.collection(colPosts).FindOne(ctx, bson.M{"_id": id, "isDeleted": false}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Post{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get post by id", err)
		return Post{}, fmt.Errorf("failed to get post by id: %w", err)
	}
	return post, nil
}

// ListPosts returns a page of non-deleted posts, newest first
func (s *Store) ListPosts(ctx context.Context, params ListPostsParams) ([]Post, int64, error) {
	filter := bson.M{"isDeleted": false}
	if params.Search != "" {
		filter["content.text"] = primitive.Regex{Pattern: params.Search, Options: "i"}
	}
	if params.CreatorID != nil {
		filter["creatorId"] = *params.CreatorID
	}
	if params.CampaignID != nil {
		filter["campaignId"] = *params.CampaignID
	}
	if params.Visibility != nil {
		filter["visibility"] = *params.Visibility
	}
	if params.Hashtag != "" {
		filter["hashtags"] = params.Hashtag
	}

	col := s.collection(colPosts)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		s.logger.Error(ctx, "failed to count posts", err)
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((params.Page - 1) * params.PageSize)).
		SetLimit(int64(params.PageSize))
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		s.logger.Error(ctx, "failed to list posts", err)
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	var posts []Post
	if err := cursor.All(ctx, &posts); err != nil {
		s.logger.Error(ctx, "failed to decode posts", err)
		return nil, 0, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, total, nil
}

// UpdatePost applies a partial update and returns the updated document
func (s *Store) UpdatePost(ctx context.Context, id primitive.ObjectID, params UpdatePostParams) (Post, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if params.Content != nil {
		set["content"] = *params.Content
	}
	if params.Visibility != nil {
		set["visibility"] = *params.Visibility
	}
	if params.Hashtags != nil {
		set["hashtags"] = params.Hashtags
	}
	if params.Mentions != nil {
		set["mentions"] = params.Mentions
	}

	var post Post
	err := s.collection(colPosts).FindOneAndUpdate(ctx,
		bson.M{"_id": id, "isDeleted": false},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Post{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update post", err)
		return Post{}, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

// SoftDeletePost marks a post deleted without removing its interactions
func (s *Store) SoftDeletePost(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection(colPosts).UpdateOne(ctx,
		bson.M{"_id": id, "isDeleted": false},
		bson.M{"$set": bson.M{"isDeleted": true, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		s.logger.Error(ctx, "failed to soft delete post", err)
		return fmt.Errorf("failed to soft delete post: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
