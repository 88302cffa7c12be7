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

// Every interaction write in this file pairs the record mutation with the
// matching engagement counter mutation inside a single transaction, so the
// counters on a post can never drift from the interaction collections.

// LikePost inserts a like and bumps likesCount. ErrDuplicate when the user
// already liked the post.
func (s *Store) LikePost(ctx context.Context, postID, userID primitive.ObjectID) error {
	err := s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		like := PostLike{
			ID:        primitive.NewObjectID(),
			PostID:    postID,
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		}
		if _, err := s.collection(colPostLikes).InsertOne(sc, like); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("failed to insert like: %w", err)
		}
		if _, err := s.collection(colPosts).UpdateByID(sc, postID, bson.M{
			"$inc": bson.M{"engagement.likesCount": 1},
		}); err != nil {
			return fmt.Errorf("failed to increment likes count: %w", err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrDuplicate) {
		s.logger.Error(ctx, "failed to like post", err)
	}
	return err
}

// UnlikePost removes a like and decrements likesCount. ErrNotFound when the
// user had not liked the post.
func (s *Store) UnlikePost(ctx context.Context, postID, userID primitive.ObjectID) error {
	err := s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := s.collection(colPostLikes).DeleteOne(sc, bson.M{
			"postId": postID,
			"userId": userID,
		})
		if err != nil {
			return fmt.Errorf("failed to delete like: %w", err)
		}
		if res.DeletedCount == 0 {
			return ErrNotFound
		}
		if _, err := s.collection(colPosts).UpdateByID(sc, postID, bson.M{
			"$inc": bson.M{"engagement.likesCount": -1},
		}); err != nil {
			return fmt.Errorf("failed to decrement likes count: %w", err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error(ctx, "failed to unlike post", err)
	}
	return err
}

// SharePost inserts a share record and bumps sharesCount. ErrDuplicate when
// the user already shared the post.
func (s *Store) SharePost(ctx context.Context, share PostShare) (PostShare, error) {
	share.ID = primitive.NewObjectID()
	share.CreatedAt = time.Now().UTC()
	err := s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := s.collection(colPostShares).InsertOne(sc, share); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("failed to insert share: %w", err)
		}
		if _, err := s.collection(colPosts).UpdateByID(sc, share.PostID, bson.M{
			"$inc": bson.M{"engagement.sharesCount": 1},
		}); err != nil {
			return fmt.Errorf("failed to increment shares count: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrDuplicate) {
			s.logger.Error(ctx, "failed to share post", err)
		}
		return PostShare{}, err
	}
	return share, nil
}

// CreateComment inserts a comment, bumps the post's commentsCount and, for
// replies, the parent comment's repliesCount, all in one transaction.
func (s *Store) CreateComment(ctx context.Context, comment PostComment) (PostComment, error) {
	now := time.Now().UTC()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	err := s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := s.collection(colPostComments).InsertOne(sc, comment); err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}
		if _, err := s.collection(colPosts).UpdateByID(sc, comment.PostID, bson.M{
			"$inc": bson.M{"engagement.commentsCount": 1},
		}); err != nil {
			return fmt.Errorf("failed to increment comments count: %w", err)
		}
		if comment.ParentCommentID != nil {
			if _, err := s.collection(colPostComments).UpdateByID(sc, *comment.ParentCommentID, bson.M{
				"$inc": bson.M{"repliesCount": 1},
			}); err != nil {
				return fmt.Errorf("failed to increment replies count: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "failed to create comment", err)
		return PostComment{}, err
	}
	return comment, nil
}

// GetCommentByID retrieves a comment by ID
func (s *Store) GetCommentByID(ctx context.Context, id primitive.ObjectID) (PostComment, error) {
	var comment PostComment
	err := s.collection(colPostComments).FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return PostComment{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get comment", err)
		return PostComment{}, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

// ListComments returns a page of top-level comments or replies for a post.
func (s *Store) ListComments(ctx context.Context, postID primitive.ObjectID, parentID *primitive.ObjectID, page, pageSize int) ([]PostComment, int64, error) {
	filter := bson.M{"postId": postID}
	if parentID != nil {
		filter["parentCommentId"] = *parentID
	} else {
		filter["parentCommentId"] = bson.M{"$exists": false}
	}

	col := s.collection(colPostComments)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		s.logger.Error(ctx, "failed to count comments", err)
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		s.logger.Error(ctx, "failed to list comments", err)
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	var comments []PostComment
	if err := cursor.All(ctx, &comments); err != nil {
		s.logger.Error(ctx, "failed to decode comments", err)
		return nil, 0, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, total, nil
}

// TrackPostView records a view for a user or anonymous session. The first
// view inserts a record and bumps viewsCount; repeat views only refresh
// viewedAt. Returns true when the view was counted.
func (s *Store) TrackPostView(ctx context.Context, postID primitive.ObjectID, userID *primitive.ObjectID, sessionID string) (bool, error) {
	viewerKey := sessionID
	if userID != nil {
		viewerKey = userID.Hex()
	}

	counted := false
	err := s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		view := PostView{
			ID:        primitive.NewObjectID(),
			PostID:    postID,
			UserID:    userID,
			SessionID: sessionID,
			ViewerKey: viewerKey,
			ViewedAt:  time.Now().UTC(),
		}
		if _, err := s.collection(colPostViews).InsertOne(sc, view); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// Repeat view: refresh the timestamp, no counter change.
				if _, err := s.collection(colPostViews).UpdateOne(sc,
					bson.M{"postId": postID, "viewerKey": viewerKey},
					bson.M{"$set": bson.M{"viewedAt": time.Now().UTC()}},
				); err != nil {
					return fmt.Errorf("failed to refresh view: %w", err)
				}
				return nil
			}
			return fmt.Errorf("failed to insert view: %w", err)
		}
		if _, err := s.collection(colPosts).UpdateByID(sc, postID, bson.M{
			"$inc": bson.M{"engagement.viewsCount": 1},
		}); err != nil {
			return fmt.Errorf("failed to increment views count: %w", err)
		}
		counted = true
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "failed to track post view", err)
		return false, err
	}
	return counted, nil
}

// HasLiked reports whether the user has liked the post.
func (s *Store) HasLiked(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	count, err := s.collection(colPostLikes).CountDocuments(ctx, bson.M{
		"postId": postID,
		"userId": userID,
	})
	if err != nil {
		s.logger.Error(ctx, "failed to check like", err)
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return count > 0, nil
}
