package processor

import (
	"context"

	"givehub-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostStore defines the database operations required by PostProcessor
type PostStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (store.User, error)
	GetCampaignByID(ctx context.Context, id primitive.ObjectID) (store.Campaign, error)

	CreatePost(ctx context.Context, post store.Post) (store.Post, error)
	GetPostByID(ctx context.Context, id primitive.ObjectID) (store.Post, error)
	ListPosts(ctx context.Context, params store.ListPostsParams) ([]store.Post, int64, error)
	UpdatePost(ctx context.Context, id primitive.ObjectID, params store.UpdatePostParams) (store.Post, error)
	SoftDeletePost(ctx context.Context, id primitive.ObjectID) error

	LikePost(ctx context.Context, postID, userID primitive.ObjectID) error
	UnlikePost(ctx context.Context, postID, userID primitive.ObjectID) error
	SharePost(ctx context.Context, share store.PostShare) (store.PostShare, error)
	CreateComment(ctx context.Context, comment store.PostComment) (store.PostComment, error)
	GetCommentByID(ctx context.Context, id primitive.ObjectID) (store.PostComment, error)
	ListComments(ctx context.Context, postID primitive.ObjectID, parentID *primitive.ObjectID, page, pageSize int) ([]store.PostComment, int64, error)
	TrackPostView(ctx context.Context, postID primitive.ObjectID, userID *primitive.ObjectID, sessionID string) (bool, error)
	HasLiked(ctx context.Context, postID, userID primitive.ObjectID) (bool, error)
}
