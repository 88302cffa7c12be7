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

type fakePostStore struct {
	getUserByID     func(ctx context.Context, id primitive.ObjectID) (store.User, error)
	getCampaignByID func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error)
	createPost      func(ctx context.Context, post store.Post) (store.Post, error)
	getPostByID     func(ctx context.Context, id primitive.ObjectID) (store.Post, error)
	listPosts       func(ctx context.Context, params store.ListPostsParams) ([]store.Post, int64, error)
	updatePost      func(ctx context.Context, id primitive.ObjectID, params store.UpdatePostParams) (store.Post, error)
	softDeletePost  func(ctx context.Context, id primitive.ObjectID) error
	likePost        func(ctx context.Context, postID, userID primitive.ObjectID) error
	unlikePost      func(ctx context.Context, postID, userID primitive.ObjectID) error
	sharePost       func(ctx context.Context, share store.PostShare) (store.PostShare, error)
	createComment   func(ctx context.Context, comment store.PostComment) (store.PostComment, error)
	getCommentByID  func(ctx context.Context, id primitive.ObjectID) (store.PostComment, error)
	listComments    func(ctx context.Context, postID primitive.ObjectID, parentID *primitive.ObjectID, page, pageSize int) ([]store.PostComment, int64, error)
	trackPostView   func(ctx context.Context, postID primitive.ObjectID, userID *primitive.ObjectID, sessionID string) (bool, error)
	hasLiked        func(ctx context.Context, postID, userID primitive.ObjectID) (bool, error)
}

func (f *fakePostStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (store.User, error) {
	return f.getUserByID(ctx, id)
}

func (f *fakePostStore) GetCampaignByID(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
	return f.getCampaignByID(ctx, id)
}

func (f *fakePostStore) CreatePost(ctx context.Context, post store.Post) (store.Post, error) {
	return f.createPost(ctx, post)
}

func (f *fakePostStore) GetPostByID(ctx context.Context, id primitive.ObjectID) (store.Post, error) {
	return f.getPostByID(ctx, id)
}

func (f *fakePostStore) ListPosts(ctx context.Context, params store.ListPostsParams) ([]store.Post, int64, error) {
	return f.listPosts(ctx, params)
}

func (f *fakePostStore) UpdatePost(ctx context.Context, id primitive.ObjectID, params store.UpdatePostParams) (store.Post, error) {
	return f.updatePost(ctx, id, params)
}

func (f *fakePostStore) SoftDeletePost(ctx context.Context, id primitive.ObjectID) error {
	return f.softDeletePost(ctx, id)
}

func (f *fakePostStore) LikePost(ctx context.Context, postID, userID primitive.ObjectID) error {
	return f.likePost(ctx, postID, userID)
}

func (f *fakePostStore) UnlikePost(ctx context.Context, postID, userID primitive.ObjectID) error {
	return f.unlikePost(ctx, postID, userID)
}

func (f *fakePostStore) SharePost(ctx context.Context, share store.PostShare) (store.PostShare, error) {
	return f.sharePost(ctx, share)
}

func (f *fakePostStore) CreateComment(ctx context.Context, comment store.PostComment) (store.PostComment, error) {
	return f.createComment(ctx, comment)
}

func (f *fakePostStore) GetCommentByID(ctx context.Context, id primitive.ObjectID) (store.PostComment, error) {
	return f.getCommentByID(ctx, id)
}

func (f *fakePostStore) ListComments(ctx context.Context, postID primitive.ObjectID, parentID *primitive.ObjectID, page, pageSize int) ([]store.PostComment, int64, error) {
	return f.listComments(ctx, postID, parentID, page, pageSize)
}

func (f *fakePostStore) TrackPostView(ctx context.Context, postID primitive.ObjectID, userID *primitive.ObjectID, sessionID string) (bool, error) {
	return f.trackPostView(ctx, postID, userID, sessionID)
}

func (f *fakePostStore) HasLiked(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	return f.hasLiked(ctx, postID, userID)
}

func newTestProcessor(s PostStore) PostProcessor {
	return New(s, observability.NewLogger())
}

func existingPost(post store.Post) *fakePostStore {
	return &fakePostStore{
		getPostByID: func(ctx context.Context, id primitive.ObjectID) (store.Post, error) {
			return post, nil
		},
	}
}

func TestCreate_SnapshotsAuthor(t *testing.T) {
	author := store.User{
		ID:         primitive.NewObjectID(),
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Reputation: 42,
	}
	fake := &fakePostStore{
		getUserByID: func(ctx context.Context, id primitive.ObjectID) (store.User, error) {
			return author, nil
		},
		createPost: func(ctx context.Context, post store.Post) (store.Post, error) {
			post.ID = primitive.NewObjectID()
			return post, nil
		},
	}
	processor := newTestProcessor(fake)

	post, err := processor.Create(context.Background(), Actor{ID: author.ID, Role: store.UserRoleUser}, CreatePostParams{
		Content: store.PostContent{Text: "Well drilling started today #CleanWater #cleanwater progress!"},
	})

	require.NoError(t, err)
	assert.Equal(t, author.Name, post.Creator.Name)
	assert.Equal(t, author.Reputation, post.Creator.Reputation)
	assert.Equal(t, store.PostVisibilityPublic, post.Visibility)
	assert.Equal(t, []string{"cleanwater"}, post.Hashtags)
}

func TestCreate_UnknownCampaign(t *testing.T) {
	campaignID := primitive.NewObjectID()
	fake := &fakePostStore{
		getUserByID: func(ctx context.Context, id primitive.ObjectID) (store.User, error) {
			return store.User{ID: id}, nil
		},
		getCampaignByID: func(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
			return store.Campaign{}, store.ErrNotFound
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.Create(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, CreatePostParams{
		Content:    store.PostContent{Text: "Linked update"},
		CampaignID: &campaignID,
	})

	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestExtractHashtags(t *testing.T) {
	tags := extractHashtags("Rebuilding after the storm #DisasterRelief #relief, #relief #2024 # plain")
	assert.Equal(t, []string{"disasterrelief", "relief", "2024"}, tags)

	assert.Empty(t, extractHashtags("no tags at all"))
}

func TestUpdate_NotOwner(t *testing.T) {
	post := store.Post{ID: primitive.NewObjectID(), CreatorID: primitive.NewObjectID()}
	processor := newTestProcessor(existingPost(post))

	_, err := processor.Update(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleAdmin}, post.ID, store.UpdatePostParams{})

	assert.ErrorIs(t, err, ErrNotPostOwner)
}

func TestDelete_AdminCanDelete(t *testing.T) {
	post := store.Post{ID: primitive.NewObjectID(), CreatorID: primitive.NewObjectID()}
	fake := existingPost(post)
	var deleted bool
	fake.softDeletePost = func(ctx context.Context, id primitive.ObjectID) error {
		deleted = true
		return nil
	}
	processor := newTestProcessor(fake)

	err := processor.Delete(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleAdmin}, post.ID)

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestLike_Duplicate(t *testing.T) {
	post := store.Post{ID: primitive.NewObjectID()}
	fake := existingPost(post)
	fake.likePost = func(ctx context.Context, postID, userID primitive.ObjectID) error {
		return store.ErrDuplicate
	}
	processor := newTestProcessor(fake)

	err := processor.Like(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, post.ID)

	assert.ErrorIs(t, err, ErrAlreadyLiked)
}

func TestUnlike_NotLiked(t *testing.T) {
	fake := &fakePostStore{
		unlikePost: func(ctx context.Context, postID, userID primitive.ObjectID) error {
			return store.ErrNotFound
		},
	}
	processor := newTestProcessor(fake)

	err := processor.Unlike(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, primitive.NewObjectID())

	assert.ErrorIs(t, err, ErrNotLiked)
}

func TestShare_QuoteRequiresText(t *testing.T) {
	processor := newTestProcessor(&fakePostStore{})

	_, err := processor.Share(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, primitive.NewObjectID(), store.ShareTypeQuote, "   ")

	assert.ErrorIs(t, err, ErrQuoteTextRequired)
}

func TestShare_Repost(t *testing.T) {
	post := store.Post{ID: primitive.NewObjectID()}
	fake := existingPost(post)
	fake.sharePost = func(ctx context.Context, share store.PostShare) (store.PostShare, error) {
		share.ID = primitive.NewObjectID()
		return share, nil
	}
	processor := newTestProcessor(fake)

	share, err := processor.Share(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, post.ID, store.ShareTypeRepost, "")

	require.NoError(t, err)
	assert.Equal(t, store.ShareTypeRepost, share.ShareType)
}

func TestComment_ReplyMustTargetSamePost(t *testing.T) {
	post := store.Post{ID: primitive.NewObjectID()}
	parentID := primitive.NewObjectID()
	fake := existingPost(post)
	fake.getUserByID = func(ctx context.Context, id primitive.ObjectID) (store.User, error) {
		return store.User{ID: id, Name: "Jane"}, nil
	}
	fake.getCommentByID = func(ctx context.Context, id primitive.ObjectID) (store.PostComment, error) {
		return store.PostComment{ID: parentID, PostID: primitive.NewObjectID()}, nil
	}
	processor := newTestProcessor(fake)

	_, err := processor.Comment(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, post.ID, "agreed!", &parentID)

	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestComment_TopLevel(t *testing.T) {
	post := store.Post{ID: primitive.NewObjectID()}
	fake := existingPost(post)
	fake.getUserByID = func(ctx context.Context, id primitive.ObjectID) (store.User, error) {
		return store.User{ID: id, Name: "Jane"}, nil
	}
	fake.createComment = func(ctx context.Context, comment store.PostComment) (store.PostComment, error) {
		comment.ID = primitive.NewObjectID()
		return comment, nil
	}
	processor := newTestProcessor(fake)

	comment, err := processor.Comment(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, post.ID, "great progress", nil)

	require.NoError(t, err)
	assert.Equal(t, "Jane", comment.UserName)
	assert.Nil(t, comment.ParentCommentID)
}

func TestTrackView_AnonymousSession(t *testing.T) {
	post := store.Post{ID: primitive.NewObjectID()}
	fake := existingPost(post)
	fake.trackPostView = func(ctx context.Context, postID primitive.ObjectID, userID *primitive.ObjectID, sessionID string) (bool, error) {
		assert.Nil(t, userID)
		assert.Equal(t, "session-abc", sessionID)
		return true, nil
	}
	processor := newTestProcessor(fake)

	counted, err := processor.TrackView(context.Background(), post.ID, nil, "session-abc")

	require.NoError(t, err)
	assert.True(t, counted)
}

func TestTrackView_RepeatViewNotCounted(t *testing.T) {
	post := store.Post{ID: primitive.NewObjectID()}
	userID := primitive.NewObjectID()
	fake := existingPost(post)
	fake.trackPostView = func(ctx context.Context, postID primitive.ObjectID, uID *primitive.ObjectID, sessionID string) (bool, error) {
		return false, nil
	}
	processor := newTestProcessor(fake)

	counted, err := processor.TrackView(context.Background(), post.ID, &userID, "")

	require.NoError(t, err)
	assert.False(t, counted)
}
