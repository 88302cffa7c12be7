package processor

import (
	"context"
	"errors"
	"strings"

	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrCampaignNotFound  = errors.New("campaign not found")
	ErrAlreadyLiked      = errors.New("post already liked")
	ErrNotLiked          = errors.New("post not liked")
	ErrAlreadyShared     = errors.New("post already shared")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrQuoteTextRequired = errors.New("quote shares require text")
	ErrNotPostOwner      = errors.New("not the post owner")
)

// Actor identifies who is performing an operation.
type Actor struct {
	ID   primitive.ObjectID
	Role store.UserRole
}

func (a Actor) isAdmin() bool {
	return a.Role == store.UserRoleAdmin
}

// CreatePostParams is the body of a new post.
type CreatePostParams struct {
	Content    store.PostContent
	CampaignID *primitive.ObjectID
	Visibility store.PostVisibility
	Hashtags   []string
	Mentions   []string
}

type PostProcessor struct {
	store  PostStore
	logger *observability.Logger
}

func New(store PostStore, logger *observability.Logger) PostProcessor {
	return PostProcessor{store: store, logger: logger}
}

// Create publishes a post with a denormalized snapshot of its author. When
// the post references a campaign, the campaign must exist.
func (p *PostProcessor) Create(ctx context.Context, actor Actor, params CreatePostParams) (store.Post, error) {
	author, err := p.store.GetUserByID(ctx, actor.ID)
	if err != nil {
		p.logger.Error(ctx, "failed to load post author", err)
		return store.Post{}, err
	}
	if params.CampaignID != nil {
		if _, err := p.store.GetCampaignByID(ctx, *params.CampaignID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return store.Post{}, ErrCampaignNotFound
			}
			p.logger.Error(ctx, "failed to get campaign", err)
			return store.Post{}, err
		}
	}

	visibility := params.Visibility
	if visibility == "" {
		visibility = store.PostVisibilityPublic
	}
	hashtags := params.Hashtags
	if len(hashtags) == 0 {
		hashtags = extractHashtags(params.Content.Text)
	}

	post, err := p.store.CreatePost(ctx, store.Post{
		CreatorID: author.ID,
		Creator: store.CreatorSnapshot{
			Name:       author.Name,
			Email:      author.Email,
			Avatar:     author.Avatar,
			Reputation: author.Reputation,
		},
		Content:    params.Content,
		CampaignID: params.CampaignID,
		Visibility: visibility,
		Hashtags:   hashtags,
		Mentions:   params.Mentions,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create post", err)
		return store.Post{}, err
	}
	return post, nil
}

// extractHashtags pulls #tags out of the post text, lowercased, without the
// leading hash.
func extractHashtags(text string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, word := range strings.Fields(text) {
		if !strings.HasPrefix(word, "#") || len(word) < 2 {
			continue
		}
		tag := strings.ToLower(strings.TrimFunc(word[1:], func(r rune) bool {
			return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9' || r == '_')
		}))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// Get returns a post by ID.
func (p *PostProcessor) Get(ctx context.Context, id primitive.ObjectID) (store.Post, error) {
	post, err := p.store.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Post{}, ErrPostNotFound
		}
		p.logger.Error(ctx, "failed to get post", err)
		return store.Post{}, err
	}
	return post, nil
}

// List returns the post feed, newest first.
func (p *PostProcessor) List(ctx context.Context, params store.ListPostsParams) ([]store.Post, int64, error) {
	posts, total, err := p.store.ListPosts(ctx, params)
	if err != nil {
		p.logger.Error(ctx, "failed to list posts", err)
		return nil, 0, err
	}
	return posts, total, nil
}

// Update edits a post. Only the author may edit.
func (p *PostProcessor) Update(ctx context.Context, actor Actor, id primitive.ObjectID, params store.UpdatePostParams) (store.Post, error) {
	post, err := p.store.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Post{}, ErrPostNotFound
		}
		p.logger.Error(ctx, "failed to get post", err)
		return store.Post{}, err
	}
	if post.CreatorID != actor.ID {
		return store.Post{}, ErrNotPostOwner
	}

	updated, err := p.store.UpdatePost(ctx, id, params)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Post{}, ErrPostNotFound
		}
		p.logger.Error(ctx, "failed to update post", err)
		return store.Post{}, err
	}
	return updated, nil
}

// Delete soft-deletes a post. The author or an admin may delete; interaction
// records are kept.
func (p *PostProcessor) Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	post, err := p.store.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		p.logger.Error(ctx, "failed to get post", err)
		return err
	}
	if post.CreatorID != actor.ID && !actor.isAdmin() {
		return ErrNotPostOwner
	}
	if err := p.store.SoftDeletePost(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		p.logger.Error(ctx, "failed to delete post", err)
		return err
	}
	return nil
}

// Like records a like. Liking twice is rejected.
func (p *PostProcessor) Like(ctx context.Context, actor Actor, postID primitive.ObjectID) error {
	if _, err := p.Get(ctx, postID); err != nil {
		return err
	}
	if err := p.store.LikePost(ctx, postID, actor.ID); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrAlreadyLiked
		}
		p.logger.Error(ctx, "failed to like post", err)
		return err
	}
	return nil
}

// Unlike removes a like.
func (p *PostProcessor) Unlike(ctx context.Context, actor Actor, postID primitive.ObjectID) error {
	if err := p.store.UnlikePost(ctx, postID, actor.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotLiked
		}
		p.logger.Error(ctx, "failed to unlike post", err)
		return err
	}
	return nil
}

// Share records a repost or quote share. Quote shares carry text.
func (p *PostProcessor) Share(ctx context.Context, actor Actor, postID primitive.ObjectID, shareType store.ShareType, text string) (store.PostShare, error) {
	if shareType == store.ShareTypeQuote && strings.TrimSpace(text) == "" {
		return store.PostShare{}, ErrQuoteTextRequired
	}
	if _, err := p.Get(ctx, postID); err != nil {
		return store.PostShare{}, err
	}

	share, err := p.store.SharePost(ctx, store.PostShare{
		PostID:    postID,
		UserID:    actor.ID,
		ShareType: shareType,
		Text:      text,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return store.PostShare{}, ErrAlreadyShared
		}
		p.logger.Error(ctx, "failed to share post", err)
		return store.PostShare{}, err
	}
	return share, nil
}

// Comment adds a comment or a reply. Replies must target a comment on the
// same post.
func (p *PostProcessor) Comment(ctx context.Context, actor Actor, postID primitive.ObjectID, content string, parentCommentID *primitive.ObjectID) (store.PostComment, error) {
	if _, err := p.Get(ctx, postID); err != nil {
		return store.PostComment{}, err
	}
	author, err := p.store.GetUserByID(ctx, actor.ID)
	if err != nil {
		p.logger.Error(ctx, "failed to load comment author", err)
		return store.PostComment{}, err
	}
	if parentCommentID != nil {
		parent, err := p.store.GetCommentByID(ctx, *parentCommentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return store.PostComment{}, ErrCommentNotFound
			}
			p.logger.Error(ctx, "failed to get parent comment", err)
			return store.PostComment{}, err
		}
		if parent.PostID != postID {
			return store.PostComment{}, ErrCommentNotFound
		}
	}

	comment, err := p.store.CreateComment(ctx, store.PostComment{
		PostID:          postID,
		UserID:          author.ID,
		UserName:        author.Name,
		Content:         content,
		ParentCommentID: parentCommentID,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create comment", err)
		return store.PostComment{}, err
	}
	return comment, nil
}

// ListComments returns top-level comments of a post, or the replies of one
// comment when parentID is set.
func (p *PostProcessor) ListComments(ctx context.Context, postID primitive.ObjectID, parentID *primitive.ObjectID, page, pageSize int) ([]store.PostComment, int64, error) {
	comments, total, err := p.store.ListComments(ctx, postID, parentID, page, pageSize)
	if err != nil {
		p.logger.Error(ctx, "failed to list comments", err)
		return nil, 0, err
	}
	return comments, total, nil
}

// TrackView counts one view per viewer. Anonymous viewers are keyed by
// session ID. Returns whether the view was newly counted.
func (p *PostProcessor) TrackView(ctx context.Context, postID primitive.ObjectID, userID *primitive.ObjectID, sessionID string) (bool, error) {
	if _, err := p.Get(ctx, postID); err != nil {
		return false, err
	}
	counted, err := p.store.TrackPostView(ctx, postID, userID, sessionID)
	if err != nil {
		p.logger.Error(ctx, "failed to track post view", err)
		return false, err
	}
	return counted, nil
}

// HasLiked reports whether a user has liked a post.
func (p *PostProcessor) HasLiked(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	liked, err := p.store.HasLiked(ctx, postID, userID)
	if err != nil {
		p.logger.Error(ctx, "failed to check like", err)
		return false, err
	}
	return liked, nil
}
