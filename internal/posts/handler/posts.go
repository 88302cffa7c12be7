package handler

import (
	"givehub-server/internal/apierrors"
	"givehub-server/internal/apiresponse"
	authHandler "givehub-server/internal/auth/handler"
	authProcessor "givehub-server/internal/auth/processor"
	"givehub-server/internal/observability"
	"givehub-server/internal/posts/processor"
	"givehub-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const sessionCookie = "viewerSession"

type Handler struct {
	postProcessor processor.PostProcessor
	logger        *observability.Logger
}

func New(postProcessor processor.PostProcessor, logger *observability.Logger) Handler {
	return Handler{postProcessor: postProcessor, logger: logger}
}

type PostContentRequest struct {
	Text   string   `json:"text" binding:"required,max=5000"`
	Images []string `json:"images" binding:"omitempty,max=10"`
	Videos []string `json:"videos" binding:"omitempty,max=3"`
	Links  []string `json:"links"`
}

type CreatePostRequest struct {
	Content    PostContentRequest `json:"content" binding:"required"`
	CampaignID *string            `json:"campaignId"`
	Visibility string             `json:"visibility" binding:"omitempty,oneof=public followers private"`
	Hashtags   []string           `json:"hashtags"`
	Mentions   []string           `json:"mentions"`
}

type UpdatePostRequest struct {
	Content    *PostContentRequest `json:"content"`
	Visibility *string             `json:"visibility" binding:"omitempty,oneof=public followers private"`
	Hashtags   []string            `json:"hashtags"`
	Mentions   []string            `json:"mentions"`
}

type SharePostRequest struct {
	ShareType string `json:"shareType" binding:"required,oneof=repost quote"`
	Text      string `json:"text" binding:"max=500"`
}

type CommentRequest struct {
	Content         string  `json:"content" binding:"required,max=2000"`
	ParentCommentID *string `json:"parentCommentId"`
}

func (h *Handler) HandleCreatePost(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	params := processor.CreatePostParams{
		Content: store.PostContent{
			Text:   req.Content.Text,
			Images: req.Content.Images,
			Videos: req.Content.Videos,
			Links:  req.Content.Links,
		},
		Visibility: store.PostVisibility(req.Visibility),
		Hashtags:   req.Hashtags,
		Mentions:   req.Mentions,
	}
	if req.CampaignID != nil {
		id, err := primitive.ObjectIDFromHex(*req.CampaignID)
		if err != nil {
			apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid campaign id"))
			return
		}
		params.CampaignID = &id
	}

	post, err := h.postProcessor.Create(ctx, actor, params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.Created(c, post, "Post created")
}

func (h *Handler) HandleGetPost(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := postID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	post, err := h.postProcessor.Get(ctx, id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, post, "Post fetched")
}

func (h *Handler) HandleFeed(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := apiresponse.PageQuery(c)
	params := store.ListPostsParams{
		Search:   c.Query("search"),
		Hashtag:  c.Query("hashtag"),
		Page:     page,
		PageSize: pageSize,
	}
	if v := c.Query("creatorId"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid creator id"))
			return
		}
		params.CreatorID = &id
	}
	if v := c.Query("campaignId"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid campaign id"))
			return
		}
		params.CampaignID = &id
	}
	if v := c.Query("visibility"); v != "" {
		vis := store.PostVisibility(v)
		params.Visibility = &vis
	}

	posts, total, err := h.postProcessor.List(ctx, params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, apiresponse.Feed{
		Items:      posts,
		Pagination: apiresponse.NewFeedPagination(page, pageSize, total),
	}, "Feed fetched")
}

func (h *Handler) HandleUpdatePost(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := postID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	params := store.UpdatePostParams{
		Hashtags: req.Hashtags,
		Mentions: req.Mentions,
	}
	if req.Content != nil {
		params.Content = &store.PostContent{
			Text:   req.Content.Text,
			Images: req.Content.Images,
			Videos: req.Content.Videos,
			Links:  req.Content.Links,
		}
	}
	if req.Visibility != nil {
		vis := store.PostVisibility(*req.Visibility)
		params.Visibility = &vis
	}

	post, err := h.postProcessor.Update(ctx, actor, id, params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, post, "Post updated")
}

func (h *Handler) HandleDeletePost(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := postID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	if err := h.postProcessor.Delete(ctx, actor, id); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, gin.H{}, "Post deleted")
}

func (h *Handler) HandleLikePost(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := postID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	if err := h.postProcessor.Like(ctx, actor, id); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.Created(c, gin.H{}, "Post liked")
}

func (h *Handler) HandleUnlikePost(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := postID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	if err := h.postProcessor.Unlike(ctx, actor, id); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, gin.H{}, "Post unliked")
}

func (h *Handler) HandleSharePost(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := postID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	var req SharePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	share, err := h.postProcessor.Share(ctx, actor, id, store.ShareType(req.ShareType), req.Text)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.Created(c, share, "Post shared")
}

func (h *Handler) HandleCreateComment(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := postID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	var parentID *primitive.ObjectID
	if req.ParentCommentID != nil {
		parsed, err := primitive.ObjectIDFromHex(*req.ParentCommentID)
		if err != nil {
			apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid parent comment id"))
			return
		}
		parentID = &parsed
	}

	comment, err := h.postProcessor.Comment(ctx, actor, id, req.Content, parentID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.Created(c, comment, "Comment created")
}

func (h *Handler) HandleListComments(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := postID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	var parentID *primitive.ObjectID
	if v := c.Query("parentCommentId"); v != "" {
		parsed, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid parent comment id"))
			return
		}
		parentID = &parsed
	}
	page, pageSize := apiresponse.PageQuery(c)
	comments, total, err := h.postProcessor.ListComments(ctx, id, parentID, page, pageSize)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, apiresponse.Page{
		Data:       comments,
		Pagination: apiresponse.NewPagination(page, pageSize, total),
	}, "Comments fetched")
}

// HandleTrackView counts a view for the caller, keyed by user ID when
// authenticated or by a session cookie otherwise. The cookie is issued here
// on first sight.
func (h *Handler) HandleTrackView(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := postID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	var userID *primitive.ObjectID
	sessionID := ""
	if actorID, ok := authHandler.CurrentUserID(c); ok {
		userID = &actorID
	} else {
		sessionID, err = c.Cookie(sessionCookie)
		if err != nil || sessionID == "" {
			sessionID = uuid.NewString()
			c.SetCookie(sessionCookie, sessionID, 60*60*24*365, "/", "", false, true)
		}
	}

	counted, err := h.postProcessor.TrackView(ctx, id, userID, sessionID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, gin.H{"counted": counted}, "View tracked")
}

func postID(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid post id")
	}
	return id, nil
}

func currentActor(c *gin.Context) (processor.Actor, bool) {
	id, ok := authHandler.CurrentUserID(c)
	if !ok {
		return processor.Actor{}, false
	}
	return processor.Actor{ID: id, Role: authHandler.CurrentUserRole(c)}, true
}
