package handler

import (
	"strings"

	"givehub-server/internal/apierrors"
	"givehub-server/internal/apiresponse"
	authHandler "givehub-server/internal/auth/handler"
	authProcessor "givehub-server/internal/auth/processor"
	"givehub-server/internal/media/processor"
	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	mediaProcessor processor.MediaProcessor
	logger         *observability.Logger
}

func New(mediaProcessor processor.MediaProcessor, logger *observability.Logger) Handler {
	return Handler{mediaProcessor: mediaProcessor, logger: logger}
}

type UpdateMediaRequest struct {
	Tags        []string `json:"tags"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	IsPublic    *bool    `json:"isPublic"`
}

// HandleUpload accepts a multipart form with a "file" part plus optional
// isPublic, description and tags fields.
func (h *Handler) HandleUpload(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "A file part is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error(ctx, "failed to open uploaded file", err)
		apierrors.RespondWithError(c, err)
		return
	}
	defer file.Close()

	var tags []string
	if raw := c.PostForm("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	media, err := h.mediaProcessor.Upload(ctx, actor, processor.UploadParams{
		File:         file,
		OriginalName: fileHeader.Filename,
		Mimetype:     fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		IsPublic:     c.DefaultPostForm("isPublic", "true") == "true",
		Description:  c.PostForm("description"),
		Tags:         tags,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.Created(c, media, "File uploaded")
}

func (h *Handler) HandleGetMedia(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := mediaID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	media, err := h.mediaProcessor.Get(ctx, id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, media, "Media fetched")
}

func (h *Handler) HandleListMedia(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := apiresponse.PageQuery(c)
	params := store.ListMediaParams{Page: page, PageSize: pageSize}
	if v := c.Query("userId"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid user id"))
			return
		}
		params.UserID = &id
	}
	if v := c.Query("type"); v != "" {
		t := store.MediaType(v)
		params.Type = &t
	}
	if v := c.Query("isPublic"); v != "" {
		public := v == "true"
		params.IsPublic = &public
	}

	media, total, err := h.mediaProcessor.List(ctx, params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, apiresponse.Page{
		Data:       media,
		Pagination: apiresponse.NewPagination(page, pageSize, total),
	}, "Media fetched")
}

func (h *Handler) HandleUpdateMedia(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := mediaID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	var req UpdateMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	media, err := h.mediaProcessor.Update(ctx, actor, id, store.UpdateMediaParams{
		Tags:        req.Tags,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, media, "Media updated")
}

func (h *Handler) HandleDeleteMedia(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := mediaID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	if err := h.mediaProcessor.Delete(ctx, actor, id); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, gin.H{}, "Media deleted")
}

func (h *Handler) HandleSignedURL(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := mediaID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	url, err := h.mediaProcessor.SignedURL(ctx, actor, id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, gin.H{"url": url}, "Signed URL issued")
}

func mediaID(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid media id")
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
