package handler

import (
	"strconv"

	"givehub-server/internal/apierrors"
	"givehub-server/internal/apiresponse"
	authHandler "givehub-server/internal/auth/handler"
	authProcessor "givehub-server/internal/auth/processor"
	"givehub-server/internal/observability"
	"givehub-server/internal/progress/processor"
	"givehub-server/internal/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	progressProcessor processor.ProgressProcessor
	logger            *observability.Logger
}

func New(progressProcessor processor.ProgressProcessor, logger *observability.Logger) Handler {
	return Handler{progressProcessor: progressProcessor, logger: logger}
}

type ProgressMetadataRequest struct {
	WorkCompleted   string `json:"workCompleted"`
	ChallengesFaced string `json:"challengesFaced"`
	NextSteps       string `json:"nextSteps"`
	ResourcesUsed   string `json:"resourcesUsed"`
}

type CreateProgressRequest struct {
	CampaignID         string                   `json:"campaignId" binding:"required"`
	MilestoneIndex     int                      `json:"milestoneIndex" binding:"min=0"`
	Description        string                   `json:"description" binding:"required"`
	ProgressPercentage float64                  `json:"progressPercentage" binding:"min=0,max=100"`
	Images             []string                 `json:"images"`
	Metadata           *ProgressMetadataRequest `json:"metadata"`
}

func (h *Handler) HandleCreateProgress(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	var req CreateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	campaignID, err := primitive.ObjectIDFromHex(req.CampaignID)
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid campaign id"))
		return
	}

	params := processor.CreateProgressParams{
		CampaignID:         campaignID,
		MilestoneIndex:     req.MilestoneIndex,
		Description:        req.Description,
		ProgressPercentage: req.ProgressPercentage,
		Images:             req.Images,
	}
	if req.Metadata != nil {
		params.Metadata = &store.ProgressMetadata{
			WorkCompleted:   req.Metadata.WorkCompleted,
			ChallengesFaced: req.Metadata.ChallengesFaced,
			NextSteps:       req.Metadata.NextSteps,
			ResourcesUsed:   req.Metadata.ResourcesUsed,
		}
	}

	update, err := h.progressProcessor.Create(ctx, actor, params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.Created(c, update, "Progress update created")
}

func (h *Handler) HandleGetProgress(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid progress update id"))
		return
	}
	update, err := h.progressProcessor.Get(ctx, id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, update, "Progress update fetched")
}

func (h *Handler) HandleListProgress(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := apiresponse.PageQuery(c)
	params := store.ListProgressParams{Page: page, PageSize: pageSize}
	if v := c.Query("campaignId"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid campaign id"))
			return
		}
		params.CampaignID = &id
	}
	if v := c.Query("milestoneIndex"); v != "" {
		if index, err := strconv.Atoi(v); err == nil {
			params.MilestoneIndex = &index
		}
	}
	if v := c.Query("isVisible"); v != "" {
		if visible, err := strconv.ParseBool(v); err == nil {
			params.IsVisible = &visible
		}
	}
	if v := c.Query("updatedBy"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid user id"))
			return
		}
		params.UpdatedBy = &id
	}

	updates, total, err := h.progressProcessor.List(ctx, params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, apiresponse.Page{
		Data:       updates,
		Pagination: apiresponse.NewPagination(page, pageSize, total),
	}, "Progress updates fetched")
}

func (h *Handler) HandleMilestoneSummary(c *gin.Context) {
	ctx := c.Request.Context()
	campaignID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid campaign id"))
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid milestone index"))
		return
	}
	summary, err := h.progressProcessor.GetMilestoneSummary(ctx, campaignID, index)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, summary, "Milestone summary fetched")
}

func (h *Handler) HandleDeleteProgress(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid progress update id"))
		return
	}
	if err := h.progressProcessor.Delete(ctx, actor, id); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, gin.H{}, "Progress update deleted")
}

func currentActor(c *gin.Context) (processor.Actor, bool) {
	id, ok := authHandler.CurrentUserID(c)
	if !ok {
		return processor.Actor{}, false
	}
	return processor.Actor{ID: id, Role: authHandler.CurrentUserRole(c)}, true
}
