package handler

import (
	"strconv"
	"time"

	"givehub-server/internal/apierrors"
	"givehub-server/internal/apiresponse"
	authHandler "givehub-server/internal/auth/handler"
	authProcessor "givehub-server/internal/auth/processor"
	"givehub-server/internal/campaigns/processor"
	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	campaignProcessor processor.CampaignProcessor
	logger            *observability.Logger
}

func New(campaignProcessor processor.CampaignProcessor, logger *observability.Logger) Handler {
	return Handler{campaignProcessor: campaignProcessor, logger: logger}
}

type MilestoneRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description"`
	Budget       float64 `json:"budget" binding:"required,gt=0"`
	DurationDays int     `json:"durationDays" binding:"required"`
}

type CreateCampaignRequest struct {
	Title        string             `json:"title" binding:"required,min=3,max=200"`
	Description  string             `json:"description" binding:"required"`
	Type         string             `json:"type" binding:"required,oneof=normal emergency"`
	FundingType  string             `json:"fundingType" binding:"required,oneof=fixed flexible"`
	TargetAmount float64            `json:"targetAmount" binding:"required,gt=0"`
	ReviewFee    float64            `json:"reviewFee" binding:"gte=0"`
	Category     string             `json:"category" binding:"required"`
	Tags         []string           `json:"tags"`
	Milestones   []MilestoneRequest `json:"milestones"`
	StartDate    time.Time          `json:"startDate" binding:"required"`
	EndDate      time.Time          `json:"endDate" binding:"required"`
	CoverImage   string             `json:"coverImage"`
	Gallery      []string           `json:"gallery"`
}

type UpdateCampaignRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	Tags        []string   `json:"tags"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	CoverImage  *string    `json:"coverImage"`
	Gallery     []string   `json:"gallery"`
	IsFeatured  *bool      `json:"isFeatured"`
}

type ReviewCampaignRequest struct {
	Approve         bool   `json:"approve"`
	Comments        string `json:"comments"`
	RejectionReason string `json:"rejectionReason"`
}

type TransitionCampaignRequest struct {
	Status string `json:"status" binding:"required,oneof=fundraising implementation completed cancelled"`
}

func (h *Handler) HandleCreateCampaign(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	milestones := make([]processor.MilestoneInput, 0, len(req.Milestones))
	for _, m := range req.Milestones {
		milestones = append(milestones, processor.MilestoneInput{
			Title:        m.Title,
			Description:  m.Description,
			Budget:       m.Budget,
			DurationDays: m.DurationDays,
		})
	}

	campaign, err := h.campaignProcessor.Create(ctx, actor, processor.CreateCampaignParams{
		Title:        req.Title,
		Description:  req.Description,
		Type:         store.CampaignType(req.Type),
		FundingType:  store.FundingType(req.FundingType),
		TargetAmount: req.TargetAmount,
		ReviewFee:    req.ReviewFee,
		Category:     req.Category,
		Tags:         req.Tags,
		Milestones:   milestones,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		CoverImage:   req.CoverImage,
		Gallery:      req.Gallery,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.Created(c, campaign, "Campaign created")
}

func (h *Handler) HandleGetCampaign(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := campaignID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	campaign, err := h.campaignProcessor.Get(ctx, id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, campaign, "Campaign fetched")
}

func (h *Handler) HandleListCampaigns(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := apiresponse.PageQuery(c)
	params := store.ListCampaignsParams{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		SortBy:   c.Query("sortBy"),
		Page:     page,
		PageSize: pageSize,
	}
	if c.Query("sortOrder") == "asc" {
		params.SortOrder = 1
	}
	if v := c.Query("type"); v != "" {
		t := store.CampaignType(v)
		params.Type = &t
	}
	if v := c.Query("fundingType"); v != "" {
		ft := store.FundingType(v)
		params.FundingType = &ft
	}
	if v := c.Query("status"); v != "" {
		s := store.CampaignStatus(v)
		params.Status = &s
	}
	if v := c.Query("creatorId"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid creator id"))
			return
		}
		params.CreatorID = &id
	}
	if v := c.Query("isFeatured"); v != "" {
		featured := v == "true"
		params.IsFeatured = &featured
	}
	if v := c.Query("minTarget"); v != "" {
		if amount, err := strconv.ParseFloat(v, 64); err == nil {
			params.MinTarget = &amount
		}
	}
	if v := c.Query("maxTarget"); v != "" {
		if amount, err := strconv.ParseFloat(v, 64); err == nil {
			params.MaxTarget = &amount
		}
	}
	if v := c.Query("startDateFrom"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			params.StartDateFrom = &t
		}
	}
	if v := c.Query("startDateTo"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			params.StartDateTo = &t
		}
	}

	campaigns, total, err := h.campaignProcessor.List(ctx, params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, apiresponse.Page{
		Data:       campaigns,
		Pagination: apiresponse.NewPagination(page, pageSize, total),
	}, "Campaigns fetched")
}

func (h *Handler) HandleUpdateCampaign(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := campaignID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	var req UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	campaign, err := h.campaignProcessor.Update(ctx, actor, id, store.UpdateCampaignParams{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CoverImage:  req.CoverImage,
		Gallery:     req.Gallery,
		IsFeatured:  req.IsFeatured,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, campaign, "Campaign updated")
}

func (h *Handler) HandleDeleteCampaign(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := campaignID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	if err := h.campaignProcessor.Delete(ctx, actor, id); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, gin.H{}, "Campaign deleted")
}

func (h *Handler) HandleReviewCampaign(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := campaignID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	var req ReviewCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	campaign, err := h.campaignProcessor.Review(ctx, actor, id, req.Approve, req.Comments, req.RejectionReason)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, campaign, "Campaign reviewed")
}

func (h *Handler) HandleTransitionCampaign(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := campaignID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	var req TransitionCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	campaign, err := h.campaignProcessor.Transition(ctx, actor, id, store.CampaignStatus(req.Status))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, campaign, "Campaign status updated")
}

func (h *Handler) HandleFollowCampaign(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := campaignID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	if err := h.campaignProcessor.Follow(ctx, actor.ID, id); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.Created(c, gin.H{}, "Campaign followed")
}

func (h *Handler) HandleUnfollowCampaign(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := campaignID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	if err := h.campaignProcessor.Unfollow(ctx, actor.ID, id); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, gin.H{}, "Campaign unfollowed")
}

func (h *Handler) HandleListFollowers(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := campaignID(c)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	page, pageSize := apiresponse.PageQuery(c)
	follows, total, err := h.campaignProcessor.ListFollowers(ctx, id, page, pageSize)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, apiresponse.Page{
		Data:       follows,
		Pagination: apiresponse.NewPagination(page, pageSize, total),
	}, "Followers fetched")
}

func (h *Handler) HandleListFollowed(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	page, pageSize := apiresponse.PageQuery(c)
	follows, total, err := h.campaignProcessor.ListFollowed(ctx, actor.ID, page, pageSize)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, apiresponse.Page{
		Data:       follows,
		Pagination: apiresponse.NewPagination(page, pageSize, total),
	}, "Followed campaigns fetched")
}

func (h *Handler) HandleReviewQueue(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	campaigns, err := h.campaignProcessor.ReviewQueue(ctx, actor)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, campaigns, "Review queue fetched")
}

func (h *Handler) HandleStatistics(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := h.campaignProcessor.Statistics(ctx)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, stats, "Statistics fetched")
}

func (h *Handler) HandleCategories(c *gin.Context) {
	apiresponse.OK(c, h.campaignProcessor.Categories(), "Categories fetched")
}

func campaignID(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid campaign id")
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
