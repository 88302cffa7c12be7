package handler

import (
	"givehub-server/internal/apierrors"
	"givehub-server/internal/apiresponse"
	authHandler "givehub-server/internal/auth/handler"
	authProcessor "givehub-server/internal/auth/processor"
	"givehub-server/internal/donations/processor"
	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	donationProcessor processor.DonationProcessor
	logger            *observability.Logger
}

func New(donationProcessor processor.DonationProcessor, logger *observability.Logger) Handler {
	return Handler{donationProcessor: donationProcessor, logger: logger}
}

type DonateRequest struct {
	CampaignID    string  `json:"campaignId" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Message       string  `json:"message" binding:"max=500"`
	PaymentMethod string  `json:"paymentMethod" binding:"required,oneof=bank_transfer credit_card digital_wallet cash"`
	Anonymous     bool    `json:"anonymous"`
}

type RequestDisbursementRequest struct {
	CampaignID     string `json:"campaignId" binding:"required"`
	MilestoneIndex int    `json:"milestoneIndex" binding:"min=0"`
	Notes          string `json:"notes" binding:"max=1000"`
}

type DecideDisbursementRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes" binding:"max=1000"`
}

type ExpenseItemRequest struct {
	Description string  `json:"description" binding:"required,max=500"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Receipt     string  `json:"receipt"`
}

type SubmitExpenseRequest struct {
	DisbursementID string               `json:"disbursementId" binding:"required"`
	Items          []ExpenseItemRequest `json:"items" binding:"required,min=1,dive"`
	Documents      []string             `json:"documents"`
}

type DecideExpenseRequest struct {
	Accept bool `json:"accept"`
}

func (h *Handler) HandleDonate(c *gin.Context) {
	ctx := c.Request.Context()
	var req DonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	campaignID, err := primitive.ObjectIDFromHex(req.CampaignID)
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid campaign id"))
		return
	}

	params := processor.DonateParams{
		CampaignID:    campaignID,
		Amount:        req.Amount,
		Message:       req.Message,
		PaymentMethod: store.PaymentMethod(req.PaymentMethod),
	}
	if !req.Anonymous {
		if userID, ok := authHandler.CurrentUserID(c); ok {
			params.DonorID = &userID
		}
	}

	donation, err := h.donationProcessor.Donate(ctx, params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.Created(c, donation, "Donation created")
}

func (h *Handler) HandleGetDonation(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := objectID(c, "id", "Invalid donation id")
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	donation, err := h.donationProcessor.Get(ctx, id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, donation, "Donation fetched")
}

func (h *Handler) HandleListDonations(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := apiresponse.PageQuery(c)
	params := store.ListDonationsParams{Page: page, PageSize: pageSize}
	if v := c.Query("campaignId"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid campaign id"))
			return
		}
		params.CampaignID = &id
	}
	if v := c.Query("donorId"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid donor id"))
			return
		}
		params.DonorID = &id
	}
	if v := c.Query("status"); v != "" {
		status := store.DonationStatus(v)
		params.Status = &status
	}

	donations, total, err := h.donationProcessor.List(ctx, params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, apiresponse.Page{
		Data:       donations,
		Pagination: apiresponse.NewPagination(page, pageSize, total),
	}, "Donations fetched")
}

func (h *Handler) HandleCompleteDonation(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := objectID(c, "id", "Invalid donation id")
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	donation, err := h.donationProcessor.Complete(ctx, actor, id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, donation, "Donation completed")
}

func (h *Handler) HandleFailDonation(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := objectID(c, "id", "Invalid donation id")
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	donation, err := h.donationProcessor.Fail(ctx, actor, id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, donation, "Donation marked failed")
}

func (h *Handler) HandleRefundDonation(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := objectID(c, "id", "Invalid donation id")
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	donation, err := h.donationProcessor.Refund(ctx, actor, id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, donation, "Donation refunded")
}

func (h *Handler) HandleRequestDisbursement(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	var req RequestDisbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	campaignID, err := primitive.ObjectIDFromHex(req.CampaignID)
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid campaign id"))
		return
	}

	disbursement, err := h.donationProcessor.RequestDisbursement(ctx, actor, campaignID, req.MilestoneIndex, req.Notes)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.Created(c, disbursement, "Disbursement requested")
}

func (h *Handler) HandleListDisbursements(c *gin.Context) {
	ctx := c.Request.Context()
	campaignID, err := objectID(c, "id", "Invalid campaign id")
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	disbursements, err := h.donationProcessor.ListDisbursements(ctx, campaignID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, disbursements, "Disbursements fetched")
}

func (h *Handler) HandleDecideDisbursement(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := objectID(c, "id", "Invalid disbursement id")
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	var req DecideDisbursementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	disbursement, err := h.donationProcessor.DecideDisbursement(ctx, actor, id, req.Approve, req.Notes)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, disbursement, "Disbursement decided")
}

func (h *Handler) HandleSubmitExpense(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	var req SubmitExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	disbursementID, err := primitive.ObjectIDFromHex(req.DisbursementID)
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid disbursement id"))
		return
	}

	items := make([]store.ExpenseItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, store.ExpenseItem{
			Description: item.Description,
			Amount:      item.Amount,
			Receipt:     item.Receipt,
		})
	}

	report, err := h.donationProcessor.SubmitExpense(ctx, actor, processor.SubmitExpenseParams{
		DisbursementID: disbursementID,
		Items:          items,
		Documents:      req.Documents,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.Created(c, report, "Expense report submitted")
}

func (h *Handler) HandleListExpenses(c *gin.Context) {
	ctx := c.Request.Context()
	campaignID, err := objectID(c, "id", "Invalid campaign id")
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	reports, err := h.donationProcessor.ListExpenses(ctx, campaignID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, reports, "Expense reports fetched")
}

func (h *Handler) HandleDecideExpense(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := objectID(c, "id", "Invalid expense report id")
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	var req DecideExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	report, err := h.donationProcessor.DecideExpense(ctx, actor, id, req.Accept)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, report, "Expense report decided")
}

func objectID(c *gin.Context, param, message string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		return primitive.NilObjectID, apierrors.BadRequest(apierrors.CodeValidationError, message)
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
