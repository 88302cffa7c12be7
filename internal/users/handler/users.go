package handler

import (
	"givehub-server/internal/apierrors"
	"givehub-server/internal/apiresponse"
	authHandler "givehub-server/internal/auth/handler"
	authProcessor "givehub-server/internal/auth/processor"
	"givehub-server/internal/observability"
	"givehub-server/internal/store"
	"givehub-server/internal/users/processor"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	userProcessor processor.UserProcessor
	logger        *observability.Logger
}

func New(userProcessor processor.UserProcessor, logger *observability.Logger) Handler {
	return Handler{userProcessor: userProcessor, logger: logger}
}

type UpdateProfileRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Avatar  *string `json:"avatar"`
	Bio     *string `json:"bio" binding:"omitempty,max=1000"`
}

type ModerateUserRequest struct {
	Role       *string `json:"role" binding:"omitempty,oneof=user admin donor organization"`
	Status     *string `json:"status" binding:"omitempty,oneof=active inactive suspended"`
	IsVerified *bool   `json:"isVerified"`
	Reputation *int    `json:"reputation" binding:"omitempty,min=0,max=100"`
}

func (h *Handler) HandleGetUser(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid user id"))
		return
	}
	user, err := h.userProcessor.GetUser(ctx, id)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, user, "User fetched")
}

func (h *Handler) HandleListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}

	page, pageSize := apiresponse.PageQuery(c)
	params := store.ListUsersParams{
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}
	if role := c.Query("role"); role != "" {
		r := store.UserRole(role)
		params.Role = &r
	}
	if status := c.Query("status"); status != "" {
		s := store.UserStatus(status)
		params.Status = &s
	}

	users, total, err := h.userProcessor.ListUsers(ctx, actor, params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, apiresponse.Page{
		Data:       users,
		Pagination: apiresponse.NewPagination(page, pageSize, total),
	}, "Users fetched")
}

func (h *Handler) HandleUpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid user id"))
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	user, err := h.userProcessor.UpdateProfile(ctx, actor, id, processor.UpdateProfileParams{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Avatar:  req.Avatar,
		Bio:     req.Bio,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, user, "Profile updated")
}

func (h *Handler) HandleModerateUser(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid user id"))
		return
	}
	var req ModerateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	params := processor.ModerateUserParams{
		IsVerified: req.IsVerified,
		Reputation: req.Reputation,
	}
	if req.Role != nil {
		r := store.UserRole(*req.Role)
		params.Role = &r
	}
	if req.Status != nil {
		s := store.UserStatus(*req.Status)
		params.Status = &s
	}

	user, err := h.userProcessor.ModerateUser(ctx, actor, id, params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, user, "User updated")
}

func (h *Handler) HandleDeleteUser(c *gin.Context) {
	ctx := c.Request.Context()
	actor, ok := currentActor(c)
	if !ok {
		apierrors.RespondWithError(c, authProcessor.ErrInvalidJWTToken)
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeValidationError, "Invalid user id"))
		return
	}
	if err := h.userProcessor.DeleteUser(ctx, actor, id); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, gin.H{}, "User deleted")
}

func currentActor(c *gin.Context) (processor.Actor, bool) {
	id, ok := authHandler.CurrentUserID(c)
	if !ok {
		return processor.Actor{}, false
	}
	return processor.Actor{ID: id, Role: authHandler.CurrentUserRole(c)}, true
}

