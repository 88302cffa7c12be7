package handler

import (
	"strings"

	"givehub-server/internal/apierrors"
	"givehub-server/internal/apiresponse"
	"givehub-server/internal/auth/processor"
	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	userIDKey   = "User-ID"
	userRoleKey = "User-Role"

	accessTokenCookie = "accessToken"
)

type Handler struct {
	authProcessor processor.AuthProcessor
	logger        *observability.Logger
}

func New(authProcessor processor.AuthProcessor, logger *observability.Logger) Handler {
	return Handler{authProcessor: authProcessor, logger: logger}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone" binding:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

type FacebookLoginRequest struct {
	AccessToken string `json:"accessToken" binding:"required"`
}

// AuthPayload is the response body for register/login/social sign-in.
type AuthPayload struct {
	User         store.User `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
}

func (h *Handler) HandleRegister(c *gin.Context) {
	var req RegisterRequest
	ctx := c.Request.Context()
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	user, tokens, err := h.authProcessor.Register(ctx, req.Name, req.Email, req.Password, req.Phone)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.Created(c, AuthPayload{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, "Registered successfully")
}

func (h *Handler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	ctx := c.Request.Context()
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	user, tokens, err := h.authProcessor.Login(ctx, req.Email, req.Password)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, AuthPayload{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, "Logged in successfully")
}

func (h *Handler) HandleRefresh(c *gin.Context) {
	var req RefreshRequest
	ctx := c.Request.Context()
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	tokens, err := h.authProcessor.Refresh(ctx, req.RefreshToken)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, tokens, "Token refreshed")
}

func (h *Handler) HandleLogout(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := CurrentUserID(c)
	if !ok {
		apierrors.RespondWithError(c, processor.ErrInvalidJWTToken)
		return
	}
	if err := h.authProcessor.Logout(ctx, userID); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, gin.H{}, "Logged out successfully")
}

func (h *Handler) HandleGoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	ctx := c.Request.Context()
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	user, tokens, err := h.authProcessor.LoginWithGoogle(ctx, req.IDToken)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, AuthPayload{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, "Logged in successfully")
}

func (h *Handler) HandleFacebookLogin(c *gin.Context) {
	var req FacebookLoginRequest
	ctx := c.Request.Context()
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}
	user, tokens, err := h.authProcessor.LoginWithFacebook(ctx, req.AccessToken)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, AuthPayload{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, "Logged in successfully")
}

func (h *Handler) HandleProfile(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := CurrentUserID(c)
	if !ok {
		apierrors.RespondWithError(c, processor.ErrInvalidJWTToken)
		return
	}
	user, err := h.authProcessor.GetUserByID(ctx, userID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	apiresponse.OK(c, user, "Profile fetched")
}

// HandleJWTMiddleware authenticates requests from either the Authorization
// header or the accessToken cookie and stores the caller's identity in the
// gin context.
func (h *Handler) HandleJWTMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	tokenString := ""
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		tokenString = strings.TrimPrefix(header, "Bearer ")
	} else if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		tokenString = cookie
	}
	if tokenString == "" {
		apierrors.RespondWithError(c, processor.ErrInvalidJWTToken)
		c.Abort()
		return
	}

	claims, err := h.authProcessor.ValidateJWTToken(ctx, tokenString)
	if err != nil {
		apierrors.RespondWithError(c, err)
		c.Abort()
		return
	}
	sub, err := claims.GetSubject()
	if err != nil {
		apierrors.RespondWithError(c, processor.ErrParseJWTToken)
		c.Abort()
		return
	}
	c.Set(userIDKey, sub)
	c.Set(userRoleKey, claims.Role)
	c.Next()
}

// CurrentUserID returns the authenticated user's ID from the gin context.
func CurrentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	raw, ok := c.Get(userIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	hexID, ok := raw.(string)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// CurrentUserRole returns the authenticated user's role from the gin context.
func CurrentUserRole(c *gin.Context) store.UserRole {
	raw, ok := c.Get(userRoleKey)
	if !ok {
		return ""
	}
	role, ok := raw.(string)
	if !ok {
		return ""
	}
	return store.UserRole(role)
}
