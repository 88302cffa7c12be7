package api

import (
	"net/http"

	authHandler "givehub-server/internal/auth/handler"
	campaignHandler "givehub-server/internal/campaigns/handler"
	donationHandler "givehub-server/internal/donations/handler"
	mediaHandler "givehub-server/internal/media/handler"
	postHandler "givehub-server/internal/posts/handler"
	progressHandler "givehub-server/internal/progress/handler"
	userHandler "givehub-server/internal/users/handler"

	"github.com/gin-gonic/gin"
)

// API holds the router and all route handlers
type API struct {
	router *gin.RouterGroup

	authHandler     authHandler.Handler
	userHandler     userHandler.Handler
	campaignHandler campaignHandler.Handler
	progressHandler progressHandler.Handler
	postHandler     postHandler.Handler
	mediaHandler    mediaHandler.Handler
	donationHandler donationHandler.Handler
}

func New(
	router *gin.RouterGroup,
	authHandler authHandler.Handler,
	userHandler userHandler.Handler,
	campaignHandler campaignHandler.Handler,
	progressHandler progressHandler.Handler,
	postHandler postHandler.Handler,
	mediaHandler mediaHandler.Handler,
	donationHandler donationHandler.Handler,
) *API {
	return &API{
		router:          router,
		authHandler:     authHandler,
		userHandler:     userHandler,
		campaignHandler: campaignHandler,
		progressHandler: progressHandler,
		postHandler:     postHandler,
		mediaHandler:    mediaHandler,
		donationHandler: donationHandler,
	}
}

// RegisterRoutes registers all API routes
func (a *API) RegisterRoutes() {
	a.Health()

	apiGroup := a.router.Group("/api")

	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/register", a.authHandler.HandleRegister)
		authGroup.POST("/login", a.authHandler.HandleLogin)
		authGroup.POST("/refresh", a.authHandler.HandleRefresh)
		authGroup.POST("/google", a.authHandler.HandleGoogleLogin)
		authGroup.POST("/facebook", a.authHandler.HandleFacebookLogin)
	}

	// Publicly readable resources
	apiGroup.GET("/campaigns", a.campaignHandler.HandleListCampaigns)
	apiGroup.GET("/campaigns/categories", a.campaignHandler.HandleCategories)
	apiGroup.GET("/campaigns/statistics", a.campaignHandler.HandleStatistics)
	apiGroup.GET("/campaigns/:id", a.campaignHandler.HandleGetCampaign)
	apiGroup.GET("/campaigns/:id/followers", a.campaignHandler.HandleListFollowers)
	apiGroup.GET("/campaigns/:id/disbursements", a.donationHandler.HandleListDisbursements)
	apiGroup.GET("/campaigns/:id/expenses", a.donationHandler.HandleListExpenses)

	apiGroup.GET("/campaigns/:id/milestones/:index", a.progressHandler.HandleMilestoneSummary)

	apiGroup.GET("/progress", a.progressHandler.HandleListProgress)
	apiGroup.GET("/progress/:id", a.progressHandler.HandleGetProgress)

	apiGroup.GET("/posts", a.postHandler.HandleFeed)
	apiGroup.GET("/posts/:id", a.postHandler.HandleGetPost)
	apiGroup.GET("/posts/:id/comments", a.postHandler.HandleListComments)
	apiGroup.POST("/posts/:id/views", a.postHandler.HandleTrackView)

	apiGroup.GET("/media/:id", a.mediaHandler.HandleGetMedia)

	apiGroup.POST("/donations", a.donationHandler.HandleDonate)
	apiGroup.GET("/donations", a.donationHandler.HandleListDonations)
	apiGroup.GET("/donations/:id", a.donationHandler.HandleGetDonation)

	protectedGroup := apiGroup.Group("/protected", a.authHandler.HandleJWTMiddleware)
	{
		protectedGroup.GET("/profile", a.authHandler.HandleProfile)
		protectedGroup.POST("/logout", a.authHandler.HandleLogout)

		protectedGroup.GET("/users", a.userHandler.HandleListUsers)
		protectedGroup.GET("/users/:id", a.userHandler.HandleGetUser)
		protectedGroup.PATCH("/users/:id", a.userHandler.HandleUpdateProfile)
		protectedGroup.PATCH("/users/:id/moderate", a.userHandler.HandleModerateUser)
		protectedGroup.DELETE("/users/:id", a.userHandler.HandleDeleteUser)

		protectedGroup.POST("/campaigns", a.campaignHandler.HandleCreateCampaign)
		protectedGroup.PATCH("/campaigns/:id", a.campaignHandler.HandleUpdateCampaign)
		protectedGroup.DELETE("/campaigns/:id", a.campaignHandler.HandleDeleteCampaign)
		protectedGroup.GET("/campaigns/review-queue", a.campaignHandler.HandleReviewQueue)
		protectedGroup.POST("/campaigns/:id/review", a.campaignHandler.HandleReviewCampaign)
		protectedGroup.POST("/campaigns/:id/transition", a.campaignHandler.HandleTransitionCampaign)
		protectedGroup.POST("/campaigns/:id/follow", a.campaignHandler.HandleFollowCampaign)
		protectedGroup.DELETE("/campaigns/:id/follow", a.campaignHandler.HandleUnfollowCampaign)
		protectedGroup.GET("/campaigns/followed", a.campaignHandler.HandleListFollowed)

		protectedGroup.POST("/progress", a.progressHandler.HandleCreateProgress)
		protectedGroup.DELETE("/progress/:id", a.progressHandler.HandleDeleteProgress)

		protectedGroup.POST("/posts", a.postHandler.HandleCreatePost)
		protectedGroup.PATCH("/posts/:id", a.postHandler.HandleUpdatePost)
		protectedGroup.DELETE("/posts/:id", a.postHandler.HandleDeletePost)
		protectedGroup.POST("/posts/:id/like", a.postHandler.HandleLikePost)
		protectedGroup.DELETE("/posts/:id/like", a.postHandler.HandleUnlikePost)
		protectedGroup.POST("/posts/:id/share", a.postHandler.HandleSharePost)
		protectedGroup.POST("/posts/:id/comments", a.postHandler.HandleCreateComment)

		protectedGroup.POST("/media", a.mediaHandler.HandleUpload)
		protectedGroup.GET("/media", a.mediaHandler.HandleListMedia)
		protectedGroup.PATCH("/media/:id", a.mediaHandler.HandleUpdateMedia)
		protectedGroup.DELETE("/media/:id", a.mediaHandler.HandleDeleteMedia)
		protectedGroup.GET("/media/:id/signed-url", a.mediaHandler.HandleSignedURL)

		protectedGroup.POST("/donations/:id/complete", a.donationHandler.HandleCompleteDonation)
		protectedGroup.POST("/donations/:id/fail", a.donationHandler.HandleFailDonation)
		protectedGroup.POST("/donations/:id/refund", a.donationHandler.HandleRefundDonation)

		protectedGroup.POST("/disbursements", a.donationHandler.HandleRequestDisbursement)
		protectedGroup.POST("/disbursements/:id/decide", a.donationHandler.HandleDecideDisbursement)

		protectedGroup.POST("/expenses", a.donationHandler.HandleSubmitExpense)
		protectedGroup.POST("/expenses/:id/decide", a.donationHandler.HandleDecideExpense)
	}
}

// Health registers the health check route
func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
