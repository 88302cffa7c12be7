package apierrors

// Stable machine-readable error codes. These are part of the public API
// contract; clients switch on them, so existing values must never change.
const (
	// Common
	CodeValidationError = "COMMON_VALIDATION_ERROR"
	CodeInternalError   = "COMMON_INTERNAL_SERVER_ERROR"
	CodeNotFound        = "COMMON_NOT_FOUND"
	CodeForbidden       = "COMMON_FORBIDDEN"
	CodeUnauthorized    = "COMMON_UNAUTHORIZED"

	// Auth / users
	CodeEmailAlreadyExists  = "AUTH_EMAIL_ALREADY_EXISTS"
	CodeInvalidCredentials  = "AUTH_INVALID_CREDENTIALS"
	CodeSocialLoginRequired = "AUTH_SOCIAL_LOGIN_REQUIRED"
	CodeInvalidToken        = "AUTH_INVALID_TOKEN"
	CodeOAuthFailed         = "AUTH_OAUTH_FAILED"
	CodeUserBanned          = "USER_BANNED"
	CodeUserNotFound        = "USER_NOT_FOUND"

	// Campaigns
	CodeCampaignNotFound             = "CAMPAIGN_NOT_FOUND"
	CodeCampaignCreatorNotFound      = "CAMPAIGN_CREATOR_NOT_FOUND"
	CodeEmergencyReputationTooLow    = "CAMPAIGN_EMERGENCY_REPUTATION_TOO_LOW"
	CodeEmergencyMultipleMilestones  = "CAMPAIGN_EMERGENCY_MULTIPLE_MILESTONES"
	CodeMilestoneBudgetMismatch      = "CAMPAIGN_MILESTONE_BUDGET_MISMATCH"
	CodeMilestoneDurationInvalid     = "CAMPAIGN_MILESTONE_DURATION_INVALID"
	CodeEndDateBeforeStart           = "CAMPAIGN_END_DATE_BEFORE_START"
	CodeActiveCampaignLimitExceeded  = "CAMPAIGN_ACTIVE_LIMIT_EXCEEDED"
	CodeInvalidStatusTransition      = "CAMPAIGN_INVALID_STATUS_TRANSITION"
	CodeNotCampaignOwner             = "CAMPAIGN_NOT_OWNER"
	CodeCampaignNotEditable          = "CAMPAIGN_CANNOT_EDIT"
	CodeCampaignHasDonations         = "CAMPAIGN_HAS_DONATIONS"
	CodeRejectionReasonRequired      = "CAMPAIGN_REJECTION_REASON_REQUIRED"
	CodeCampaignAlreadyFollowed      = "CAMPAIGN_ALREADY_FOLLOWED"
	CodeCampaignNotFollowed          = "CAMPAIGN_NOT_FOLLOWED"

	// Progress updates
	CodeProgressNotFound          = "PROGRESS_NOT_FOUND"
	CodeCampaignNotImplementing   = "PROGRESS_CAMPAIGN_NOT_IMPLEMENTING"
	CodeProgressMilestoneNotFound = "PROGRESS_MILESTONE_NOT_FOUND"
	CodeMilestoneNotActive        = "PROGRESS_MILESTONE_NOT_ACTIVE"

	// Posts and interactions
	CodePostNotFound      = "POST_NOT_FOUND"
	CodePostAlreadyLiked  = "POST_ALREADY_LIKED"
	CodePostNotLiked      = "POST_NOT_LIKED"
	CodePostAlreadyShared = "POST_ALREADY_SHARED"
	CodeCommentNotFound   = "POST_COMMENT_NOT_FOUND"
	CodeQuoteTextRequired = "POST_QUOTE_TEXT_REQUIRED"

	// Media
	CodeMediaNotFound    = "MEDIA_NOT_FOUND"
	CodeFileTooLarge     = "MEDIA_FILE_TOO_LARGE"
	CodeInvalidFileType  = "MEDIA_INVALID_FILE_TYPE"
	CodeMediaUploadError = "MEDIA_UPLOAD_FAILED"

	// Donations and disbursement
	CodeDonationNotFound          = "DONATION_NOT_FOUND"
	CodeDonationNotPending        = "DONATION_NOT_PENDING"
	CodeDonationCampaignNotActive = "DONATION_CAMPAIGN_NOT_ACTIVE"
	CodeDonationAmountTooLow      = "DONATION_AMOUNT_TOO_LOW"
	CodeDisbursementNotFound      = "DISBURSEMENT_NOT_FOUND"
	CodeDisbursementNotPending    = "DISBURSEMENT_NOT_PENDING"
	CodeDisbursementNotActive     = "DISBURSEMENT_MILESTONE_NOT_ACTIVE"
	CodeExpenseNotFound           = "EXPENSE_NOT_FOUND"
	CodeExpenseNotSubmitted       = "EXPENSE_NOT_SUBMITTED"
)
