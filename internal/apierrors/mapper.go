package apierrors

import (
	"errors"

	authProcessor "givehub-server/internal/auth/processor"
	campaignProcessor "givehub-server/internal/campaigns/processor"
	donationProcessor "givehub-server/internal/donations/processor"
	mediaProcessor "givehub-server/internal/media/processor"
	postProcessor "givehub-server/internal/posts/processor"
	progressProcessor "givehub-server/internal/progress/processor"
	"givehub-server/internal/store"
	userProcessor "givehub-server/internal/users/processor"
)

// MapError converts domain/processor errors to APIErrors.
// This function centralizes all error mapping logic to ensure consistent
// error responses across the entire API.
//
// If the error is already an APIError, it returns it as-is.
// If the error is a known domain error, it maps it to an appropriate APIError.
// If the error is unknown, it returns a sanitized InternalError (500).
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	// Check if already an APIError
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	// Auth processor errors
	case errors.Is(err, authProcessor.ErrEmailAlreadyExists):
		return Conflict(CodeEmailAlreadyExists, "Email already exists")

	case errors.Is(err, authProcessor.ErrInvalidCredentials):
		return Unauthorized(CodeInvalidCredentials, "Invalid email or password")

	case errors.Is(err, authProcessor.ErrSocialLoginRequired):
		return BadRequest(CodeSocialLoginRequired, "This account uses social sign-in; password login is unavailable")

	case errors.Is(err, authProcessor.ErrUserBanned):
		return Forbidden(CodeUserBanned, "This account is not active")

	case errors.Is(err, authProcessor.ErrInvalidRefreshToken):
		return Unauthorized(CodeInvalidToken, "Invalid or expired refresh token")

	case errors.Is(err, authProcessor.ErrOAuthFailed):
		return Unauthorized(CodeOAuthFailed, "Social sign-in could not be verified")

	case errors.Is(err, authProcessor.ErrInvalidJWTToken),
		errors.Is(err, authProcessor.ErrParseJWTToken):
		return Unauthorized(CodeInvalidToken, "Authorization token is missing or invalid")

	case errors.Is(err, authProcessor.ErrUserNotFound):
		return NotFound(CodeUserNotFound, "User not found")

	// User processor errors
	case errors.Is(err, userProcessor.ErrUserNotFound):
		return NotFound(CodeUserNotFound, "User not found")

	case errors.Is(err, userProcessor.ErrForbidden):
		return Forbidden(CodeForbidden, "You do not have access to this user")

	// Campaign processor errors
	case errors.Is(err, campaignProcessor.ErrCampaignNotFound):
		return NotFound(CodeCampaignNotFound, "Campaign not found")

	case errors.Is(err, campaignProcessor.ErrCreatorNotFound):
		return NotFound(CodeCampaignCreatorNotFound, "Campaign creator not found")

	case errors.Is(err, campaignProcessor.ErrEmergencyReputationTooLow):
		return Forbidden(CodeEmergencyReputationTooLow, "Emergency campaigns require a reputation of at least 60")

	case errors.Is(err, campaignProcessor.ErrEmergencyMultipleMilestones):
		return BadRequest(CodeEmergencyMultipleMilestones, "Emergency campaigns can have at most one milestone")

	case errors.Is(err, campaignProcessor.ErrMilestoneBudgetMismatch):
		return BadRequest(CodeMilestoneBudgetMismatch, "Milestone budgets must add up to the campaign target amount")

	case errors.Is(err, campaignProcessor.ErrMilestoneDurationInvalid):
		return BadRequest(CodeMilestoneDurationInvalid, "Milestone duration must be between 1 and 365 days")

	case errors.Is(err, campaignProcessor.ErrEndDateBeforeStart):
		return BadRequest(CodeEndDateBeforeStart, "Campaign end date must be after the start date")

	case errors.Is(err, campaignProcessor.ErrActiveCampaignLimit):
		return BadRequest(CodeActiveCampaignLimitExceeded, "Open campaign limit reached for this account")

	case errors.Is(err, campaignProcessor.ErrInvalidStatusTransition):
		return BadRequest(CodeInvalidStatusTransition, "Invalid campaign status transition")

	case errors.Is(err, campaignProcessor.ErrNotCampaignOwner):
		return Forbidden(CodeNotCampaignOwner, "You do not have access to this campaign")

	case errors.Is(err, campaignProcessor.ErrCampaignNotEditable):
		return BadRequest(CodeCampaignNotEditable, "Campaign can no longer be edited")

	case errors.Is(err, campaignProcessor.ErrCampaignHasDonations):
		return BadRequest(CodeCampaignHasDonations, "Campaigns with donations cannot be deleted")

	case errors.Is(err, campaignProcessor.ErrRejectionReasonRequired):
		return BadRequest(CodeRejectionReasonRequired, "A rejection reason is required")

	case errors.Is(err, campaignProcessor.ErrAlreadyFollowed):
		return Conflict(CodeCampaignAlreadyFollowed, "Campaign is already followed")

	case errors.Is(err, campaignProcessor.ErrNotFollowed):
		return BadRequest(CodeCampaignNotFollowed, "Campaign is not followed")

	case errors.Is(err, campaignProcessor.ErrForbidden):
		return Forbidden(CodeForbidden, "You do not have access to this campaign")

	// Progress processor errors
	case errors.Is(err, progressProcessor.ErrProgressNotFound):
		return NotFound(CodeProgressNotFound, "Progress update not found")

	case errors.Is(err, progressProcessor.ErrCampaignNotFound):
		return NotFound(CodeCampaignNotFound, "Campaign not found")

	case errors.Is(err, progressProcessor.ErrCampaignNotImplementing):
		return BadRequest(CodeCampaignNotImplementing, "Progress can only be reported while the campaign is in implementation")

	case errors.Is(err, progressProcessor.ErrMilestoneNotFound):
		return NotFound(CodeProgressMilestoneNotFound, "Milestone not found")

	case errors.Is(err, progressProcessor.ErrMilestoneNotActive):
		return BadRequest(CodeMilestoneNotActive, "Milestone is not active")

	case errors.Is(err, progressProcessor.ErrInvalidPercentage):
		return BadRequest(CodeValidationError, "Progress percentage must be between 0 and 100")

	case errors.Is(err, progressProcessor.ErrNotCampaignOwner):
		return Forbidden(CodeNotCampaignOwner, "Only the campaign creator can report progress")

	case errors.Is(err, progressProcessor.ErrForbidden):
		return Forbidden(CodeForbidden, "You do not have access to this progress update")

	// Post processor errors
	case errors.Is(err, postProcessor.ErrPostNotFound):
		return NotFound(CodePostNotFound, "Post not found")

	case errors.Is(err, postProcessor.ErrCampaignNotFound):
		return NotFound(CodeCampaignNotFound, "Campaign not found")

	case errors.Is(err, postProcessor.ErrAlreadyLiked):
		return Conflict(CodePostAlreadyLiked, "Post is already liked")

	case errors.Is(err, postProcessor.ErrNotLiked):
		return BadRequest(CodePostNotLiked, "Post is not liked")

	case errors.Is(err, postProcessor.ErrAlreadyShared):
		return Conflict(CodePostAlreadyShared, "Post is already shared")

	case errors.Is(err, postProcessor.ErrCommentNotFound):
		return NotFound(CodeCommentNotFound, "Comment not found")

	case errors.Is(err, postProcessor.ErrQuoteTextRequired):
		return BadRequest(CodeQuoteTextRequired, "Quote shares require text")

	case errors.Is(err, postProcessor.ErrNotPostOwner):
		return Forbidden(CodeForbidden, "You do not have access to this post")

	// Media processor errors
	case errors.Is(err, mediaProcessor.ErrMediaNotFound):
		return NotFound(CodeMediaNotFound, "Media not found")

	case errors.Is(err, mediaProcessor.ErrFileTooLarge):
		return BadRequest(CodeFileTooLarge, "File exceeds the maximum allowed size")

	case errors.Is(err, mediaProcessor.ErrInvalidFileType):
		return BadRequest(CodeInvalidFileType, "File type is not allowed")

	case errors.Is(err, mediaProcessor.ErrNotMediaOwner):
		return Forbidden(CodeForbidden, "You do not have access to this media")

	case errors.Is(err, mediaProcessor.ErrUploadFailed):
		return UnprocessableEntity(CodeMediaUploadError, "File upload failed. Please try again.")

	// Donation processor errors
	case errors.Is(err, donationProcessor.ErrDonationNotFound):
		return NotFound(CodeDonationNotFound, "Donation not found")

	case errors.Is(err, donationProcessor.ErrDonationNotPending):
		return BadRequest(CodeDonationNotPending, "Donation has already been decided")

	case errors.Is(err, donationProcessor.ErrCampaignNotFound):
		return NotFound(CodeCampaignNotFound, "Campaign not found")

	case errors.Is(err, donationProcessor.ErrCampaignNotFundraising):
		return BadRequest(CodeDonationCampaignNotActive, "Campaign is not accepting donations")

	case errors.Is(err, donationProcessor.ErrAmountTooLow):
		return BadRequest(CodeDonationAmountTooLow, "Donation amount is below the minimum")

	case errors.Is(err, donationProcessor.ErrDisbursementNotFound):
		return NotFound(CodeDisbursementNotFound, "Disbursement not found")

	case errors.Is(err, donationProcessor.ErrDisbursementNotPending):
		return BadRequest(CodeDisbursementNotPending, "Disbursement has already been decided")

	case errors.Is(err, donationProcessor.ErrMilestoneNotActive):
		return BadRequest(CodeDisbursementNotActive, "Disbursements can only be requested for the active milestone")

	case errors.Is(err, donationProcessor.ErrExpenseNotFound):
		return NotFound(CodeExpenseNotFound, "Expense report not found")

	case errors.Is(err, donationProcessor.ErrExpenseNotSubmitted):
		return BadRequest(CodeExpenseNotSubmitted, "Expense report has already been decided")

	case errors.Is(err, donationProcessor.ErrNotCampaignOwner):
		return Forbidden(CodeNotCampaignOwner, "You do not have access to this campaign")

	case errors.Is(err, donationProcessor.ErrForbidden):
		return Forbidden(CodeForbidden, "You do not have access to this resource")

	// Store errors
	case errors.Is(err, store.ErrNotFound):
		return NotFound(CodeNotFound, "Resource not found")

	default:
		// Unknown error - return sanitized 500
		return InternalError()
	}
}
