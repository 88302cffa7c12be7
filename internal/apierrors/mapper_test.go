//go:build !integration

package apierrors

import (
	"errors"
	"net/http"
	"testing"

	authProcessor "givehub-server/internal/auth/processor"
	campaignProcessor "givehub-server/internal/campaigns/processor"
	donationProcessor "givehub-server/internal/donations/processor"
	mediaProcessor "givehub-server/internal/media/processor"
	postProcessor "givehub-server/internal/posts/processor"
	"givehub-server/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError_Nil(t *testing.T) {
	assert.Nil(t, MapError(nil))
}

func TestMapError_PassesThroughAPIError(t *testing.T) {
	original := NotFound(CodeCampaignNotFound, "Campaign not found")

	mapped := MapError(original)

	assert.Same(t, original, mapped)
}

func TestMapError_KnownDomainErrors(t *testing.T) {
	cases := []struct {
		err        error
		statusCode int
		code       string
	}{
		{authProcessor.ErrEmailAlreadyExists, http.StatusConflict, CodeEmailAlreadyExists},
		{authProcessor.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{authProcessor.ErrSocialLoginRequired, http.StatusBadRequest, CodeSocialLoginRequired},
		{authProcessor.ErrInvalidJWTToken, http.StatusUnauthorized, CodeInvalidToken},
		{campaignProcessor.ErrCampaignNotFound, http.StatusNotFound, CodeCampaignNotFound},
		{campaignProcessor.ErrEmergencyReputationTooLow, http.StatusForbidden, CodeEmergencyReputationTooLow},
		{campaignProcessor.ErrMilestoneBudgetMismatch, http.StatusBadRequest, CodeMilestoneBudgetMismatch},
		{campaignProcessor.ErrInvalidStatusTransition, http.StatusBadRequest, CodeInvalidStatusTransition},
		{campaignProcessor.ErrAlreadyFollowed, http.StatusConflict, CodeCampaignAlreadyFollowed},
		{postProcessor.ErrQuoteTextRequired, http.StatusBadRequest, CodeQuoteTextRequired},
		{postProcessor.ErrAlreadyLiked, http.StatusConflict, CodePostAlreadyLiked},
		{mediaProcessor.ErrFileTooLarge, http.StatusBadRequest, CodeFileTooLarge},
		{mediaProcessor.ErrUploadFailed, http.StatusUnprocessableEntity, CodeMediaUploadError},
		{donationProcessor.ErrAmountTooLow, http.StatusBadRequest, CodeDonationAmountTooLow},
		{donationProcessor.ErrDonationNotPending, http.StatusBadRequest, CodeDonationNotPending},
		{store.ErrNotFound, http.StatusNotFound, CodeNotFound},
	}
	for _, tc := range cases {
		mapped := MapError(tc.err)
		require.NotNil(t, mapped, "%v", tc.err)
		assert.Equal(t, tc.statusCode, mapped.StatusCode, "%v", tc.err)
		assert.Equal(t, tc.code, mapped.Code, "%v", tc.err)
	}
}

func TestMapError_WrappedError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), campaignProcessor.ErrNotCampaignOwner)

	mapped := MapError(wrapped)

	assert.Equal(t, http.StatusForbidden, mapped.StatusCode)
	assert.Equal(t, CodeNotCampaignOwner, mapped.Code)
}

func TestMapError_UnknownBecomesInternal(t *testing.T) {
	mapped := MapError(errors.New("driver exploded"))

	assert.Equal(t, http.StatusInternalServerError, mapped.StatusCode)
	assert.Equal(t, CodeInternalError, mapped.Code)
}
