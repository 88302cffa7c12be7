package googleoauth

import (
	"context"
	"fmt"

	"givehub-server/internal/observability"

	"google.golang.org/api/idtoken"
)

// Client verifies Google ID tokens issued to our OAuth client.
type Client struct {
	clientID string
	logger   *observability.Logger
}

// UserInfo is the identity extracted from a verified ID token.
type UserInfo struct {
	Sub           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

func NewClient(clientID string, logger *observability.Logger) *Client {
	return &Client{clientID: clientID, logger: logger}
}

// VerifyIDToken validates the token signature and audience against our
// client ID and returns the holder's identity claims.
func (c *Client) VerifyIDToken(ctx context.Context, rawToken string) (UserInfo, error) {
	payload, err := idtoken.Validate(ctx, rawToken, c.clientID)
	if err != nil {
		c.logger.Error(ctx, "failed to validate google id token", err)
		return UserInfo{}, fmt.Errorf("failed to validate google id token: %w", err)
	}

	info := UserInfo{Sub: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		info.Email = email
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		info.EmailVerified = verified
	}
	if name, ok := payload.Claims["name"].(string); ok {
		info.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		info.Picture = picture
	}
	if info.Email == "" {
		return UserInfo{}, fmt.Errorf("google id token carries no email claim")
	}
	return info, nil
}
