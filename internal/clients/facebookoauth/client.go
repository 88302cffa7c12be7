package facebookoauth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"givehub-server/internal/observability"
)

const graphBaseURL = "https://graph.facebook.com/v19.0"

// Client verifies Facebook access tokens against the Graph API.
type Client struct {
	appID      string
	appSecret  string
	httpClient *http.Client
	logger     *observability.Logger
}

// UserInfo is the identity fetched from the Graph API /me endpoint.
type UserInfo struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

func NewClient(appID, appSecret string, logger *observability.Logger) *Client {
	return &Client{
		appID:      appID,
		appSecret:  appSecret,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type debugTokenResponse struct {
	Data struct {
		AppID   string `json:"app_id"`
		IsValid bool   `json:"is_valid"`
		UserID  string `json:"user_id"`
	} `json:"data"`
}

type meResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

// VerifyAccessToken introspects the token via debug_token and, when valid,
// fetches the holder's profile.
func (c *Client) VerifyAccessToken(ctx context.Context, accessToken string) (UserInfo, error) {
	debugURL := fmt.Sprintf("%s/debug_token?input_token=%s&access_token=%s",
		graphBaseURL,
		url.QueryEscape(accessToken),
		url.QueryEscape(c.appID+"|"+c.appSecret),
	)
	var debug debugTokenResponse
	if err := c.getJSON(ctx, debugURL, &debug); err != nil {
		return UserInfo{}, fmt.Errorf("failed to introspect facebook token: %w", err)
	}
	if !debug.Data.IsValid || debug.Data.AppID != c.appID {
		return UserInfo{}, fmt.Errorf("facebook token is invalid or issued for another app")
	}

	meURL := fmt.Sprintf("%s/me?fields=id,name,email,picture&access_token=%s&appsecret_proof=%s",
		graphBaseURL, url.QueryEscape(accessToken), c.appSecretProof(accessToken))
	var me meResponse
	if err := c.getJSON(ctx, meURL, &me); err != nil {
		return UserInfo{}, fmt.Errorf("failed to fetch facebook profile: %w", err)
	}
	if me.Email == "" {
		return UserInfo{}, fmt.Errorf("facebook profile carries no email")
	}
	return UserInfo{
		ID:      me.ID,
		Email:   me.Email,
		Name:    me.Name,
		Picture: me.Picture.Data.URL,
	}, nil
}

// appSecretProof is the HMAC-SHA256 of the access token keyed with the app
// secret, required by the Graph API when "Require App Secret" is enabled.
func (c *Client) appSecretProof(accessToken string) string {
	mac := hmac.New(sha256.New, []byte(c.appSecret))
	mac.Write([]byte(accessToken))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "facebook graph request failed", err)
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("facebook graph returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
