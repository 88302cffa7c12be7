package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"givehub-server/internal/store"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidJWTToken = errors.New("invalid jwt token")
	ErrParseJWTToken   = errors.New("failed to parse jwt token")
)

// BaseClaims are the claims carried in every access token.
type BaseClaims struct {
	ExpirationTime *jwt.NumericDate `json:"exp"`
	IssuedAt       *jwt.NumericDate `json:"iat"`
	NotBefore      *jwt.NumericDate `json:"nbf,omitempty"`
	Issuer         string           `json:"iss"`
	Subject        string           `json:"sub"`
	Audience       jwt.ClaimStrings `json:"aud"`
	Email          string           `json:"email"`
	Role           string           `json:"role"`
}

func (b *BaseClaims) GetExpirationTime() (*jwt.NumericDate, error) { return b.ExpirationTime, nil }
func (b *BaseClaims) GetIssuedAt() (*jwt.NumericDate, error)       { return b.IssuedAt, nil }
func (b *BaseClaims) GetNotBefore() (*jwt.NumericDate, error)      { return b.NotBefore, nil }
func (b *BaseClaims) GetIssuer() (string, error)                   { return b.Issuer, nil }
func (b *BaseClaims) GetSubject() (string, error)                  { return b.Subject, nil }
func (b *BaseClaims) GetAudience() (jwt.ClaimStrings, error)       { return b.Audience, nil }

func (p *AuthProcessor) generateJWTToken(user store.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.Hex(),
		"email": user.Email,
		"role":  string(user.Role),
		"iss":   "givehub-server",
		"aud":   "givehub-server",
		"exp":   now.Add(p.config.AccessTokenTTL).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(p.config.JWTSecret))
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ValidateJWTToken parses and verifies an access token.
func (p *AuthProcessor) ValidateJWTToken(ctx context.Context, token string) (BaseClaims, error) {
	var baseClaims BaseClaims
	t, err := jwt.ParseWithClaims(token, &baseClaims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(p.config.JWTSecret), nil
	})
	if err != nil {
		return BaseClaims{}, ErrParseJWTToken
	}
	if !t.Valid {
		return BaseClaims{}, ErrInvalidJWTToken
	}

	claims, ok := t.Claims.(*BaseClaims)
	if !ok {
		return BaseClaims{}, ErrParseJWTToken
	}
	return *claims, nil
}
