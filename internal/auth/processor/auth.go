package processor

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrSocialLoginRequired = errors.New("social login required")
	ErrUserBanned          = errors.New("user is not active")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrOAuthFailed         = errors.New("oauth verification failed")
	ErrUserNotFound        = errors.New("user not found")
)

// AuthConfig holds token issuance settings
type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// TokenPair is an access token plus the rotating refresh token
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthProcessor struct {
	store    AuthStore
	config   AuthConfig
	google   GoogleVerifier
	facebook FacebookVerifier
	logger   *observability.Logger
}

func New(store AuthStore, config AuthConfig, google GoogleVerifier, facebook FacebookVerifier, logger *observability.Logger) AuthProcessor {
	return AuthProcessor{
		store:    store,
		config:   config,
		google:   google,
		facebook: facebook,
		logger:   logger,
	}
}

// Register creates a local-credential account and signs the user in.
func (p *AuthProcessor) Register(ctx context.Context, name, email, password, phone string) (store.User, TokenPair, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "email", Value: email})
	exists, err := p.store.EmailExists(ctx, email)
	if err != nil {
		p.logger.Error(ctx, "failed to check if email exists", err)
		return store.User{}, TokenPair{}, err
	}
	if exists {
		return store.User{}, TokenPair{}, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		p.logger.Error(ctx, "failed to hash password", err)
		return store.User{}, TokenPair{}, err
	}

	user, err := p.store.CreateUser(ctx, store.CreateUserParams{
		Name:           name,
		Email:          email,
		HashedPassword: string(hashedPassword),
		Phone:          phone,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return store.User{}, TokenPair{}, ErrEmailAlreadyExists
		}
		p.logger.Error(ctx, "failed to create user", err)
		return store.User{}, TokenPair{}, err
	}

	tokens, err := p.issueTokens(ctx, user)
	if err != nil {
		return store.User{}, TokenPair{}, err
	}
	return user, tokens, nil
}

// Login authenticates local credentials and issues a token pair. Accounts
// created through social sign-in carry no password and must keep using it.
func (p *AuthProcessor) Login(ctx context.Context, email, password string) (store.User, TokenPair, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "email", Value: email})
	user, err := p.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, TokenPair{}, ErrInvalidCredentials
		}
		p.logger.Error(ctx, "failed to get user by email", err)
		return store.User{}, TokenPair{}, err
	}
	if user.Password == "" {
		return store.User{}, TokenPair{}, ErrSocialLoginRequired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return store.User{}, TokenPair{}, ErrInvalidCredentials
	}
	if user.Status != store.UserStatusActive {
		return store.User{}, TokenPair{}, ErrUserBanned
	}

	if err := p.store.UpdateLastLogin(ctx, user.ID); err != nil {
		p.logger.Error(ctx, "failed to update last login", err)
		return store.User{}, TokenPair{}, err
	}
	tokens, err := p.issueTokens(ctx, user)
	if err != nil {
		return store.User{}, TokenPair{}, err
	}
	return user, tokens, nil
}

// Refresh rotates the refresh token: the presented token must match the one
// stored on the user and be unexpired, and is replaced on every call.
func (p *AuthProcessor) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	user, err := p.store.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		p.logger.Error(ctx, "failed to look up refresh token", err)
		return TokenPair{}, err
	}
	if user.Status != store.UserStatusActive {
		return TokenPair{}, ErrUserBanned
	}
	return p.issueTokens(ctx, user)
}

// Logout invalidates the stored refresh token.
func (p *AuthProcessor) Logout(ctx context.Context, userID primitive.ObjectID) error {
	if err := p.store.ClearRefreshToken(ctx, userID); err != nil {
		p.logger.Error(ctx, "failed to clear refresh token", err)
		return err
	}
	return nil
}

// GetUserByID returns the account behind an authenticated request.
func (p *AuthProcessor) GetUserByID(ctx context.Context, userID primitive.ObjectID) (store.User, error) {
	user, err := p.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, ErrUserNotFound
		}
		p.logger.Error(ctx, "failed to get user by id", err)
		return store.User{}, err
	}
	return user, nil
}

// LoginWithGoogle verifies a Google ID token and signs the holder in,
// creating the account on first sight and linking the provider idempotently.
func (p *AuthProcessor) LoginWithGoogle(ctx context.Context, idToken string) (store.User, TokenPair, error) {
	info, err := p.google.VerifyIDToken(ctx, idToken)
	if err != nil {
		p.logger.Error(ctx, "google token verification failed", err)
		return store.User{}, TokenPair{}, ErrOAuthFailed
	}

	return p.signInExternal(ctx, info.Email, info.Name, info.Picture, func(userID primitive.ObjectID) error {
		return p.store.LinkGoogleProvider(ctx, userID, store.GoogleProviderInfo{
			Sub:     info.Sub,
			Email:   info.Email,
			Name:    info.Name,
			Picture: info.Picture,
		})
	})
}

// LoginWithFacebook verifies a Facebook access token and signs the holder in.
func (p *AuthProcessor) LoginWithFacebook(ctx context.Context, accessToken string) (store.User, TokenPair, error) {
	info, err := p.facebook.VerifyAccessToken(ctx, accessToken)
	if err != nil {
		p.logger.Error(ctx, "facebook token verification failed", err)
		return store.User{}, TokenPair{}, ErrOAuthFailed
	}

	return p.signInExternal(ctx, info.Email, info.Name, info.Picture, func(userID primitive.ObjectID) error {
		return p.store.LinkFacebookProvider(ctx, userID, store.FacebookProviderInfo{
			ID:      info.ID,
			Email:   info.Email,
			Name:    info.Name,
			Picture: info.Picture,
		})
	})
}

// signInExternal finds or creates the account for a verified external
// identity, links the provider and issues tokens.
func (p *AuthProcessor) signInExternal(ctx context.Context, email, name, picture string, link func(primitive.ObjectID) error) (store.User, TokenPair, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "email", Value: email})

	user, err := p.store.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			p.logger.Error(ctx, "failed to get user by email", err)
			return store.User{}, TokenPair{}, err
		}
		user, err = p.store.CreateUser(ctx, store.CreateUserParams{
			Name:   name,
			Email:  email,
			Avatar: picture,
		})
		if err != nil {
			p.logger.Error(ctx, "failed to create user on social sign-in", err)
			return store.User{}, TokenPair{}, err
		}
	}
	if user.Status != store.UserStatusActive {
		return store.User{}, TokenPair{}, ErrUserBanned
	}

	if err := link(user.ID); err != nil {
		p.logger.Error(ctx, "failed to link provider", err)
		return store.User{}, TokenPair{}, err
	}
	if err := p.store.UpdateLastLogin(ctx, user.ID); err != nil {
		p.logger.Error(ctx, "failed to update last login", err)
		return store.User{}, TokenPair{}, err
	}

	tokens, err := p.issueTokens(ctx, user)
	if err != nil {
		return store.User{}, TokenPair{}, err
	}
	return user, tokens, nil
}

// issueTokens creates the JWT access token and a fresh refresh token,
// overwriting any previously stored refresh token.
func (p *AuthProcessor) issueTokens(ctx context.Context, user store.User) (TokenPair, error) {
	accessToken, err := p.generateJWTToken(user)
	if err != nil {
		p.logger.Error(ctx, "failed to generate jwt token", err)
		return TokenPair{}, err
	}

	raw := make([]byte, 64)
	if _, err := rand.Read(raw); err != nil {
		p.logger.Error(ctx, "failed to generate refresh token", err)
		return TokenPair{}, err
	}
	refreshToken := hex.EncodeToString(raw)
	expiresAt := time.Now().UTC().Add(p.config.RefreshTokenTTL)
	if err := p.store.SetRefreshToken(ctx, user.ID, refreshToken, expiresAt); err != nil {
		p.logger.Error(ctx, "failed to store refresh token", err)
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
