package processor

import (
	"context"
	"errors"

	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("forbidden")
)

// Actor identifies who is performing an operation.
type Actor struct {
	ID   primitive.ObjectID
	Role store.UserRole
}

func (a Actor) isAdmin() bool {
	return a.Role == store.UserRoleAdmin
}

// UpdateProfileParams are the fields a user may change on their own profile.
// Role, status and reputation are admin-only and carried separately.
type UpdateProfileParams struct {
	Name    *string
	Phone   *string
	Address *string
	Avatar  *string
	Bio     *string
}

// ModerateUserParams are the admin-only account controls.
type ModerateUserParams struct {
	Role       *store.UserRole
	Status     *store.UserStatus
	IsVerified *bool
	Reputation *int
}

type UserProcessor struct {
	store  UserStore
	logger *observability.Logger
}

func New(store UserStore, logger *observability.Logger) UserProcessor {
	return UserProcessor{store: store, logger: logger}
}

// GetUser returns a user's public profile.
func (p *UserProcessor) GetUser(ctx context.Context, id primitive.ObjectID) (store.User, error) {
	user, err := p.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, ErrUserNotFound
		}
		p.logger.Error(ctx, "failed to get user", err)
		return store.User{}, err
	}
	return user, nil
}

// ListUsers is an admin-only directory listing.
func (p *UserProcessor) ListUsers(ctx context.Context, actor Actor, params store.ListUsersParams) ([]store.User, int64, error) {
	if !actor.isAdmin() {
		return nil, 0, ErrForbidden
	}
	users, total, err := p.store.ListUsers(ctx, params)
	if err != nil {
		p.logger.Error(ctx, "failed to list users", err)
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateProfile lets a user edit their own profile; admins may edit anyone.
func (p *UserProcessor) UpdateProfile(ctx context.Context, actor Actor, id primitive.ObjectID, params UpdateProfileParams) (store.User, error) {
	if actor.ID != id && !actor.isAdmin() {
		return store.User{}, ErrForbidden
	}
	user, err := p.store.UpdateUser(ctx, id, store.UpdateUserParams{
		Name:    params.Name,
		Phone:   params.Phone,
		Address: params.Address,
		Avatar:  params.Avatar,
		Bio:     params.Bio,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, ErrUserNotFound
		}
		p.logger.Error(ctx, "failed to update user profile", err)
		return store.User{}, err
	}
	return user, nil
}

// ModerateUser applies admin-only account controls: role, status,
// verification and reputation.
func (p *UserProcessor) ModerateUser(ctx context.Context, actor Actor, id primitive.ObjectID, params ModerateUserParams) (store.User, error) {
	if !actor.isAdmin() {
		return store.User{}, ErrForbidden
	}
	user, err := p.store.UpdateUser(ctx, id, store.UpdateUserParams{
		Role:       params.Role,
		Status:     params.Status,
		IsVerified: params.IsVerified,
		Reputation: params.Reputation,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, ErrUserNotFound
		}
		p.logger.Error(ctx, "failed to moderate user", err)
		return store.User{}, err
	}
	return user, nil
}

// DeleteUser removes an account. Users may delete themselves; admins anyone.
func (p *UserProcessor) DeleteUser(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	if actor.ID != id && !actor.isAdmin() {
		return ErrForbidden
	}
	if err := p.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		p.logger.Error(ctx, "failed to delete user", err)
		return err
	}
	return nil
}
