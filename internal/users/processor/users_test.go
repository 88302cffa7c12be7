//go:build !integration

package processor

import (
	"context"
	"testing"

	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserStore struct {
	getUserByID func(ctx context.Context, id primitive.ObjectID) (store.User, error)
	listUsers   func(ctx context.Context, params store.ListUsersParams) ([]store.User, int64, error)
	updateUser  func(ctx context.Context, id primitive.ObjectID, params store.UpdateUserParams) (store.User, error)
	deleteUser  func(ctx context.Context, id primitive.ObjectID) error
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (store.User, error) {
	return f.getUserByID(ctx, id)
}

func (f *fakeUserStore) ListUsers(ctx context.Context, params store.ListUsersParams) ([]store.User, int64, error) {
	return f.listUsers(ctx, params)
}

func (f *fakeUserStore) UpdateUser(ctx context.Context, id primitive.ObjectID, params store.UpdateUserParams) (store.User, error) {
	return f.updateUser(ctx, id, params)
}

func (f *fakeUserStore) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	return f.deleteUser(ctx, id)
}

func newTestProcessor(s UserStore) UserProcessor {
	return New(s, observability.NewLogger())
}

func TestGetUser_NotFound(t *testing.T) {
	fake := &fakeUserStore{
		getUserByID: func(ctx context.Context, id primitive.ObjectID) (store.User, error) {
			return store.User{}, store.ErrNotFound
		},
	}
	processor := newTestProcessor(fake)

	_, err := processor.GetUser(context.Background(), primitive.NewObjectID())

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsers_RequiresAdmin(t *testing.T) {
	processor := newTestProcessor(&fakeUserStore{})

	_, _, err := processor.ListUsers(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, store.ListUsersParams{})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateProfile_SelfOnly(t *testing.T) {
	processor := newTestProcessor(&fakeUserStore{})

	_, err := processor.UpdateProfile(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, primitive.NewObjectID(), UpdateProfileParams{})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateProfile_Self(t *testing.T) {
	userID := primitive.NewObjectID()
	name := "Jane Doe"
	fake := &fakeUserStore{
		updateUser: func(ctx context.Context, id primitive.ObjectID, params store.UpdateUserParams) (store.User, error) {
			require.NotNil(t, params.Name)
			assert.Nil(t, params.Role)
			return store.User{ID: id, Name: *params.Name}, nil
		},
	}
	processor := newTestProcessor(fake)

	user, err := processor.UpdateProfile(context.Background(), Actor{ID: userID, Role: store.UserRoleUser}, userID, UpdateProfileParams{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, name, user.Name)
}

func TestModerateUser_RequiresAdmin(t *testing.T) {
	processor := newTestProcessor(&fakeUserStore{})
	role := store.UserRoleAdmin

	_, err := processor.ModerateUser(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, primitive.NewObjectID(), ModerateUserParams{Role: &role})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestModerateUser_AppliesControls(t *testing.T) {
	userID := primitive.NewObjectID()
	status := store.UserStatusSuspended
	reputation := 0
	fake := &fakeUserStore{
		updateUser: func(ctx context.Context, id primitive.ObjectID, params store.UpdateUserParams) (store.User, error) {
			require.NotNil(t, params.Status)
			require.NotNil(t, params.Reputation)
			return store.User{ID: id, Status: *params.Status, Reputation: *params.Reputation}, nil
		},
	}
	processor := newTestProcessor(fake)

	user, err := processor.ModerateUser(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleAdmin}, userID, ModerateUserParams{Status: &status, Reputation: &reputation})

	require.NoError(t, err)
	assert.Equal(t, store.UserStatusSuspended, user.Status)
}

func TestDeleteUser_AdminCanDeleteAnyone(t *testing.T) {
	var deleted bool
	fake := &fakeUserStore{
		deleteUser: func(ctx context.Context, id primitive.ObjectID) error {
			deleted = true
			return nil
		},
	}
	processor := newTestProcessor(fake)

	err := processor.DeleteUser(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleAdmin}, primitive.NewObjectID())

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestDeleteUser_OtherUserForbidden(t *testing.T) {
	processor := newTestProcessor(&fakeUserStore{})

	err := processor.DeleteUser(context.Background(), Actor{ID: primitive.NewObjectID(), Role: store.UserRoleUser}, primitive.NewObjectID())

	assert.ErrorIs(t, err, ErrForbidden)
}
