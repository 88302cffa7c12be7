package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateUserParams represents parameters for creating a user
type CreateUserParams struct {
	Name             string
	Email            string
	HashedPassword   string
	Phone            string
	Role             UserRole
	Avatar           string
	GoogleProvider   *GoogleProviderInfo
	FacebookProvider *FacebookProviderInfo
}

// UpdateUserParams represents parameters for a partial user update
type UpdateUserParams struct {
	Name       *string
	Phone      *string
	Address    *string
	Avatar     *string
	Bio        *string
	Role       *UserRole
	Status     *UserStatus
	IsVerified *bool
	Reputation *int
}

// ListUsersParams filters and paginates the user listing
type ListUsersParams struct {
	Search    string
	Role      *UserRole
	Status    *UserStatus
	SortBy    string
	SortOrder int
	Page      int
	PageSize  int
}

// CreateUser inserts a new user with platform defaults applied.
func (s *Store) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	now := time.Now().UTC()
	role := params.Role
	if role == "" {
		role = UserRoleUser
	}
	user := User{
		ID:               primitive.NewObjectID(),
		Name:             params.Name,
		Email:            strings.ToLower(params.Email),
		Password:         params.HashedPassword,
		Phone:            params.Phone,
		Role:             role,
		Status:           UserStatusActive,
		Avatar:           params.Avatar,
		Reputation:       50,
		GoogleProvider:   params.GoogleProvider,
		FacebookProvider: params.FacebookProvider,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := s.collection(colUsers).InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return User{}, ErrDuplicate
		}
		s.logger.Error(ctx, "failed to create user", err)
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id primitive.ObjectID) (User, error) {
	var user User
	err := s.collection(colUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get user by id", err)
		return User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email (case-insensitive via lowercasing)
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.collection(colUsers).FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get user by email", err)
		return User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// EmailExists reports whether a user with the given email already exists
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := s.collection(colUsers).CountDocuments(ctx, bson.M{"email": strings.ToLower(email)})
	if err != nil {
		s.logger.Error(ctx, "failed to check if email exists", err)
		return false, fmt.Errorf("failed to check if email exists: %w", err)
	}
	return count > 0, nil
}

// ListUsers returns a page of users and the total match count
func (s *Store) ListUsers(ctx context.Context, params ListUsersParams) ([]User, int64, error) {
	filter := bson.M{}
	if params.Search != "" {
		regex := primitive.Regex{Pattern: params.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"email": regex},
		}
	}
	if params.Role != nil {
		filter["role"] = *params.Role
	}
	if params.Status != nil {
		filter["status"] = *params.Status
	}

	col := s.collection(colUsers)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		s.logger.Error(ctx, "failed to count users", err)
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	sortOrder := params.SortOrder
	if sortOrder == 0 {
		sortOrder = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: sortOrder}}).
		SetSkip(int64((params.Page - 1) * params.PageSize)).
		SetLimit(int64(params.PageSize))

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		s.logger.Error(ctx, "failed to list users", err)
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		s.logger.Error(ctx, "failed to decode users", err)
		return nil, 0, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, total, nil
}

// UpdateUser applies a partial update and returns the updated document
func (s *Store) UpdateUser(ctx context.Context, id primitive.ObjectID, params UpdateUserParams) (User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if params.Name != nil {
		set["name"] = *params.Name
	}
	if params.Phone != nil {
		set["phone"] = *params.Phone
	}
	if params.Address != nil {
		set["address"] = *params.Address
	}
	if params.Avatar != nil {
		set["avatar"] = *params.Avatar
	}
	if params.Bio != nil {
		set["bio"] = *params.Bio
	}
	if params.Role != nil {
		set["role"] = *params.Role
	}
	if params.Status != nil {
		set["status"] = *params.Status
	}
	if params.IsVerified != nil {
		set["isVerified"] = *params.IsVerified
	}
	if params.Reputation != nil {
		set["reputation"] = *params.Reputation
	}

	var user User
	err := s.collection(colUsers).FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update user", err)
		return User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user document
func (s *Store) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection(colUsers).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		s.logger.Error(ctx, "failed to delete user", err)
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRefreshToken stores the rotated refresh token and its expiry
func (s *Store) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string, expiresAt time.Time) error {
	_, err := s.collection(colUsers).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"refreshToken":          token,
			"refreshTokenExpiresAt": expiresAt,
			"updatedAt":             time.Now().UTC(),
		},
	})
	if err != nil {
		s.logger.Error(ctx, "failed to set refresh token", err)
		return fmt.Errorf("failed to set refresh token: %w", err)
	}
	return nil
}

// ClearRefreshToken invalidates the stored refresh token on logout
func (s *Store) ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.collection(colUsers).UpdateByID(ctx, id, bson.M{
		"$unset": bson.M{"refreshToken": "", "refreshTokenExpiresAt": ""},
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		s.logger.Error(ctx, "failed to clear refresh token", err)
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

// GetUserByRefreshToken finds the user holding an unexpired refresh token
func (s *Store) GetUserByRefreshToken(ctx context.Context, token string) (User, error) {
	var user User
	err := s.collection(colUsers).FindOne(ctx, bson.M{
		"refreshToken":          token,
		"refreshTokenExpiresAt": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get user by refresh token", err)
		return User{}, fmt.Errorf("failed to get user by refresh token: %w", err)
	}
	return user, nil
}

// UpdateLastLogin stamps lastLoginAt with the current time
func (s *Store) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.collection(colUsers).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"lastLoginAt": now, "updatedAt": now},
	})
	if err != nil {
		s.logger.Error(ctx, "failed to update last login", err)
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// LinkGoogleProvider attaches Google identity info to an existing user.
// Linking is idempotent; re-linking overwrites the stored snapshot.
func (s *Store) LinkGoogleProvider(ctx context.Context, id primitive.ObjectID, info GoogleProviderInfo) error {
	_, err := s.collection(colUsers).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"googleProvider": info, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		s.logger.Error(ctx, "failed to link google provider", err)
		return fmt.Errorf("failed to link google provider: %w", err)
	}
	return nil
}

// LinkFacebookProvider attaches Facebook identity info to an existing user.
func (s *Store) LinkFacebookProvider(ctx context.Context, id primitive.ObjectID, info FacebookProviderInfo) error {
	_, err := s.collection(colUsers).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"facebookProvider": info, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		s.logger.Error(ctx, "failed to link facebook provider", err)
		return fmt.Errorf("failed to link facebook provider: %w", err)
	}
	return nil
}

// IncrementCampaignsCreated adjusts the denormalized campaign counter on the
// creator. Delta is +1 on create and -1 on delete.
func (s *Store) IncrementCampaignsCreated(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := s.collection(colUsers).UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{"totalCampaignsCreated": delta},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		s.logger.Error(ctx, "failed to increment campaigns created", err)
		return fmt.Errorf("failed to increment campaigns created: %w", err)
	}
	return nil
}
