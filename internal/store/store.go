package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"givehub-server/internal/observability"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Collection names.
const (
	colUsers           = "users"
	colCampaigns       = "campaigns"
	colCampaignFollows = "campaignfollows"
	colProgressUpdates = "progressupdates"
	colPosts           = "posts"
	colPostLikes       = "postlikes"
	colPostShares      = "postshares"
	colPostComments    = "postcomments"
	colPostViews       = "postviews"
	colMedia           = "media"
	colDonations       = "donations"
	colDisbursements   = "disbursements"
	colExpenseReports  = "expensereports"
)

const defaultTimeout = 10 * time.Second

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *observability.Logger
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, uri, dbName string, logger *observability.Logger) (Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return Store{}, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return Store{}, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return Store{client: client, db: client.Database(dbName), logger: logger}, nil
}

// Close disconnects the underlying MongoDB client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique indexes the data model relies on.
// Interaction collections carry a unique (post, user) index so that the
// record insert itself is the duplicate check.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	type indexSpec struct {
		col   string
		model mongo.IndexModel
	}
	unique := options.Index().SetUnique(true)
	specs := []indexSpec{
		{colUsers, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		{colCampaignFollows, mongo.IndexModel{Keys: bson.D{{Key: "campaignId", Value: 1}, {Key: "userId", Value: 1}}, Options: unique}},
		{colPostLikes, mongo.IndexModel{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "userId", Value: 1}}, Options: unique}},
		{colPostShares, mongo.IndexModel{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "userId", Value: 1}}, Options: unique}},
		{colPostViews, mongo.IndexModel{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "viewerKey", Value: 1}}, Options: unique}},
		{colCampaigns, mongo.IndexModel{Keys: bson.D{{Key: "creatorId", Value: 1}, {Key: "status", Value: 1}}}},
		{colPostComments, mongo.IndexModel{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: -1}}}},
		{colProgressUpdates, mongo.IndexModel{Keys: bson.D{{Key: "campaignId", Value: 1}, {Key: "milestoneIndex", Value: 1}}}},
		{colDonations, mongo.IndexModel{Keys: bson.D{{Key: "campaignId", Value: 1}, {Key: "createdAt", Value: -1}}}},
	}
	for _, spec := range specs {
		if _, err := s.db.Collection(spec.col).Indexes().CreateOne(ctx, spec.model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", spec.col, err)
		}
	}
	return nil
}

// withTransaction runs fn inside a multi-document transaction. Every write
// that must stay consistent with a counter goes through here.
func (s *Store) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}
