// Package mongostore keeps vault documents in a MongoDB collection, one
// document per user keyed by the user id.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/dmitrijs2005/otpkeeper/internal/client/models"
	"github.com/dmitrijs2005/otpkeeper/internal/common"
)

// collection is the part of *mongo.Collection the store uses.
type collection interface {
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
	ReplaceOne(ctx context.Context, filter any, replacement any, opts ...options.Lister[options.ReplaceOptions]) (*mongo.UpdateResult, error)
}

type client interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
	Disconnect(ctx context.Context) error
}

type record struct {
	ID                   string `bson:"_id"`
	models.VaultDocument `bson:",inline"`
}

type Store struct {
	client client
	coll   collection
}

// New connects to uri and checks the connection with a ping.
func New(ctx context.Context, uri, database, coll string) (*Store, error) {
	c, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := c.Ping(ctx, nil); err != nil {
		_ = c.Disconnect(ctx)
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}
	return &Store{client: c, coll: c.Database(database).Collection(coll)}, nil
}

func (s *Store) Get(ctx context.Context, userID string) (*models.VaultDocument, error) {
	var rec record
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: userID}}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongostore: find: %w", err)
	}
	return &rec.VaultDocument, nil
}

func (s *Store) Put(ctx context.Context, doc models.VaultDocument) error {
	if doc.UserID == "" {
		return errors.New("mongostore: document has no user id")
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: doc.UserID}},
		record{ID: doc.UserID, VaultDocument: doc},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongostore: replace: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
