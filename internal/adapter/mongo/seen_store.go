package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SeenStore keeps processed article URLs as {url: ...} documents.
type SeenStore struct {
	coll *mongo.Collection
}

func NewSeenStore(coll *mongo.Collection) *SeenStore {
	return &SeenStore{coll: coll}
}

// EnsureIndex creates the unique index on url.
func (s *SeenStore) EnsureIndex(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "url", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("url_unique"),
	})
	if err != nil {
		return fmt.Errorf("create url index: %w", err)
	}
	return nil
}

func (s *SeenStore) Exists(ctx context.Context, url string) (bool, error) {
	err := s.coll.FindOne(ctx, bson.M{"url": url},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert records url. A duplicate key means another writer got there first,
// which leaves the set in the wanted state.
func (s *SeenStore) Insert(ctx context.Context, url string) error {
	_, err := s.coll.InsertOne(ctx, bson.M{"url": url})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return err
	}
	return nil
}
