// internal/app/store/watchitems/watchitemstore.go
package watchitemstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/sceneit/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateItem reports an insert that lost to an existing
// (user_id, movie_id, media_type) row. The unique index raises it; callers
// treat it as "already a member", not a failure.
var ErrDuplicateItem = errors.New("item is already in this collection")

// Store manages one watch collection (user_watchlists or
// user_watched_movies). Both collections share the same document shape;
// a Store is bound to exactly one of them.
type Store struct {
	c *mongo.Collection
}

// New binds a Store to the named collection, one of
// models.WatchlistCollection or models.WatchedCollection.
func New(db *mongo.Database, collection string) *Store {
	return &Store{c: db.Collection(collection)}
}

// Insert creates a watch item for (userID, movieID, mediaType).
// The unique index on (user_id, movie_id, media_type) is the race guard:
// concurrent inserts for the same key leave exactly one document, and the
// losers get ErrDuplicateItem.
func (s *Store) Insert(ctx context.Context, userID primitive.ObjectID, movieID int, mediaType string) error {
	doc := bson.M{
		"user_id":    userID,
		"movie_id":   movieID,
		"media_type": mediaType,
		"added_at":   time.Now().UTC(),
	}
	_, err := s.c.InsertOne(ctx, doc)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateItem
		}
		return err
	}
	return nil
}

// Delete removes the item for (userID, movieID, mediaType) if present.
// Deleting an absent item is not an error.
func (s *Store) Delete(ctx context.Context, userID primitive.ObjectID, movieID int, mediaType string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{
		"user_id":    userID,
		"movie_id":   movieID,
		"media_type": mediaType,
	})
	return err
}

// Exists reports whether an item exists for (userID, movieID, mediaType).
// Uses a capped count rather than fetching the document.
func (s *Store) Exists(ctx context.Context, userID primitive.ObjectID, movieID int, mediaType string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"movie_id":   movieID,
		"media_type": mediaType,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByUser returns all of a user's items, most recently added first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.WatchItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.WatchItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CountByUser returns the number of items a user has in this collection.
func (s *Store) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"user_id": userID})
}

// DeleteByUser removes all of a user's items (account deletion).
// Returns the number of documents deleted.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
