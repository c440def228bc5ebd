// internal/domain/models/watchitem.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Media types recorded on watch items. Only movies are tracked today;
// the discriminator is stored so TV support does not require a migration.
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// Collection names backing the two watch collections.
const (
	WatchlistCollection = "user_watchlists"
	WatchedCollection   = "user_watched_movies"
)

// WatchItem is one user's membership of one catalog item in a watch
// collection (watchlist or watched). Items are created on first add,
// never updated in place, and deleted on remove. At most one item
// exists per (user_id, movie_id, media_type) within a collection;
// a unique index enforces this.
type WatchItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	MovieID   int                `bson:"movie_id" json:"movie_id"`
	MediaType string             `bson:"media_type" json:"media_type"`
	AddedAt   time.Time          `bson:"added_at" json:"added_at"`
}
