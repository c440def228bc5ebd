// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Auth methods recorded on User.AuthMethod.
const (
	AuthMethodPassword = "password"
	AuthMethodGoogle   = "google"
)

// User is an account that owns watchlist and watched collections.
//
// NOTE:
//   - Watch collections are not embedded on User. Use the
//     user_watchlists and user_watched_movies collections, keyed by
//     the user's ObjectID.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email       string             `bson:"email" json:"email"`
	DisplayName string             `bson:"display_name,omitempty" json:"display_name,omitempty"`

	// PasswordHash is a bcrypt hash, empty for OAuth-provisioned accounts.
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string `bson:"auth_method" json:"auth_method"` // password | google

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
