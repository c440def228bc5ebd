package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/sceneit/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a password-auth test user with the given email.
// Returns the created user with its generated ID.
func (f *Fixtures) CreateUser(ctx context.Context, email string) models.User {
	f.t.Helper()

	// MinCost keeps fixture creation fast; these hashes never leave tests.
	hash, err := bcrypt.GenerateFromPassword([]byte("test-password"), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		DisplayName:  "Test Viewer",
		PasswordHash: string(hash),
		AuthMethod:   models.AuthMethodPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// AddWatchItem inserts a watch item directly, bypassing the service layer.
// Useful for seeding list/ordering tests.
func (f *Fixtures) AddWatchItem(ctx context.Context, collection string, userID primitive.ObjectID, movieID int, addedAt time.Time) models.WatchItem {
	f.t.Helper()

	item := models.WatchItem{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		MovieID:   movieID,
		MediaType: models.MediaTypeMovie,
		AddedAt:   addedAt,
	}
	if _, err := f.db.Collection(collection).InsertOne(ctx, item); err != nil {
		f.t.Fatalf("failed to insert watch item: %v", err)
	}
	return item
}
