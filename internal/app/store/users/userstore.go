package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/sceneit/internal/app/system/normalize"
	"github.com/dalemusser/sceneit/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	errBadAuthMethod  = errors.New(`auth method must be "password"|"google"`)
	errNoPassword     = errors.New("password accounts must have a password hash")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
// Callers hash the password; Create only checks one is present for
// password accounts.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Email = normalize.Email(u.Email)
	u.DisplayName = normalize.Name(u.DisplayName)
	u.AuthMethod = normalize.AuthMethod(u.AuthMethod)

	switch u.AuthMethod {
	case models.AuthMethodPassword:
		if u.PasswordHash == "" {
			return models.User{}, errNoPassword
		}
	case models.AuthMethodGoogle:
		// No password hash; Google owns the credential.
	default:
		return models.User{}, errBadAuthMethod
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// UpdateDisplayName sets the user's display name.
func (s *Store) UpdateDisplayName(ctx context.Context, id primitive.ObjectID, name string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"display_name": normalize.Name(name),
		"updated_at":   time.Now(),
	}})
	return err
}

// UpdatePassword replaces the stored password hash. Callers verify the
// account uses password auth before calling.
func (s *Store) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	}})
	return err
}

// UpsertGoogle returns the account for a Google sign-in, provisioning one
// on first sign-in. An existing account is returned as-is regardless of
// its auth method, so a password account keeps its password after a
// Google sign-in with the same email.
//
// Provisioning races with itself across concurrent callbacks; the unique
// email index breaks the tie and the loser re-reads the winner's row.
func (s *Store) UpsertGoogle(ctx context.Context, email, displayName string) (*models.User, error) {
	email = normalize.Email(email)

	u, err := s.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	created, err := s.Create(ctx, models.User{
		Email:       email,
		DisplayName: displayName,
		AuthMethod:  models.AuthMethodGoogle,
	})
	if err == nil {
		return &created, nil
	}
	if errors.Is(err, ErrDuplicateEmail) {
		return s.GetByEmail(ctx, email)
	}
	return nil, err
}

// EmailExists reports whether any account uses the email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}
