// internal/app/watch/service.go
package watch

import (
	"context"
	"errors"

	watchitemstore "github.com/dalemusser/sceneit/internal/app/store/watchitems"
	"github.com/dalemusser/sceneit/internal/app/system/auth"
	"github.com/dalemusser/sceneit/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	// ErrSignInRequired is returned for mutations and listings attempted
	// without a signed-in user. No store operation is attempted.
	ErrSignInRequired = errors.New("sign in required")

	// ErrUnavailable is the generic failure surfaced to callers when the
	// store misbehaves. The detailed cause is logged here, not propagated.
	ErrUnavailable = errors.New("collection is temporarily unavailable")
)

// ItemStore is the slice of the watch item store the service needs.
// *watchitemstore.Store satisfies it; tests substitute fakes.
type ItemStore interface {
	Insert(ctx context.Context, userID primitive.ObjectID, movieID int, mediaType string) error
	Delete(ctx context.Context, userID primitive.ObjectID, movieID int, mediaType string) error
	Exists(ctx context.Context, userID primitive.ObjectID, movieID int, mediaType string) (bool, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.WatchItem, error)
}

// Service manages one user's membership of catalog items in one named
// watch collection (watchlist or watched). All operations are idempotent
// and scoped to the authenticated user; a client never names the owner.
type Service struct {
	items ItemStore
	label string // "watchlist" or "watched", for logs and notices
	log   *zap.Logger
}

// AddResult reports the outcome of an Add. AlreadyExisted distinguishes
// "inserted just now" from "was already there"; both are success.
type AddResult struct {
	AlreadyExisted bool
}

func NewService(items ItemStore, label string, logger *zap.Logger) *Service {
	return &Service{items: items, label: label, log: logger}
}

// Label returns the collection label this service manages.
func (s *Service) Label() string { return s.label }

// Add puts (movieID, mediaType) into the user's collection.
//
// The existence check is advisory only: two concurrent adds can both pass
// it, in which case the unique index rejects the second insert and the
// duplicate is reported as AlreadyExisted success, never as an error.
func (s *Service) Add(ctx context.Context, user *auth.SessionUser, movieID int, mediaType string) (AddResult, error) {
	userID, err := requireUser(user)
	if err != nil {
		return AddResult{}, err
	}

	exists, err := s.items.Exists(ctx, userID, movieID, mediaType)
	if err != nil {
		s.log.Error("watch add: existence check failed",
			zap.String("collection", s.label),
			zap.Int("movie_id", movieID),
			zap.Error(err))
		return AddResult{}, ErrUnavailable
	}
	if exists {
		return AddResult{AlreadyExisted: true}, nil
	}

	switch err := s.items.Insert(ctx, userID, movieID, mediaType); {
	case err == nil:
		return AddResult{}, nil
	case errors.Is(err, watchitemstore.ErrDuplicateItem):
		// Lost the race to a concurrent add; the item is present either way.
		return AddResult{AlreadyExisted: true}, nil
	default:
		s.log.Error("watch add: insert failed",
			zap.String("collection", s.label),
			zap.Int("movie_id", movieID),
			zap.Error(err))
		return AddResult{}, ErrUnavailable
	}
}

// Remove takes (movieID, mediaType) out of the user's collection.
// Removing an item that is not there succeeds and changes nothing.
func (s *Service) Remove(ctx context.Context, user *auth.SessionUser, movieID int, mediaType string) error {
	userID, err := requireUser(user)
	if err != nil {
		return err
	}

	if err := s.items.Delete(ctx, userID, movieID, mediaType); err != nil {
		s.log.Error("watch remove: delete failed",
			zap.String("collection", s.label),
			zap.Int("movie_id", movieID),
			zap.Error(err))
		return ErrUnavailable
	}
	return nil
}

// Contains reports whether (movieID, mediaType) is in the user's
// collection. For signed-out visitors it answers false rather than
// erroring; absence is the safe default for display.
func (s *Service) Contains(ctx context.Context, user *auth.SessionUser, movieID int, mediaType string) bool {
	userID, err := requireUser(user)
	if err != nil {
		return false
	}

	exists, err := s.items.Exists(ctx, userID, movieID, mediaType)
	if err != nil {
		s.log.Warn("watch contains: existence check failed",
			zap.String("collection", s.label),
			zap.Int("movie_id", movieID),
			zap.Error(err))
		return false
	}
	return exists
}

// List returns the user's collection, most recently added first.
func (s *Service) List(ctx context.Context, user *auth.SessionUser) ([]models.WatchItem, error) {
	userID, err := requireUser(user)
	if err != nil {
		return nil, err
	}

	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		s.log.Error("watch list: query failed",
			zap.String("collection", s.label),
			zap.Error(err))
		return nil, ErrUnavailable
	}
	return items, nil
}

// requireUser resolves the session user to a store-level owner ID.
// A missing user or a malformed session ID both read as "not signed in".
func requireUser(user *auth.SessionUser) (primitive.ObjectID, error) {
	if user == nil || user.ID == "" {
		return primitive.NilObjectID, ErrSignInRequired
	}
	id, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return primitive.NilObjectID, ErrSignInRequired
	}
	return id, nil
}
