package watch_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	watchitemstore "github.com/dalemusser/sceneit/internal/app/store/watchitems"
	"github.com/dalemusser/sceneit/internal/app/system/auth"
	"github.com/dalemusser/sceneit/internal/app/watch"
	"github.com/dalemusser/sceneit/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeItemStore is an in-memory ItemStore with the same contract as the
// Mongo-backed store: insert-if-absent under a lock, idempotent delete.
type fakeItemStore struct {
	mu    sync.Mutex
	items map[itemKey]time.Time

	// raceyExists makes Exists always answer false, reproducing the
	// window where two concurrent adds both pass the existence check.
	raceyExists bool

	insertErr error // overrides Insert when set
	existsErr error
	deleteErr error
	listErr   error

	insertCalls int
	deleteCalls int
	existsCalls int
	listCalls   int
}

type itemKey struct {
	userID    primitive.ObjectID
	movieID   int
	mediaType string
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{items: map[itemKey]time.Time{}}
}

func (f *fakeItemStore) Insert(_ context.Context, userID primitive.ObjectID, movieID int, mediaType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	k := itemKey{userID, movieID, mediaType}
	if _, ok := f.items[k]; ok {
		return watchitemstore.ErrDuplicateItem
	}
	f.items[k] = time.Now().UTC()
	return nil
}

func (f *fakeItemStore) Delete(_ context.Context, userID primitive.ObjectID, movieID int, mediaType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.items, itemKey{userID, movieID, mediaType})
	return nil
}

func (f *fakeItemStore) Exists(_ context.Context, userID primitive.ObjectID, movieID int, mediaType string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls++
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.raceyExists {
		return false, nil
	}
	_, ok := f.items[itemKey{userID, movieID, mediaType}]
	return ok, nil
}

func (f *fakeItemStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.WatchItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.WatchItem
	for k, at := range f.items {
		if k.userID == userID {
			out = append(out, models.WatchItem{
				UserID:    k.userID,
				MovieID:   k.movieID,
				MediaType: k.mediaType,
				AddedAt:   at,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

func (f *fakeItemStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

func testUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Viewer",
		Email: "viewer@test.com",
	}
}

func TestService_Add_Idempotent(t *testing.T) {
	store := newFakeItemStore()
	svc := watch.NewService(store, "watchlist", zap.NewNop())
	user := testUser()
	ctx := context.Background()

	first, err := svc.Add(ctx, user, 42, models.MediaTypeMovie)
	if err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	if first.AlreadyExisted {
		t.Error("first Add: AlreadyExisted should be false")
	}

	second, err := svc.Add(ctx, user, 42, models.MediaTypeMovie)
	if err != nil {
		t.Fatalf("second Add failed: %v", err)
	}
	if !second.AlreadyExisted {
		t.Error("second Add: AlreadyExisted should be true")
	}

	if got := store.count(); got != 1 {
		t.Errorf("persisted items: got %d, want 1", got)
	}
	// The second add should short-circuit on the existence check.
	if store.insertCalls != 1 {
		t.Errorf("insert calls: got %d, want 1", store.insertCalls)
	}
}

func TestService_Add_RaceTranslatesDuplicate(t *testing.T) {
	store := newFakeItemStore()
	store.raceyExists = true // both racers pass the existence check
	svc := watch.NewService(store, "watchlist", zap.NewNop())
	user := testUser()

	type result struct {
		res watch.AddResult
		err error
	}
	results := make([]result, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func(i int) {
			defer wg.Done()
			res, err := svc.Add(context.Background(), user, 7, models.MediaTypeMovie)
			results[i] = result{res, err}
		}(i)
	}
	wg.Wait()

	fresh := 0
	for i, r := range results {
		if r.err != nil {
			t.Fatalf("Add %d failed: %v (duplicates must never surface as errors)", i, r.err)
		}
		if !r.res.AlreadyExisted {
			fresh++
		}
	}
	if fresh != 1 {
		t.Errorf("adds reporting a fresh insert: got %d, want exactly 1", fresh)
	}
	if got := store.count(); got != 1 {
		t.Errorf("persisted items: got %d, want 1", got)
	}
}

func TestService_Remove_Idempotent(t *testing.T) {
	store := newFakeItemStore()
	svc := watch.NewService(store, "watchlist", zap.NewNop())
	user := testUser()
	ctx := context.Background()

	// Removing a non-member succeeds and leaves nothing behind.
	if err := svc.Remove(ctx, user, 42, models.MediaTypeMovie); err != nil {
		t.Fatalf("Remove of non-member failed: %v", err)
	}
	if got := store.count(); got != 0 {
		t.Errorf("persisted items: got %d, want 0", got)
	}
}

func TestService_UnauthenticatedGuard(t *testing.T) {
	store := newFakeItemStore()
	svc := watch.NewService(store, "watchlist", zap.NewNop())
	ctx := context.Background()

	for _, user := range []*auth.SessionUser{nil, {ID: ""}, {ID: "not-an-object-id"}} {
		if _, err := svc.Add(ctx, user, 42, models.MediaTypeMovie); !errors.Is(err, watch.ErrSignInRequired) {
			t.Errorf("Add(%+v): got %v, want ErrSignInRequired", user, err)
		}
		if err := svc.Remove(ctx, user, 42, models.MediaTypeMovie); !errors.Is(err, watch.ErrSignInRequired) {
			t.Errorf("Remove(%+v): got %v, want ErrSignInRequired", user, err)
		}
		if _, err := svc.List(ctx, user); !errors.Is(err, watch.ErrSignInRequired) {
			t.Errorf("List(%+v): got %v, want ErrSignInRequired", user, err)
		}
		if svc.Contains(ctx, user, 42, models.MediaTypeMovie) {
			t.Errorf("Contains(%+v): got true, want false", user)
		}
	}

	// The guard fires before the store is touched.
	if store.insertCalls+store.deleteCalls+store.existsCalls+store.listCalls != 0 {
		t.Error("unauthenticated operations must not reach the store")
	}
}

func TestService_StoreFailuresAreGeneric(t *testing.T) {
	boom := errors.New("socket reset by a passing cosmic ray")

	store := newFakeItemStore()
	store.existsErr = boom
	svc := watch.NewService(store, "watchlist", zap.NewNop())
	user := testUser()
	ctx := context.Background()

	if _, err := svc.Add(ctx, user, 42, models.MediaTypeMovie); !errors.Is(err, watch.ErrUnavailable) {
		t.Errorf("Add with failing store: got %v, want ErrUnavailable", err)
	}
	// Contains degrades to false rather than erroring.
	if svc.Contains(ctx, user, 42, models.MediaTypeMovie) {
		t.Error("Contains with failing store: got true, want false")
	}

	store2 := newFakeItemStore()
	store2.deleteErr = boom
	svc2 := watch.NewService(store2, "watchlist", zap.NewNop())
	if err := svc2.Remove(ctx, user, 42, models.MediaTypeMovie); !errors.Is(err, watch.ErrUnavailable) {
		t.Errorf("Remove with failing store: got %v, want ErrUnavailable", err)
	}

	store3 := newFakeItemStore()
	store3.listErr = boom
	svc3 := watch.NewService(store3, "watchlist", zap.NewNop())
	if _, err := svc3.List(ctx, user); !errors.Is(err, watch.ErrUnavailable) {
		t.Errorf("List with failing store: got %v, want ErrUnavailable", err)
	}
}

// The end-to-end add/check/remove scenario from the product's point of view.
func TestService_Scenario_AddCheckRemove(t *testing.T) {
	store := newFakeItemStore()
	svc := watch.NewService(store, "watchlist", zap.NewNop())
	user := testUser()
	ctx := context.Background()

	if svc.Contains(ctx, user, 42, models.MediaTypeMovie) {
		t.Fatal("item 42 should start absent")
	}

	res, err := svc.Add(ctx, user, 42, models.MediaTypeMovie)
	if err != nil || res.AlreadyExisted {
		t.Fatalf("Add: got (%+v, %v), want fresh success", res, err)
	}

	if !svc.Contains(ctx, user, 42, models.MediaTypeMovie) {
		t.Fatal("item 42 should be present after add")
	}

	res, err = svc.Add(ctx, user, 42, models.MediaTypeMovie)
	if err != nil || !res.AlreadyExisted {
		t.Fatalf("repeat Add: got (%+v, %v), want AlreadyExisted success", res, err)
	}

	if err := svc.Remove(ctx, user, 42, models.MediaTypeMovie); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if svc.Contains(ctx, user, 42, models.MediaTypeMovie) {
		t.Fatal("item 42 should be absent after remove")
	}
}
