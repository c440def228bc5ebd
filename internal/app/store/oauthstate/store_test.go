package oauthstate_test

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/sceneit/internal/app/store/oauthstate"
	"github.com/dalemusser/sceneit/internal/testutil"
	"github.com/google/uuid"
)

func TestStore_SaveValidate_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx := context.Background()

	state := uuid.NewString()
	if err := store.Save(ctx, state, "/movies/detail/603", time.Now().UTC().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ret, valid, err := store.Validate(ctx, state)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !valid {
		t.Fatal("state should validate before expiry")
	}
	if ret != "/movies/detail/603" {
		t.Errorf("return URL: got %q, want %q", ret, "/movies/detail/603")
	}
}

func TestStore_Validate_OneTimeUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx := context.Background()

	state := uuid.NewString()
	if err := store.Save(ctx, state, "", time.Now().UTC().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, valid, err := store.Validate(ctx, state); err != nil || !valid {
		t.Fatalf("first Validate: valid=%v err=%v", valid, err)
	}

	_, valid, err := store.Validate(ctx, state)
	if err != nil {
		t.Fatalf("second Validate: %v", err)
	}
	if valid {
		t.Error("a state token must not validate twice")
	}
}

func TestStore_Validate_ExpiredRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx := context.Background()

	state := uuid.NewString()
	if err := store.Save(ctx, state, "", time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, valid, err := store.Validate(ctx, state)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if valid {
		t.Error("an expired state token must not validate")
	}
}

func TestStore_Validate_UnknownRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)

	_, valid, err := store.Validate(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if valid {
		t.Error("an unknown state token must not validate")
	}
}

func TestStore_CleanupExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx := context.Background()

	if err := store.Save(ctx, uuid.NewString(), "", time.Now().UTC().Add(-time.Hour)); err != nil {
		t.Fatalf("Save expired: %v", err)
	}
	live := uuid.NewString()
	if err := store.Save(ctx, live, "", time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatalf("Save live: %v", err)
	}

	n, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted: got %d, want 1", n)
	}

	if _, valid, _ := store.Validate(ctx, live); !valid {
		t.Error("cleanup must not remove live states")
	}
}
