package authgoogle_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/sceneit/internal/app/features/authgoogle"
	"github.com/dalemusser/sceneit/internal/app/store/oauthstate"
	"github.com/dalemusser/sceneit/internal/app/system/auth"
	"github.com/dalemusser/sceneit/internal/app/system/normalize"
	"github.com/dalemusser/sceneit/internal/domain/models"
	"github.com/dalemusser/sceneit/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeUsers struct {
	upserts int
}

func (f *fakeUsers) UpsertGoogle(ctx context.Context, email, displayName string) (*models.User, error) {
	f.upserts++
	return &models.User{
		ID:          primitive.NewObjectID(),
		Email:       normalize.Email(email),
		DisplayName: displayName,
		AuthMethod:  models.AuthMethodGoogle,
	}, nil
}

func newTestHandler(t *testing.T, users *fakeUsers, clientID string) (*authgoogle.Handler, *oauthstate.Store) {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	stateStore := oauthstate.New(testutil.SetupTestDB(t))
	h := authgoogle.NewHandler(users, sm, stateStore, clientID, "test-secret", "https://sceneit.test", logger)
	return h, stateStore
}

func TestServeLogin_RedirectsToGoogleWithStoredState(t *testing.T) {
	h, stateStore := newTestHandler(t, &fakeUsers{}, "test-client")

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google/login?return=/watchlist", nil))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusTemporaryRedirect)
	}
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "accounts.google.com") {
		t.Errorf("Location: got %q, want a Google consent URL", loc)
	}

	u, err := url.Parse(loc)
	if err != nil {
		t.Fatalf("parse redirect URL: %v", err)
	}
	state := u.Query().Get("state")
	if state == "" {
		t.Fatal("redirect URL carries no state parameter")
	}

	ret, valid, err := stateStore.Validate(context.Background(), state)
	if err != nil || !valid {
		t.Fatalf("stored state should validate: valid=%v err=%v", valid, err)
	}
	if ret != "/watchlist" {
		t.Errorf("stored return URL: got %q, want %q", ret, "/watchlist")
	}
}

func TestServeLogin_UnconfiguredRedirectsToLogin(t *testing.T) {
	h, _ := newTestHandler(t, &fakeUsers{}, "")

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google/login", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login") {
		t.Errorf("Location: got %q, want /login…", loc)
	}
}

func TestServeCallback_MissingStateRejected(t *testing.T) {
	users := &fakeUsers{}
	h, _ := newTestHandler(t, users, "test-client")

	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback?code=abc", nil))

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "invalid_state") {
		t.Errorf("Location: got %q, want invalid_state error", loc)
	}
	if users.upserts != 0 {
		t.Error("no account may be provisioned without a valid state")
	}
}

func TestServeCallback_UnknownStateRejected(t *testing.T) {
	users := &fakeUsers{}
	h, _ := newTestHandler(t, users, "test-client")

	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback?state=forged&code=abc", nil))

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "invalid_state") {
		t.Errorf("Location: got %q, want invalid_state error", loc)
	}
	if users.upserts != 0 {
		t.Error("no account may be provisioned with a forged state")
	}
}

func TestServeCallback_ProviderErrorRejected(t *testing.T) {
	users := &fakeUsers{}
	h, _ := newTestHandler(t, users, "test-client")

	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback?error=access_denied", nil))

	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "google_denied") {
		t.Errorf("Location: got %q, want google_denied error", loc)
	}
	if users.upserts != 0 {
		t.Error("no account may be provisioned after a denied consent")
	}
}
