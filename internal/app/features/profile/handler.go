// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/sceneit/internal/app/features/errors"
	"github.com/dalemusser/sceneit/internal/app/system/auth"
	"github.com/dalemusser/sceneit/internal/app/system/authutil"
	"github.com/dalemusser/sceneit/internal/app/system/normalize"
	"github.com/dalemusser/sceneit/internal/app/system/timeouts"
	"github.com/dalemusser/sceneit/internal/app/system/viewdata"
	"github.com/dalemusser/sceneit/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserStore is the slice of the user store the profile pages need.
type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateDisplayName(ctx context.Context, id primitive.ObjectID, name string) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}

type Handler struct {
	Users      UserStore
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(users UserStore, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
	}
}

type profileData struct {
	viewdata.BaseVM
	Email         string
	DisplayName   string
	IsGoogle      bool
	PasswordRules string
	Message       string
	Error         string
}

// currentDBUser loads the full user record behind the session. A stale
// session pointing at a deleted account is treated as signed out.
func (h *Handler) currentDBUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login?return=/profile")
		return nil, false
	}
	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		uierrors.RenderUnauthorized(w, r, "/login?return=/profile")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: load user", err,
			"Your profile is unavailable right now. Please try again shortly.", "/")
		return nil, false
	}
	return u, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /profile                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentDBUser(w, r)
	if !ok {
		return
	}
	h.render(w, r, u, "", "")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /profile/name – change display name                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleNameChange(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentDBUser(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/profile")
		return
	}

	name := normalize.Name(r.FormValue("display_name"))
	if name == "" {
		h.render(w, r, u, "", "Display name can't be empty.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.UpdateDisplayName(ctx, u.ID, name); err != nil {
		h.ErrLog.LogServerError(w, r, "profile: update display name", err,
			"Couldn't save your display name. Please try again.", "/profile")
		return
	}
	u.DisplayName = name

	// Refresh the session so the nav shows the new name immediately.
	if err := h.SessionMgr.SignIn(w, r, &auth.SessionUser{
		ID:         u.ID.Hex(),
		Name:       u.DisplayName,
		Email:      u.Email,
		AuthMethod: u.AuthMethod,
	}); err != nil {
		h.Log.Warn("profile: session refresh failed", zap.Error(err))
	}

	h.render(w, r, u, "Display name updated.", "")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /profile/password – change password                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandlePasswordChange(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentDBUser(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/profile")
		return
	}

	if u.AuthMethod == models.AuthMethodGoogle {
		h.render(w, r, u, "", "This account signs in with Google and has no password here.")
		return
	}

	current := r.FormValue("current_password")
	next := r.FormValue("new_password")
	confirm := r.FormValue("confirm_password")

	if !authutil.CheckPassword(current, u.PasswordHash) {
		h.render(w, r, u, "", "Your current password is incorrect.")
		return
	}
	if err := authutil.ValidatePassword(next); err != nil {
		h.render(w, r, u, "", err.Error())
		return
	}
	if next != confirm {
		h.render(w, r, u, "", "New passwords don't match.")
		return
	}

	hash, err := authutil.HashPassword(next)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: hash password", err,
			"Couldn't change your password. Please try again.", "/profile")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		h.ErrLog.LogServerError(w, r, "profile: update password", err,
			"Couldn't change your password. Please try again.", "/profile")
		return
	}

	h.Log.Info("password changed", zap.String("user_id", u.ID.Hex()))
	h.render(w, r, u, "Password changed.", "")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, u *models.User, msg, errMsg string) {
	templates.Render(w, r, "profile", profileData{
		BaseVM:        viewdata.NewBaseVM(r, "My Account", "/"),
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		IsGoogle:      u.AuthMethod == models.AuthMethodGoogle,
		PasswordRules: authutil.PasswordRules(),
		Message:       msg,
		Error:         errMsg,
	})
}
