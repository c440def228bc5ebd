// internal/app/features/signup/handler.go
package signup

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/sceneit/internal/app/features/errors"
	"github.com/dalemusser/sceneit/internal/app/features/login"
	userstore "github.com/dalemusser/sceneit/internal/app/store/users"
	"github.com/dalemusser/sceneit/internal/app/system/auth"
	"github.com/dalemusser/sceneit/internal/app/system/authutil"
	"github.com/dalemusser/sceneit/internal/app/system/normalize"
	"github.com/dalemusser/sceneit/internal/app/system/timeouts"
	"github.com/dalemusser/sceneit/internal/app/system/viewdata"
	"github.com/dalemusser/sceneit/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// UserCreator is the slice of the user store the signup flow needs.
type UserCreator interface {
	Create(ctx context.Context, u models.User) (models.User, error)
}

type Handler struct {
	Users         UserCreator
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger
	GoogleEnabled bool
}

func NewHandler(users UserCreator, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger, googleEnabled bool) *Handler {
	return &Handler{
		Users:         users,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		Log:           logger,
		GoogleEnabled: googleEnabled,
	}
}

type signupFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	DisplayName   string
	ReturnURL     string
	PasswordRules string
	GoogleEnabled bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /signup                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "signup", signupFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Create account", "/"),
		ReturnURL:     query.Get(r, "return"),
		PasswordRules: authutil.PasswordRules(),
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /signup                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSignupPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/signup")
		return
	}

	email := normalize.Email(r.FormValue("email"))
	displayName := normalize.Name(r.FormValue("display_name"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	if !authutil.ValidEmail(email) {
		h.renderFormWithError(w, r, "Please enter a valid email address.", email, displayName)
		return
	}
	if displayName == "" {
		h.renderFormWithError(w, r, "Please enter a display name.", email, displayName)
		return
	}
	if err := authutil.ValidatePassword(password); err != nil {
		h.renderFormWithError(w, r, err.Error(), email, displayName)
		return
	}
	if password != confirm {
		h.renderFormWithError(w, r, "Passwords don't match.", email, displayName)
		return
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "signup: hash password", err,
			"Account creation is unavailable right now. Please try again shortly.", "/signup")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		AuthMethod:   models.AuthMethodPassword,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		h.renderFormWithError(w, r, "An account with that email already exists. Try signing in instead.", email, displayName)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "signup: create user", err,
			"Account creation is unavailable right now. Please try again shortly.", "/signup")
		return
	}

	h.Log.Info("account created",
		zap.String("user_id", u.ID.Hex()),
		zap.String("auth_method", u.AuthMethod))

	login.SignInAndRedirect(w, r, h.SessionMgr, h.Log, &u, strings.TrimSpace(r.FormValue("return")))
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email, displayName string) {
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	templates.Render(w, r, "signup", signupFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Create account", "/"),
		Error:         msg,
		Email:         email,
		DisplayName:   displayName,
		ReturnURL:     ret,
		PasswordRules: authutil.PasswordRules(),
		GoogleEnabled: h.GoogleEnabled,
	})
}
