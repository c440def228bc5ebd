// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/sceneit/internal/app/features/errors"
	"github.com/dalemusser/sceneit/internal/app/system/auth"
	"github.com/dalemusser/sceneit/internal/app/system/authutil"
	"github.com/dalemusser/sceneit/internal/app/system/normalize"
	"github.com/dalemusser/sceneit/internal/app/system/ratelimit"
	"github.com/dalemusser/sceneit/internal/app/system/timeouts"
	"github.com/dalemusser/sceneit/internal/app/system/viewdata"
	"github.com/dalemusser/sceneit/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// UserGetter is the slice of the user store the login flow needs.
type UserGetter interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type Handler struct {
	Users         UserGetter
	SessionMgr    *auth.SessionManager
	Limiter       *ratelimit.LoginLimiter
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger
	GoogleEnabled bool
}

func NewHandler(users UserGetter, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger, googleEnabled bool) *Handler {
	return &Handler{
		Users:         users,
		SessionMgr:    sessionMgr,
		Limiter:       ratelimit.NewLoginLimiter(),
		ErrLog:        errLog,
		Log:           logger,
		GoogleEnabled: googleEnabled,
	}
}

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		ReturnURL:     query.Get(r, "return"),
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your email and password.", email)
		return
	}

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, email); !ok {
			h.Log.Warn("login throttled",
				zap.String("ip", ratelimit.ClientIP(r)))
			h.renderFormWithError(w, r, reason, email)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Same message as a wrong password so the form doesn't leak
		// which addresses have accounts.
		h.renderFormWithError(w, r, "Incorrect email or password.", email)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "login: user lookup", err,
			"Sign-in is unavailable right now. Please try again shortly.", "/login")
		return
	}

	if u.AuthMethod == models.AuthMethodGoogle {
		h.renderFormWithError(w, r, "This account signs in with Google. Use the Google button below.", email)
		return
	}

	if !authutil.CheckPassword(password, u.PasswordHash) {
		h.renderFormWithError(w, r, "Incorrect email or password.", email)
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}

	SignInAndRedirect(w, r, h.SessionMgr, h.Log, u, strings.TrimSpace(r.FormValue("return")))
}

// SignInAndRedirect establishes the authenticated session and sends the
// user to their return destination. Shared with the Google callback.
func SignInAndRedirect(w http.ResponseWriter, r *http.Request, sm *auth.SessionManager, log *zap.Logger, u *models.User, returnURL string) {
	if _, err := sm.GetSession(r); err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			log.Warn("session cookie invalid, using fresh session",
				zap.Error(err),
				zap.String("user_id", u.ID.Hex()))
		} else {
			log.Error("session store error during sign-in, using fresh session",
				zap.Error(err),
				zap.String("user_id", u.ID.Hex()))
		}
	}

	su := &auth.SessionUser{
		ID:         u.ID.Hex(),
		Name:       u.DisplayName,
		Email:      u.Email,
		AuthMethod: u.AuthMethod,
	}
	if err := sm.SignIn(w, r, su); err != nil {
		log.Error("save session failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		uierrors.RenderServerError(w, r, "Unable to create your session. Please try again.", "/login")
		return
	}

	dest := urlutil.SafeReturn(returnURL, "", "/")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email string) {
	// From POST, "return" is in the form; from GET it rides the query.
	ret := strings.TrimSpace(r.FormValue("return"))
	if ret == "" {
		ret = query.Get(r, "return")
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign in", "/"),
		Error:         msg,
		Email:         email,
		ReturnURL:     ret,
		GoogleEnabled: h.GoogleEnabled,
	})
}
