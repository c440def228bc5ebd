// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/sceneit/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// pageData is the basic view model for error pages.
type pageData struct {
	Title      string
	IsLoggedIn bool
	UserName   string
	Message    string
	BackURL    string
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	RenderUnauthorized(w, r, "/login")
}

// NotFound renders the 404 page for unmatched routes and unknown titles.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	RenderNotFound(w, r, "")
}

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	render(w, r, http.StatusUnauthorized, pageData{
		Title:   "Sign in required",
		Message: "Please sign in to continue.",
		BackURL: backURL,
	})
}

// RenderNotFound shows the 404 page with an optional message.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "We couldn't find that page."
	}
	render(w, r, http.StatusNotFound, pageData{
		Title:   "Not found",
		Message: msg,
		BackURL: urlutil.SafeReturn(r.URL.Query().Get("return"), "", "/"),
	})
}

// RenderServerError shows the generic failure page with a message.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "Something went wrong on our end. Please try again."
	}
	if backURL == "" {
		backURL = "/"
	}
	render(w, r, http.StatusInternalServerError, pageData{
		Title:   "Something went wrong",
		Message: msg,
		BackURL: backURL,
	})
}

func render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	if u, ok := auth.CurrentUser(r); ok {
		data.IsLoggedIn = true
		data.UserName = u.Name
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", data)
}
