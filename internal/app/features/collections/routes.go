package collections

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts one collection's pages. requireSignedIn guards the list
// page; the toggle endpoint handles signed-out callers itself with an
// HX-Redirect.
func Routes(h *Handler, requireSignedIn func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.With(requireSignedIn).Get("/", h.ServeList)
	r.Post("/toggle", h.ServeToggle)
	return r
}
