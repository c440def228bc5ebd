// internal/app/features/logout/routes.go
package logout

import "github.com/go-chi/chi/v5"

// Routes are unguarded on purpose: logging out an already signed-out
// visitor is a harmless no-op that still lands them on the home page.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLogout)
	return r
}
