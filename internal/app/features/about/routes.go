// internal/app/features/about/routes.go
package about

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted under /about.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeAbout)
	return r
}
