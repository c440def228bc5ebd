// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/sceneit/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeProfile)
		pr.Post("/name", h.HandleNameChange)
		pr.Post("/password", h.HandlePasswordChange)
	})

	return r
}
