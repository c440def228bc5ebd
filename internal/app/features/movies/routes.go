package movies

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/detail/{id}", h.ServeDetail)
	r.Get("/{category}", h.ServeCategory)
	return r
}
