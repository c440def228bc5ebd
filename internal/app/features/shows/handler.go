package shows

import (
	"context"
	"net/http"

	"github.com/dalemusser/sceneit/internal/app/features/errors"
	"github.com/dalemusser/sceneit/internal/app/system/viewdata"
	"github.com/dalemusser/sceneit/internal/app/tmdb"
	"github.com/dalemusser/sceneit/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Catalog is the slice of the TMDB client the show listings need.
type Catalog interface {
	PopularShows(ctx context.Context, page int) (*tmdb.Page, error)
	TopRatedShows(ctx context.Context, page int) (*tmdb.Page, error)
	PosterURL(path string) string
}

// Handler serves the TV show category listings. Shows have no detail
// page; the listings are browse-only.
type Handler struct {
	Catalog Catalog
	ErrLog  *errors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(catalog Catalog, errLog *errors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Catalog: catalog,
		ErrLog:  errLog,
		Log:     logger,
	}
}

type category struct {
	heading string
	fetch   func(h *Handler) func(context.Context, int) (*tmdb.Page, error)
}

var categories = map[string]category{
	"popular":   {"Popular Shows", func(h *Handler) func(context.Context, int) (*tmdb.Page, error) { return h.Catalog.PopularShows }},
	"top_rated": {"Top Rated Shows", func(h *Handler) func(context.Context, int) (*tmdb.Page, error) { return h.Catalog.TopRatedShows }},
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /shows/{category} – paged listing                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "category")
	cat, ok := categories[name]
	if !ok {
		errors.RenderNotFound(w, r, "That show listing doesn't exist.")
		return
	}

	pageNum := viewdata.PageParam(r)
	page, err := cat.fetch(h)(r.Context(), pageNum)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "shows: "+name+" listing", err,
			"The show catalog is unavailable right now. Please try again shortly.", "/")
		return
	}

	data := struct {
		viewdata.BaseVM
		Heading string
		Grid    viewdata.MediaGridVM
		Pager   viewdata.PagerVM
	}{
		BaseVM:  viewdata.NewBaseVM(r, cat.heading, "/"),
		Heading: cat.heading,
		Grid: viewdata.MediaGridVM{
			Cards:        viewdata.NewMediaCards(h.Catalog, page.Results, models.MediaTypeTV),
			EmptyMessage: "No shows found.",
		},
		Pager: viewdata.NewPager(r, page.Page, page.TotalPages),
	}

	templates.Render(w, r, "show_listing", data)
}
