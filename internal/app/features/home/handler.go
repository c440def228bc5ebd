package home

import (
	"context"
	"net/http"

	"github.com/dalemusser/sceneit/internal/app/system/viewdata"
	"github.com/dalemusser/sceneit/internal/app/tmdb"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// homeRowSize caps each landing-page row to one screenful.
const homeRowSize = 12

// Catalog is the slice of the TMDB client the landing page needs.
type Catalog interface {
	PopularMovies(ctx context.Context, page int) (*tmdb.Page, error)
	PopularShows(ctx context.Context, page int) (*tmdb.Page, error)
	PosterURL(path string) string
}

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	Catalog Catalog
	Log     *zap.Logger
}

func NewHandler(catalog Catalog, logger *zap.Logger) *Handler {
	return &Handler{
		Catalog: catalog,
		Log:     logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot renders the landing page: a row of popular movies and a row
// of popular shows. A catalog outage degrades to empty rows with a
// notice instead of an error page.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	movies := h.gridFor(ctx, h.Catalog.PopularMovies, "movie", "Popular movies are unavailable right now.")
	shows := h.gridFor(ctx, h.Catalog.PopularShows, "tv", "Popular shows are unavailable right now.")

	data := struct {
		viewdata.BaseVM
		PopularMovies viewdata.MediaGridVM
		PopularShows  viewdata.MediaGridVM
	}{
		BaseVM:        viewdata.NewBaseVM(r, "Welcome", "/"),
		PopularMovies: movies,
		PopularShows:  shows,
	}

	templates.Render(w, r, "home", data)
}

func (h *Handler) gridFor(ctx context.Context, fetch func(context.Context, int) (*tmdb.Page, error), mediaType, unavailable string) viewdata.MediaGridVM {
	page, err := fetch(ctx, 1)
	if err != nil {
		h.Log.Warn("home: catalog fetch failed",
			zap.String("media_type", mediaType),
			zap.Error(err))
		return viewdata.MediaGridVM{EmptyMessage: unavailable}
	}

	items := page.Results
	if len(items) > homeRowSize {
		items = items[:homeRowSize]
	}
	return viewdata.MediaGridVM{
		Cards:        viewdata.NewMediaCards(h.Catalog, items, mediaType),
		EmptyMessage: "Nothing to show yet.",
	}
}
