package search

import (
	"context"
	"net/http"

	"github.com/dalemusser/sceneit/internal/app/features/errors"
	"github.com/dalemusser/sceneit/internal/app/system/viewdata"
	"github.com/dalemusser/sceneit/internal/app/tmdb"
	"github.com/dalemusser/sceneit/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Catalog is the slice of the TMDB client the search page needs.
type Catalog interface {
	SearchMovies(ctx context.Context, q string, page int) (*tmdb.Page, error)
	PosterURL(path string) string
}

// Handler serves the movie search page.
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

/*─────────────────────────────────────────────────────────────────────────────*
| GET /search?q=…&page=… – movie search                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeSearch renders the search form, and results when a query is
// present. An empty query renders the bare form without hitting the
// catalog.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	q := query.Search(r, "q")

	data := struct {
		viewdata.BaseVM
		Query    string
		Searched bool
		Grid     viewdata.MediaGridVM
		Pager    viewdata.PagerVM
	}{
		BaseVM: viewdata.NewBaseVM(r, "Search", "/"),
		Query:  q,
	}

	if q != "" {
		pageNum := viewdata.PageParam(r)
		page, err := h.Catalog.SearchMovies(r.Context(), q, pageNum)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "search: query", err,
				"Search is unavailable right now. Please try again shortly.", "/")
			return
		}
		data.Searched = true
		data.Grid = viewdata.MediaGridVM{
			Cards:        viewdata.NewMediaCards(h.Catalog, page.Results, models.MediaTypeMovie),
			EmptyMessage: "No movies matched \"" + q + "\".",
		}
		data.Pager = viewdata.NewPager(r, page.Page, page.TotalPages)
	}

	templates.Render(w, r, "search", data)
}
