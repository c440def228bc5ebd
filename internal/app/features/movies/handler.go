package movies

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/sceneit/internal/app/features/errors"
	"github.com/dalemusser/sceneit/internal/app/system/auth"
	"github.com/dalemusser/sceneit/internal/app/system/htmlsanitize"
	"github.com/dalemusser/sceneit/internal/app/system/viewdata"
	"github.com/dalemusser/sceneit/internal/app/tmdb"
	"github.com/dalemusser/sceneit/internal/app/watch"
	"github.com/dalemusser/sceneit/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const castLimit = 8

// Catalog is the slice of the TMDB client the movie pages need.
type Catalog interface {
	NowPlayingMovies(ctx context.Context, page int) (*tmdb.Page, error)
	PopularMovies(ctx context.Context, page int) (*tmdb.Page, error)
	TopRatedMovies(ctx context.Context, page int) (*tmdb.Page, error)
	UpcomingMovies(ctx context.Context, page int) (*tmdb.Page, error)
	MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error)
	MovieCredits(ctx context.Context, id int) (*tmdb.Credits, error)
	PosterURL(path string) string
	BackdropURL(path string) string
}

// Handler serves the movie category listings and the detail page.
type Handler struct {
	Catalog   Catalog
	Watchlist watch.ToggleService
	Watched   watch.ToggleService
	ErrLog    *errors.ErrorLogger
	Log       *zap.Logger
}

func NewHandler(catalog Catalog, watchlist, watched watch.ToggleService, errLog *errors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Catalog:   catalog,
		Watchlist: watchlist,
		Watched:   watched,
		ErrLog:    errLog,
		Log:       logger,
	}
}

// category describes one browsable movie listing.
type category struct {
	heading string
	fetch   func(h *Handler) func(context.Context, int) (*tmdb.Page, error)
}

var categories = map[string]category{
	"now_playing": {"Now Playing", func(h *Handler) func(context.Context, int) (*tmdb.Page, error) { return h.Catalog.NowPlayingMovies }},
	"popular":     {"Popular Movies", func(h *Handler) func(context.Context, int) (*tmdb.Page, error) { return h.Catalog.PopularMovies }},
	"top_rated":   {"Top Rated Movies", func(h *Handler) func(context.Context, int) (*tmdb.Page, error) { return h.Catalog.TopRatedMovies }},
	"upcoming":    {"Coming Soon", func(h *Handler) func(context.Context, int) (*tmdb.Page, error) { return h.Catalog.UpcomingMovies }},
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /movies/{category} – paged listing                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "category")
	cat, ok := categories[name]
	if !ok {
		errors.RenderNotFound(w, r, "That movie listing doesn't exist.")
		return
	}

	pageNum := viewdata.PageParam(r)
	page, err := cat.fetch(h)(r.Context(), pageNum)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "movies: "+name+" listing", err,
			"The movie catalog is unavailable right now. Please try again shortly.", "/")
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
			Cards:        viewdata.NewMediaCards(h.Catalog, page.Results, models.MediaTypeMovie),
			EmptyMessage: "No movies found.",
		},
		Pager: viewdata.NewPager(r, page.Page, page.TotalPages),
	}

	templates.Render(w, r, "movie_listing", data)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /movies/detail/{id} – movie detail                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		errors.RenderNotFound(w, r, "That movie doesn't exist.")
		return
	}
	ctx := r.Context()

	details, err := h.Catalog.MovieDetails(ctx, id)
	if err == tmdb.ErrNotFound {
		errors.RenderNotFound(w, r, "That movie doesn't exist.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "movies: detail fetch", err,
			"The movie catalog is unavailable right now. Please try again shortly.", "/")
		return
	}

	// Credits are decoration; a failed fetch leaves the sections empty.
	var cast, directors []string
	if credits, err := h.Catalog.MovieCredits(ctx, id); err != nil {
		h.Log.Warn("movies: credits fetch failed", zap.Int("movie_id", id), zap.Error(err))
	} else {
		cast = credits.TopCast(castLimit)
		directors = credits.CrewByJob("Director", castLimit)
	}

	user, signedIn := auth.CurrentUser(r)
	returnURL := r.URL.RequestURI()

	data := struct {
		viewdata.BaseVM
		Movie           *tmdb.MovieDetails
		PosterURL       string
		BackdropURL     string
		Year            string
		Runtime         string
		Rating          string
		Genres          string
		Overview        string
		Cast            []string
		Directors       []string
		WatchlistButton viewdata.WatchButtonVM
		WatchedButton   viewdata.WatchButtonVM
	}{
		BaseVM:      viewdata.NewBaseVM(r, details.Title, "/movies/popular"),
		Movie:       details,
		PosterURL:   h.Catalog.PosterURL(details.PosterPath),
		BackdropURL: h.Catalog.BackdropURL(details.BackdropPath),
		Runtime:     formatRuntime(details.Runtime),
		Genres:      joinGenres(details.Genres),
		Overview:    htmlsanitize.StripTags(details.Overview),
		Cast:        cast,
		Directors:   directors,
		WatchlistButton: viewdata.NewWatchButton(signedIn, h.resolve(ctx, h.Watchlist, user, id),
			"/watchlist/toggle", id, models.MediaTypeMovie, "Add to watchlist", "Remove from watchlist", returnURL),
		WatchedButton: viewdata.NewWatchButton(signedIn, h.resolve(ctx, h.Watched, user, id),
			"/watched/toggle", id, models.MediaTypeMovie, "Mark as watched", "Unmark as watched", returnURL),
	}
	if len(details.ReleaseDate) >= 4 {
		data.Year = details.ReleaseDate[:4]
	}
	if details.VoteAverage > 0 {
		data.Rating = fmt.Sprintf("%.1f", details.VoteAverage)
	}

	templates.Render(w, r, "movie_detail", data)
}

// resolve settles the initial button state for the signed-in user.
// Signed-out visitors resolve to absent without touching the store.
func (h *Handler) resolve(ctx context.Context, svc watch.ToggleService, user *auth.SessionUser, movieID int) bool {
	t := watch.NewToggle(svc, user, movieID, models.MediaTypeMovie)
	t.ResolveFromService(ctx)
	return t.State() == watch.StatePresent
}

func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func joinGenres(genres []tmdb.Genre) string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}
