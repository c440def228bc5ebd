package collections

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/sceneit/internal/app/features/errors"
	"github.com/dalemusser/sceneit/internal/app/system/auth"
	"github.com/dalemusser/sceneit/internal/app/system/viewdata"
	"github.com/dalemusser/sceneit/internal/app/tmdb"
	"github.com/dalemusser/sceneit/internal/app/watch"
	"github.com/dalemusser/sceneit/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Service is the slice of watch.Service a collection page drives.
type Service interface {
	watch.ToggleService
	List(ctx context.Context, user *auth.SessionUser) ([]models.WatchItem, error)
}

// Catalog hydrates stored movie IDs back into titles and posters.
type Catalog interface {
	MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error)
	PosterURL(path string) string
}

// Definition fixes the wording and endpoints for one collection page.
// The watchlist and watched pages share every behavior; only the copy
// differs.
type Definition struct {
	Noun         string // "watchlist" or "watched list", used in notices
	Title        string
	Path         string // page path, e.g. /watchlist
	AddLabel     string
	RemoveLabel  string
	EmptyMessage string
}

// WatchlistDefinition is the "want to see" collection.
var WatchlistDefinition = Definition{
	Noun:         "watchlist",
	Title:        "My Watchlist",
	Path:         "/watchlist",
	AddLabel:     "Add to watchlist",
	RemoveLabel:  "Remove from watchlist",
	EmptyMessage: "Your watchlist is empty. Browse the catalog and add movies you want to see.",
}

// WatchedDefinition is the "already seen" collection.
var WatchedDefinition = Definition{
	Noun:         "watched list",
	Title:        "Watched",
	Path:         "/watched",
	AddLabel:     "Mark as watched",
	RemoveLabel:  "Unmark as watched",
	EmptyMessage: "Nothing marked as watched yet.",
}

// Handler serves one collection's list page and its HTMX toggle
// endpoint. The app mounts two instances, one per collection.
type Handler struct {
	Def     Definition
	Service Service
	Catalog Catalog
	ErrLog  *errors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(def Definition, svc Service, catalog Catalog, errLog *errors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Def:     def,
		Service: svc,
		Catalog: catalog,
		ErrLog:  errLog,
		Log:     logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /watchlist, GET /watched – the signed-in user's collection              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		errors.RenderUnauthorized(w, r, "/login?return="+h.Def.Path)
		return
	}

	items, err := h.Service.List(r.Context(), user)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "collections: list "+h.Def.Noun, err,
			"Your "+h.Def.Noun+" is unavailable right now. Please try again shortly.", "/")
		return
	}

	data := struct {
		viewdata.BaseVM
		Heading string
		Count   int
		Grid    viewdata.MediaGridVM
	}{
		BaseVM:  viewdata.NewBaseVM(r, h.Def.Title, "/"),
		Heading: h.Def.Title,
		Count:   len(items),
		Grid: viewdata.MediaGridVM{
			Cards:        h.hydrate(r.Context(), items),
			EmptyMessage: h.Def.EmptyMessage,
		},
	}

	templates.Render(w, r, "collection_list", data)
}

// hydrate resolves stored movie IDs into cards. A catalog miss for one
// item degrades that card to a bare title instead of failing the page.
func (h *Handler) hydrate(ctx context.Context, items []models.WatchItem) []viewdata.MediaCardVM {
	cards := make([]viewdata.MediaCardVM, 0, len(items))
	for _, item := range items {
		card := viewdata.MediaCardVM{
			ID:    item.MovieID,
			Title: "Movie #" + strconv.Itoa(item.MovieID),
		}
		if item.MediaType == models.MediaTypeMovie {
			card.DetailURL = "/movies/detail/" + strconv.Itoa(item.MovieID)
		}
		if details, err := h.Catalog.MovieDetails(ctx, item.MovieID); err != nil {
			h.Log.Warn("collections: hydrate failed",
				zap.Int("movie_id", item.MovieID),
				zap.Error(err))
		} else {
			card.Title = details.Title
			card.PosterURL = h.Catalog.PosterURL(details.PosterPath)
			if len(details.ReleaseDate) >= 4 {
				card.Year = details.ReleaseDate[:4]
			}
		}
		cards = append(cards, card)
	}
	return cards
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /watchlist/toggle, POST /watched/toggle – HTMX membership toggle       |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeToggle flips one movie's membership and re-renders the button.
// The form carries the state the control was displaying, so the flip is
// decided optimistically without a read; a failed mutation re-renders
// the button rolled back to its previous state with a notice.
func (h *Handler) ServeToggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	movieID, err := strconv.Atoi(r.PostFormValue("movie_id"))
	if err != nil || movieID < 1 {
		http.Error(w, "bad movie_id", http.StatusBadRequest)
		return
	}
	mediaType := r.PostFormValue("media_type")
	if mediaType != models.MediaTypeMovie && mediaType != models.MediaTypeTV {
		http.Error(w, "bad media_type", http.StatusBadRequest)
		return
	}

	user, _ := auth.CurrentUser(r)
	t := watch.NewToggle(h.Service, user, movieID, mediaType)

	switch watch.ParseState(r.PostFormValue("state")) {
	case watch.StatePresent:
		t.Resolve(true)
	case watch.StateAbsent:
		t.Resolve(false)
	case watch.StatePending:
		// A second click raced the first; leave the first in charge and
		// re-render whatever the store currently says.
		t.ResolveFromService(r.Context())
		h.renderButton(w, user != nil, t.State() == watch.StatePresent, movieID, mediaType,
			"Still working on your last change.")
		return
	}

	out, doErr := t.Do(r.Context())
	switch {
	case doErr == nil:
		notice := ""
		if out.AlreadyExisted {
			notice = "Already in your " + h.Def.Noun + "."
		}
		h.renderButton(w, true, out.State == watch.StatePresent, movieID, mediaType, notice)

	case doErr == watch.ErrSignInRequired:
		w.Header().Set("HX-Redirect", "/login?return="+h.Def.Path)
		w.WriteHeader(http.StatusUnauthorized)

	default:
		// Rolled back; out.State is the state before the attempt.
		h.renderButton(w, true, out.State == watch.StatePresent, movieID, mediaType,
			"Couldn't update your "+h.Def.Noun+". Please try again.")
	}
}

func (h *Handler) renderButton(w http.ResponseWriter, signedIn, inList bool, movieID int, mediaType, notice string) {
	vm := viewdata.NewWatchButton(signedIn, inList, h.Def.Path+"/toggle", movieID, mediaType,
		h.Def.AddLabel, h.Def.RemoveLabel, h.Def.Path)
	vm.Notice = notice
	templates.RenderSnippet(w, "watch_button", vm)
}
