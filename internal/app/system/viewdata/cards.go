// internal/app/system/viewdata/cards.go
package viewdata

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dalemusser/sceneit/internal/app/system/htmlsanitize"
	"github.com/dalemusser/sceneit/internal/app/tmdb"
	"github.com/dalemusser/sceneit/internal/domain/models"
)

// snippetLen is the rune budget for overview text on cards.
const snippetLen = 140

// MediaCardVM is one tile in a media grid.
type MediaCardVM struct {
	ID        int
	Title     string
	Year      string
	Rating    string
	Snippet   string
	PosterURL string
	DetailURL string // empty when no detail page exists (TV shows)
}

// MediaGridVM feeds the media_grid partial.
type MediaGridVM struct {
	Cards        []MediaCardVM
	EmptyMessage string
}

// PosterResolver turns a TMDB poster path into a full image URL.
// *tmdb.Client satisfies it; tests substitute a trivial fake.
type PosterResolver interface {
	PosterURL(path string) string
}

// NewMediaCards converts catalog items into card view models. Overview
// text is sanitized and trimmed; movies link to their detail page.
func NewMediaCards(c PosterResolver, items []tmdb.MediaItem, mediaType string) []MediaCardVM {
	cards := make([]MediaCardVM, 0, len(items))
	for _, item := range items {
		card := MediaCardVM{
			ID:        item.ID,
			Title:     item.DisplayTitle(),
			Snippet:   htmlsanitize.Snippet(item.Overview, snippetLen),
			PosterURL: c.PosterURL(item.PosterPath),
		}
		if d := item.DisplayDate(); len(d) >= 4 {
			card.Year = d[:4]
		}
		if item.VoteAverage > 0 {
			card.Rating = fmt.Sprintf("%.1f", item.VoteAverage)
		}
		if mediaType == models.MediaTypeMovie {
			card.DetailURL = "/movies/detail/" + strconv.Itoa(item.ID)
		}
		cards = append(cards, card)
	}
	return cards
}

// PagerVM feeds the pager partial.
type PagerVM struct {
	Page       int
	TotalPages int
	PrevURL    string
	NextURL    string
}

// NewPager builds pagination links by rewriting the request's page
// parameter, preserving the rest of the query (search terms).
func NewPager(r *http.Request, page, totalPages int) PagerVM {
	vm := PagerVM{Page: page, TotalPages: totalPages}

	pageURL := func(p int) string {
		q := r.URL.Query()
		q.Set("page", strconv.Itoa(p))
		return r.URL.Path + "?" + q.Encode()
	}
	if page > 1 {
		vm.PrevURL = pageURL(page - 1)
	}
	if page < totalPages {
		vm.NextURL = pageURL(page + 1)
	}
	return vm
}

// PageParam reads the page query parameter, defaulting to 1.
func PageParam(r *http.Request) int {
	p, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}
