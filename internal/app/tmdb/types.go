// internal/app/tmdb/types.go
package tmdb

import "sort"

// MediaItem is one entry in a catalog listing: a movie or a TV show.
// Movies populate Title/ReleaseDate, shows populate Name/FirstAirDate;
// use DisplayTitle and DisplayDate rather than reading the raw pairs.
type MediaItem struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	VoteAverage  float64 `json:"vote_average"`
}

// DisplayTitle returns the movie title or show name, whichever is set.
func (m MediaItem) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Name
}

// DisplayDate returns the release date or first air date, whichever is set.
func (m MediaItem) DisplayDate() string {
	if m.ReleaseDate != "" {
		return m.ReleaseDate
	}
	return m.FirstAirDate
}

// Page is one page of a paginated catalog listing.
type Page struct {
	Page         int         `json:"page"`
	Results      []MediaItem `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// Genre is a named genre on a detail record.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Country is a production country on a detail record.
type Country struct {
	Name string `json:"name"`
}

// MovieDetails is the full record for one movie.
type MovieDetails struct {
	ID                  int       `json:"id"`
	Title               string    `json:"title"`
	Tagline             string    `json:"tagline"`
	Overview            string    `json:"overview"`
	ReleaseDate         string    `json:"release_date"`
	Runtime             int       `json:"runtime"` // minutes
	Status              string    `json:"status"`
	VoteAverage         float64   `json:"vote_average"`
	PosterPath          string    `json:"poster_path"`
	BackdropPath        string    `json:"backdrop_path"`
	OriginalLanguage    string    `json:"original_language"`
	Budget              int64     `json:"budget"`
	Revenue             int64     `json:"revenue"`
	Genres              []Genre   `json:"genres"`
	ProductionCountries []Country `json:"production_countries"`
}

// CastMember is one billed actor; Order is billing position.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// CrewMember is one crew credit (Job is "Director", "Producer", ...).
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Credits are the cast and crew for one movie.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// TopCast returns up to limit cast names in billing order.
func (c Credits) TopCast(limit int) []string {
	cast := make([]CastMember, len(c.Cast))
	copy(cast, c.Cast)
	sort.Slice(cast, func(i, j int) bool { return cast[i].Order < cast[j].Order })
	if len(cast) > limit {
		cast = cast[:limit]
	}
	names := make([]string, 0, len(cast))
	for _, m := range cast {
		names = append(names, m.Name)
	}
	return names
}

// CrewByJob returns up to limit crew names holding the given job.
func (c Credits) CrewByJob(job string, limit int) []string {
	var names []string
	for _, m := range c.Crew {
		if m.Job != job {
			continue
		}
		names = append(names, m.Name)
		if len(names) == limit {
			break
		}
	}
	return names
}
