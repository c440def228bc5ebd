// internal/app/tmdb/client.go
//
// Client for The Movie Database (TMDB) v3 API. Covers the listings,
// search, and detail lookups the site renders; responses are cached
// briefly to spare the upstream quota.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the TMDB v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultImageBaseURL serves poster and backdrop images.
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	// DefaultCacheTTL matches the hour-long revalidation the listings
	// can tolerate.
	DefaultCacheTTL = time.Hour
)

// ErrNotFound is returned for lookups of IDs the catalog does not have.
var ErrNotFound = errors.New("title not found in catalog")

// Config carries the knobs for a Client. Only APIKey is required.
type Config struct {
	APIKey       string
	BaseURL      string // defaults to DefaultBaseURL
	ImageBaseURL string // defaults to DefaultImageBaseURL
	Region       string // optional release-region filter for movie listings
	CacheTTL     time.Duration
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// Client talks to the TMDB API. Safe for concurrent use.
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	region       string
	http         *http.Client
	cache        *responseCache
	log          *zap.Logger
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("tmdb: api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		baseURL:      cfg.BaseURL,
		imageBaseURL: cfg.ImageBaseURL,
		apiKey:       cfg.APIKey,
		region:       cfg.Region,
		http:         cfg.HTTPClient,
		cache:        newResponseCache(cfg.CacheTTL),
		log:          cfg.Logger,
	}, nil
}

// NowPlayingMovies lists movies currently in theaters.
func (c *Client) NowPlayingMovies(ctx context.Context, page int) (*Page, error) {
	return c.listMovies(ctx, "/movie/now_playing", page)
}

// PopularMovies lists movies by current popularity.
func (c *Client) PopularMovies(ctx context.Context, page int) (*Page, error) {
	return c.listMovies(ctx, "/movie/popular", page)
}

// TopRatedMovies lists movies by rating.
func (c *Client) TopRatedMovies(ctx context.Context, page int) (*Page, error) {
	return c.listMovies(ctx, "/movie/top_rated", page)
}

// UpcomingMovies lists movies releasing between today and the end of the
// year, most popular first.
func (c *Client) UpcomingMovies(ctx context.Context, page int) (*Page, error) {
	today := time.Now()
	q := url.Values{}
	q.Set("page", strconv.Itoa(clampPage(page)))
	q.Set("primary_release_date.gte", today.Format("2006-01-02"))
	q.Set("primary_release_date.lte", fmt.Sprintf("%d-12-31", today.Year()))
	q.Set("sort_by", "popularity.desc")
	if c.region != "" {
		q.Set("region", c.region)
	}

	var p Page
	if err := c.get(ctx, "/discover/movie", q, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SearchMovies searches movies by title. An empty query returns an empty
// page without calling upstream.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*Page, error) {
	if query == "" {
		return &Page{Page: 1, TotalPages: 1}, nil
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(clampPage(page)))

	var p Page
	if err := c.get(ctx, "/search/movie", q, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PopularShows lists TV shows by current popularity.
func (c *Client) PopularShows(ctx context.Context, page int) (*Page, error) {
	return c.listShows(ctx, "/tv/popular", page)
}

// TopRatedShows lists TV shows by rating.
func (c *Client) TopRatedShows(ctx context.Context, page int) (*Page, error) {
	return c.listShows(ctx, "/tv/top_rated", page)
}

// MovieDetails fetches the full record for one movie. Unknown IDs return
// ErrNotFound.
func (c *Client) MovieDetails(ctx context.Context, id int) (*MovieDetails, error) {
	var d MovieDetails
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// MovieCredits fetches cast and crew for one movie.
func (c *Client) MovieCredits(ctx context.Context, id int) (*Credits, error) {
	var cr Credits
	if err := c.get(ctx, "/movie/"+strconv.Itoa(id)+"/credits", nil, &cr); err != nil {
		return nil, err
	}
	return &cr, nil
}

// PosterURL resolves a poster path to a w500 image URL, or "" when the
// title has no poster.
func (c *Client) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + "/w500" + path
}

// BackdropURL resolves a backdrop path to a full-size image URL.
func (c *Client) BackdropURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + "/original" + path
}

func (c *Client) listMovies(ctx context.Context, endpoint string, page int) (*Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(clampPage(page)))
	if c.region != "" {
		q.Set("region", c.region)
	}
	var p Page
	if err := c.get(ctx, endpoint, q, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) listShows(ctx context.Context, endpoint string, page int) (*Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(clampPage(page)))
	var p Page
	if err := c.get(ctx, endpoint, q, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// get performs one cached API request and decodes the body into out.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return fmt.Errorf("tmdb: bad endpoint %q: %w", endpoint, err)
	}
	if q == nil {
		q = url.Values{}
	}
	u.RawQuery = q.Encode()

	// Cache key excludes the API key; it is appended only for the wire.
	key := u.String()
	if body, ok := c.cache.get(key); ok {
		return json.Unmarshal(body, out)
	}

	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("tmdb request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		c.log.Warn("tmdb returned non-200",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("tmdb: %s returned %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("tmdb: decoding %s: %w", endpoint, err)
	}
	c.cache.put(key, body)
	return nil
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
