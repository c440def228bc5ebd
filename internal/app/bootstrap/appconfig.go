// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds SceneIt's application configuration, loaded by
// LoadConfig and validated by ValidateConfig before anything connects.
type AppConfig struct {
	// MongoDB
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Sessions
	SessionKey    string
	SessionName   string
	SessionDomain string
	SessionMaxAge time.Duration

	// Base URL for OAuth callbacks and absolute links
	BaseURL string

	// TMDB catalog
	TMDBAPIKey       string
	TMDBBaseURL      string
	TMDBImageBaseURL string
	TMDBRegion       string
	TMDBCacheTTL     time.Duration

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
}

// GoogleEnabled reports whether Google sign-in can be offered.
func (c AppConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}
