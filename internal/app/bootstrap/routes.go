// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	aboutfeature "github.com/dalemusser/sceneit/internal/app/features/about"
	authgooglefeature "github.com/dalemusser/sceneit/internal/app/features/authgoogle"
	collectionsfeature "github.com/dalemusser/sceneit/internal/app/features/collections"
	errorsfeature "github.com/dalemusser/sceneit/internal/app/features/errors"
	healthfeature "github.com/dalemusser/sceneit/internal/app/features/health"
	homefeature "github.com/dalemusser/sceneit/internal/app/features/home"
	loginfeature "github.com/dalemusser/sceneit/internal/app/features/login"
	logoutfeature "github.com/dalemusser/sceneit/internal/app/features/logout"
	moviesfeature "github.com/dalemusser/sceneit/internal/app/features/movies"
	profilefeature "github.com/dalemusser/sceneit/internal/app/features/profile"
	searchfeature "github.com/dalemusser/sceneit/internal/app/features/search"
	showsfeature "github.com/dalemusser/sceneit/internal/app/features/shows"
	signupfeature "github.com/dalemusser/sceneit/internal/app/features/signup"
	"github.com/dalemusser/sceneit/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/sceneit/internal/app/store/users"
	watchitemstore "github.com/dalemusser/sceneit/internal/app/store/watchitems"
	"github.com/dalemusser/sceneit/internal/app/system/auth"
	"github.com/dalemusser/sceneit/internal/app/tmdb"
	"github.com/dalemusser/sceneit/internal/app/watch"
	"github.com/dalemusser/sceneit/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// SceneIt initializes the template engine, applies session middleware,
// builds the TMDB catalog client and watch services, and mounts feature
// routers: home, movies, shows, search, watchlist, watched, auth, and
// profile.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// TMDB catalog client, shared by every browsing feature.
	catalog, err := tmdb.NewClient(tmdb.Config{
		APIKey:       appCfg.TMDBAPIKey,
		BaseURL:      appCfg.TMDBBaseURL,
		ImageBaseURL: appCfg.TMDBImageBaseURL,
		Region:       appCfg.TMDBRegion,
		CacheTTL:     appCfg.TMDBCacheTTL,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("tmdb client init failed", zap.Error(err))
		return nil, err
	}

	// Stores and watch services. The watchlist and watched list share
	// one implementation, each bound to its own collection.
	users := userstore.New(deps.MongoDatabase)
	watchlistSvc := watch.NewService(watchitemstore.New(deps.MongoDatabase, models.WatchlistCollection), "watchlist", logger)
	watchedSvc := watch.NewService(watchitemstore.New(deps.MongoDatabase, models.WatchedCollection), "watched", logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, appCfg.TMDBAPIKey != "", logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public browsing
	homeHandler := homefeature.NewHandler(catalog, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	aboutHandler := aboutfeature.NewHandler(logger)
	r.Mount("/about", aboutfeature.Routes(aboutHandler))

	moviesHandler := moviesfeature.NewHandler(catalog, watchlistSvc, watchedSvc, errLog, logger)
	r.Mount("/movies", moviesfeature.Routes(moviesHandler))

	showsHandler := showsfeature.NewHandler(catalog, errLog, logger)
	r.Mount("/shows", showsfeature.Routes(showsHandler))

	searchHandler := searchfeature.NewHandler(catalog, errLog, logger)
	r.Mount("/search", searchfeature.Routes(searchHandler))

	// Personal collections
	watchlistHandler := collectionsfeature.NewHandler(collectionsfeature.WatchlistDefinition, watchlistSvc, catalog, errLog, logger)
	r.Mount("/watchlist", collectionsfeature.Routes(watchlistHandler, sessionMgr.RequireSignedIn))

	watchedHandler := collectionsfeature.NewHandler(collectionsfeature.WatchedDefinition, watchedSvc, catalog, errLog, logger)
	r.Mount("/watched", collectionsfeature.Routes(watchedHandler, sessionMgr.RequireSignedIn))

	// Authentication
	googleEnabled := appCfg.GoogleEnabled()

	loginHandler := loginfeature.NewHandler(users, sessionMgr, errLog, logger, googleEnabled)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	signupHandler := signupfeature.NewHandler(users, sessionMgr, errLog, logger, googleEnabled)
	r.Mount("/signup", signupfeature.Routes(signupHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(users, sessionMgr, oauthstate.New(deps.MongoDatabase), appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Account
	profileHandler := profilefeature.NewHandler(users, sessionMgr, errLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	return r, nil
}
