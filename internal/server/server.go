// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: New opens the database, builds the
// services on top of it and the handlers on top of those, then mounts
// everything on one chi router. Nothing below this package knows how the
// pieces are put together.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/plotpocket/internal/auth"
	"github.com/sakif/plotpocket/internal/config"
	"github.com/sakif/plotpocket/internal/handler"
	"github.com/sakif/plotpocket/internal/middleware"
	"github.com/sakif/plotpocket/internal/repository/sqlstore"
	"github.com/sakif/plotpocket/internal/service"
	"github.com/sakif/plotpocket/internal/tmdb"
)

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database connection and the background work of the
// login limiter; Close releases both.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqlstore.DB

	stopBackground context.CancelFunc
}

// New opens the database and wires every route.
//
// provider is the (usually cached) TMDB client. It is passed in rather than
// built here so tests can hand in a mock.
func New(cfg *config.Config, logger *slog.Logger, provider tmdb.Provider, serviceOpts ...service.Option) (*Server, error) {
	db, err := openDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		router:         chi.NewRouter(),
		config:         cfg,
		logger:         logger,
		db:             db,
		stopBackground: cancel,
	}

	if err := s.setupRoutes(ctx, provider, serviceOpts); err != nil {
		s.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// openDatabase creates the parent directory of a SQLite file before
// opening it; Postgres DSNs are used as-is.
func openDatabase(cfg config.DatabaseConfig) (*sqlstore.DB, error) {
	dialect := sqlstore.Dialect(cfg.Driver)
	if dialect == sqlstore.DialectSQLite && cfg.DSN != ":memory:" && !strings.HasPrefix(cfg.DSN, "file:") {
		if dir := filepath.Dir(cfg.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating %s: %w", dir, err)
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return sqlstore.Open(ctx, dialect, cfg.DSN)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close stops background work and closes the database.
func (s *Server) Close() error {
	s.stopBackground()
	return s.db.Close()
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	POST   /api/auth/register|login|logout
//	GET    /api/auth/status|test
//	GET    /api/auth/github/login|callback        (when configured)
//	GET    /api/shows/trending/{window}           optional auth
//	GET    /api/shows/search?query=               optional auth
//	GET    /api/movies[/{category}]               optional auth
//	GET    /api/TvShows/{category}|search         optional auth
//	GET    /api/Trending/{window}|search|test     optional auth
//	POST   /api/{movies|TvShows}/{id}/watchlist   required auth
//	DELETE /api/{movies|TvShows}/{id}/watchlist   required auth
//	GET    /api/watchlist                         required auth
//	POST   /api/shows/{showId}/bookmark           required auth
//	DELETE /api/shows/{showId}/bookmark           required auth
//	GET    /api/shows/bookmarks                   required auth
//	GET    /healthz
//	GET    /*                                     built client (STATIC_DIR)
//
// Middleware executes in the order it's added:
// RequestID, RealIP, Recoverer, the request logger, then CORS.
func (s *Server) setupRoutes(ctx context.Context, provider tmdb.Provider, serviceOpts []service.Option) error {
	cfg := s.config

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	// === Services ===
	// s.db implements every repository interface.
	showService := service.NewShowService(provider, s.db, s.db, s.logger, serviceOpts...)
	watchlistService := service.NewWatchlistService(provider, s.db, s.db, s.db, s.logger, serviceOpts...)
	bookmarkService := service.NewBookmarkService(provider, s.db, s.db, s.logger, serviceOpts...)
	authService := service.NewAuthService(s.db, tokens, auth.NewPasswordService(), s.logger)

	// === Handlers ===
	// A nil *GitHubProvider inside the interface would not compare equal to
	// nil, so the variable stays an untyped nil unless GitHub is configured.
	var github handler.GitHubExchanger
	if cfg.GitHub.Enabled() {
		github = auth.NewGitHubProvider(cfg.GitHub.ClientID, cfg.GitHub.ClientSecret, cfg.GitHub.CallbackURL)
	}

	showHandler := handler.NewShowHandler(showService, s.logger)
	collectionHandler := handler.NewCollectionHandler(watchlistService, bookmarkService, s.logger)
	authHandler := handler.NewAuthHandler(authService, github, auth.CookieOptions{Secure: cfg.Auth.CookieSecure}, appURL(cfg), s.logger)
	healthHandler := handler.NewHealthHandler(s.db, provider, s.logger)

	requireAuth := auth.RequireAuth(tokens)
	optionalAuth := auth.OptionalAuth(tokens)

	loginLimit := func(next http.Handler) http.Handler { return next }
	if cfg.LoginRateLimit > 0 {
		limiter := middleware.PerMinute(cfg.LoginRateLimit)
		go limiter.Run(ctx)
		loginLimit = middleware.RateLimit(limiter)
	}

	// === Global Middleware ===
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.CORS(cfg.AllowedOrigins))

	s.router.Get("/healthz", healthHandler.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.NotFound(handler.HandleNotFound)
		r.MethodNotAllowed(handler.HandleMethodNotAllowed)

		// --- Auth ---
		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimit).Post("/login", authHandler.HandleLogin)
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/logout", authHandler.HandleLogout)
			r.With(optionalAuth).Get("/status", authHandler.HandleStatus)
			r.Get("/test", authHandler.HandleTest)

			if github != nil {
				r.Get("/github/login", authHandler.HandleGitHubLogin)
				r.Get("/github/callback", authHandler.HandleGitHubCallback)
			}
		})

		// --- Browsing: anonymous callers get unflagged lists ---
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)

			r.Get("/shows/trending/{window}", showHandler.HandleTrending)
			r.Get("/shows/search", showHandler.HandleSearch)

			r.Get("/movies", showHandler.HandleMovies)
			r.Get("/movies/{category}", showHandler.HandleMovies)

			for _, prefix := range []string{"/TvShows", "/tvshows"} {
				r.Get(prefix+"/search", showHandler.HandleSearchTV)
				r.Get(prefix+"/{category}", showHandler.HandleTvShows)
			}

			for _, prefix := range []string{"/Trending", "/trending"} {
				r.Get(prefix+"/test", healthHandler.HandleProviderTest)
				r.Get(prefix+"/search", showHandler.HandleSearch)
				r.Get(prefix+"/{window}", showHandler.HandleTrending)
			}
		})

		// --- Per-user collections ---
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/movies/{id}/watchlist", collectionHandler.HandleAddMovie)
			r.Delete("/movies/{id}/watchlist", collectionHandler.HandleRemoveFromWatchlist)
			for _, prefix := range []string{"/TvShows", "/tvshows"} {
				r.Post(prefix+"/{id}/watchlist", collectionHandler.HandleAddTvShow)
				r.Delete(prefix+"/{id}/watchlist", collectionHandler.HandleRemoveFromWatchlist)
			}
			r.Get("/watchlist", collectionHandler.HandleWatchlist)

			r.Get("/shows/bookmarks", collectionHandler.HandleBookmarks)
			r.Post("/shows/{showId}/bookmark", collectionHandler.HandleAddBookmark)
			r.Delete("/shows/{showId}/bookmark", collectionHandler.HandleRemoveBookmark)
		})
	})

	// === Built client ===
	if cfg.StaticDir != "" {
		spa, err := handler.NewSPAHandler(cfg.StaticDir, s.logger)
		if err != nil {
			return fmt.Errorf("serving %s: %w", cfg.StaticDir, err)
		}
		s.router.Handle("/*", spa)
	}

	return nil
}

// appURL is where the GitHub callback sends the browser afterwards: the
// server itself when it hosts the client, otherwise the first allowed
// origin.
func appURL(cfg *config.Config) string {
	if cfg.StaticDir != "" {
		return "/"
	}
	for _, origin := range cfg.AllowedOrigins {
		if origin != "*" {
			return strings.TrimSuffix(origin, "/") + "/"
		}
	}
	return "/"
}

// Start starts the HTTP server and handles graceful shutdown.
//
// On SIGINT/SIGTERM the listener stops accepting connections, in-flight
// requests get 30 seconds to finish, and then the database is closed.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.Database.Driver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
