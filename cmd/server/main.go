// Package main is the entry point for the PlotPocket API server.
//
// main only reads configuration, builds the logger and the TMDB provider,
// and starts the server. All actual logic lives in internal/.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sakif/plotpocket/internal/config"
	"github.com/sakif/plotpocket/internal/server"
	"github.com/sakif/plotpocket/internal/tmdb"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "plotpocket:", err)
		os.Exit(1)
	}
}

func run() error {
	// === 1. CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// === 2. LOGGING ===
	logger, closeLog := newLogger(cfg.Log)
	defer closeLog()
	slog.SetDefault(logger)

	if cfg.Auth.SecretGenerated {
		logger.Warn("JWT_SECRET not set, using a random secret; sessions will not survive a restart")
	}

	// === 3. MEDIA PROVIDER ===
	provider, closeCache, err := newProvider(cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	// === 4. SERVER ===
	srv, err := server.New(cfg, logger, provider)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Start blocks until SIGINT/SIGTERM.
	return srv.Start()
}

// newLogger writes text logs to stdout and, when a file is configured, to
// a size-rotated log file as well.
func newLogger(cfg config.LogConfig) (*slog.Logger, func()) {
	var out io.Writer = os.Stdout
	closeFn := func() {}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		out = io.MultiWriter(os.Stdout, rotator)
		closeFn = func() { rotator.Close() }
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}))
	return logger, closeFn
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newProvider builds the TMDB client and, unless caching is disabled,
// wraps it in a cache: Redis when REDIS_ADDR is set, otherwise an
// in-process LRU.
func newProvider(cfg *config.Config, logger *slog.Logger) (tmdb.Provider, func(), error) {
	client, err := tmdb.NewClient(tmdb.Config{
		APIKey:            cfg.TMDB.APIKey,
		BaseURL:           cfg.TMDB.BaseURL,
		ImageBaseURL:      cfg.TMDB.ImageBaseURL,
		PosterSize:        cfg.TMDB.PosterSize,
		Timeout:           cfg.TMDB.Timeout,
		RequestsPerSecond: cfg.TMDB.RateLimit,
		Burst:             max(1, int(cfg.TMDB.RateLimit)),
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	noop := func() {}
	if cfg.TMDB.CacheTTL <= 0 {
		logger.Info("tmdb response cache disabled")
		return client, noop, nil
	}

	if cfg.Redis.Addr != "" {
		cache, err := tmdb.NewRedisCache(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.TMDB.CacheTTL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("tmdb responses cached in redis",
			slog.String("addr", cfg.Redis.Addr),
			slog.Duration("ttl", cfg.TMDB.CacheTTL),
		)
		return tmdb.NewCachedProvider(client, cache, logger), func() { cache.Close() }, nil
	}

	logger.Info("tmdb responses cached in memory",
		slog.Int("size", cfg.TMDB.CacheSize),
		slog.Duration("ttl", cfg.TMDB.CacheTTL),
	)
	cache := tmdb.NewMemoryCache(cfg.TMDB.CacheSize, cfg.TMDB.CacheTTL)
	return tmdb.NewCachedProvider(client, cache, logger), noop, nil
}
