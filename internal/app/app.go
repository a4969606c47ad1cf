package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/pricetrack/internal/actions"
	"github.com/five82/pricetrack/internal/api"
	"github.com/five82/pricetrack/internal/cache"
	"github.com/five82/pricetrack/internal/config"
	"github.com/five82/pricetrack/internal/logging"
	"github.com/five82/pricetrack/internal/state"
	"github.com/five82/pricetrack/internal/ui"
)

// Options configure the pricetrack application.
type Options struct {
	ConfigPath   string
	RefreshEvery int // seconds; zero uses the configured interval
}

// Run boots the pricetrack TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := logging.OpenFile(cfg.LogPath)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logging.New(logFile, cfg.LogLevel)

	sessionCache, err := cache.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	client, err := api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithCookieStore(sessionCache),
		api.WithLogger(log.With("component", "api")),
	)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	store := state.NewStore(sessionCache, state.WithLogger(log.With("component", "store")))
	dispatcher := actions.New(client, store, log.With("component", "actions"))

	interval := cfg.RefreshInterval
	if opts.RefreshEvery > 0 {
		interval = time.Duration(opts.RefreshEvery) * time.Second
	}

	log.Info("starting",
		"api_url", client.BaseURL(),
		"cache_path", sessionCache.Path(),
		"refresh_interval", interval.String(),
		"logged_in", store.Snapshot().IsLoggedIn,
	)

	// Refresher goroutine exits with ctx; cancel it when the UI returns.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	StartRefresher(runCtx, store, dispatcher, interval)

	err = ui.Run(ui.Options{
		Context:   runCtx,
		Store:     store,
		Actions:   dispatcher,
		LogPath:   cfg.LogPath,
		ThemeName: cfg.Theme,
	})
	if err != nil {
		log.Error("ui exited", "error", err)
		return fmt.Errorf("run ui: %w", err)
	}
	log.Info("stopped")
	return nil
}
