// Package app provides the top-level application lifecycle for the ticker
// service. It wires together the data-node client, refresher, query facade,
// caches, and notifications, performs the initial snapshot refresh, and runs
// the HTTP server alongside the refresh loop.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vegaprotocol/ticker-service/internal/config"
	"github.com/vegaprotocol/ticker-service/internal/server"
	"github.com/vegaprotocol/ticker-service/internal/server/handler"
)

// App is the root application object. It owns the configuration, logger, and
// a list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, performs one
// synchronous refresh so the API never serves an empty snapshot, then runs
// the HTTP server and the refresh loop until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("node_url", a.cfg.Node.URL),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	// Populate the first snapshot before accepting traffic. A node that is
	// unreachable at startup is a configuration problem, not a transient
	// condition to serve through.
	if err := deps.Refresher.Refresh(ctx); err != nil {
		return fmt.Errorf("app: initial refresh: %w", err)
	}

	srv := server.NewServer(
		server.Config{
			Port:        a.cfg.Server.Port,
			CORSOrigins: a.cfg.Server.CORSOrigins,
		},
		server.Handlers{
			Health: handler.NewHealthHandler(deps.Refresher, deps.Clock, a.logger),
			Ticker: handler.NewTickerHandler(deps.Service, a.logger),
			News:   handler.NewNewsHandler(deps.Service, a.logger),
			Stats:  handler.NewStatsHandler(deps.Service, a.logger),
		},
		a.logger,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return deps.Refresher.Run(gctx)
	})

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close tears down all resources in reverse registration order. It is safe
// to call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
