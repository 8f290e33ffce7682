package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/sharechat/sharechat-server/internal/allowlist"
	"github.com/sharechat/sharechat-server/internal/config"
	"github.com/sharechat/sharechat-server/internal/core"
	"github.com/sharechat/sharechat-server/internal/files"
	transporthttp "github.com/sharechat/sharechat-server/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	guard           *allowlist.Guard
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	storage, err := files.NewStorage(cfg.UploadsDir)
	if err != nil {
		return nil, fmt.Errorf("init upload storage: %w", err)
	}
	logger.Info().Str("uploads_dir", cfg.UploadsDir).Msg("upload storage initialized")

	guard := allowlist.NewGuard(cfg.AllowlistPath, logger)

	hub := core.NewHub(core.NewState(), logger)
	server := transporthttp.NewServer(hub, guard, storage, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		guard:           guard,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)
	go a.guard.Watch(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
