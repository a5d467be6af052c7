// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/recall/internal/api"
	"github.com/starford/recall/internal/mcpserver"
	"github.com/starford/recall/internal/sse"
	"github.com/starford/recall/internal/storage"
	"github.com/starford/recall/internal/watcher"
)

// ServerName is advertised to MCP clients.
const ServerName = "agent-recall"

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{
		version: "dev",
		stdin:   os.Stdin,
		stdout:  os.Stdout,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger, closeLog := newLogger(cfg.App)
	defer closeLog() //nolint:errcheck // best-effort on exit
	slog.SetDefault(logger)

	root := cfg.Storage.Root()
	logger.Info("Configuration loaded",
		slog.String("transport", cfg.App.Transport),
		slog.String("storage_root", root),
		slog.Bool("watch", cfg.Watch.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if cfg.Storage.Bootstrap {
		if err := storage.Bootstrap(root); err != nil {
			return fmt.Errorf("bootstrap storage: %w", err)
		}
	} else if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	srv := mcpserver.New(ServerName, app.version, cfg.Storage.Root, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	var broker *sse.Broker
	if cfg.App.Transport == TransportHTTP {
		broker = sse.NewBroker(cfg.Watch.Throttle)
		defer broker.Close()
	}

	if cfg.Watch.Enabled {
		g.Go(func() error {
			err := watcher.Watch(gCtx, root, logger, func(ev watcher.Event) {
				srv.NotifyChanged(ev.Path)
				if broker != nil {
					broker.PublishNoteEvent(sse.NoteEvent{Kind: ev.Kind, Path: ev.Path, Title: ev.Title})
				}
			})
			if err != nil {
				// The tools work without change notifications.
				logger.Warn("watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	switch cfg.App.Transport {
	case TransportHTTP:
		runHTTP(gCtx, g, cfg, srv, broker, logger)
	default:
		g.Go(func() error {
			logger.Info("Serving MCP over stdio")
			err := srv.ServeStdio(gCtx, app.stdin, app.stdout)
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("stdio server error: %w", err)
			}
			// Stdin closed: the client went away, shut everything down.
			stop()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

func runHTTP(ctx context.Context, g *errgroup.Group, cfg *Config, srv *mcpserver.Server, broker *sse.Broker, logger *slog.Logger) {
	mcpHTTP := srv.HTTPHandler(cfg.App.HTTP.Endpoint)
	router := api.NewRouter(api.Routes{
		MCP:      mcpHTTP,
		Endpoint: cfg.App.HTTP.Endpoint,
		Events:   broker,
	}, cfg.Auth.AuthEnabled(), cfg.Auth.Token)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server",
			slog.String("address", cfg.App.HTTP.Address()),
			slog.String("endpoint", cfg.App.HTTP.Endpoint))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mcpHTTP.Shutdown(shutdownCtx); err != nil {
			logger.Error("MCP transport shutdown error", slog.String("error", err.Error()))
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})
}
