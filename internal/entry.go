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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/fehu/internal/api"
	"github.com/starford/fehu/internal/docservice"
	"github.com/starford/fehu/internal/mcpserver"
	"github.com/starford/fehu/internal/render"
	"github.com/starford/fehu/internal/scancode"
	"github.com/starford/fehu/internal/store"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_backend", cfg.Store.Backend),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize artifact store.
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer st.Close()

	// Build the rendering pipeline.
	engine := render.NewPDFEngine(render.FontSet{
		Normal:     cfg.Fonts.Normal,
		Bold:       cfg.Fonts.Bold,
		Italic:     cfg.Fonts.Italic,
		BoldItalic: cfg.Fonts.BoldItalic,
	}, logger)
	adapter := render.NewAdapter(engine, time.Duration(cfg.Render.TimeoutSeconds)*time.Second)

	svc := docservice.New(st, adapter, &scancode.QR{},
		cfg.Render.StrictTotals,
		time.Duration(cfg.Store.PutTimeoutSeconds)*time.Second)

	// MCP mode: serve tools over stdio and skip the HTTP server entirely.
	if app.mcpMode {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(svc).ServeStdio()
	}

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := svc.Ping(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"store unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount document routes at the root.
	r.Mount("/", api.NewRouter(svc))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// openStore builds the artifact store backend named by the configuration.
func openStore(ctx context.Context, cfg *Config, logger *slog.Logger) (store.Provider, error) {
	switch cfg.Store.Backend {
	case StoreBackendMongo:
		logger.Info("Connecting to MongoDB",
			slog.String("database", cfg.Store.MongoDatabase))
		return store.OpenMongo(ctx, cfg.Store.MongoURI, cfg.Store.MongoDatabase)
	default:
		logger.Info("Opening SQLite store",
			slog.String("path", cfg.Store.SQLitePath))
		return store.OpenSQLite(cfg.Store.SQLitePath)
	}
}
