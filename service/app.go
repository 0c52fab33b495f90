// Package service assembles the Inkwell server from configuration and
// carries the maintenance tasks the command line exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"inkwell/app/config"
	"inkwell/app/repositories"
	"inkwell/app/routes"
	"inkwell/app/services"
	"inkwell/app/views"

	"github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ShutdownTimeout bounds how long in-flight requests may run after a stop
// signal.
var ShutdownTimeout = 10 * time.Second

// App is one wired instance of the blog: open stores, services and router.
type App struct {
	Config   *config.Config
	Services *services.Services
	Handler  http.Handler

	store    *repositories.Store
	sessions *badger.DB
	logger   *slog.Logger
}

// NewApp opens the stores named by cfg and wires the HTTP handler over them.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	kv, err := repositories.OpenBadger(cfg.Sessions)
	if err != nil {
		store.Close()
		return nil, err
	}

	svc := services.New(services.Repositories{
		Posts:    store.Posts,
		Comments: store.Comments,
		Users:    store.Users,
		Saves:    store.Saves,
		Sessions: repositories.NewBadgerSessionStore(kv, cfg.SessionLifetime),
	}, services.Settings{
		Auth: services.AuthConfig{
			AdminEmails:         cfg.AdminEmails,
			DefaultProfileImage: cfg.DefaultProfileImage,
		},
		Posts: services.PostConfig{
			PageSize:     cfg.PageSize,
			PopularLimit: cfg.PopularLimit,
			DefaultImage: cfg.DefaultPostImage,
		},
		UploadDir: cfg.UploadDir,
		UploadURL: "/static/uploads",
	}, logger)

	templates, err := views.Parse()
	if err != nil {
		kv.Close()
		store.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := routes.SetupRoutes(routes.Options{
		Services:      svc,
		Templates:     templates,
		Logger:        logger,
		Registry:      registry,
		StaticDir:     cfg.StaticDir,
		UploadDir:     cfg.UploadDir,
		SecureCookies: cfg.SecureCookies,
	})

	return &App{
		Config:   cfg,
		Services: svc,
		Handler:  router,
		store:    store,
		sessions: kv,
		logger:   logger,
	}, nil
}

// Close releases both stores.
func (a *App) Close() error {
	return errors.Join(a.sessions.Close(), a.store.Close())
}

// RunServer serves the blog on cfg.Addr until ctx is cancelled.
func RunServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	app, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Failed to close stores", slog.Any("error", err))
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("Starting inkwell", slog.String("addr", cfg.Addr), slog.String("database", cfg.Database))
	return Serve(ctx, srv, logger)
}

// Serve runs srv until it fails or ctx is done, then shuts it down
// gracefully within ShutdownTimeout.
func Serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// Migrate creates or updates the schema of the configured database.
func Migrate(cfg *config.Config) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	fmt.Printf("Database %s migrated successfully\n", cfg.Database)
	return nil
}

// SetRole changes the role of the account registered under email.
func SetRole(ctx context.Context, cfg *config.Config, logger *slog.Logger, email, role string) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	users := services.NewUserService(store.Users, nil, cfg.DefaultProfileImage, logger)
	if err := users.SetRole(ctx, email, role); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("no account registered with %s", email)
		}
		return err
	}
	fmt.Printf("%s is now %s\n", email, role)
	return nil
}
