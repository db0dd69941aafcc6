package main

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

	"github.com/ashureev/salestwin/internal/api"
	"github.com/ashureev/salestwin/internal/catalog"
	"github.com/ashureev/salestwin/internal/config"
	"github.com/ashureev/salestwin/internal/flow"
	"github.com/ashureev/salestwin/internal/identity"
	"github.com/ashureev/salestwin/internal/middleware"
	"github.com/ashureev/salestwin/internal/persona"
	"github.com/ashureev/salestwin/internal/remote"
	"github.com/ashureev/salestwin/internal/session"
	"github.com/ashureev/salestwin/internal/speechws"
	"github.com/ashureev/salestwin/internal/store"
	"github.com/ashureev/salestwin/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the training server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (overrides PORT)")

	return cmd
}

func serve(parent context.Context, portOverride string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if portOverride != "" {
		cfg.Port = portOverride
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "backend_url", cfg.BackendURL)

	var repo store.Repository
	if cfg.ArchiveEnabled {
		repo, err = store.NewSQLite(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("initialize database: %w", err)
		}
		defer func() {
			if closeErr := repo.Close(); closeErr != nil {
				slog.Error("Failed to close repository", "error", closeErr)
			}
		}()
		slog.Info("Session archive connected", "db_path", cfg.DBPath)
	} else {
		slog.Info("Session archive disabled")
	}

	conversationLogger, err := persona.NewConversationLogger(persona.ConversationLogConfig{
		Enabled:       cfg.ConversationLog.Enabled,
		Dir:           cfg.ConversationLog.Dir,
		GlobalEnabled: cfg.ConversationLog.GlobalEnabled,
		GlobalPath:    cfg.ConversationLog.GlobalPath,
		QueueSize:     cfg.ConversationLog.QueueSize,
	}, logger)
	if err != nil {
		return fmt.Errorf("initialize conversation logger: %w", err)
	}
	defer func() {
		if closeErr := conversationLogger.Close(); closeErr != nil {
			slog.Error("Failed to close conversation logger", "error", closeErr)
		}
	}()

	// Initialize services.
	registry := session.NewRegistry()
	ctrl := flow.NewController(flow.Options{
		Catalog:    catalog.Default(),
		Registrar:  remote.NewClient(cfg.BackendURL, remote.WithLogger(logger)),
		Persona:    persona.NewService(nil, nil),
		Archive:    repo,
		Log:        conversationLogger,
		Logger:     logger,
		ReplyDelay: cfg.Speech.ReplyDelay,
	})
	limiter := api.NewRateLimiter(cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.WindowDuration)
	defer limiter.Close()

	// Initialize handlers.
	baseHandler := api.NewHandler(ctrl, repo)
	healthHandler := api.NewHealthHandler(baseHandler)
	trainingHandler := api.NewTrainingHandler(baseHandler, limiter)
	managerHandler := api.NewManagerHandler(baseHandler)
	wsHandler := speechws.NewWebSocketHandler(ctrl, speechws.NewSessionManager(), speechws.HandlerOptions{
		AllowedOrigins:   cfg.AllowedOrigins(),
		IsDev:            cfg.IsDevelopment(),
		Lang:             cfg.Speech.Locale,
		SilenceThreshold: cfg.Speech.SilenceThreshold,
	})

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(cfg.AllowedOrigins(), identity.SessionHeaderName))
	r.Use(identity.Middleware(registry, cfg.IsDevelopment()))

	healthHandler.RegisterHealth(r)
	trainingHandler.RegisterRoutes(r)
	managerHandler.RegisterRoutes(r)

	// WebSocket endpoint.
	r.Get("/ws/speech", wsHandler.ServeHTTP)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// No WriteTimeout: the speech socket is long-lived.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		registry.RunSweeper(gctx, cfg.SessionTTL)
		return nil
	})

	g.Go(func() error {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("Server stopped successfully")
	return nil
}
