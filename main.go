package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/joho/godotenv/autoload"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskflow/taskflow-api/internal/config"
	"github.com/taskflow/taskflow-api/internal/middleware"
	"github.com/taskflow/taskflow-api/internal/status"
	"github.com/taskflow/taskflow-api/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger) // for third-party packages that use slog

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	taskStore, statusStore, closeStore, err := openStores(ctx, cfg)
	if err != nil {
		logger.Error("store_error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: newRouter(cfg, logger, taskStore, statusStore),
	}

	logger.Info("server_listen",
		slog.String("addr", cfg.HTTPAddr),
		slog.String("store", cfg.StoreDriver),
		slog.String("db", cfg.DBName),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_error", slog.String("error", err.Error()))
			_ = closeStore(context.Background())
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", slog.String("error", err.Error()))
	}
	if err := closeStore(shutdownCtx); err != nil {
		logger.Error("store_close_error", slog.String("error", err.Error()))
	}
	logger.Info("server_stopped")
}

// openStores builds the shared store handles for the configured driver. The
// handles live for the whole process and are closed once at shutdown.
func openStores(ctx context.Context, cfg config.Config) (tasks.Store, status.Store, func(context.Context) error, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := mongo.Connect(ctx, mongoopts.Client().ApplyURI(cfg.MongoURL))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		db := client.Database(cfg.DBName)
		return tasks.NewMongoStore(db), status.NewMongoStore(db), client.Disconnect, nil

	case config.DriverSQLite:
		db, err := tasks.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		ts := tasks.NewSQLiteStore(db)
		ss := status.NewSQLiteStore(db)
		if err := ts.Bootstrap(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, fmt.Errorf("bootstrap tasks: %w", err)
		}
		if err := ss.Bootstrap(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, fmt.Errorf("bootstrap status_checks: %w", err)
		}
		return ts, ss, func(context.Context) error { return db.Close() }, nil

	case config.DriverMemory:
		return tasks.NewMemoryStore(), status.NewMemoryStore(),
			func(context.Context) error { return nil }, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func newRouter(cfg config.Config, logger *slog.Logger, taskStore tasks.Store, statusStore status.Store) *chi.Mux {
	r := chi.NewRouter()

	// RequestID first so downstream can include it (logger, traces).
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.Tracing)
	r.Use(middleware.RateLimit(middleware.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))

	// Liveness only: must answer without touching the store.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{
			"status":  "healthy",
			"service": "TaskFlow API",
		})
	})
	r.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]string{"message": "Welcome to TaskFlow API"})
		})
		status.RegisterRoutes(api, statusStore)
		tasks.RegisterRoutes(api, taskStore)
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		l = slog.LevelDebug
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}
