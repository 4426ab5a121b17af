// Package main is the entrypoint for the Coursecat server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/coursecat/coursecat/internal/config"
	"github.com/coursecat/coursecat/internal/handler"
	"github.com/coursecat/coursecat/internal/middleware"
	"github.com/coursecat/coursecat/internal/repository"
	"github.com/coursecat/coursecat/internal/server"
	"github.com/coursecat/coursecat/internal/service"
	"github.com/coursecat/coursecat/internal/telemetry"
	"github.com/coursecat/coursecat/internal/tracing"
	"github.com/coursecat/coursecat/internal/web"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Tracing is a no-op unless an exporter endpoint is configured.
	traceShutdown, err := tracing.Setup(ctx, cfg.OTELServiceName, cfg.OTELEndpoint)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	if cfg.OTELEndpoint != "" {
		logger.Info("tracing enabled", "endpoint", cfg.OTELEndpoint)
	}

	// Catalog storage
	repo := repository.New(cfg.CourseFile)
	courseService := service.NewCourseService(repo)

	// Telemetry: counters start empty on every process start; the first
	// flush overwrites whatever the previous run left on disk.
	store := telemetry.NewStore()
	sink := telemetry.NewFileSink(cfg.TelemetryFile)
	reporter := telemetry.NewReporter(store, sink, logger)

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	// Handlers
	h := handler.New()
	courseHandler := handler.NewCourseHandler(courseService, renderer, reporter, logger)
	telemetryHandler := handler.NewTelemetryHandler(store)
	healthHandler := handler.NewHealthHandler(repo, sink)

	r := setupRouter(h, courseHandler, telemetryHandler, healthHandler, store, sink, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Final flush runs last so it captures everything, including spans
	// flushed by the exporter shutdown before it.
	srv.OnShutdown("telemetry", func(ctx context.Context) error {
		return sink.Flush(store.Snapshot())
	})
	srv.OnShutdown("tracing", traceShutdown)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"course_file", cfg.CourseFile,
		"telemetry_file", cfg.TelemetryFile,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
// Each application route is bracketed by the telemetry middleware under
// its logical name, so parameterized routes aggregate under one key.
func setupRouter(
	h *handler.Handler,
	courseHandler *handler.CourseHandler,
	telemetryHandler *handler.TelemetryHandler,
	healthHandler *handler.HealthHandler,
	store *telemetry.Store,
	sink telemetry.Sink,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracer())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security())
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Health endpoints are probe traffic and stay out of the telemetry
	// aggregate.
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	tel := middleware.NewTelemetry(store, sink, logger)

	r.With(tel.Route("index")).Get("/", courseHandler.Index)
	r.With(tel.Route("catalog")).Get("/catalog", courseHandler.Catalog)
	r.With(tel.Route("course_detail")).Get("/course/{code}", courseHandler.Details)
	r.With(tel.Route("course_form")).Get("/form", courseHandler.Form)
	r.With(tel.Route("submit_course")).Post("/submit_detail", courseHandler.Submit)

	r.With(tel.Route("telemetry")).Get("/telemetry", telemetryHandler.Snapshot)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
