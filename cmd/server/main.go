package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/building-ledger/internal/clock"
	"github.com/riteshkumar/building-ledger/internal/config"
	"github.com/riteshkumar/building-ledger/internal/handler"
	"github.com/riteshkumar/building-ledger/internal/repository"
	"github.com/riteshkumar/building-ledger/internal/repository/memstore"
	"github.com/riteshkumar/building-ledger/internal/repository/mongostore"
	"github.com/riteshkumar/building-ledger/internal/repository/postgres"
	"github.com/riteshkumar/building-ledger/internal/scheduler"
	"github.com/riteshkumar/building-ledger/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err.Error())
		os.Exit(1)
	}

	// Initialise logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	// Open the store
	store, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.StoreDriver, "error", err.Error())
		os.Exit(1)
	}
	logger.Info("store opened successfully", "driver", cfg.StoreDriver)

	clk := clock.NewMonotonic(nil)
	locks := service.NewPeriodLocks()

	// Initialise services
	auditService := service.NewAuditService(store, clk, logger)
	transactionService := service.NewTransactionService(store, clk, locks, cfg.Location, logger)
	balanceService := service.NewBalanceService(store, logger)
	periodService := service.NewPeriodService(store, clk, locks, cfg.Location, cfg.OpeningBalance, logger)
	duesService := service.NewDuesService(store, service.DuesSchedule{
		MonthlyAmount: cfg.DuesMonthlyAmount,
		Start:         cfg.DuesStart,
	}, cfg.Location, logger)
	unitService := service.NewUnitService(store, clk, balanceService, duesService, cfg.Location, logger)

	// Open the current month and keep rolling over on schedule
	rollover := scheduler.NewRollover(periodService, clk, cfg.Location, logger)
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	rollover.RollOver(startupCtx)
	cancelStartup()
	if err := rollover.Schedule(cfg.RolloverSchedule); err != nil {
		logger.Error("failed to schedule period rollover", "error", err.Error())
		os.Exit(1)
	}
	rollover.Start()

	// Setup router
	router := mux.NewRouter()

	// Register routes
	handler.NewTransactionHandler(transactionService, cfg.Location, logger).RegisterRoutes(router)
	handler.NewBalanceHandler(balanceService, logger).RegisterRoutes(router)
	handler.NewPeriodHandler(periodService, logger).RegisterRoutes(router)
	handler.NewAuditHandler(auditService, cfg.Location, logger).RegisterRoutes(router)
	handler.NewUnitHandler(unitService, duesService, clk, cfg.Location, logger).RegisterRoutes(router)

	// Add health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := store.Ping(r.Context()); err != nil {
			logger.Warn("health check failed", "error", err.Error())
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Add middleware for logging
	router.Use(loggingMiddleware(logger))

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a go routine
	go func() {
		logger.Info("starting server on port " + cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err.Error())
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	select {
	case <-rollover.Stop().Done():
	case <-ctx.Done():
		logger.Warn("rollover job still running at shutdown")
	}

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err.Error())
	}

	if err := store.Close(ctx); err != nil {
		logger.Error("failed to close store", "error", err.Error())
	}

	logger.Info("server exited gracefully")
}

// openStore connects the configured storage backend.
func openStore(cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.Connect(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return postgres.New(db), nil
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB, logger)
	case config.DriverFile:
		return memstore.Open(cfg.DataFile)
	case config.DriverMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		return memstore.New(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// loggingMiddleware logs incoming HTTP requests
func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			logger.Info("incoming request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
