package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dvloznov/customer-spending/internal/api/handlers"
	"github.com/dvloznov/customer-spending/internal/api/middleware"
	"github.com/dvloznov/customer-spending/internal/config"
	"github.com/dvloznov/customer-spending/internal/dashboard"
	infraBQ "github.com/dvloznov/customer-spending/internal/infra/bigquery"
	"github.com/dvloznov/customer-spending/internal/inmemory"
	"github.com/dvloznov/customer-spending/internal/logger"
)

func main() {
	// Parse command-line flags
	var (
		configPath = flag.String("config", os.Getenv("CONFIG_FILE"), "Path to YAML config file (or set CONFIG_FILE env)")
		fixture    = flag.String("fixture", "", "Serve from a JSON fixture instead of BigQuery")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.NewWithLevel(cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	var source dashboard.DataSource
	if *fixture != "" {
		src, err := inmemory.LoadFile(*fixture)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load fixture")
		}
		log.Warn().Str("fixture", *fixture).Msg("Serving from fixture data")
		source = src
	} else {
		if err := cfg.Validate(); err != nil {
			log.Fatal().Err(err).Msg("Invalid configuration")
		}
		repo, err := infraBQ.NewBigQueryPurchaseRepository(ctx, cfg.BigQuery.ProjectID, cfg.BigQuery.Table, cfg.BigQuery.Location)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create purchase repository")
		}
		defer repo.Close()
		source = repo
	}

	svc := dashboard.NewService(source, log)
	dashboardHandler := handlers.NewDashboardHandler(svc, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/dashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.GetDashboard(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/customers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			dashboardHandler.ListCustomers(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.RequestID(
			middleware.Logger(log)(
				middleware.CORS(mux),
			),
		),
	)

	port := strconv.Itoa(cfg.HTTP.Port)
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", port).Str("table", cfg.BigQuery.Table).Msg("Starting dashboard API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
