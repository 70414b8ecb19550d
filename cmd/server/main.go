/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the revenue projection API server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags, load config (file, .env, environment)
  2. Initialize logger
  3. Initialize SQLite store and seed seasonality regions
  4. Register metrics
  5. Create scenario factory and API handler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config file (optional)
  -port    HTTP server port, overrides config
  -db      SQLite database path, overrides config
           Use ":memory:" for in-memory database

REGION SEEDING:
  On every start the region table is overwritten from the seasonality
  dataset (SEASONALITY_FILE, or the embedded default). Projections read
  regions from the database; zip resolution uses the dataset directly.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  ./server -db="./data/roi.db"
  ./server -db=":memory:" -port=3000
  LOG_LEVEL=debug ENVIRONMENT=production ./server -config=config.yaml

SEE ALSO:
  - config/config.go: Configuration sources
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/roi-engine/api"
	"github.com/warp/roi-engine/config"
	"github.com/warp/roi-engine/factory"
	"github.com/warp/roi-engine/logger"
	"github.com/warp/roi-engine/metrics"
	"github.com/warp/roi-engine/seasonality"
	"github.com/warp/roi-engine/store/sqlite"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Log

	dataset, err := seasonality.LoadOrDefault(cfg.Projection.SeasonalityFile)
	if err != nil {
		log.Fatalf("Failed to load seasonality dataset: %v", err)
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	if err := store.SeedRegions(context.Background(), dataset.Tables()); err != nil {
		log.Fatalf("Failed to seed regions: %v", err)
	}

	metrics.Init(store.DB(), logger.WithComponent("metrics"))

	scenarios := factory.NewScenarioFactory(
		factory.WithRegions(store),
		factory.WithZipResolver(dataset),
		factory.WithDefaultPreset(cfg.Projection.DefaultPreset),
		factory.WithDefaultHorizon(cfg.Projection.HorizonDays),
	)
	if _, ok := scenarios.Presets()[cfg.Projection.DefaultPreset]; !ok {
		log.Fatalf("Unknown default preset %q", cfg.Projection.DefaultPreset)
	}

	handler := api.NewHandler(store, store, store, dataset, scenarios, logger.WithComponent("api"))
	router := api.NewRouter(handler, api.RouterOptions{AllowedOrigins: cfg.Server.AllowedOrigins})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":        cfg.Server.Port,
			"db":          cfg.Database.Path,
			"regions":     len(dataset.Regions()),
			"environment": cfg.Log.Environment,
		}).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}
