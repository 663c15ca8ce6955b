/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the P/L dashboard server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment)
  2. Parse command-line flags (override configuration)
  3. Initialize the store (SQLite or memory), optionally seeded with a demo scenario
  4. Create API handler and router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: PL_PORT or 8080)
  -db      SQLite database path (default: PL_DB_PATH or pl.db)
           Use ":memory:" for in-memory SQLite, "memory" for the
           map-backed store (store/memory)
  -env     .env file to read (default: .env, missing is fine)
  -seed    Demo scenario ID to import at startup

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/pl.db"

  # Run in memory with the holiday demo month
  ./server -db=":memory:" -seed=holiday-month

  # Run without SQLite
  ./server -db=memory -seed=loss-month

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
  - store/memory/memory.go: Map-backed implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/pl-engine/api"
	"github.com/warp/pl-engine/config"
	"github.com/warp/pl-engine/factory"
	"github.com/warp/pl-engine/store/memory"
	"github.com/warp/pl-engine/store/sqlite"
)

func main() {
	// Flags
	envFile := flag.String("env", ".env", "dotenv file to load")
	port := flag.Int("port", 0, "HTTP server port (overrides PL_PORT)")
	dbPath := flag.String("db", "", "SQLite database path (overrides PL_DB_PATH)")
	seed := flag.String("seed", "", "demo scenario to import at startup")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	log := cfg.Logger()

	// Initialize store
	store, closeStore, err := openStore(cfg.DBPath)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer closeStore()

	if *seed != "" {
		ds, err := factory.BuildScenario(*seed)
		if err != nil {
			log.WithError(err).Fatal("failed to build seed scenario")
		}
		res, err := store.ImportDataset(context.Background(), ds)
		if err != nil {
			log.WithError(err).Fatal("failed to import seed scenario")
		}
		log.WithField("scenario", *seed).WithField("production", res.Production).Info("seed scenario imported")
	}

	// Initialize handler and router
	handler := api.NewHandler(store, log)
	router := api.NewRouter(handler, cfg.CORSOrigins)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithField("db", cfg.DBPath).Infof("server starting on http://localhost:%d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
		return
	}

	log.Info("server stopped")
}

// openStore returns the map-backed store for "memory" and SQLite otherwise.
func openStore(path string) (api.Store, func() error, error) {
	if path == "memory" {
		return memory.New(), func() error { return nil }, nil
	}
	db, err := sqlite.New(path)
	if err != nil {
		return nil, nil, err
	}
	return db, db.Close, nil
}
