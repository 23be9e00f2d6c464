/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the resale reconciliation engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Read environment configuration, then command-line flags
  2. Initialize SQLite store
  3. Create API handler with dependencies
  4. Configure HTTP router
  5. Start server with graceful shutdown

CONFIGURATION:
  Environment variables (prefix RESALE_), overridable by flags:
    RESALE_PORT      HTTP server port (default: 8080)
    RESALE_DB        SQLite database path (default: resale.db)
                     Use ":memory:" for an in-memory database
    RESALE_ORIGINS   CORS allowlist, comma separated
    RESALE_FORMULA   Default profit formula: gross or deposit-based

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/resale.db"

  # Run with in-memory database and demo scenarios
  ./server -db=":memory:"

  # Run on a different port
  RESALE_PORT=3000 ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/warp/resale-engine/api"
	"github.com/warp/resale-engine/engine"
	"github.com/warp/resale-engine/store/sqlite"
)

// Config is read from the environment with prefix RESALE_.
type Config struct {
	Port    int      `default:"8080"`
	DB      string   `default:"resale.db"`
	Origins []string `default:"http://localhost:5173,http://localhost:8080"`
	Formula string   `default:"gross"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("resale", &cfg); err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	// Flags override the environment.
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DB, "SQLite database path")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	handler := api.NewHandler(store, store)
	if cfg.Formula == string(engine.ProfitFormulaDeposit) || cfg.Formula == "deposit" {
		handler.DefaultFormula = engine.ProfitFormulaDeposit
	}

	router := api.NewRouter(handler, cfg.Origins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
