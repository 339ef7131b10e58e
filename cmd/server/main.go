/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Actify points engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Load the award policy (built-in default or JSON file)
  4. Create API handler with dependencies
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: actify.db)
           Use ":memory:" for in-memory database
  -policy  Path to an award policy JSON file (default: built-in policy)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/actify.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run with a custom award policy
  ./server -policy="./config/awards.json"

ENVIRONMENT:
  No environment variables currently. All config via flags.
  Future: DATABASE_URL, PORT, LOG_LEVEL

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

	"github.com/actify/points-engine/api"
	"github.com/actify/points-engine/factory"
	"github.com/actify/points-engine/ledger"
	"github.com/actify/points-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "actify.db", "SQLite database path")
	policyPath := flag.String("policy", "", "Award policy JSON file (empty = built-in default)")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store)

	// Optional custom award policy
	if *policyPath != "" {
		raw, err := os.ReadFile(*policyPath)
		if err != nil {
			log.Fatalf("Failed to read policy file: %v", err)
		}
		policy, err := factory.NewPolicyFactory().ParsePolicy(string(raw))
		if err != nil {
			log.Fatalf("Failed to parse policy file: %v", err)
		}
		handler.Engine = ledger.NewEngine(store, policy)
		log.Printf("Loaded award policy %q from %s", policy.Name, *policyPath)
	}

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
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
