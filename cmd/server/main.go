/*
main.go - Application entry point

PURPOSE:

	Initializes and starts the crane timesheet server. Handles
	configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
 1. Parse command-line flags
 2. Build the holiday calendar for the configured jurisdiction
 3. Initialize the SQLite session store
 4. Create API handler and router
 5. Start server with graceful shutdown

COMMAND-LINE FLAGS:

	-port          HTTP server port (default: 8080)
	-db            SQLite session path (default: ":memory:")
	-jurisdiction  Holiday calendar jurisdiction (default: NO)

GRACEFUL SHUTDOWN:

	On SIGINT/SIGTERM:
	1. Stop accepting new connections
	2. Wait for active requests to complete (30s timeout)
	3. Close the session store
	4. Exit

EXAMPLES:

	# In-memory session (the normal case)
	./server

	# Keep the session across restarts
	./server -db="./data/timesheet.db"

SEE ALSO:
  - api/server.go: Router configuration
  - calendar/rules.go: Registered jurisdictions
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

	"github.com/kranwerk/timesheet-engine/api"
	"github.com/kranwerk/timesheet-engine/calendar"
	"github.com/kranwerk/timesheet-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", ":memory:", "SQLite session path")
	jurisdiction := flag.String("jurisdiction", "NO", "holiday calendar jurisdiction")
	flag.Parse()

	// Holiday calendar (configuration-time failure for unknown codes)
	cal, err := calendar.New(*jurisdiction)
	if err != nil {
		log.Fatalf("Failed to build holiday calendar: %v (registered: %v)", err, calendar.Jurisdictions())
	}

	// Session store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	defer store.Close()

	// Handler and router
	handler := api.NewHandler(store, cal)
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
		log.Printf("Timesheet server starting on http://localhost:%d (jurisdiction %s)", *port, cal.Jurisdiction())
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
