/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the lot contract engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env and parse command-line flags
  2. Load the settings file (licensing flag, caps, fee templates)
  3. Initialize SQLite store
  4. Create API handler and background alert scanner
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite database path (default: lot.db)
             Use ":memory:" for an in-memory database
  -settings  Settings file path (default: settings.json)
             A missing file means built-in Florida defaults

ENVIRONMENT:
  PORT, DB_PATH, SETTINGS_PATH override the flag defaults. A .env file in
  the working directory is loaded first.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the alert scanner and close the database
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/lot.db"

  # Run with in-memory database and custom settings
  ./server -db=":memory:" -settings="./conf/settings.json"

SEE ALSO:
  - api/server.go: Router configuration
  - factory/settings.go: Settings file format
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
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/suncoast/lot-engine/api"
	"github.com/suncoast/lot-engine/factory"
	"github.com/suncoast/lot-engine/store/sqlite"
)

func main() {
	// .env is optional; flags still win over everything.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "lot.db"), "SQLite database path")
	settingsPath := flag.String("settings", envStr("SETTINGS_PATH", "settings.json"), "Settings file path")
	flag.Parse()

	// Settings
	settings, err := factory.LoadSettings(*settingsPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	cfg := settings.EngineConfig()
	registry, err := settings.FeeRegistry()
	if err != nil {
		log.Fatalf("Invalid fee templates: %v", err)
	}

	// Store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Handler and background scanner
	handler := api.NewHandler(store, registry, cfg)
	scanner := api.NewAlertScanner(store, cfg)
	handler.Scanner = scanner
	scanner.Start()
	defer scanner.Stop()

	router := api.NewRouter(handler)

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

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
