package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/rpattn/fleetgrid/internal/api"
	"github.com/rpattn/fleetgrid/internal/auth"
	"github.com/rpattn/fleetgrid/internal/config"
	"github.com/rpattn/fleetgrid/internal/db"
	"github.com/rpattn/fleetgrid/internal/domain"
	"github.com/rpattn/fleetgrid/internal/importer"
	"github.com/rpattn/fleetgrid/internal/middleware"
	"github.com/rpattn/fleetgrid/internal/repository"
	"github.com/rpattn/fleetgrid/internal/storage"
	"github.com/rpattn/fleetgrid/internal/ws"
)

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Setup object storage
	store, err := storage.NewMinIOStore(ctx, cfg.MinIO)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Create repositories
	vehicleRepo := repository.NewVehicleRepository(conn.Pool)
	coordsRepo := repository.NewCoordinatesRepository(conn.Pool)
	opsRepo := repository.NewImportOperationRepository(conn.Pool)
	adminRepo := repository.NewAdminRepository(conn.Pool)

	if err := ensureDefaultAdmin(ctx, adminRepo); err != nil {
		log.Fatalf("Failed to ensure default admin: %v", err)
	}

	// Start the broadcast hub
	hub := ws.NewHub()
	go hub.Run(ctx)

	// Create the import pipeline
	importService := importer.NewService(vehicleRepo, coordsRepo, opsRepo, store, conn, hub)

	// Sessions and handlers
	sessionTTL := time.Duration(cfg.Auth.SessionTTLMinutes) * time.Minute
	sessions := auth.NewSessionStore(sessionTTL)

	mux := api.NewRouter(api.Handlers{
		Auth:        api.NewAuthHandler(adminRepo, sessions, sessionTTL),
		Vehicles:    api.NewVehicleHandler(vehicleRepo, coordsRepo, conn, hub),
		Coordinates: api.NewCoordinatesHandler(coordsRepo, hub),
		Imports:     api.NewImportHandler(importService, opsRepo, store),
		WS:          ws.NewHandler(hub),
		Sessions:    sessions,
	})

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.HTTP.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      corsHandler.Handler(middleware.LoggingMiddleware(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on :%d", cfg.HTTP.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// ensureDefaultAdmin seeds the root account on first boot. Credentials come
// from FLEETGRID_ADMIN_USER / FLEETGRID_ADMIN_PASSWORD, defaulting to
// root/root for local development.
func ensureDefaultAdmin(ctx context.Context, admins repository.AdminRepository) error {
	username := os.Getenv("FLEETGRID_ADMIN_USER")
	if username == "" {
		username = "root"
	}
	password := os.Getenv("FLEETGRID_ADMIN_PASSWORD")
	if password == "" {
		password = "root"
	}

	_, err := admins.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	salt, err := auth.NewSalt()
	if err != nil {
		return err
	}

	_, err = admins.Create(ctx, domain.Admin{
		Username:     username,
		PasswordHash: auth.HashPassword(password, salt),
		PasswordSalt: salt,
	})
	if err != nil {
		return err
	}
	log.Printf("Created default admin account %q", username)
	return nil
}
