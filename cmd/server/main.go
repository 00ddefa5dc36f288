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

	"github.com/specforms/backend/config"
	httpDelivery "github.com/specforms/backend/internal/delivery/http"
	"github.com/specforms/backend/internal/infrastructure/cache"
	"github.com/specforms/backend/internal/infrastructure/spreadsheet"
	"github.com/specforms/backend/internal/infrastructure/storage"
	"github.com/specforms/backend/internal/usecase"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func run(cfg *config.Config) error {
	log.Printf("Starting SpecForms Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Output: %s", cfg.Output.Type)

	// Initialize infrastructure dependencies
	fingerprints := cache.NewMemoryCache()
	defer fingerprints.Close()
	log.Printf("Fingerprint TTL: %s", cfg.Cache.TTL)

	store, closeStore, err := storage.NewSchemaStore(context.Background(), cfg.Output, fingerprints, cfg.Cache.TTL)
	if err != nil {
		return fmt.Errorf("create schema store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("Failed to close schema store: %v", err)
		}
	}()

	switch cfg.Output.Type {
	case config.OutputGCS:
		log.Printf("Writing schemas to gs://%s/%s", cfg.Output.GCSBucket, cfg.Output.GCSPrefix)
	default:
		log.Printf("Writing schemas to %s", cfg.Output.Dir)
	}

	debug := cfg.Processing.Debug || cfg.Server.Environment == "development"
	if debug {
		log.Printf("Schema debug logging enabled")
	}

	// Initialize usecase layer
	schemaService := usecase.NewSchemaService(
		store,
		spreadsheet.NewReader(debug),
		usecase.SchemaServiceConfig{
			DefaultTextareaRows: cfg.Processing.DefaultTextareaRows,
			EnableDebugLogging:  debug,
		},
	)

	handler := httpDelivery.NewHandler(schemaService, httpDelivery.HandlerConfig{
		UploadDir:      cfg.Upload.Dir,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})
	router := httpDelivery.SetupRouter(cfg, handler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
