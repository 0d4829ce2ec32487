// Copyright ComAI Authors
// SPDX-License-Identifier: Apache-2.0

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

	httpAdapter "github.com/masumhasan/comAI/pkg/adapters/http"
	"github.com/masumhasan/comAI/pkg/core/api"
	"github.com/masumhasan/comAI/pkg/core/config"
	"github.com/masumhasan/comAI/pkg/core/engine"
	"github.com/masumhasan/comAI/pkg/core/services"
	"github.com/masumhasan/comAI/pkg/loader"
	"github.com/masumhasan/comAI/pkg/observability/logging"
	"github.com/masumhasan/comAI/pkg/retrieval"
	"github.com/masumhasan/comAI/pkg/storage"
	"github.com/masumhasan/comAI/pkg/storage/memory"
	"github.com/masumhasan/comAI/pkg/storage/postgres"
	"github.com/masumhasan/comAI/pkg/storage/sqlite"
	"github.com/masumhasan/comAI/pkg/vectara"
)

var (
	// Version is set via ldflags during build
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	port := flag.Int("port", 8080, "HTTP port to listen on")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	// Print version
	if *version {
		fmt.Printf("ComAI Server\nVersion: %s\nBuild Time: %s\n", Version, BuildTime)
		os.Exit(0)
	}

	// Initialize logger
	logger := logging.New(logging.Config{
		Level:  "info",
		Format: "json",
	})
	logger.Info("Starting ComAI Server",
		"version", Version,
		"build_time", BuildTime)

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		// If config file doesn't exist, use defaults
		logger.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	// Override port if specified
	if *port != 8080 {
		cfg.Server.Port = *port
	}

	// Initialize history store
	var history storage.HistoryStore
	switch cfg.History.Store {
	case "postgres":
		pg, pgErr := postgres.New(cfg.History.PostgresDSN)
		if pgErr != nil {
			logger.Error("Failed to initialize postgres history store", "error", pgErr)
			os.Exit(1)
		}
		history = pg
		logger.Info("Initialized postgres history store")
	case "sqlite":
		sq, sqErr := sqlite.New(cfg.History.SQLitePath)
		if sqErr != nil {
			logger.Error("Failed to initialize sqlite history store", "error", sqErr)
			os.Exit(1)
		}
		history = sq
		logger.Info("Initialized sqlite history store", "path", cfg.History.SQLitePath)
	default:
		history = memory.New()
		logger.Info("Initialized in-memory history store")
	}
	defer history.Close()

	// Initialize retrieval backend
	var backend retrieval.Backend
	switch cfg.Retrieval.Store {
	case "memory":
		backend = retrieval.NewMemoryBackend()
		logger.Info("Initialized memory retrieval backend")
	default:
		backend = vectara.New(vectara.Config{
			CustomerID: cfg.Vectara.CustomerID,
			CorpusID:   cfg.Vectara.CorpusID,
			APIKey:     cfg.Vectara.APIKey,
			Endpoint:   cfg.Vectara.Endpoint,
		}, logger)
		logger.Info("Initialized hosted retrieval backend")
	}

	// Initialize chat client
	chat := api.NewOpenAIChatClient(
		cfg.Engine.ModelEndpoint,
		cfg.Engine.APIKey,
		cfg.Engine.Model,
		cfg.Engine.MaxTokens,
	)
	logger.Info("Initialized chat client", "model", cfg.Engine.Model)

	// Index configured documents before accepting traffic
	if len(cfg.Index.URLs) > 0 {
		indexer := services.NewIndexService(
			loader.NewURLLoader(logger),
			backend,
			logger,
			cfg.Index.ChunkSize,
			cfg.Index.ChunkOverlap,
		)
		indexCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		if err := indexer.Run(indexCtx, cfg.Index.URLs); err != nil {
			cancel()
			logger.Error("Startup indexing failed", "error", err)
			os.Exit(1)
		}
		cancel()
	}

	// Initialize engine
	eng := engine.New(backend, chat, history, logger, engine.Options{
		Search: retrieval.SearchOptions{
			K:      cfg.Retrieval.K,
			Alpha:  cfg.Retrieval.Alpha,
			Filter: cfg.Retrieval.Filter,
		},
		ModelTimeout: cfg.Engine.Timeout,
	})
	logger.Info("Initialized engine")

	// Initialize HTTP adapter
	handler := httpAdapter.New(eng, logger)
	logger.Info("Initialized HTTP adapter")

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	go func() {
		logger.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()
	logger.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
