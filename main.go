package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "net/http/pprof"

	"github.com/medkg/tcmcases-api/casesparser"
	"github.com/medkg/tcmcases-api/config"
	"github.com/medkg/tcmcases-api/data"
	"github.com/medkg/tcmcases-api/handlers"
	"github.com/medkg/tcmcases-api/health"
	"github.com/medkg/tcmcases-api/logging"
	"github.com/medkg/tcmcases-api/scheduler"
	"github.com/medkg/tcmcases-api/server"
	"github.com/medkg/tcmcases-api/validation"
)

func main() {
	// Read the env variables from the working directory, falling back to
	// the executable directory for service deployments
	if err := godotenv.Load(); err != nil {
		ex, err := os.Executable()
		if err != nil {
			logging.Error("Failed to get executable path", "error", err)
			os.Exit(1)
		}

		exPath := filepath.Dir(ex)
		if err := os.Chdir(exPath); err != nil {
			logging.Error("Failed to change directory", "error", err)
			os.Exit(1)
		}

		// Best effort, configuration falls back to defaults
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs")

	// Wire up dependencies
	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	validator := validation.NewDataValidator()
	parser := casesparser.NewCasesParser(cfg.CorpusPath, cfg.OutputPath)
	healthChecker := health.NewHealthChecker(dataContainer)
	handler := handlers.NewHTTPHandler(dataContainer, validator, healthChecker)

	sched := scheduler.NewScheduler(dataContainer, parser, validator)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
		os.Exit(1)
	}
}
