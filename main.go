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
	openai "github.com/sashabaranov/go-openai"

	"github.com/medisave/genericmeds-api/agent"
	"github.com/medisave/genericmeds-api/config"
	"github.com/medisave/genericmeds-api/grounding"
	"github.com/medisave/genericmeds-api/handlers"
	"github.com/medisave/genericmeds-api/logging"
	"github.com/medisave/genericmeds-api/monitor"
	"github.com/medisave/genericmeds-api/rxnav"
	"github.com/medisave/genericmeds-api/server"
)

func loadEnv() {
	// Read the env variables from the working directory
	if err := godotenv.Load(); err != nil {
		// If failed, try loading from executable directory
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

		// A missing .env here is fine, variables may come from the
		// environment itself
		_ = godotenv.Load()
	}
}

func main() {
	loadEnv()

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs", cfg.LogLevel)

	// Upstream clients
	vocabulary := rxnav.NewClient(cfg.RxNavBaseURL, cfg.RxNavTimeout)

	prices, err := grounding.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GroundingModel, cfg.GroundingWait)
	if err != nil {
		logging.Error("Failed to create grounding client", "error", err)
		os.Exit(1)
	}

	chat := openai.NewClient(cfg.OpenAIAPIKey)

	orchestrator := agent.New(chat, vocabulary, prices, cfg.AgentModel, cfg.AgentMaxTurns)

	// Background vocabulary monitoring
	status := monitor.NewStatusContainer()
	mon := monitor.NewMonitor(vocabulary, status)
	if err := mon.Start(); err != nil {
		logging.Error("Failed to start vocabulary monitor", "error", err)
		os.Exit(1)
	}
	defer mon.Stop()

	handler := handlers.NewHandler(orchestrator, status)
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
		logging.Error("Shutdown failed", "error", err)
		os.Exit(1)
	}
}
