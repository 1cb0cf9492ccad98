package main

import (
	"chat-relay/internal"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the server.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Deferred cleanups run before main decides on the exit code.
func run() (int, error) {
	// 1. Configuration & Logger
	// A missing .env file is fine, the environment alone is enough
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel).With("instance", uuid.NewString())

	// 2. Bind and wire the server
	server, err := services.NewChatServer(log, config)
	if err != nil {
		return exitRuntime, fmt.Errorf("server setup failed: %w", err)
	}

	// 3. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Run until interrupted
	log.Info("Starting chat server", "address", server.Addr(), "transport", config.Transport)
	sup := workers.NewSupervisor(log, config.RestartInterval)
	if err := sup.Add(server.Workers()...).Run(ctx); err != nil {
		return exitRuntime, err
	}

	log.Info("Program stopped cleanly")
	return exitOK, nil
}
