package main

import (
	"bufio"
	"chat-relay/client"
	"chat-relay/domain"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	Host         string        `env:"CHAT_HOST,default=localhost"`
	Port         int           `env:"CHAT_PORT,default=8882"`
	Name         string        `env:"CHAT_NAME"`
	PollInterval time.Duration `env:"CHAT_POLL_INTERVAL,default=300ms"`
	Colours      bool          `env:"CHAT_COLOURS,default=true"`
	LogLevel     string        `env:"LOG_LEVEL,default=WARN"`
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run connects to the chat server, forwards what is typed and prints what is received.
// "/name X" renames, "/quit" leaves, any other line is said to everyone.
func run() (int, error) {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(log, config.PollInterval)
	if err := c.Connect(config.Host, config.Port); err != nil {
		return exitRuntime, err
	}
	defer func() {
		log.Info("Closing connection...")
		_ = c.Close()
	}()

	if config.Name != "" {
		if err := c.Send(string(domain.Name), config.Name); err != nil {
			return exitRuntime, err
		}
	}

	lines := make(chan string)
	go readInput(lines)

	received := make(chan string)
	go func() {
		defer close(received)
		for ctx.Err() == nil && c.Err() == nil {
			if text := c.Receive(); text != "" {
				received <- text
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return exitOK, nil
		case text, ok := <-received:
			if !ok {
				if err := c.Err(); err != nil && ctx.Err() == nil {
					return exitRuntime, fmt.Errorf("connection lost: %w", err)
				}
				return exitOK, nil
			}
			for _, line := range client.Render(text, config.Colours) {
				fmt.Println(line)
			}
		case line, ok := <-lines:
			if !ok || line == "/quit" {
				return exitOK, nil
			}
			if err := send(c, line); err != nil {
				return exitRuntime, err
			}
		}
	}
}

func send(c *client.Client, line string) error {
	if name, ok := strings.CutPrefix(line, "/name "); ok {
		return c.Send(string(domain.Name), name)
	}
	if strings.TrimSpace(line) == "" {
		return nil
	}
	return c.Send(string(domain.Say), line)
}

func readInput(lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
}
