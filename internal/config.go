package internal

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	TransportTCP       = "tcp"
	TransportWebsocket = "websocket"
)

var validate = validator.New()

// Config is the server configuration, read from the environment.
type Config struct {
	Host            string        `env:"CHAT_HOST,default=localhost" validate:"required"`
	Port            int           `env:"CHAT_PORT,default=8882" validate:"min=0,max=65535"`
	Transport       string        `env:"CHAT_TRANSPORT,default=tcp" validate:"oneof=tcp websocket"`
	SelectTimeout   time.Duration `env:"SELECT_TIMEOUT,default=1s" validate:"gt=0"`
	WelcomeMessage  string        `env:"WELCOME_MESSAGE,default=Welcome to the chat server."`
	DisableWelcome  bool          `env:"DISABLE_WELCOME,default=false"`
	ReadBufferSize  int           `env:"READ_BUFFER_SIZE,default=4096" validate:"min=1"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT,default=10s" validate:"gte=0"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
	HealthPort      int           `env:"HEALTH_PORT,default=0" validate:"min=0,max=65535"`
	StatsInterval   time.Duration `env:"STATS_INTERVAL,default=0s" validate:"gte=0"`
	CensoredWords   string        `env:"CENSORED_WORDS"`
	CharReplacement string        `env:"CHARACTER_REPLACEMENT,default=*"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
}

// Validate checks the values the environment could not type check.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := CharacterRune(c.CharReplacement); err != nil {
		return err
	}
	return nil
}

// Welcome returns the welcome line, empty when disabled.
func (c Config) Welcome() string {
	if c.DisableWelcome {
		return ""
	}
	return c.WelcomeMessage
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
