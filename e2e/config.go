package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// CHAT_E2E_HOST/CHAT_E2E_PORT target a running server, an in-process one is started when the port is 0
	Host string `envconfig:"CHAT_E2E_HOST" default:"127.0.0.1"`
	Port int    `envconfig:"CHAT_E2E_PORT" default:"0"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
	// E2E_TIMEOUT bounds every expectation on received lines
	Timeout string `envconfig:"E2E_TIMEOUT" default:"3s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
