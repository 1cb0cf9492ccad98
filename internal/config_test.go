package internal

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)
	req.NoError(config.Validate())

	req.Equal("localhost", config.Host)
	req.Equal(8882, config.Port)
	req.Equal(TransportTCP, config.Transport)
	req.Equal(time.Second, config.SelectTimeout)
	req.Equal(4096, config.ReadBufferSize)
	req.Equal("Welcome to the chat server.", config.Welcome())
}

func TestConfig_From_Environment(t *testing.T) {
	req := require.New(t)
	t.Setenv("CHAT_PORT", "9000")
	t.Setenv("CHAT_TRANSPORT", "websocket")
	t.Setenv("SELECT_TIMEOUT", "250ms")
	t.Setenv("DISABLE_WELCOME", "true")

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)
	req.NoError(config.Validate())

	req.Equal(9000, config.Port)
	req.Equal(TransportWebsocket, config.Transport)
	req.Equal(250*time.Millisecond, config.SelectTimeout)
	req.Empty(config.Welcome())
}

func TestConfig_Validate(t *testing.T) {
	req := require.New(t)
	valid := Config{
		Host:            "localhost",
		Port:            8882,
		Transport:       TransportTCP,
		SelectTimeout:   time.Second,
		ReadBufferSize:  4096,
		RestartInterval: time.Second,
		CharReplacement: "*",
		LogLevel:        "INFO",
	}
	req.NoError(valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "Port out of range", mutate: func(c *Config) { c.Port = 70000 }},
		{name: "Unknown transport", mutate: func(c *Config) { c.Transport = "udp" }},
		{name: "Zero select timeout", mutate: func(c *Config) { c.SelectTimeout = 0 }},
		{name: "Empty read buffer", mutate: func(c *Config) { c.ReadBufferSize = 0 }},
		{name: "Unknown log level", mutate: func(c *Config) { c.LogLevel = "TRACE" }},
		{name: "Replacement longer than a character", mutate: func(c *Config) { c.CharReplacement = "**" }},
	}
	for _, tt := range tests {
		config := valid
		tt.mutate(&config)
		req.Error(config.Validate(), "test=%s", tt.name)
	}
}
