package services

import (
	"chat-relay/chat"
	"chat-relay/contract"
	errs "chat-relay/errors"
	grpcserver "chat-relay/infrastructure/grpc/server"
	"chat-relay/infrastructure/transport"
	"chat-relay/infrastructure/websocket"
	"chat-relay/internal"
	"chat-relay/moderation"
	"chat-relay/observability"
	"chat-relay/runtime"
	"fmt"
	"log/slog"
)

// ChatServer assembles one chat server instance. Nothing is shared between instances.
type ChatServer struct {
	log         *slog.Logger
	listener    contract.Listener
	multiplexer *runtime.Multiplexer
	health      *grpcserver.HealthServer
}

// NewChatServer binds the listener and wires the server loop. Nothing runs until the workers are started.
func NewChatServer(log *slog.Logger, config internal.Config) (*ChatServer, error) {
	var censor contract.Censor
	if words := moderation.ParseWords(config.CensoredWords); len(words) > 0 {
		char, err := internal.CharacterRune(config.CharReplacement)
		if err != nil {
			return nil, err
		}
		moderator, err := moderation.NewModerator(words, char)
		if err != nil {
			return nil, fmt.Errorf("moderation setup failed: %w", err)
		}
		censor = moderator
	}

	poller := transport.NewPoller()
	listener, err := listen(log, config, poller)
	if err != nil {
		return nil, err
	}

	registry := runtime.NewRegistry(log, config.Welcome())
	service := chat.NewService(log, registry, censor)

	opts := []runtime.Option{runtime.WithSelectTimeout(config.SelectTimeout)}
	if config.StatsInterval > 0 {
		opts = append(opts, runtime.WithStatsReporter(observability.NewStatsReporter(log), config.StatsInterval))
	}
	multiplexer, err := runtime.NewMultiplexer(log, listener, poller, registry, service, opts...)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	s := &ChatServer{
		log:         log,
		listener:    listener,
		multiplexer: multiplexer,
	}
	if config.HealthPort > 0 {
		s.health = grpcserver.NewHealthServer(log, config.Host, config.HealthPort)
	}
	return s, nil
}

func listen(log *slog.Logger, config internal.Config, poller *transport.Poller) (contract.Listener, error) {
	opts := transport.Options{ReadBufferSize: config.ReadBufferSize, WriteTimeout: config.WriteTimeout}
	switch config.Transport {
	case internal.TransportTCP, "":
		return transport.Listen(log, config.Host, config.Port, poller, opts)
	case internal.TransportWebsocket:
		return websocket.Listen(log, config.Host, config.Port, poller, opts)
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownTransport, config.Transport)
	}
}

// Addr is the address actually bound, after any port retry.
func (s *ChatServer) Addr() string {
	return s.listener.Addr()
}

// Workers returns what has to run under supervision: the server loop, and the health endpoint when enabled.
func (s *ChatServer) Workers() []contract.Worker {
	workers := []contract.Worker{s.multiplexer}
	if s.health != nil {
		workers = append(workers, s.health)
	}
	return workers
}
