package e2e

import (
	"chat-relay/client"
	"chat-relay/internal"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

type BaseChatSuite struct {
	suite.Suite
	Config  Config
	host    string
	port    int
	timeout time.Duration
	cancel  context.CancelFunc
	done    chan error
}

// SetupSuite loads the environment configuration and starts a server when none is targeted.
func (s *BaseChatSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	s.timeout, err = time.ParseDuration(s.Config.Timeout)
	s.Require().NoError(err)

	s.host, s.port = s.Config.Host, s.Config.Port
	if s.port != 0 {
		return
	}

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	server, err := services.NewChatServer(log, internal.Config{
		Host:            "127.0.0.1",
		Transport:       internal.TransportTCP,
		SelectTimeout:   20 * time.Millisecond,
		WelcomeMessage:  "Welcome to the chat server.",
		ReadBufferSize:  4096,
		RestartInterval: 200 * time.Millisecond,
		CharReplacement: "*",
		LogLevel:        "DEBUG",
	})
	s.Require().NoError(err)

	host, port, err := net.SplitHostPort(server.Addr())
	s.Require().NoError(err)
	s.host = host
	s.port, err = strconv.Atoi(port)
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan error, 1)
	go func() { s.done <- workers.NewSupervisor(log, 0).Add(server.Workers()...).Run(ctx) }()
}

func (s *BaseChatSuite) TearDownSuite() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	select {
	case err := <-s.done:
		s.Require().NoError(err)
	case <-time.After(5 * time.Second):
		s.Fail("server did not shut down")
	}
}

// Participant is a connected client and the text it received but nobody expected yet.
type Participant struct {
	Name    string
	Client  *client.Client
	pending string
}

// Connect opens a new client connection.
func (s *BaseChatSuite) Connect(name string) *Participant {
	s.step(fmt.Sprintf("%s connects", name))
	c := client.New(logs.GetLoggerFromLevel(slog.LevelDebug), 20*time.Millisecond)
	s.Require().NoError(c.Connect(s.host, s.port))
	return &Participant{Name: name, Client: c}
}

func (s *BaseChatSuite) Send(p *Participant, verb, argument string) {
	s.step(fmt.Sprintf("%s sends %q", p.Name, verb+" "+argument))
	s.Require().NoError(p.Client.Send(verb, argument))
}

// Expect waits until p received line, skipping anything received before it.
func (s *BaseChatSuite) Expect(p *Participant, line string) {
	deadline := time.Now().Add(s.timeout)
	for {
		if idx := strings.Index(p.pending, line); idx >= 0 {
			p.pending = p.pending[idx+len(line):]
			return
		}
		if time.Now().After(deadline) {
			s.FailNow(fmt.Sprintf("%s never received %q", p.Name, line), "received: %q", p.pending)
		}
		p.pending += p.Client.Receive()
	}
}

// ExpectNothing checks p receives no text during d.
func (s *BaseChatSuite) ExpectNothing(p *Participant, d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		p.pending += p.Client.Receive()
	}
	s.Empty(p.pending, "%s received unexpected text", p.Name)
}

func (s *BaseChatSuite) step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}
