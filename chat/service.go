// Package chat is the chat protocol served by the multiplexer: display names, the say and
// name commands, and the notices the server broadcasts when people come and go.
package chat

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"log/slog"
	"net"
	"strings"
)

// Service implements contract.Handler.
type Service struct {
	log        *slog.Logger
	registry   contract.IRegistry
	session    *Session
	dispatcher *Dispatcher
	censor     contract.Censor
}

// NewService wires the chat commands. censor may be nil.
func NewService(log *slog.Logger, registry contract.IRegistry, censor contract.Censor) *Service {
	if censor == nil {
		censor = noCensor{}
	}
	s := &Service{
		log:        log,
		registry:   registry,
		session:    NewSession(),
		dispatcher: NewDispatcher(log, registry),
		censor:     censor,
	}
	s.dispatcher.Register(domain.Say, s.say)
	s.dispatcher.Register(domain.Name, s.rename)
	return s
}

func (s *Service) OnAccept(id domain.ConnID, addr string) {
	s.session.Join(id)
	s.Broadcast(domain.ServerName, domain.JoinNotice(host(addr)))
}

// OnTerminate is called once the registry dropped id, so the notice only reaches the others.
func (s *Service) OnTerminate(id domain.ConnID, reason string) {
	name := s.session.Name(id)
	s.Broadcast(domain.ServerName, domain.LeaveNotice(name))
	s.session.Leave(id)
	s.log.Debug("Participant left", "id", id, "name", name, "reason", reason)
}

func (s *Service) Process() {
	s.dispatcher.Process()
}

// Broadcast enqueues "[origin] text" for every registered connection, origin included.
func (s *Service) Broadcast(origin, text string) {
	s.registry.Broadcast(domain.FormatBroadcast(origin, text))
}

// Session exposes the display names.
func (s *Service) Session() *Session {
	return s.session
}

// Dispatcher exposes the command table.
func (s *Service) Dispatcher() *Dispatcher {
	return s.dispatcher
}

func (s *Service) say(id domain.ConnID, message string) {
	if strings.TrimSpace(message) == "" {
		return
	}
	s.Broadcast(s.session.Name(id), s.censored(id, message))
}

func (s *Service) rename(id domain.ConnID, argument string) {
	name := strings.TrimSpace(argument)
	if name == "" || name == domain.ServerName {
		return
	}
	name = s.censored(id, name)
	old := s.session.Name(id)
	s.Broadcast(domain.ServerName, domain.RenameNotice(old, name))
	s.session.Rename(id, name)
}

func (s *Service) censored(id domain.ConnID, text string) string {
	clean, words := s.censor.Censor(text)
	if len(words) > 0 {
		s.log.Info("Censored words", "id", id, "words", words)
	}
	return clean
}

// host strips the port of a peer address.
func host(addr string) string {
	h, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return h
}

type noCensor struct{}

func (noCensor) Censor(text string) (string, []string) { return text, nil }
