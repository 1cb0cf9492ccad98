// Package runtime drives the server loop: readiness polling, connection lifecycle and queues.
// It orchestrates the system without containing chat rules, which are injected as a contract.Handler.
package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	errs "chat-relay/errors"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
)

const (
	DefaultSelectTimeout = time.Second
	// MaxLineLength bounds an unterminated line. A longer one is discarded.
	MaxLineLength = 64 * 1024
)

type Option func(m *Multiplexer) error

// WithSelectTimeout bounds how long a tick waits for readiness.
func WithSelectTimeout(timeout time.Duration) Option {
	return func(m *Multiplexer) error {
		if timeout <= 0 {
			return fmt.Errorf("runtime.WithSelectTimeout: %w (%v)", errs.ErrInvalidTimeout, timeout)
		}
		m.selectTimeout = timeout
		return nil
	}
}

// WithStatsReporter publishes loop statistics every interval, from inside the loop.
func WithStatsReporter(reporter contract.StatsReporter, interval time.Duration) Option {
	return func(m *Multiplexer) error {
		if interval <= 0 {
			return fmt.Errorf("runtime.WithStatsReporter: %w (%v)", errs.ErrInvalidTimeout, interval)
		}
		m.reporter = reporter
		m.reportEvery = interval
		return nil
	}
}

// Multiplexer runs the tick loop of one server instance. Registry, queues and handler are
// only touched by the goroutine calling Tick or Run.
type Multiplexer struct {
	log           *slog.Logger
	listener      contract.Listener
	poller        contract.Poller
	registry      *Registry
	handler       contract.Handler
	selectTimeout time.Duration

	reporter    contract.StatsReporter
	reportEvery time.Duration
	lastReport  time.Time
	startedAt   time.Time
	ticks       uint64

	// connections terminated during the current tick
	gone map[domain.ConnID]struct{}
}

func NewMultiplexer(
	log *slog.Logger,
	listener contract.Listener,
	poller contract.Poller,
	registry *Registry,
	handler contract.Handler,
	opts ...Option,
) (*Multiplexer, error) {
	m := &Multiplexer{
		log:           log,
		listener:      listener,
		poller:        poller,
		registry:      registry,
		handler:       handler,
		selectTimeout: DefaultSelectTimeout,
		startedAt:     time.Now(),
		gone:          make(map[domain.ConnID]struct{}),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	m.lastReport = m.startedAt
	return m, nil
}

// Run ticks until ctx is done, then shuts the server down.
// A failing listener stops the loop with an error, after the same shutdown.
func (m *Multiplexer) Run(ctx context.Context) error {
	m.log.Info("Chat server listening", "address", m.listener.Addr())
	for ctx.Err() == nil {
		if err := m.Tick(ctx); err != nil {
			m.log.Error("Server loop stopped", "error", err)
			m.Shutdown()
			return err
		}
	}
	m.Shutdown()
	return nil
}

type readiness struct {
	acceptable bool
	readable   []domain.ConnID
	writable   []domain.ConnID
	errored    []domain.ConnID
}

// Tick runs one iteration of the loop: wait for readiness, accept, receive, dispatch, transmit,
// then tear down the connections in error.
func (m *Multiplexer) Tick(ctx context.Context) error {
	if err := m.listener.Err(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrListenerClosed, err)
	}

	ready := m.snapshot()
	if !m.actionable(ready) {
		m.poller.Wait(ctx, m.selectTimeout)
		ready = m.snapshot()
	}
	m.ticks++
	clear(m.gone)

	if ready.acceptable {
		m.accept()
	}
	for _, id := range ready.readable {
		m.receive(id)
	}

	m.handler.Process()

	writable := lo.Filter(ready.writable, func(id domain.ConnID, _ int) bool {
		_, terminated := m.gone[id]
		return !terminated
	})
	for _, id := range writable {
		m.transmit(id)
	}

	for _, id := range ready.errored {
		if _, ok := m.registry.Get(id); ok {
			m.terminate(id, domain.ReasonTransportError)
		}
	}

	m.report()
	return nil
}

func (m *Multiplexer) snapshot() readiness {
	ready := readiness{acceptable: m.listener.Acceptable()}
	for _, id := range m.registry.IDs() {
		conn, _ := m.registry.Get(id)
		if conn.Transport.Readable() {
			ready.readable = append(ready.readable, id)
		}
		if conn.Transport.Writable() {
			ready.writable = append(ready.writable, id)
		}
		if conn.Transport.Errored() {
			ready.errored = append(ready.errored, id)
		}
	}
	return ready
}

// actionable reports whether the tick has work. A writable connection only counts when it
// has something to send.
func (m *Multiplexer) actionable(ready readiness) bool {
	if ready.acceptable || len(ready.readable) > 0 || len(ready.errored) > 0 {
		return true
	}
	return lo.SomeBy(ready.writable, func(id domain.ConnID) bool {
		conn, ok := m.registry.Get(id)
		return ok && conn.Outbound.Len() > 0
	})
}

func (m *Multiplexer) accept() {
	conn, err := m.registry.Accept(m.listener)
	if err != nil {
		if !errors.Is(err, errs.ErrWouldBlock) {
			m.log.Info("Accept failed", "error", err)
		}
		return
	}
	m.handler.OnAccept(conn.ID, conn.Addr)
}

func (m *Multiplexer) receive(id domain.ConnID) {
	conn, ok := m.registry.Get(id)
	if !ok {
		return
	}

	data, err := conn.Transport.Recv()
	switch {
	case errors.Is(err, errs.ErrWouldBlock):
		return
	case errors.Is(err, io.EOF), err == nil && len(data) == 0:
		m.terminate(id, domain.ReasonRemoteClosed)
		return
	case err != nil:
		m.log.Info("Receive failed", "id", id, "error", err)
		m.terminate(id, domain.ReasonTransportError)
		return
	}

	m.log.Debug("Received", "id", id, "bytes", len(data))
	for _, line := range conn.completeLines(data) {
		if !utf8.Valid(line) {
			m.log.Debug("Dropping undecodable line", "id", id, "bytes", len(line))
			continue
		}
		conn.Inbound.Push(string(line))
	}
	if len(conn.partial) > MaxLineLength {
		m.log.Debug("Dropping oversized line", "id", id, "bytes", len(conn.partial))
		conn.partial = nil
		conn.skipping = true
	}
}

// transmit sends the oldest outbound line of id. The line stays queued until the transport took it.
func (m *Multiplexer) transmit(id domain.ConnID) {
	conn, ok := m.registry.Get(id)
	if !ok {
		return
	}
	line, ok := conn.Outbound.Peek()
	if !ok {
		return
	}

	err := conn.Transport.Send([]byte(line))
	switch {
	case err == nil:
		conn.Outbound.Pop()
	case errors.Is(err, errs.ErrWouldBlock):
	default:
		m.log.Info("Send failed", "id", id, "error", err)
		m.terminate(id, domain.ReasonTransportError)
	}
}

// terminate tears a connection down once. The handler sees it after the registry dropped it.
func (m *Multiplexer) terminate(id domain.ConnID, reason string) {
	if !m.registry.Terminate(id, reason) {
		return
	}
	m.gone[id] = struct{}{}
	m.handler.OnTerminate(id, reason)
}

// Shutdown terminates every live connection and closes the listener.
func (m *Multiplexer) Shutdown() {
	for _, id := range m.registry.IDs() {
		m.terminate(id, domain.ReasonShutdown)
	}
	if err := m.listener.Close(); err != nil {
		m.log.Debug("Closing listener failed", "error", err)
	}
	m.log.Info("Shutdown successfully")
}

// Stats snapshots the loop.
func (m *Multiplexer) Stats() domain.LoopStats {
	inbound, outbound := m.registry.Pending()
	return domain.LoopStats{
		Ticks:           m.ticks,
		Connections:     m.registry.Len(),
		PendingInbound:  inbound,
		PendingOutbound: outbound,
		Uptime:          time.Since(m.startedAt),
	}
}

func (m *Multiplexer) report() {
	if m.reporter == nil {
		return
	}
	now := time.Now()
	if now.Sub(m.lastReport) < m.reportEvery {
		return
	}
	m.lastReport = now
	m.reporter.Report(m.Stats())
}
