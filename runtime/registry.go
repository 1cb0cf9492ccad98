package runtime

import (
	"bytes"
	"chat-relay/contract"
	"chat-relay/domain"
	"fmt"
	"log/slog"
	"slices"

	"github.com/samber/lo"
)

// Connection is one accepted client and its queues.
type Connection struct {
	ID        domain.ConnID
	Addr      string
	Transport contract.Transport
	Inbound   *domain.Queue[string] // decoded text waiting for dispatch
	Outbound  *domain.Queue[string] // lines waiting for transmission

	// received bytes not terminated by a newline yet
	partial []byte
	// the line being received was too long, its remainder is dropped
	skipping bool
}

// completeLines appends data to the unterminated tail and returns the lines it completed,
// terminators included.
func (c *Connection) completeLines(data []byte) [][]byte {
	c.partial = append(c.partial, data...)
	var lines [][]byte
	for {
		i := bytes.IndexByte(c.partial, '\n')
		if i < 0 {
			break
		}
		line := c.partial[: i+1 : i+1]
		c.partial = c.partial[i+1:]
		if c.skipping {
			c.skipping = false
			continue
		}
		lines = append(lines, line)
	}
	if len(c.partial) == 0 {
		c.partial = nil
	}
	return lines
}

// Registry owns the live connections. It is only used from the server loop and takes no lock.
type Registry struct {
	log         *slog.Logger
	welcome     string
	lastID      domain.ConnID
	connections map[domain.ConnID]*Connection
}

// NewRegistry creates an empty registry. An empty welcome disables the welcome line.
func NewRegistry(log *slog.Logger, welcome string) *Registry {
	return &Registry{
		log:         log,
		welcome:     welcome,
		connections: make(map[domain.ConnID]*Connection),
	}
}

// Accept takes one pending connection from the listener and registers it.
func (r *Registry) Accept(listener contract.Listener) (*Connection, error) {
	transport, err := listener.Accept()
	if err != nil {
		return nil, err
	}
	return r.Register(transport), nil
}

// Register gives transport the next identifier, creates its queues and enqueues the welcome line.
func (r *Registry) Register(transport contract.Transport) *Connection {
	r.lastID++
	conn := &Connection{
		ID:        r.lastID,
		Addr:      transport.RemoteAddr(),
		Transport: transport,
		Inbound:   domain.NewQueue[string](),
		Outbound:  domain.NewQueue[string](),
	}
	if r.welcome != "" {
		conn.Outbound.Push(domain.EnsureNewline(r.welcome))
	}
	r.connections[conn.ID] = conn
	r.log.Info("Accepted connection", "id", conn.ID, "address", conn.Addr)
	return conn
}

// Terminate unregisters the connection, closes its transport and drops its queues.
// It returns false when id is not registered.
func (r *Registry) Terminate(id domain.ConnID, reason string) bool {
	conn, ok := r.connections[id]
	if !ok {
		return false
	}
	delete(r.connections, id)

	r.log.Info(fmt.Sprintf("Terminating connection from %s because %s", conn.Addr, reason), "id", id)
	if err := conn.Transport.Close(); err != nil {
		r.log.Debug("Closing transport failed", "id", id, "error", err)
	}
	return true
}

func (r *Registry) Get(id domain.ConnID) (*Connection, bool) {
	conn, ok := r.connections[id]
	return conn, ok
}

// IDs returns the live identifiers in ascending order.
func (r *Registry) IDs() []domain.ConnID {
	ids := lo.Keys(r.connections)
	slices.Sort(ids)
	return ids
}

func (r *Registry) Len() int {
	return len(r.connections)
}

// Enqueue appends line to the outbound queue of id.
func (r *Registry) Enqueue(id domain.ConnID, line string) bool {
	conn, ok := r.connections[id]
	if !ok {
		return false
	}
	conn.Outbound.Push(line)
	return true
}

// Broadcast appends line to the outbound queue of every live connection.
func (r *Registry) Broadcast(line string) {
	for _, id := range r.IDs() {
		r.connections[id].Outbound.Push(line)
	}
}

// Drain pops the inbound backlog of id as it is now.
func (r *Registry) Drain(id domain.ConnID) []string {
	conn, ok := r.connections[id]
	if !ok {
		return nil
	}
	return conn.Inbound.PopN(conn.Inbound.Len())
}

// Pending counts queued inbound and outbound units across all connections.
func (r *Registry) Pending() (inbound, outbound int) {
	for _, conn := range r.connections {
		inbound += conn.Inbound.Len()
		outbound += conn.Outbound.Len()
	}
	return inbound, outbound
}
