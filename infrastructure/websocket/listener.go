// Package websocket serves the chat protocol over websocket connections. Each connection is
// adapted to the same non-blocking transport the TCP listener produces, so the server loop
// does not know which one it runs on.
package websocket

import (
	"chat-relay/infrastructure/transport"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	Path              = "/chat"
	readHeaderTimeout = 5 * time.Second
	handshakeTimeout  = 10 * time.Second
)

type Listener struct {
	*transport.AcceptQueue
	log      *slog.Logger
	ln       net.Listener
	server   *http.Server
	upgrader websocket.Upgrader
	notify   func()
	opts     transport.Options

	closeOnce sync.Once
}

// Listen binds host:port, with the same port retry as the TCP listener.
func Listen(log *slog.Logger, host string, port int, poller *transport.Poller, opts transport.Options) (*Listener, error) {
	ln, err := transport.ListenTCP(log, host, port)
	if err != nil {
		return nil, err
	}
	return NewListener(log, ln, poller.Notify, opts), nil
}

func NewListener(log *slog.Logger, ln net.Listener, notify func(), opts transport.Options) *Listener {
	l := &Listener{
		AcceptQueue: transport.NewAcceptQueue(notify),
		log:         log,
		ln:          ln,
		notify:      notify,
		opts:        opts,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: handshakeTimeout,
			ReadBufferSize:   opts.ReadBufferSize,
			// Browser clients may come from any origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc(Path, l.handleUpgrade)
	l.server = &http.Server{Handler: mux, ReadHeaderTimeout: readHeaderTimeout}

	go func() {
		if err := l.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fail(err)
		}
	}()
	return l
}

func (l *Listener) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client
		l.log.Debug("Websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	l.Push(transport.NewSocket(newStream(conn), conn.RemoteAddr().String(), l.notify, l.opts))
}

func (l *Listener) Addr() string {
	return l.ln.Addr().String()
}

func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		err = l.server.Close()
		l.ClosePending()
	})
	return err
}
