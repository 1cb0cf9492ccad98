package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"
)

const maxAcceptDelay = time.Second

// ListenTCP binds host:port. When the address is already in use it retries on the next port,
// with no retry limit.
func ListenTCP(log *slog.Logger, host string, port int) (net.Listener, error) {
	address := net.JoinHostPort(host, strconv.Itoa(port))
	ln, err := net.Listen("tcp", address)
	if err == nil {
		return ln, nil
	}
	if !errors.Is(err, syscall.EADDRINUSE) {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	log.Info(fmt.Sprintf("Retrying on port %d", port+1))
	return ListenTCP(log, host, port+1)
}

// Listener is the TCP accept endpoint of the server.
type Listener struct {
	*AcceptQueue
	log  *slog.Logger
	ln   net.Listener
	opts Options

	closed    chan struct{}
	closeOnce sync.Once
}

// Listen binds a TCP listener whose readiness wakes poller.
func Listen(log *slog.Logger, host string, port int, poller *Poller, opts Options) (*Listener, error) {
	ln, err := ListenTCP(log, host, port)
	if err != nil {
		return nil, err
	}
	return NewListener(log, ln, poller.Notify, opts), nil
}

func NewListener(log *slog.Logger, ln net.Listener, notify func(), opts Options) *Listener {
	l := &Listener{
		AcceptQueue: NewAcceptQueue(notify),
		log:         log,
		ln:          ln,
		opts:        opts,
		closed:      make(chan struct{}),
	}
	go l.acceptLoop()
	return l
}

func (l *Listener) acceptLoop() {
	var delay time.Duration
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			select {
			case <-l.closed:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				l.Fail(err)
				return
			}
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay *= 2
			}
			delay = min(delay, maxAcceptDelay)
			l.log.Warn("Accept failed, retrying", "error", err, "delay", delay)
			time.Sleep(delay)
			continue
		}
		delay = 0
		l.Push(NewSocket(conn, conn.RemoteAddr().String(), l.notify, l.opts))
	}
}

func (l *Listener) Addr() string {
	return l.ln.Addr().String()
}

// Close stops accepting and closes connections not handed over yet.
func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.closed)
		err = l.ln.Close()
		l.ClosePending()
	})
	return err
}
