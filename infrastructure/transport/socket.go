package transport

import (
	errs "chat-relay/errors"
	"errors"
	"io"
	"net"
	"sync"
	"time"
)

const DefaultReadBufferSize = 4096

// Stream is the blocking connection a Socket wraps.
type Stream interface {
	io.ReadWriteCloser
	SetWriteDeadline(t time.Time) error
}

type Options struct {
	// ReadBufferSize bounds the size of one received chunk.
	ReadBufferSize int
	// WriteTimeout bounds one transmission, zero means no limit.
	WriteTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.ReadBufferSize <= 0 {
		o.ReadBufferSize = DefaultReadBufferSize
	}
	return o
}

// Socket implements contract.Transport on top of a Stream.
// The reader goroutine keeps at most one received chunk pending and waits for it to be
// consumed before reading again. The writer goroutine transmits one message at a time,
// Send refuses a second one with ErrWouldBlock while the first is in flight.
type Socket struct {
	stream Stream
	addr   string
	notify func()
	opts   Options

	mu       sync.Mutex
	chunk    []byte
	readErr  error
	writing  bool
	writeErr error

	consumed  chan struct{}
	outbox    chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func NewSocket(stream Stream, addr string, notify func(), opts Options) *Socket {
	if notify == nil {
		notify = func() {}
	}
	s := &Socket{
		stream:   stream,
		addr:     addr,
		notify:   notify,
		opts:     opts.withDefaults(),
		consumed: make(chan struct{}, 1),
		outbox:   make(chan []byte, 1),
		closed:   make(chan struct{}),
	}
	go s.readLoop()
	go s.writeLoop()
	return s
}

func (s *Socket) readLoop() {
	buf := make([]byte, s.opts.ReadBufferSize)
	for {
		n, err := s.stream.Read(buf)
		if n == 0 && err == nil {
			continue
		}

		s.mu.Lock()
		if n > 0 {
			s.chunk = append([]byte(nil), buf[:n]...)
		}
		s.readErr = err
		s.mu.Unlock()
		s.notify()

		if err != nil {
			return
		}
		select {
		case <-s.consumed:
		case <-s.closed:
			return
		}
	}
}

func (s *Socket) writeLoop() {
	for {
		select {
		case <-s.closed:
			return
		case p := <-s.outbox:
			if s.opts.WriteTimeout > 0 {
				_ = s.stream.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			}
			_, err := s.stream.Write(p)

			s.mu.Lock()
			s.writing = false
			if err != nil {
				s.writeErr = err
			}
			s.mu.Unlock()
			s.notify()

			if err != nil {
				return
			}
		}
	}
}

// Recv returns the pending chunk. A peer that closed the stream is reported with io.EOF
// once every chunk received before has been returned.
func (s *Socket) Recv() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chunk != nil {
		chunk := s.chunk
		s.chunk = nil
		if s.readErr == nil {
			select {
			case s.consumed <- struct{}{}:
			default:
			}
		}
		return chunk, nil
	}
	if s.readErr != nil {
		if errors.Is(s.readErr, io.EOF) {
			return nil, io.EOF
		}
		return nil, s.readErr
	}
	return nil, errs.ErrWouldBlock
}

// Send hands p to the writer goroutine.
func (s *Socket) Send(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	if s.writing {
		return errs.ErrWouldBlock
	}
	select {
	case <-s.closed:
		return net.ErrClosed
	default:
	}
	s.writing = true
	s.outbox <- p
	return nil
}

func (s *Socket) Readable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chunk != nil || s.readErr != nil
}

func (s *Socket) Writable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.writing && s.writeErr == nil
}

func (s *Socket) Errored() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeErr != nil
}

func (s *Socket) RemoteAddr() string {
	return s.addr
}

// Close stops both goroutines and closes the stream. Calling it again is a no-op.
func (s *Socket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		err = s.stream.Close()
	})
	return err
}
