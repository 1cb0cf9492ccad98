package websocket

import (
	"errors"
	"io"
	"time"

	"github.com/gorilla/websocket"
)

// stream presents a websocket connection as a byte stream. Every message written is sent as
// one text frame. A frame received is one line: it gets a terminating newline when it has none.
type stream struct {
	conn   *websocket.Conn
	reader io.Reader
	// the frame read last did not end with a newline
	unterminated bool
}

func newStream(conn *websocket.Conn) *stream {
	return &stream{conn: conn}
}

func (s *stream) Read(p []byte) (int, error) {
	for {
		if s.reader == nil {
			if s.unterminated && len(p) > 0 {
				s.unterminated = false
				p[0] = '\n'
				return 1, nil
			}
			_, r, err := s.conn.NextReader()
			if err != nil {
				if isExpectedCloseError(err) {
					return 0, io.EOF
				}
				return 0, err
			}
			s.reader = r
		}
		n, err := s.reader.Read(p)
		if n > 0 {
			s.unterminated = p[n-1] != '\n'
		}
		if errors.Is(err, io.EOF) {
			s.reader = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (s *stream) Write(p []byte) (int, error) {
	if err := s.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *stream) SetWriteDeadline(t time.Time) error {
	return s.conn.SetWriteDeadline(t)
}

func (s *stream) Close() error {
	return s.conn.Close()
}

// isExpectedCloseError reports a peer leaving the normal way.
func isExpectedCloseError(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}
