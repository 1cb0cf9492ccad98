// Package client is the thin side of the chat protocol: it sends commands and polls for
// whatever the server pushed.
package client

import (
	errs "chat-relay/errors"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DefaultPollInterval = 300 * time.Millisecond
	receiveBufferSize   = 4096
	dialTimeout         = 5 * time.Second
)

type Client struct {
	log          *slog.Logger
	pollInterval time.Duration

	mu   sync.Mutex
	conn net.Conn
	err  error
	buf  []byte
	// received text not terminated by a newline yet, only touched by Receive
	tail string
}

func New(log *slog.Logger, pollInterval time.Duration) *Client {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Client{log: log, pollInterval: pollInterval, buf: make([]byte, receiveBufferSize)}
}

// Connect dials the server. A previous connection is closed first.
func (c *Client) Connect(host string, port int) error {
	address := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", address, dialTimeout)
	if err != nil {
		return fmt.Errorf("could not connect to server at %s: %w", address, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = conn
	c.err = nil
	c.tail = ""
	c.log.Debug("Connected", "address", address)
	return nil
}

// Send writes "verb argument\n".
func (c *Client) Send(verb, argument string) error {
	conn := c.current()
	if conn == nil {
		return errs.ErrNotConnected
	}
	if _, err := fmt.Fprintf(conn, "%s %s\n", verb, argument); err != nil {
		return fmt.Errorf("send %s failed: %w", verb, err)
	}
	return nil
}

// Receive returns the complete lines received within the poll interval. A line cut across
// two polls is returned whole by the later one. It returns "" when nothing arrived or the
// connection failed, Err tells the two apart.
func (c *Client) Receive() (text string) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Receive panicked", "panic", r)
			text = ""
		}
	}()

	conn := c.current()
	if conn == nil {
		return ""
	}
	if err := conn.SetReadDeadline(time.Now().Add(c.pollInterval)); err != nil {
		c.fail(err)
		return ""
	}

	n, err := conn.Read(c.buf)
	received := c.tail + string(c.buf[:n])
	if err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
		// nothing more will complete the tail
		c.fail(err)
		c.tail = ""
		return received
	}
	end := strings.LastIndexByte(received, '\n') + 1
	c.tail = received[end:]
	return received[:end]
}

// Err returns the failure that ended the connection, if any.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) current() net.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil
	}
	return c.conn
}

func (c *Client) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		c.err = err
		c.log.Debug("Connection lost", "error", err)
	}
}
