package transport

import (
	errs "chat-relay/errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

func TestSocket_Recv_Returns_Pending_Chunk(t *testing.T) {
	req := require.New(t)
	server, peer := net.Pipe()
	defer peer.Close()
	poller := NewPoller()
	socket := NewSocket(server, "pipe", poller.Notify, Options{})
	defer socket.Close()

	// Given nothing has been sent yet
	_, err := socket.Recv()
	req.ErrorIs(err, errs.ErrWouldBlock)
	req.False(socket.Readable())

	// When the peer writes a line
	go func() { _, _ = peer.Write([]byte("say hi\n")) }()

	// Then the socket becomes readable and returns the chunk once
	req.Eventually(socket.Readable, waitFor, tick)
	chunk, err := socket.Recv()
	req.NoError(err)
	req.Equal("say hi\n", string(chunk))

	_, err = socket.Recv()
	req.ErrorIs(err, errs.ErrWouldBlock)
}

func TestSocket_Recv_Reports_EOF_After_Last_Chunk(t *testing.T) {
	req := require.New(t)
	server, peer := net.Pipe()
	socket := NewSocket(server, "pipe", nil, Options{})
	defer socket.Close()

	// Given the peer sends a line then closes
	go func() {
		_, _ = peer.Write([]byte("bye\n"))
		_ = peer.Close()
	}()

	// Then the line comes first
	req.Eventually(socket.Readable, waitFor, tick)
	chunk, err := socket.Recv()
	req.NoError(err)
	req.Equal("bye\n", string(chunk))

	// And the close afterward
	req.Eventually(socket.Readable, waitFor, tick)
	_, err = socket.Recv()
	req.ErrorIs(err, io.EOF)
}

func TestSocket_Send_One_Message_In_Flight(t *testing.T) {
	req := require.New(t)
	server, peer := net.Pipe()
	defer peer.Close()
	socket := NewSocket(server, "pipe", nil, Options{WriteTimeout: time.Second})
	defer socket.Close()

	// Given a message handed to the writer
	req.True(socket.Writable())
	req.NoError(socket.Send([]byte("hello\n")))

	// Then a second one is refused until the peer reads the first
	req.ErrorIs(socket.Send([]byte("again\n")), errs.ErrWouldBlock)
	req.False(socket.Writable())

	buf := make([]byte, 64)
	n, err := peer.Read(buf)
	req.NoError(err)
	req.Equal("hello\n", string(buf[:n]))

	req.Eventually(socket.Writable, waitFor, tick)
}

func TestSocket_Write_Failure_Marks_Socket_Errored(t *testing.T) {
	req := require.New(t)
	server, peer := net.Pipe()
	socket := NewSocket(server, "pipe", nil, Options{})
	defer socket.Close()

	// Given the peer went away
	req.NoError(peer.Close())

	// When a message is sent
	req.NoError(socket.Send([]byte("lost\n")))

	// Then the socket reports an error state
	req.Eventually(socket.Errored, waitFor, tick)
	req.False(socket.Writable())
	req.Error(socket.Send([]byte("lost again\n")))
}

func TestSocket_Close_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	server, peer := net.Pipe()
	defer peer.Close()
	socket := NewSocket(server, "pipe", nil, Options{})

	req.NoError(socket.Close())
	req.NoError(socket.Close())
	req.Error(socket.Send([]byte("x")))
}
