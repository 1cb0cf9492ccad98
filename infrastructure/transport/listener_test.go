package transport

import (
	errs "chat-relay/errors"
	"log/slog"
	"net"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestListenTCP_Retries_On_Next_Port(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given a port already taken
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)
	defer taken.Close()
	port := taken.Addr().(*net.TCPAddr).Port

	// When the server binds the same port
	ln, err := ListenTCP(log, "127.0.0.1", port)
	req.NoError(err)
	defer ln.Close()

	// Then it lands on a higher one
	req.Greater(ln.Addr().(*net.TCPAddr).Port, port)
}

func TestListenTCP_Other_Errors_Are_Returned(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	_, err := ListenTCP(log, "127.0.0.1", 70000)
	req.Error(err)
}

func TestListener_Accept(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	poller := NewPoller()

	listener, err := Listen(log, "127.0.0.1", 0, poller, Options{})
	req.NoError(err)
	defer listener.Close()

	// Given nobody dialed
	_, err = listener.Accept()
	req.ErrorIs(err, errs.ErrWouldBlock)

	// When a client connects
	conn, err := net.Dial("tcp", listener.Addr())
	req.NoError(err)
	defer conn.Close()

	// Then exactly one transport is handed over
	req.Eventually(listener.Acceptable, waitFor, tick)
	transport, err := listener.Accept()
	req.NoError(err)
	defer transport.Close()
	req.Equal(conn.LocalAddr().String(), transport.RemoteAddr())

	_, err = listener.Accept()
	req.ErrorIs(err, errs.ErrWouldBlock)
}

func TestListener_Close_Is_Not_A_Failure(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	listener, err := Listen(log, "127.0.0.1", 0, NewPoller(), Options{})
	req.NoError(err)

	req.NoError(listener.Close())
	req.NoError(listener.Err())
	req.NoError(listener.Close())
}
