package websocket

import (
	"log/slog"
	"net/url"
	"testing"
	"time"

	"chat-relay/infrastructure/transport"

	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestListener_Exchanges_Text_Frames(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	listener, err := Listen(log, "127.0.0.1", 0, transport.NewPoller(), transport.Options{})
	req.NoError(err)
	defer listener.Close()

	// Given a websocket client
	u := url.URL{Scheme: "ws", Host: listener.Addr(), Path: Path}
	client, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	req.NoError(err)
	defer client.Close()

	// When the server loop accepts it
	req.Eventually(listener.Acceptable, time.Second, 5*time.Millisecond)
	conn, err := listener.Accept()
	req.NoError(err)
	defer conn.Close()

	// Then a frame sent by the client is received as a chunk
	req.NoError(client.WriteMessage(websocket.TextMessage, []byte("say hi")))
	req.Eventually(conn.Readable, time.Second, 5*time.Millisecond)
	chunk, err := conn.Recv()
	req.NoError(err)
	req.Equal("say hi", string(chunk))

	// And the frame is terminated as a line
	req.Eventually(conn.Readable, time.Second, 5*time.Millisecond)
	chunk, err = conn.Recv()
	req.NoError(err)
	req.Equal("\n", string(chunk))

	// And a line sent by the server arrives as one frame
	req.NoError(conn.Send([]byte("[Server] hello\n")))
	_, frame, err := client.ReadMessage()
	req.NoError(err)
	req.Equal("[Server] hello\n", string(frame))
}
