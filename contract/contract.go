//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"context"
	"reflect"
	"time"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context) error
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Transport is a duplex byte stream with non-blocking semantics.
// Recv and Send return errors.ErrWouldBlock instead of waiting.
// Recv reports a closed peer with io.EOF.
type Transport interface {
	Recv() ([]byte, error)
	Send(p []byte) error
	Readable() bool
	Writable() bool
	Errored() bool
	RemoteAddr() string
	Close() error
}

// Listener is the accept endpoint of a server instance.
// Accept returns errors.ErrWouldBlock when no connection is pending.
type Listener interface {
	Accept() (Transport, error)
	Acceptable() bool
	Err() error
	Addr() string
	Close() error
}

// Poller blocks until some watched socket changes state, the timeout elapses or ctx is done.
type Poller interface {
	Wait(ctx context.Context, timeout time.Duration)
}

// Handler is the protocol layered on top of the multiplexer.
// Every hook is called from the server loop only.
type Handler interface {
	OnAccept(id domain.ConnID, addr string)
	OnTerminate(id domain.ConnID, reason string)
	Process()
}

// IRegistry is the part of the connection registry a protocol needs.
type IRegistry interface {
	IDs() []domain.ConnID
	Enqueue(id domain.ConnID, line string) bool
	Broadcast(line string)
	Drain(id domain.ConnID) []string
}

// Censor masks forbidden words of a text and returns the words it found.
type Censor interface {
	Censor(text string) (string, []string)
}

// StatsReporter publishes snapshots of the server loop.
type StatsReporter interface {
	Report(stats domain.LoopStats)
}
