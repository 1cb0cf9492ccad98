package transport

import (
	"chat-relay/contract"
	errs "chat-relay/errors"
	"sync"
)

// AcceptQueue hands connections accepted by a background goroutine over to the server loop.
type AcceptQueue struct {
	notify func()

	mu      sync.Mutex
	pending []contract.Transport
	err     error
}

func NewAcceptQueue(notify func()) *AcceptQueue {
	if notify == nil {
		notify = func() {}
	}
	return &AcceptQueue{notify: notify}
}

func (q *AcceptQueue) Push(t contract.Transport) {
	q.mu.Lock()
	q.pending = append(q.pending, t)
	q.mu.Unlock()
	q.notify()
}

// Fail records a failure of the accept endpoint. Only the first one is kept.
func (q *AcceptQueue) Fail(err error) {
	q.mu.Lock()
	if q.err == nil {
		q.err = err
	}
	q.mu.Unlock()
	q.notify()
}

// Accept pops the oldest pending connection, or ErrWouldBlock when there is none.
func (q *AcceptQueue) Accept() (contract.Transport, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil, errs.ErrWouldBlock
	}
	t := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	return t, nil
}

func (q *AcceptQueue) Acceptable() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending) > 0
}

func (q *AcceptQueue) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

// ClosePending closes every connection never handed to the server loop.
func (q *AcceptQueue) ClosePending() {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, t := range pending {
		_ = t.Close()
	}
}

