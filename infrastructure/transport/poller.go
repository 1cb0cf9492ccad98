// Package transport adapts blocking network connections to the non-blocking, readiness driven
// contract the server loop works with. Blocking reads, writes and accepts run in goroutines owned
// by this package; they only publish state and wake the Poller.
package transport

import (
	"context"
	"time"
)

// Poller is woken by sockets and listeners whenever their readiness may have changed.
// A wake-up arriving while nobody waits is kept, so a change is never lost between a
// readiness snapshot and the next Wait.
type Poller struct {
	wake chan struct{}
}

func NewPoller() *Poller {
	return &Poller{wake: make(chan struct{}, 1)}
}

// Notify never blocks.
func (p *Poller) Notify() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Wait returns on the first notification, when timeout elapses or when ctx is done.
func (p *Poller) Wait(ctx context.Context, timeout time.Duration) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-p.wake:
	case <-timer.C:
	case <-ctx.Done():
	}
}
