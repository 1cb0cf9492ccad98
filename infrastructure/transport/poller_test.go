package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoller_Keeps_Notification_Until_Wait(t *testing.T) {
	req := require.New(t)
	poller := NewPoller()

	// Given a notification sent while nobody waits
	poller.Notify()
	poller.Notify()

	// Then the next Wait returns at once
	start := time.Now()
	poller.Wait(context.Background(), 5*time.Second)
	req.Less(time.Since(start), time.Second)
}

func TestPoller_Wait_Bounded_By_Timeout(t *testing.T) {
	req := require.New(t)
	poller := NewPoller()

	start := time.Now()
	poller.Wait(context.Background(), 20*time.Millisecond)
	req.GreaterOrEqual(time.Since(start), 20*time.Millisecond)
}

func TestPoller_Wait_Returns_On_Cancel(t *testing.T) {
	req := require.New(t)
	poller := NewPoller()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	poller.Wait(ctx, 5*time.Second)
	req.Less(time.Since(start), time.Second)
}
