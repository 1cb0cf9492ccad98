package workers

import (
	"chat-relay/mocks"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSupervisor_RestartOnPanic(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctrl := gomock.NewController(t)
	workerMock := mocks.NewMockWorker(ctrl)

	var calls atomic.Int32
	workerMock.EXPECT().
		Run(gomock.Any()).
		DoAndReturn(func(ctx context.Context) error {
			calls.Add(1)
			panic("boom")
		}).
		AnyTimes()

	sup := NewSupervisor(log, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	// Then a panicking worker is restarted until the context ends
	req.NoError(sup.Add(workerMock).Run(ctx))
	req.GreaterOrEqual(calls.Load(), int32(2))
}

func TestSupervisor_StopOnSuccess(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctrl := gomock.NewController(t)

	workerMock := mocks.NewMockWorker(ctrl)

	// Given a worker running only once
	workerMock.EXPECT().
		Run(gomock.Any()).
		Return(nil).
		Times(1)

	sup := NewSupervisor(log, 0)

	// Given a channel to notify when Run() terminated
	done := make(chan error, 1)

	go func() {
		done <- sup.Add(workerMock).Run(context.Background())
	}()

	select {
	case err := <-done:
		// Then supervisor detected a success, returned nil and stopped
		req.NoError(err)
	case <-time.After(500 * time.Millisecond):
		req.Fail("Supervisor should have stopped after worker success")
	}
}

func TestSupervisor_Error_Stops_Siblings(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctrl := gomock.NewController(t)
	boom := errors.New("listener closed")

	failing := mocks.NewMockWorker(ctrl)
	failing.EXPECT().Run(gomock.Any()).Return(boom).Times(1)

	// Given a sibling blocking until canceled
	sibling := mocks.NewMockWorker(ctrl)
	sibling.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}).MaxTimes(1)

	sup := NewSupervisor(log, 0)

	done := make(chan error, 1)
	go func() { done <- sup.Add(failing, sibling).Run(context.Background()) }()

	select {
	case err := <-done:
		// Then the failure is reported and nothing is restarted
		req.ErrorIs(err, boom)
	case <-time.After(time.Second):
		req.Fail("Supervisor should have stopped after a worker error")
	}
}
