package chat

import (
	"chat-relay/domain"
	"chat-relay/mocks"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDispatcher_Process_Only_Drains_Live_Backlog(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := mocks.NewMockIRegistry(ctrl)

	// Given two connections, only the first with pending input
	registry.EXPECT().IDs().Return([]domain.ConnID{1, 2}).Times(1)
	registry.EXPECT().Drain(domain.ConnID(1)).Return([]string{"foo\n", "say hi\n"}).Times(1)
	registry.EXPECT().Drain(domain.ConnID(2)).Return(nil).Times(1)

	// Then the unknown verb is answered to its sender only
	registry.EXPECT().Enqueue(domain.ConnID(1), "Invalid command. Commands are:\nsay\n").Return(true).Times(1)

	var said []string
	d := NewDispatcher(log, registry)
	d.Register(domain.Say, func(id domain.ConnID, argument string) {
		req.Equal(domain.ConnID(1), id)
		said = append(said, argument)
	})

	d.Process()
	req.Equal([]string{"hi"}, said)
}

func TestDispatcher_Lookup(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	d := NewDispatcher(logs.GetLoggerFromLevel(slog.LevelDebug), mocks.NewMockIRegistry(ctrl))
	d.Register(domain.Name, func(domain.ConnID, string) {})

	_, ok := d.lookup(domain.Name)
	req.True(ok)
	_, ok = d.lookup("say")
	req.False(ok)
}
