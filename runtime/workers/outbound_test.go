package workers

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-relay/domain"
	"chat-relay/mocks"
)

func TestOutboundPump_Drains_In_Order_Then_Exits_On_Sealed_Mailbox(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mocks.NewMockMessageSender(ctrl)
	sessions := mocks.NewMockISessionService(ctrl)
	conn := domain.NewConnection(domain.DefaultMailboxCapacity)

	// Given two queued messages and a sealed mailbox
	req.True(conn.Mailbox.TryEnqueue(domain.Message{Text: "first", Sender: domain.ServerSender}))
	req.True(conn.Mailbox.TryEnqueue(domain.Message{Text: "second", Sender: domain.ServerSender}))
	conn.Mailbox.Close()

	gomock.InOrder(
		sink.EXPECT().Send(domain.Message{Text: "first", Sender: domain.ServerSender}).Return(nil),
		sink.EXPECT().Send(domain.Message{Text: "second", Sender: domain.ServerSender}).Return(nil),
	)

	pump := NewOutboundPump(log, sink, conn, sessions)

	// When the pump drains the backlog
	err := pump.Run(context.Background())

	// Then it ends cleanly after the last message
	req.NoError(err)
	req.Equal(domain.Closing, conn.State())
}

func TestOutboundPump_Write_Failure_Shuts_The_Session_Down(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mocks.NewMockMessageSender(ctrl)
	sessions := mocks.NewMockISessionService(ctrl)
	conn := domain.NewConnection(domain.DefaultMailboxCapacity)

	// Given a peer that rejects the write
	req.True(conn.Mailbox.TryEnqueue(domain.Message{Text: "doomed", Sender: domain.ServerSender}))
	sink.EXPECT().Send(gomock.Any()).Return(fmt.Errorf("broken pipe"))

	// Then the connection leaves the registry right away
	sessions.EXPECT().ShutdownSession(conn.ID).Times(1)

	pump := NewOutboundPump(log, sink, conn, sessions)

	// When the pump hits the failure
	err := pump.Run(context.Background())

	req.ErrorContains(err, "broken pipe")
}

func TestOutboundPump_Stops_When_Context_Is_Canceled(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mocks.NewMockMessageSender(ctrl)
	sessions := mocks.NewMockISessionService(ctrl)
	conn := domain.NewConnection(domain.DefaultMailboxCapacity)

	pump := NewOutboundPump(log, sink, conn, sessions)

	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)
	go func() {
		errChan <- pump.Run(ctx)
	}()

	// When the stream context dies with an empty mailbox
	cancel()

	// Then the pump unblocks promptly
	select {
	case err := <-errChan:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(1 * time.Second):
		req.Fail("Goroutine did not terminated at time")
	}
}
