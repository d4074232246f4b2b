package services

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-relay/domain"
	"chat-relay/mocks"
)

func TestSessionService_StartSession_Registers_A_Fresh_Handle(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := mocks.NewMockIRegistry(ctrl)
	service := NewSessionService(log, registry, 16)

	// Then the handle reaches the registry before being handed out
	var registered *domain.Connection
	registry.EXPECT().
		Register(gomock.Any()).
		Do(func(conn *domain.Connection) {
			registered = conn
		}).
		Times(1)

	// When a session starts
	conn := service.StartSession()

	req.Same(registered, conn)
	req.NotEmpty(conn.ID)
	req.Equal(domain.Open, conn.State())
	req.Equal(16, conn.Mailbox.Cap())
}

func TestSessionService_ShutdownSession_Retires_A_Known_Handle(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := mocks.NewMockIRegistry(ctrl)
	service := NewSessionService(log, registry, 16)
	conn := domain.NewConnection(16)

	// Given the registry knows the connection
	registry.EXPECT().Lookup(conn.ID).Return(conn, true)
	registry.EXPECT().Deregister(conn.ID).Times(1)

	// When the session shuts down
	service.ShutdownSession(conn.ID)
}

func TestSessionService_ShutdownSession_Ignores_Unknown_Ids(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := mocks.NewMockIRegistry(ctrl)
	service := NewSessionService(log, registry, 16)

	// Given an id nobody knows
	registry.EXPECT().Lookup("gone").Return(nil, false)

	// Then no deregistration is attempted
	service.ShutdownSession("gone")
}

func TestSessionService_Broadcast_Delegates_To_The_Registry(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := mocks.NewMockIRegistry(ctrl)
	service := NewSessionService(log, registry, 16)

	msg := domain.Message{Text: "maintenance", Sender: domain.AdminSender}
	registry.EXPECT().Broadcast(msg).Return(3)

	req.Equal(3, service.Broadcast(msg))
}
