package grpc

import (
	"log/slog"

	"chat-relay/contract"
	"chat-relay/errors"
	"chat-relay/moderation"
	pb "chat-relay/proto/chat"
	"chat-relay/runtime/workers"
)

type ChatServer struct {
	pb.UnimplementedChatServiceServer
	log       *slog.Logger
	sessions  contract.ISessionService
	moderator moderation.Moderator
}

func NewChatServer(log *slog.Logger, sessions contract.ISessionService, moderator moderation.Moderator) *ChatServer {
	return &ChatServer{log: log, sessions: sessions, moderator: moderator}
}

// ChatMessageStreaming establishes the long-lived duplex stream of one session.
// It mints a connection handle, making the session reachable for broadcasts,
// then splits the stream between two pumps: the inbound pump owns the read
// half on its own goroutine, the outbound pump drains the session mailbox
// right here. This method blocks until the mailbox is sealed and drained or
// the stream dies. Proper cleanup is ensured via deferred retirement to
// prevent stale handles in the registry.
func (s *ChatServer) ChatMessageStreaming(stream pb.ChatService_ChatMessageStreamingServer) error {
	conn := s.sessions.StartSession()
	defer s.sessions.ShutdownSession(conn.ID)

	ctx := stream.Context()
	inbound := workers.NewInboundPump(s.log, streamReceiver{stream: stream}, conn, s.moderator)
	outbound := workers.NewOutboundPump(s.log, streamSender{stream: stream}, conn, s.sessions)

	go func() {
		// Exits on end of stream, sealing the mailbox for the outbound pump.
		_ = inbound.Run(ctx)
	}()

	if err := outbound.Run(ctx); err != nil && ctx.Err() == nil {
		return errors.MapToGRPCError(err)
	}
	return nil
}
