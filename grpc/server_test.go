package grpc

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"chat-relay/domain"
	"chat-relay/moderation"
	pb "chat-relay/proto/chat"
	"chat-relay/runtime"
	"chat-relay/services"
)

// startTestServer boots the full engine on an in-memory transport.
func startTestServer(t *testing.T, censoredWords ...string) (pb.ChatServiceClient, *runtime.Registry, func()) {
	t.Helper()
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	registry := runtime.NewRegistry()
	sessions := services.NewSessionService(log, registry, domain.DefaultMailboxCapacity)
	moderator, err := moderation.NewModerator(censoredWords, '*', log)
	req.NoError(err)

	listener := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	pb.RegisterChatServiceServer(server, NewChatServer(log, sessions, moderator))
	go func() {
		_ = server.Serve(listener)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	req.NoError(err)

	cleanup := func() {
		_ = conn.Close()
		server.GracefulStop()
	}
	return pb.NewChatServiceClient(conn), registry, cleanup
}

func TestChatServer_Echoes_With_Server_Identity(t *testing.T) {
	req := require.New(t)
	client, _, cleanup := startTestServer(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.ChatMessageStreaming(ctx)
	req.NoError(err)

	// When the client sends a payload
	req.NoError(stream.Send(&pb.ChatMessage{Message: "hi", From: "Client"}))

	// Then the reply wraps it with the fixed server identity
	reply, err := stream.Recv()
	req.NoError(err)
	req.Equal("Server : hi", reply.GetMessage())
	req.Equal("Server", reply.GetFrom())

	// And an empty payload still gets the prefix
	req.NoError(stream.Send(&pb.ChatMessage{Message: "", From: "Client"}))
	reply, err = stream.Recv()
	req.NoError(err)
	req.Equal("Server : ", reply.GetMessage())

	// And closing the write half ends the session cleanly
	req.NoError(stream.CloseSend())
	_, err = stream.Recv()
	req.ErrorIs(err, io.EOF)
}

func TestChatServer_Replies_Preserve_Send_Order(t *testing.T) {
	req := require.New(t)
	client, _, cleanup := startTestServer(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.ChatMessageStreaming(ctx)
	req.NoError(err)

	// Given a burst of payloads sent without reading in between
	payloads := []string{"first", "second", "third"}
	for _, payload := range payloads {
		req.NoError(stream.Send(&pb.ChatMessage{Message: payload, From: "Client"}))
	}

	// Then replies come back in send order
	for _, payload := range payloads {
		reply, err := stream.Recv()
		req.NoError(err)
		req.Equal("Server : "+payload, reply.GetMessage())
	}
}

func TestChatServer_Registers_The_Session_For_Its_Lifetime(t *testing.T) {
	req := require.New(t)
	client, registry, cleanup := startTestServer(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.ChatMessageStreaming(ctx)
	req.NoError(err)

	// Then the connection shows up in the registry once the handler runs
	req.Eventually(func() bool { return registry.Size() == 1 },
		2*time.Second, 10*time.Millisecond)

	// When the client leaves
	req.NoError(stream.CloseSend())
	_, err = stream.Recv()
	req.ErrorIs(err, io.EOF)

	// Then the handle is retired
	req.Eventually(func() bool { return registry.Size() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestChatServer_Broadcast_Reaches_Every_Client_Exactly_Once(t *testing.T) {
	req := require.New(t)
	client, registry, cleanup := startTestServer(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Given two connected clients past their first exchange
	first, err := client.ChatMessageStreaming(ctx)
	req.NoError(err)
	second, err := client.ChatMessageStreaming(ctx)
	req.NoError(err)

	for _, stream := range []pb.ChatService_ChatMessageStreamingClient{first, second} {
		req.NoError(stream.Send(&pb.ChatMessage{Message: "hello", From: "Client"}))
		reply, err := stream.Recv()
		req.NoError(err)
		req.Equal("Server : hello", reply.GetMessage())
	}
	req.Equal(2, registry.Size())

	// When the engine broadcasts one administrative message
	delivered := registry.Broadcast(domain.Message{Text: "maintenance at noon", Sender: domain.AdminSender})
	req.Equal(2, delivered)

	// Then each client receives exactly one copy, in mailbox order
	for _, stream := range []pb.ChatService_ChatMessageStreamingClient{first, second} {
		broadcast, err := stream.Recv()
		req.NoError(err)
		req.Equal("maintenance at noon", broadcast.GetMessage())
		req.Equal("Server Admin", broadcast.GetFrom())

		// A follow-up echo arrives right behind the broadcast copy
		req.NoError(stream.Send(&pb.ChatMessage{Message: "ping", From: "Client"}))
		echo, err := stream.Recv()
		req.NoError(err)
		req.Equal("Server : ping", echo.GetMessage())
	}
}

func TestChatServer_One_Session_Teardown_Leaves_Others_Running(t *testing.T) {
	req := require.New(t)
	client, registry, cleanup := startTestServer(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	staying, err := client.ChatMessageStreaming(ctx)
	req.NoError(err)
	leaving, err := client.ChatMessageStreaming(ctx)
	req.NoError(err)

	for _, stream := range []pb.ChatService_ChatMessageStreamingClient{staying, leaving} {
		req.NoError(stream.Send(&pb.ChatMessage{Message: "hello", From: "Client"}))
		_, err := stream.Recv()
		req.NoError(err)
	}

	// When one client ends its session
	req.NoError(leaving.CloseSend())
	_, err = leaving.Recv()
	req.ErrorIs(err, io.EOF)
	req.Eventually(func() bool { return registry.Size() == 1 },
		2*time.Second, 10*time.Millisecond)

	// Then the surviving session still echoes
	req.NoError(staying.Send(&pb.ChatMessage{Message: "still there", From: "Client"}))
	reply, err := staying.Recv()
	req.NoError(err)
	req.Equal("Server : still there", reply.GetMessage())
}

func TestChatServer_Censors_Payloads_Before_Echoing(t *testing.T) {
	req := require.New(t)
	client, _, cleanup := startTestServer(t, "badger")
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := client.ChatMessageStreaming(ctx)
	req.NoError(err)

	req.NoError(stream.Send(&pb.ChatMessage{Message: "release the badger", From: "Client"}))

	reply, err := stream.Recv()
	req.NoError(err)
	req.Equal("Server : release the ******", reply.GetMessage())
}
