package e2e

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	pb "chat-relay/proto/chat"
)

type BaseGrpcSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

// GrpcConn initializes a gRPC connection with logging, colors, and JSON debugging
func (s *BaseGrpcSuite) GrpcConn(t *testing.T, name string, addr string) *grpc.ClientConn {
	// 1. Print a colorized header for the connection step in logs
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)

	// 2. Setup JSON marshaler for debugging protobuf messages
	marshaler := protojson.MarshalOptions{
		UseProtoNames:   true,
		Multiline:       true,
		EmitUnpopulated: true,
	}

	// 3. Create the client with a Stream Interceptor for logging.
	// The chat service only exposes a bidirectional stream, so the hook
	// wraps the stream and logs each message instead of one request pair.
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStreamInterceptor(func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
			start := time.Now()
			stream, err := streamer(ctx, desc, cc, method, opts...)
			t.Logf("GRPC %s opened [%s] in %v", method, status.Code(err), time.Since(start))
			if err != nil {
				return stream, err
			}
			return &loggingStream{ClientStream: stream, t: t, marshaler: marshaler, debug: s.Config.DebugJSON}, nil
		}),
	)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+addr)
	return conn
}

// WithRelay provides a ChatService client within a contextual test step
func (s *BaseGrpcSuite) WithRelay(name string, fn func(ctx context.Context, client pb.ChatServiceClient)) {
	conn := s.GrpcConn(s.T(), name, s.Config.ServerAddr)
	defer conn.Close()

	client := pb.NewChatServiceClient(conn)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fn(ctx, client)
}

// loggingStream dumps every message crossing the stream when E2E_DEBUG_JSON is enabled
type loggingStream struct {
	grpc.ClientStream
	t         *testing.T
	marshaler protojson.MarshalOptions
	debug     bool
}

func (l *loggingStream) SendMsg(m any) error {
	if l.debug {
		l.t.Log("SEND:\n" + l.marshaler.Format(m.(proto.Message)))
	}
	return l.ClientStream.SendMsg(m)
}

func (l *loggingStream) RecvMsg(m any) error {
	err := l.ClientStream.RecvMsg(m)
	if l.debug && err == nil {
		l.t.Log("RECV:\n" + l.marshaler.Format(m.(proto.Message)))
	}
	return err
}
