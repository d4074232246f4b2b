package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"chat-relay/client"
	"chat-relay/console"
	"chat-relay/domain"
	pb "chat-relay/proto/chat"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress   string `env:"CHAT_SERVER_ADDR,default=localhost:50051"`
	MailboxCapacity int    `env:"MAILBOX_CAPACITY,default=128"`
	LogLevel        string `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v", err)
	}
	os.Exit(code)
}

// run handles the gRPC client lifecycle, configuration loading, and the
// interactive session. This pattern ensures clean resource management and
// error propagation.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Establish connection to the relay server.
	conn, err := grpc.NewClient(config.ServerAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	// Defer ensures the connection is closed even if the stream fails later.
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	// 4. Initiate the bidirectional stream.
	stream, err := pb.NewChatServiceClient(conn).ChatMessageStreaming(ctx)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open stream: %w", err)
	}

	log.Info(fmt.Sprintf(">>> Connected to %s! Type %q to quit...",
		config.ServerAddress, console.Sentinel))

	// 5. Run both halves of the session until the server closes the stream.
	sender := color.New(color.BgBlack, color.FgGreen)
	display := func(msg domain.Message) {
		fmt.Printf("Received message: %s from %s\n", msg.Text, sender.Render(msg.Sender))
	}

	duplex := client.NewDuplex(log,
		console.NewPromptReader(os.Stdin, os.Stdout, "Enter your message: "),
		display, config.MailboxCapacity)

	if err := duplex.Run(ctx, stream); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}
