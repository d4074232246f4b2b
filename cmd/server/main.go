package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"

	"chat-relay/console"
	grpc2 "chat-relay/grpc"
	"chat-relay/internal"
	"chat-relay/moderation"
	pb "chat-relay/proto/chat"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"chat-relay/sysinfo"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for gRPC and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Host report
	for _, provider := range sysinfo.All() {
		log.Info(fmt.Sprintf("%s: %s", provider.Key(), provider.Value()))
	}

	// 3. Moderation
	censoredChar, err := internal.CharacterRune(config.ModerationCharReplacement)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	moderator, err := moderation.NewModerator(config.CensoredWords(), censoredChar, log)
	if err != nil {
		return fmt.Errorf("moderation setup failed: %w", err)
	}

	// 4. Setup Supervision & Sessions
	registry := runtime.NewRegistry()
	sessions := services.NewSessionService(log, registry, config.MailboxCapacity)

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewBroadcaster(log, console.NewReader(os.Stdin), sessions, moderator),
		workers.NewReporter(log, registry, config.ReportInterval),
		workers.NewCapacityWatcher(log, registry, config.LowCapacityThreshold, config.ReportInterval),
	)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Start the background workers
	go sup.Run(ctx)

	// 7. gRPC Server Setup
	grpc2.RedirectGrpcLogs(log)
	address := config.Address()
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s := grpc.NewServer()
	server := grpc2.NewChatServer(log, sessions, moderator)
	pb.RegisterChatServiceServer(s, server)

	// Use an error channel to capture Serve() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting gRPC server", "address", address, "at", time.Now().UTC())
		if err := s.Serve(listener); err != nil && err != grpc.ErrServerStopped {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 9. Final Cleanup
	s.GracefulStop()
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
