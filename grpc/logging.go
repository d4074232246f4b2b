package grpc

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/grpc/grpclog"
)

// slogWriter is a custom io.Writer that redirects grpc-go's internal
// logging to the engine's slog.Logger, so transport chatter lands in the
// same structured stream as everything else.
type slogWriter struct {
	log   *slog.Logger
	level slog.Level
}

// Write implements the io.Writer interface. Trailing newlines are
// stripped because the transport terminates every entry with one.
func (w slogWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	if msg != "" {
		w.log.Log(context.Background(), w.level, msg, "component", "grpc")
	}
	return len(p), nil
}

// RedirectGrpcLogs routes grpc-go's output into log. grpclog is global
// state, so this has to run before any transport activity.
func RedirectGrpcLogs(log *slog.Logger) {
	grpclog.SetLoggerV2(grpclog.NewLoggerV2(
		slogWriter{log: log, level: slog.LevelInfo},
		slogWriter{log: log, level: slog.LevelWarn},
		slogWriter{log: log, level: slog.LevelError},
	))
}
