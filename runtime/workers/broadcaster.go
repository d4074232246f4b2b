package workers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"chat-relay/console"
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/moderation"
)

// Broadcaster relays operator lines to every live connection.
// Lines are pulled lazily from the source, empty lines are skipped and the
// sentinel ends the worker for good. Outgoing messages carry the
// administrative identity so clients can tell operator traffic apart from
// echo replies.
type Broadcaster struct {
	log       *slog.Logger
	lines     contract.LineSource
	sessions  contract.ISessionService
	moderator moderation.Moderator
}

func NewBroadcaster(log *slog.Logger, lines contract.LineSource,
	sessions contract.ISessionService, moderator moderation.Moderator) *Broadcaster {
	return &Broadcaster{log: log, lines: lines, sessions: sessions, moderator: moderator}
}

func (w *Broadcaster) Run(ctx context.Context) error {
	w.log.Info(fmt.Sprintf("Admin console ready, type %q to stop", console.Sentinel))

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line, err := w.lines.NextLine()
		if errors.Is(err, io.EOF) {
			w.log.Info("Admin input exhausted, broadcaster finished")
			return nil
		}
		if err != nil {
			// A broken console never recovers, treat it as exhaustion.
			w.log.Warn("Admin input failed, broadcaster finished", "error", err)
			return nil
		}
		if line == "" {
			continue
		}
		if console.IsSentinel(line) {
			w.log.Info("Sentinel received, broadcaster finished")
			return nil
		}

		text := line
		if sanitized, foundWords := w.moderator.Censor(line); len(foundWords) > 0 {
			w.log.Warn("Censored admin line", "words", foundWords)
			text = sanitized
		}

		delivered := w.sessions.Broadcast(domain.Message{Text: text, Sender: domain.AdminSender})
		w.log.Info(fmt.Sprintf("Broadcast delivered to %d connection(s)", delivered))
	}
}
