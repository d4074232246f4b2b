package workers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/abadojack/whatlanggo"

	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/moderation"
)

var _ contract.Worker = (*InboundPump)(nil)

// InboundPump consumes one session's inbound stream until it ends.
// Every payload is answered with the fixed server identity; the reply goes
// through the session mailbox so the outbound pump stays the only stream
// writer. Whatever way the stream ends, the pump seals the mailbox, which
// is the teardown signal its sibling observes.
type InboundPump struct {
	log       *slog.Logger
	source    contract.MessageReceiver
	conn      *domain.Connection
	moderator moderation.Moderator
}

func NewInboundPump(log *slog.Logger, source contract.MessageReceiver,
	conn *domain.Connection, moderator moderation.Moderator) *InboundPump {
	return &InboundPump{log: log, source: source, conn: conn, moderator: moderator}
}

// Run blocks until the inbound stream ends. Receive unblocks on client
// disconnection and on stream context cancellation, so the loop needs no
// select of its own.
func (p *InboundPump) Run(ctx context.Context) error {
	defer func() {
		p.conn.Mailbox.Close()
		p.conn.PumpExited()
		p.log.Info(fmt.Sprintf("Chat session %s ended", p.conn.ID))
	}()

	for {
		msg, err := p.source.Receive()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			p.log.Warn("Error receiving message",
				"connection_id", p.conn.ID,
				"error", err)
			return err
		}

		p.log.Info(fmt.Sprintf("Received message %q from %q", msg.Text, msg.Sender))

		info := whatlanggo.Detect(msg.Text)
		p.log.Debug("Payload language detected",
			"connection_id", p.conn.ID,
			"lang", info.Lang.Iso6391())

		if sanitized, foundWords := p.moderator.Censor(msg.Text); len(foundWords) > 0 {
			p.log.Warn("Censored inbound payload",
				"connection_id", p.conn.ID,
				"words", foundWords)
			msg.Text = sanitized
		}

		if !p.conn.Mailbox.TryEnqueue(domain.ServerReply(msg)) {
			p.log.Warn("Reply dropped, mailbox saturated", "connection_id", p.conn.ID)
		}
	}
}
