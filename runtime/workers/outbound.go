package workers

import (
	"context"
	"fmt"
	"log/slog"

	"chat-relay/contract"
	"chat-relay/domain"
)

var _ contract.Worker = (*OutboundPump)(nil)

// OutboundPump is the single consumer of one session mailbox. It drains
// messages to the peer in arrival order and exits once the mailbox is
// sealed and empty. A write failure abandons the session: the connection
// leaves the registry right away so broadcasts stop targeting it.
type OutboundPump struct {
	log      *slog.Logger
	sink     contract.MessageSender
	conn     *domain.Connection
	sessions contract.ISessionService
}

func NewOutboundPump(log *slog.Logger, sink contract.MessageSender,
	conn *domain.Connection, sessions contract.ISessionService) *OutboundPump {
	return &OutboundPump{log: log, sink: sink, conn: conn, sessions: sessions}
}

func (p *OutboundPump) Run(ctx context.Context) error {
	defer p.conn.PumpExited()

	for {
		select {
		case <-ctx.Done():
			p.log.Warn(fmt.Sprintf("Client %s disconnected", p.conn.ID))
			return ctx.Err()
		case msg, ok := <-p.conn.Mailbox.Queue():
			if !ok {
				// Sealed and drained: regular end of the session.
				return nil
			}
			if err := p.sink.Send(msg); err != nil {
				p.log.Error("failed to push message to stream",
					"connection_id", p.conn.ID,
					"error", err)
				p.sessions.ShutdownSession(p.conn.ID)
				return err
			}
		}
	}
}
