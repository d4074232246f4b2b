// Package client drives the interactive side of a relay session: a
// writer feeding the request stream from operator lines and a reader
// rendering whatever the server pushes back.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"chat-relay/console"
	"chat-relay/contract"
	"chat-relay/domain"
	pb "chat-relay/proto/chat"
)

// Printer renders one received message for the operator.
type Printer func(msg domain.Message)

// Duplex owns both halves of an established chat stream. Operator
// lines flow through a bounded outbox into the write half, replies are
// printed as they arrive. Typing the sentinel seals the outbox, which
// half-closes the stream once drained. The session is over when the
// server closes its side.
type Duplex struct {
	log             *slog.Logger
	lines           contract.LineSource
	display         Printer
	mailboxCapacity int
}

func NewDuplex(log *slog.Logger, lines contract.LineSource, display Printer, mailboxCapacity int) *Duplex {
	return &Duplex{
		log:             log,
		lines:           lines,
		display:         display,
		mailboxCapacity: mailboxCapacity,
	}
}

// Run blocks until the server side of the stream is done and the outbox
// pump has exited. The line reading goroutine may outlive Run while it
// is blocked on its source, it holds no resource beyond the outbox.
func (d *Duplex) Run(ctx context.Context, stream pb.ChatService_ChatMessageStreamingClient) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	outbox := domain.NewMailbox(d.mailboxCapacity)

	// Writer half, step 1: operator lines land in the outbox.
	go func() {
		defer outbox.Close()
		for {
			if ctx.Err() != nil {
				return
			}
			line, err := d.lines.NextLine()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				d.log.Warn("Operator input failed", "error", err)
				return
			}
			if line == "" {
				continue
			}
			if console.IsSentinel(line) {
				d.log.Info("Exiting chat")
				return
			}
			if !outbox.TryEnqueue(domain.Message{Text: line, Sender: domain.ClientSender}) {
				d.log.Warn("Outbox saturated, message dropped")
			}
		}
	}()

	// Writer half, step 2: single consumer of the outbox pushes to the stream.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-outbox.Queue():
				if !ok {
					// Sealed and drained: half-close so the server can finish.
					_ = stream.CloseSend()
					return
				}
				if err := stream.Send(lo.ToPtr(toChatMessage(msg))); err != nil {
					d.log.Error("Failed to push message to stream", "error", err)
					return
				}
			}
		}
	}()

	// Reader half runs on the calling goroutine.
	var readErr error
	for {
		received, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			d.log.Info("Server closed the stream")
			break
		}
		if err != nil {
			if ctx.Err() == nil {
				readErr = fmt.Errorf("stream interrupted: %w", err)
			}
			break
		}
		d.display(toDomainMessage(received))
	}

	cancel()
	wg.Wait()
	return readErr
}

func toChatMessage(msg domain.Message) pb.ChatMessage {
	return pb.ChatMessage{
		Message: msg.Text,
		From:    msg.Sender,
	}
}

func toDomainMessage(in *pb.ChatMessage) domain.Message {
	return domain.Message{
		Text:   in.GetMessage(),
		Sender: in.GetFrom(),
	}
}
