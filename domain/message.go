// Package domain contains core concepts of the relay engine.
// This file defines the Message value and the fixed sender identities.
// Messages are immutable once built; the engine never mutates a message
// after it has been enqueued.
package domain

// Fixed identities stamped on messages by the engine itself.
const (
	ServerSender = "Server"
	AdminSender  = "Server Admin"
	ClientSender = "Client"
)

// Message represents one immutable chat exchange unit.
type Message struct {
	Text   string
	Sender string
}

// ServerReply wraps an inbound payload with the fixed server identity.
func ServerReply(in Message) Message {
	return Message{
		Text:   ServerSender + " : " + in.Text,
		Sender: ServerSender,
	}
}
