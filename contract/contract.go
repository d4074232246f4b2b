//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"chat-relay/domain"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// IRegistry tracks every live connection of the engine.
// Registrations happen at session start, removals at session end;
// both are idempotent. Broadcast walks a snapshot of the membership
// so delivery never holds the registry lock.
type IRegistry interface {
	Register(conn *domain.Connection)
	Deregister(id string)
	Lookup(id string) (*domain.Connection, bool)
	Snapshot() []*domain.Connection
	Broadcast(msg domain.Message) int
	Broadcasts() uint64
	Size() int
	DroppedMessages() uint64
}

// ISessionService is the outward surface the transport layer drives.
type ISessionService interface {
	StartSession() *domain.Connection
	ShutdownSession(id string)
	Broadcast(msg domain.Message) int
}

// MessageSender pushes one message to the peer of a duplex stream.
type MessageSender interface {
	Send(msg domain.Message) error
}

// MessageReceiver pulls the next inbound message from a duplex stream.
// A clean end of stream surfaces as io.EOF.
type MessageReceiver interface {
	Receive() (domain.Message, error)
}

// LineSource yields operator input one line at a time.
// Exhaustion surfaces as io.EOF.
type LineSource interface {
	NextLine() (string, error)
}
