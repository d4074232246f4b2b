package runtime

import (
	"sync"
	"sync/atomic"

	"chat-relay/domain"
)

// Registry is the live connection directory of the engine.
// It is created once at boot, passed down explicitly, and mutated only
// when a session starts or ends. Critical sections stay short: delivery
// work always happens on a snapshot, outside the lock.
type Registry struct {
	mu         sync.RWMutex
	sessions   map[string]*domain.Connection
	broadcasts uint64
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*domain.Connection),
	}
}

// Register adds a freshly opened connection to the directory.
// Registering the same connection twice is harmless.
func (r *Registry) Register(conn *domain.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[conn.ID] = conn
}

// Deregister removes a connection from the directory.
// Removing an absent id is a no-op, so teardown paths may race freely.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Lookup resolves a connection by id.
func (r *Registry) Lookup(id string) (*domain.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.sessions[id]
	return conn, ok
}

// Snapshot copies the current membership under the read lock.
// Connections joining after the copy are not part of the view.
func (r *Registry) Snapshot() []*domain.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := make([]*domain.Connection, 0, len(r.sessions))
	for _, conn := range r.sessions {
		conns = append(conns, conn)
	}
	return conns
}

// Broadcast enqueues msg once into every mailbox registered at the moment
// of the call. A full or closing mailbox loses the message for that target
// only; the broadcast itself never blocks and never fails. Returns how many
// mailboxes accepted the message.
func (r *Registry) Broadcast(msg domain.Message) int {
	atomic.AddUint64(&r.broadcasts, 1)
	delivered := 0
	for _, conn := range r.Snapshot() {
		if conn.Mailbox.TryEnqueue(msg) {
			delivered++
		}
	}
	return delivered
}

// Broadcasts reports how many broadcasts were attempted since boot.
func (r *Registry) Broadcasts() uint64 {
	return atomic.LoadUint64(&r.broadcasts)
}

// Size reports how many connections are currently registered.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// DroppedMessages sums the overflow drops of every registered mailbox.
// Drops of already deregistered connections are not part of the count.
func (r *Registry) DroppedMessages() uint64 {
	var total uint64
	for _, conn := range r.Snapshot() {
		total += conn.Mailbox.Dropped()
	}
	return total
}
