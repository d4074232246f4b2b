package domain

import (
	"sync"
	"sync/atomic"
)

// DefaultMailboxCapacity bounds the outbound queue of a connection.
const DefaultMailboxCapacity = 128

// Mailbox is the bounded outbound queue of one connection.
// Producers hand messages over with TryEnqueue, which never blocks.
// Exactly one consumer drains Queue; closing the mailbox is the
// teardown signal that consumer observes once the queue is empty.
type Mailbox struct {
	mu      sync.RWMutex
	queue   chan Message
	closed  bool
	dropped uint64
}

// NewMailbox builds a mailbox holding at most capacity messages.
// A non positive capacity falls back to DefaultMailboxCapacity.
func NewMailbox(capacity int) *Mailbox {
	if capacity <= 0 {
		capacity = DefaultMailboxCapacity
	}
	return &Mailbox{queue: make(chan Message, capacity)}
}

// TryEnqueue appends msg unless the mailbox is full or closed.
// A full mailbox drops the newest message and keeps the backlog intact.
// Enqueueing on a closed mailbox is a benign race during teardown and
// reports false without counting a drop.
func (m *Mailbox) TryEnqueue(msg Message) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return false
	}
	select {
	case m.queue <- msg:
		return true
	default:
		atomic.AddUint64(&m.dropped, 1)
		return false
	}
}

// Close seals the mailbox. Messages already queued stay readable until
// drained, then Queue reports closure to the consumer. Calling Close
// more than once is a no-op.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.queue)
}

// Queue exposes the receive side for the single consumer.
func (m *Mailbox) Queue() <-chan Message {
	return m.queue
}

// Dropped reports how many messages were rejected because the queue was full.
func (m *Mailbox) Dropped() uint64 {
	return atomic.LoadUint64(&m.dropped)
}

// Len reports how many messages are currently waiting.
func (m *Mailbox) Len() int {
	return len(m.queue)
}

// Cap reports the fixed capacity of the mailbox.
func (m *Mailbox) Cap() int {
	return cap(m.queue)
}
