package domain

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// State tracks the one way lifecycle of a connection.
type State int32

const (
	// Open means both pumps of the session are live.
	Open State = iota
	// Closing means one half has ended while the other may still drain.
	Closing
	// Closed means both pumps have exited.
	Closed
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Connection is one active duplex session: its identity, its outbound
// mailbox and its lifecycle state. Both pumps of the session share it;
// the mailbox has exactly one consumer.
type Connection struct {
	ID      string
	Mailbox *Mailbox

	exited int32
	state  int32
}

// NewConnection builds an Open connection with a fresh identity and a
// mailbox of the given capacity.
func NewConnection(mailboxCapacity int) *Connection {
	return &Connection{
		ID:      uuid.NewString(),
		Mailbox: NewMailbox(mailboxCapacity),
	}
}

// State reports the current lifecycle stage.
func (c *Connection) State() State {
	return State(atomic.LoadInt32(&c.state))
}

// PumpExited records the end of one pump. The first exit moves the
// connection to Closing, the second to Closed. The lifecycle never
// moves backwards.
func (c *Connection) PumpExited() {
	switch atomic.AddInt32(&c.exited, 1) {
	case 1:
		atomic.CompareAndSwapInt32(&c.state, int32(Open), int32(Closing))
	default:
		atomic.StoreInt32(&c.state, int32(Closed))
	}
}
