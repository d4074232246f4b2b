package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chat-relay/domain"
)

func TestRegistry_Register_One_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn := domain.NewConnection(domain.DefaultMailboxCapacity)

	// Given no connection is registered
	req.Equal(0, registry.Size())

	// When a connection registers
	registry.Register(conn)

	// Then it is resolvable by id
	req.Equal(1, registry.Size())
	found, ok := registry.Lookup(conn.ID)
	req.True(ok)
	req.Same(conn, found)
}

func TestRegistry_Register_Twice_Is_Harmless(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn := domain.NewConnection(domain.DefaultMailboxCapacity)

	// When the same connection registers twice
	registry.Register(conn)
	registry.Register(conn)

	// Then the directory holds it once
	req.Equal(1, registry.Size())
}

func TestRegistry_Deregister_Absent_Id_Is_A_NoOp(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn := domain.NewConnection(domain.DefaultMailboxCapacity)
	registry.Register(conn)

	// When teardown paths race on the same id
	registry.Deregister(conn.ID)
	registry.Deregister(conn.ID)
	registry.Deregister("never-registered")

	// Then the directory is empty and no lookup succeeds
	req.Equal(0, registry.Size())
	_, ok := registry.Lookup(conn.ID)
	req.False(ok)
}

func TestRegistry_Broadcast_Delivers_Exactly_Once_Per_Connection(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	first := domain.NewConnection(domain.DefaultMailboxCapacity)
	second := domain.NewConnection(domain.DefaultMailboxCapacity)
	registry.Register(first)
	registry.Register(second)

	// When the engine broadcasts one message
	delivered := registry.Broadcast(domain.Message{Text: "maintenance at noon", Sender: domain.AdminSender})

	// Then each mailbox holds exactly one copy
	req.Equal(2, delivered)
	req.Equal(1, first.Mailbox.Len())
	req.Equal(1, second.Mailbox.Len())
	req.Equal(uint64(1), registry.Broadcasts())

	msg := <-first.Mailbox.Queue()
	req.Equal("maintenance at noon", msg.Text)
	req.Equal(domain.AdminSender, msg.Sender)
}

func TestRegistry_Broadcast_Skips_Full_Mailboxes_Without_Blocking(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	healthy := domain.NewConnection(domain.DefaultMailboxCapacity)
	congested := domain.NewConnection(1)
	registry.Register(healthy)
	registry.Register(congested)

	// Given one mailbox already full
	req.True(congested.Mailbox.TryEnqueue(domain.Message{Text: "backlog"}))

	// When a broadcast goes out
	delivered := registry.Broadcast(domain.Message{Text: "news", Sender: domain.AdminSender})

	// Then only the healthy mailbox accepted it and the drop was counted
	req.Equal(1, delivered)
	req.Equal(1, healthy.Mailbox.Len())
	req.Equal(uint64(1), congested.Mailbox.Dropped())
	req.Equal(uint64(1), registry.DroppedMessages())
}

func TestRegistry_Broadcast_Skips_Closed_Mailboxes(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	leaving := domain.NewConnection(domain.DefaultMailboxCapacity)
	registry.Register(leaving)

	// Given a connection already tearing down
	leaving.Mailbox.Close()

	// When a broadcast races the teardown
	delivered := registry.Broadcast(domain.Message{Text: "late news", Sender: domain.AdminSender})

	// Then the target is skipped without error
	req.Equal(0, delivered)
}

func TestRegistry_Snapshot_Is_A_Stable_Copy(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	conn := domain.NewConnection(domain.DefaultMailboxCapacity)
	registry.Register(conn)

	// Given a snapshot taken before a membership change
	view := registry.Snapshot()
	registry.Deregister(conn.ID)

	// Then the snapshot still holds the old view
	req.Len(view, 1)
	req.Equal(0, registry.Size())
}
