package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConnection_Starts_Open_With_Fresh_Identity(t *testing.T) {
	req := require.New(t)

	first := NewConnection(DefaultMailboxCapacity)
	second := NewConnection(DefaultMailboxCapacity)

	req.Equal(Open, first.State())
	req.NotEmpty(first.ID)
	req.NotEqual(first.ID, second.ID)
	req.Equal(DefaultMailboxCapacity, first.Mailbox.Cap())
}

func TestConnection_Lifecycle_Moves_One_Way(t *testing.T) {
	req := require.New(t)
	conn := NewConnection(DefaultMailboxCapacity)

	// Given an open connection
	req.Equal(Open, conn.State())

	// When the first pump exits
	conn.PumpExited()

	// Then the connection is closing
	req.Equal(Closing, conn.State())

	// When the second pump exits
	conn.PumpExited()

	// Then the connection is closed and stays closed
	req.Equal(Closed, conn.State())
	conn.PumpExited()
	req.Equal(Closed, conn.State())
}

func TestState_String_Names_Every_Stage(t *testing.T) {
	req := require.New(t)

	req.Equal("open", Open.String())
	req.Equal("closing", Closing.String())
	req.Equal("closed", Closed.String())
	req.Equal("unknown", State(42).String())
}
