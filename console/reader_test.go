package console

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReader_NextLine_Yields_Trimmed_Lines_Then_EOF(t *testing.T) {
	req := require.New(t)

	// Given two lines of operator input
	reader := NewReader(strings.NewReader("  hello world  \nsecond\n"))

	// When the consumer pulls them lazily
	first, err := reader.NextLine()
	req.NoError(err)
	second, err := reader.NextLine()
	req.NoError(err)

	// Then lines come back trimmed and in order
	req.Equal("hello world", first)
	req.Equal("second", second)

	// And exhaustion surfaces as io.EOF
	_, err = reader.NextLine()
	req.ErrorIs(err, io.EOF)
}

func TestPromptReader_Writes_Prompt_Before_Each_Line(t *testing.T) {
	req := require.New(t)
	var out bytes.Buffer

	reader := NewPromptReader(strings.NewReader("one\ntwo\n"), &out, "Enter your message: ")

	_, err := reader.NextLine()
	req.NoError(err)
	_, err = reader.NextLine()
	req.NoError(err)

	req.Equal("Enter your message: Enter your message: ", out.String())
}

func TestIsSentinel_Matches_Case_Insensitively(t *testing.T) {
	req := require.New(t)

	req.True(IsSentinel("exit"))
	req.True(IsSentinel("EXIT"))
	req.True(IsSentinel("  Exit  "))
	req.False(IsSentinel("exit please"))
	req.False(IsSentinel(""))
}
