// Package console adapts operator input into the lazy line sequence the
// admin broadcaster and the client writer consume.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Sentinel is the operator word ending an input sequence, matched
// case insensitively.
const Sentinel = "exit"

// IsSentinel reports whether line asks to end the sequence.
func IsSentinel(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), Sentinel)
}

// Reader yields trimmed lines from an underlying stream, blocking until
// one is available. It performs no sentinel handling itself; consumers
// decide what a line means.
type Reader struct {
	scanner *bufio.Scanner
	prompt  func()
}

// NewReader builds a plain line reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// NewPromptReader builds a reader printing prompt to w before each line.
func NewPromptReader(r io.Reader, w io.Writer, prompt string) *Reader {
	return &Reader{
		scanner: bufio.NewScanner(r),
		prompt:  func() { fmt.Fprint(w, prompt) },
	}
}

// NextLine blocks until one line is available and returns it trimmed.
// io.EOF signals exhaustion of the underlying stream.
func (r *Reader) NextLine() (string, error) {
	if r.prompt != nil {
		r.prompt()
	}
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(r.scanner.Text()), nil
}
