package repl

import (
	"bytes"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// MakeRaw switches f into raw mode so single key presses can be read.
// The returned function restores the previous mode.
func MakeRaw(f *os.File) (restore func() error, err error) {
	fd := int(f.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, errors.Wrap(err, "switching terminal to raw mode")
	}
	return func() error { return term.Restore(fd, state) }, nil
}

// crlfWriter turns "\n" into "\r\n", which a raw mode terminal needs to
// return the cursor to the first column.
type crlfWriter struct {
	w io.Writer
}

// NewCRLFWriter wraps w for output to a raw mode terminal.
func NewCRLFWriter(w io.Writer) io.Writer {
	return crlfWriter{w: w}
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
