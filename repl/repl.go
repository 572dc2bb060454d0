// Package repl runs an interactive calculator session on a terminal or on
// any line oriented input.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bond-kaneko/go-calculator/calc"
	"github.com/bond-kaneko/go-calculator/keymap"
	"github.com/bond-kaneko/go-calculator/render"
	"github.com/cockroachdb/errors"
)

// Session feeds user input into one engine and renders every change.
type Session struct {
	engine   *calc.Engine
	renderer render.Renderer
	out      io.Writer
	logger   *slog.Logger
}

// NewSession creates a session around e. Messages that are not part of the
// display, such as unknown tokens, go to out.
func NewSession(e *calc.Engine, r render.Renderer, out io.Writer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{engine: e, renderer: r, out: out, logger: logger}
}

// RunLines reads whitespace separated tokens line by line until EOF, a
// "quit" line or ctx is cancelled. The display is rendered after each line.
func (s *Session) RunLines(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		var err error
		defer func() {
			errc <- err
			close(lines)
		}()
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		err = scanner.Err()
	}()

	if err := s.renderer.Render(s.engine.Snapshot()); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return errors.Wrap(<-errc, "reading input")
			}
			quit, err := s.HandleLine(line)
			if err != nil || quit {
				return err
			}
		}
	}
}

// HandleLine applies one line of tokens. It reports quit for "quit" and "exit".
func (s *Session) HandleLine(line string) (quit bool, err error) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	}

	actions, err := keymap.Tokens(line)
	if err != nil {
		s.logger.Debug("rejected input", "line", line, "err", err)
		fmt.Fprintf(s.out, "%v\n", err)
		return false, nil
	}
	snap := s.engine.Snapshot()
	for _, a := range actions {
		snap = s.engine.Apply(a)
	}
	return false, s.renderer.Render(snap)
}

// RunKeys reads raw key presses until Ctrl+C, Ctrl+D, EOF or ctx is cancelled.
// in is expected to be a terminal in raw mode.
func (s *Session) RunKeys(ctx context.Context, in io.Reader) error {
	chunks := make(chan []byte)
	errc := make(chan error, 1)
	go func() {
		defer close(chunks)
		buf := make([]byte, 64)
		for {
			n, err := in.Read(buf)
			if n > 0 {
				chunk := append([]byte(nil), buf[:n]...)
				select {
				case chunks <- chunk:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					errc <- err
				}
				return
			}
		}
	}()

	if err := s.renderer.Render(s.engine.Snapshot()); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case chunk, ok := <-chunks:
			if !ok {
				select {
				case err := <-errc:
					return errors.Wrap(err, "reading keys")
				default:
					return nil
				}
			}
			quit, err := s.HandleKeys(chunk)
			if err != nil || quit {
				return err
			}
		}
	}
}

// HandleKeys applies the key presses decoded from raw input and renders the
// display once. It reports quit on Ctrl+C or Ctrl+D.
func (s *Session) HandleKeys(raw []byte) (quit bool, err error) {
	changed := false
	for _, k := range keymap.Decode(raw) {
		if k.Ctrl && (k.Name == "c" || k.Name == "d") {
			return true, nil
		}
		a, ok := keymap.Action(k)
		if !ok {
			s.logger.Debug("unmapped key", "key", k.String())
			continue
		}
		s.engine.Apply(a)
		changed = true
	}
	if !changed {
		return false, nil
	}
	return false, s.renderer.Render(s.engine.Snapshot())
}
