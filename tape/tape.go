// Package tape reads keystroke scripts and replays them through an engine.
//
// A tape is plain text: whitespace separated tokens understood by
// keymap.Token, with everything after '#' on a line ignored.
//
//	# 3 + 4 + 5, then keep the total
//	3 + 4 + 5 =
//	m+
package tape

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/bond-kaneko/go-calculator/calc"
	"github.com/bond-kaneko/go-calculator/keymap"
	"github.com/bond-kaneko/go-calculator/render"
	"github.com/cockroachdb/errors"
)

// Step is one token of a tape and the actions it expands to.
type Step struct {
	Line    int
	Token   string
	Actions []calc.Action
}

// Tape is a parsed keystroke script.
type Tape struct {
	Name  string
	Steps []Step
}

// Parse reads a tape from r. name is used in error messages.
func Parse(name string, r io.Reader) (*Tape, error) {
	t := &Tape{Name: name}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		for _, tok := range strings.Fields(text) {
			actions, err := keymap.Token(tok)
			if err != nil {
				return nil, errors.Wrapf(err, "%s:%d", name, line)
			}
			t.Steps = append(t.Steps, Step{Line: line, Token: tok, Actions: actions})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return t, nil
}

// ReadFile parses the tape stored at path.
func ReadFile(path string) (*Tape, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening tape")
	}
	defer f.Close()
	return Parse(path, f)
}

// Replay feeds every step into e and returns the final snapshot. When r is
// not nil it renders the snapshot after each step.
func (t *Tape) Replay(e *calc.Engine, r render.Renderer) (calc.Snapshot, error) {
	s := e.Snapshot()
	for _, step := range t.Steps {
		for _, a := range step.Actions {
			s = e.Apply(a)
		}
		if r == nil {
			continue
		}
		if err := r.Render(s); err != nil {
			return s, errors.Wrapf(err, "%s:%d", t.Name, step.Line)
		}
	}
	return s, nil
}
