// Package render draws calculator snapshots on a terminal or any io.Writer.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/bond-kaneko/go-calculator/calc"
	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
)

// Renderer displays a snapshot. It owns no calculator state.
type Renderer interface {
	Render(s calc.Snapshot) error
}

// Message returns the text shown in place of a result for a halted snapshot.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, calc.ErrDivideByZero):
		return "Cannot divide by zero"
	case errors.Is(err, calc.ErrInvalidInput):
		return "Invalid input"
	case errors.Is(err, calc.ErrOverflow):
		return "Overflow"
	default:
		return "ERROR"
	}
}

// Lines returns the memory, operation and result lines of s.
func Lines(s calc.Snapshot) (memory, operation, result string) {
	result = s.Result
	if s.Halted() {
		result = Message(s.Err)
	}
	if result == "" {
		result = "0"
	}
	return s.Memory, s.Operation, result
}

// Plain writes one line per snapshot, e.g. "[M5] 3 + 4 = | 7".
type Plain struct {
	out      io.Writer
	errColor *color.Color
	memColor *color.Color
}

// NewPlain returns a Plain renderer writing to out.
func NewPlain(out io.Writer, colored bool) *Plain {
	errColor := color.New(color.FgRed, color.Bold)
	memColor := color.New(color.FgYellow)
	if colored {
		errColor.EnableColor()
		memColor.EnableColor()
	} else {
		errColor.DisableColor()
		memColor.DisableColor()
	}
	return &Plain{out: out, errColor: errColor, memColor: memColor}
}

// Render implements Renderer.
func (p *Plain) Render(s calc.Snapshot) error {
	memory, operation, result := Lines(s)

	var parts []string
	if memory != "" {
		parts = append(parts, p.memColor.Sprintf("[%s]", memory))
	}
	if operation != "" {
		parts = append(parts, operation)
	}
	if s.Halted() {
		result = p.errColor.Sprint(result)
	}
	if len(parts) > 0 {
		result = "| " + result
	}
	parts = append(parts, result)

	if _, err := fmt.Fprintln(p.out, strings.Join(parts, " ")); err != nil {
		return errors.Wrap(err, "writing display")
	}
	return nil
}
