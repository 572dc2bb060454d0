package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/bond-kaneko/go-calculator/calc"
	"github.com/fatih/color"
	"github.com/gosuri/uilive"
)

// Live redraws the display in place, the way a calculator screen updates.
type Live struct {
	writer   *uilive.Writer
	width    int
	errColor *color.Color
	footer   string
}

// NewLive returns a Live renderer drawing on out.
func NewLive(out io.Writer, colored bool) *Live {
	writer := uilive.New()
	writer.Out = out

	errColor := color.New(color.FgRed, color.Bold)
	if colored {
		errColor.EnableColor()
	} else {
		errColor.DisableColor()
	}
	return &Live{writer: writer, width: 24, errColor: errColor}
}

// SetFooter sets a line drawn below the display, such as a key hint.
func (l *Live) SetFooter(footer string) {
	l.footer = footer
}

// Render implements Renderer.
func (l *Live) Render(s calc.Snapshot) error {
	memory, operation, result := Lines(s)

	var b strings.Builder
	border := "+" + strings.Repeat("-", l.width+2) + "+"
	fmt.Fprintln(&b, border)
	fmt.Fprintf(&b, "| %-*s |\n", l.width, memory)
	fmt.Fprintf(&b, "| %*s |\n", l.width, operation)
	padded := fmt.Sprintf("%*s", l.width, result)
	if s.Halted() {
		padded = l.errColor.Sprint(padded)
	}
	fmt.Fprintf(&b, "| %s |\n", padded)
	fmt.Fprintln(&b, border)
	if l.footer != "" {
		fmt.Fprintln(&b, l.footer)
	}

	fmt.Fprint(l.writer, b.String())
	return l.writer.Flush()
}

// Writer returns a writer for status lines. Writing to it erases the drawn
// display first, so the next Render draws it again below the status text.
func (l *Live) Writer() io.Writer {
	return l.writer.Bypass()
}
