// Package keymap translates key presses and textual tokens into calculator
// actions. It holds no calculator state.
package keymap

import (
	"strings"

	"github.com/bond-kaneko/go-calculator/calc"
	"github.com/cockroachdb/errors"
)

// Key is a decoded key press. Name is either the printable character or one
// of "Enter", "Backspace", "Escape" and "Delete".
type Key struct {
	Name string
	Ctrl bool
}

func (k Key) String() string {
	if k.Ctrl {
		return "Ctrl+" + strings.ToUpper(k.Name)
	}
	return k.Name
}

// Action maps a key press to an action:
//
//	0-9 .            digit entry
//	+ - * / x        operators
//	Enter =          evaluate
//	Backspace        backspace
//	Escape Delete    clear entry
//	c C              clear all
//	n _              invert the sign
//	s                square
//	q                square root
//	r                reciprocal
//	%                percent
//	Ctrl+A/S/R/Q     memory add, subtract, recall, clear
func Action(k Key) (calc.Action, bool) {
	if k.Ctrl {
		switch strings.ToLower(k.Name) {
		case "a":
			return calc.Mem(calc.MemoryAdd), true
		case "s":
			return calc.Mem(calc.MemorySubtract), true
		case "r":
			return calc.Mem(calc.MemoryRecall), true
		case "q":
			return calc.Mem(calc.MemoryClear), true
		default:
			return calc.Action{}, false
		}
	}

	switch k.Name {
	case "Enter", "=":
		return calc.Evaluate, true
	case "Backspace":
		return calc.Backspace, true
	case "Escape", "Delete":
		return calc.ClearEntry, true
	case "c", "C":
		return calc.ClearAll, true
	case "n", "_":
		return calc.Unary(calc.FuncInvert), true
	case "s":
		return calc.Unary(calc.FuncSquare), true
	case "q":
		return calc.Unary(calc.FuncSquareRoot), true
	case "r":
		return calc.Unary(calc.FuncReciprocal), true
	case "%":
		return calc.Unary(calc.FuncPercent), true
	}
	if op, ok := calc.ParseOperator(k.Name); ok {
		return calc.Op(op), true
	}
	if len(k.Name) == 1 && isNumeric(rune(k.Name[0])) {
		return calc.Digit(rune(k.Name[0])), true
	}
	return calc.Action{}, false
}

var words = map[string]calc.Action{
	"=":         calc.Evaluate,
	"enter":     calc.Evaluate,
	"neg":       calc.Unary(calc.FuncInvert),
	"+/-":       calc.Unary(calc.FuncInvert),
	"sqr":       calc.Unary(calc.FuncSquare),
	"x^2":       calc.Unary(calc.FuncSquare),
	"sqrt":      calc.Unary(calc.FuncSquareRoot),
	"√":         calc.Unary(calc.FuncSquareRoot),
	"%":         calc.Unary(calc.FuncPercent),
	"1/x":       calc.Unary(calc.FuncReciprocal),
	"recip":     calc.Unary(calc.FuncReciprocal),
	"bs":        calc.Backspace,
	"backspace": calc.Backspace,
	"ce":        calc.ClearEntry,
	"c":         calc.ClearAll,
	"ac":        calc.ClearAll,
	"m+":        calc.Mem(calc.MemoryAdd),
	"m-":        calc.Mem(calc.MemorySubtract),
	"mr":        calc.Mem(calc.MemoryRecall),
	"mc":        calc.Mem(calc.MemoryClear),
}

// Token maps one textual token to the actions it stands for. A run of digits
// and points such as "12.5" expands to one digit action per character.
func Token(tok string) ([]calc.Action, error) {
	if tok == "" {
		return nil, errors.New("empty token")
	}
	if op, ok := calc.ParseOperator(tok); ok {
		return []calc.Action{calc.Op(op)}, nil
	}
	if a, ok := words[strings.ToLower(tok)]; ok {
		return []calc.Action{a}, nil
	}
	if strings.IndexFunc(tok, func(r rune) bool { return !isNumeric(r) }) >= 0 {
		return nil, errors.Newf("unknown token %q", tok)
	}
	actions := make([]calc.Action, 0, len(tok))
	for _, r := range tok {
		actions = append(actions, calc.Digit(r))
	}
	return actions, nil
}

// Tokens maps a whitespace separated line of tokens.
func Tokens(line string) ([]calc.Action, error) {
	var actions []calc.Action
	for _, tok := range strings.Fields(line) {
		a, err := Token(tok)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a...)
	}
	return actions, nil
}

func isNumeric(r rune) bool {
	return r == '.' || (r >= '0' && r <= '9')
}
