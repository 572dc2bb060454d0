// Package calc implements the calculator engine: a state machine that turns
// discrete key actions into display snapshots.
//
// Operands stay text while they are typed and are parsed only when an
// operator is evaluated or a unary function is applied. The engine performs
// no I/O; adapters render the Snapshot each method returns.
package calc

import (
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
)

// Mode is the engine state derived from its operands, operator and error flag.
type Mode int

const (
	ModeEmpty Mode = iota
	ModeEnteringFirst
	ModeOperatorSet
	ModeEnteringSecond
	ModeError
)

func (m Mode) String() string {
	switch m {
	case ModeEmpty:
		return "empty"
	case ModeEnteringFirst:
		return "entering-first"
	case ModeOperatorSet:
		return "operator-set"
	case ModeEnteringSecond:
		return "entering-second"
	case ModeError:
		return "error"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Snapshot is what an adapter should display after an action.
type Snapshot struct {
	// Result is the operand being typed or the last computed value.
	Result string
	// Operation is the line above the result, e.g. "3 +" or "3 + 4 =".
	Operation string
	// Memory is the memory indicator, e.g. "M5", empty while memory is inactive.
	Memory string
	// Err is set while the engine is halted. It matches one of ErrDivideByZero,
	// ErrInvalidInput, ErrOverflow or ErrInternal.
	Err error
}

// Halted reports whether the snapshot carries an error condition.
func (s Snapshot) Halted() bool {
	return s.Err != nil
}

// Engine holds one calculator session. It is not safe for concurrent use;
// give every session its own Engine.
type Engine struct {
	cfg *config

	acc     string
	op      Operator
	pending string

	memory       float64
	memoryActive bool

	resetDisplay bool
	err          error

	result    string
	operation string
}

// New creates an engine in its empty state.
func New(opts ...Option) *Engine {
	return &Engine{cfg: applyOptions(opts)}
}

// Precision returns the number of fraction digits results are rounded to.
func (e *Engine) Precision() int {
	return e.cfg.precision
}

// Mode returns the current state of the engine.
func (e *Engine) Mode() Mode {
	switch {
	case e.err != nil:
		return ModeError
	case e.op == OpNone && e.acc == "":
		return ModeEmpty
	case e.op == OpNone:
		return ModeEnteringFirst
	case e.pending == "":
		return ModeOperatorSet
	default:
		return ModeEnteringSecond
	}
}

// Operands returns the accumulated operand, the pending operator and the
// pending operand as they are currently held.
func (e *Engine) Operands() (acc string, op Operator, pending string) {
	return e.acc, e.op, e.pending
}

// MemoryValue returns the memory register and whether it is active.
func (e *Engine) MemoryValue() (float64, bool) {
	return e.memory, e.memoryActive
}

// Snapshot returns the current display without changing anything.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Result:    e.result,
		Operation: e.operation,
		Err:       e.err,
	}
	if e.memoryActive {
		s.Memory = "M" + e.format(e.memory)
	}
	return s
}

// Apply routes a to the matching engine method.
func (e *Engine) Apply(a Action) Snapshot {
	switch a.Kind {
	case ActionDigit:
		return e.InputDigit(a.Digit)
	case ActionOperator:
		return e.InputOperator(string(a.Op))
	case ActionEvaluate:
		return e.Evaluate()
	case ActionUnary:
		return e.Unary(a.Func)
	case ActionMemory:
		return e.Memory(a.Memory)
	case ActionBackspace:
		return e.Backspace()
	case ActionClearEntry:
		return e.ClearEntry()
	case ActionClearAll:
		return e.ClearAll()
	default:
		e.cfg.logger.Debug("ignoring unknown action", "kind", int(a.Kind))
		return e.Snapshot()
	}
}

// InputDigit appends a digit or decimal point to the active operand exactly
// as typed, so "007" and ".5" stay as they are until they are parsed.
//
// A halted engine is reset first. A second decimal point, any input once the
// digit bound is reached and any rune other than '0'-'9' or '.' are ignored.
func (e *Engine) InputDigit(d rune) Snapshot {
	if d != '.' && (d < '0' || d > '9') {
		return e.Snapshot()
	}
	if e.err != nil {
		e.reset()
	}
	if e.resetDisplay {
		e.resetDisplay = false
		if e.op == OpNone {
			e.operation = ""
		}
		e.setActive("")
	}

	text := e.active()
	if digitCount(text) >= e.cfg.maxDigits {
		return e.Snapshot()
	}
	if d == '.' && strings.Contains(text, ".") {
		return e.Snapshot()
	}
	e.setActive(text + string(d))
	return e.Snapshot()
}

// InputOperator installs a binary operator. sign may be any alias accepted by
// ParseOperator. With both operands present the pending operation is
// evaluated first, so 3 + 4 + shows 7 as the new first operand. An operand
// holding no digit yet, such as ".", counts as empty.
func (e *Engine) InputOperator(sign string) Snapshot {
	op, ok := ParseOperator(sign)
	if !ok {
		e.cfg.logger.Debug("ignoring unknown operator", "sign", sign)
		return e.Snapshot()
	}
	if e.err != nil {
		return e.Snapshot()
	}
	if _, ok := parseOperand(e.acc); !ok {
		return e.Snapshot()
	}
	if _, ok := parseOperand(e.pending); !ok {
		e.pending = ""
	} else if s := e.Evaluate(); s.Halted() {
		return s
	}

	e.op = op
	e.resetDisplay = false
	e.operation = e.acc + " " + string(op)
	e.result = ""
	return e.Snapshot()
}

// Evaluate computes the pending operation. It does nothing unless both
// operands and the operator are present.
func (e *Engine) Evaluate() Snapshot {
	if e.err != nil || e.acc == "" || e.op == OpNone || e.pending == "" {
		return e.Snapshot()
	}

	b, okB := parseOperand(e.pending)
	if !okB {
		// "3 + ." is still waiting for a digit
		return e.Snapshot()
	}
	a, okA := parseOperand(e.acc)
	if !okA {
		e.cfg.logger.Error("unparsable operand", "acc", e.acc)
		return e.halt(errors.Wrapf(ErrInternal, "operand %q", e.acc))
	}

	var v float64
	switch e.op {
	case OpAdd:
		v = a + b
	case OpSubtract:
		v = a - b
	case OpMultiply:
		v = a * b
	case OpDivide:
		if b == 0 {
			return e.halt(errors.Wrapf(ErrDivideByZero, "%s / %s", e.acc, e.pending))
		}
		v = a / b
	default:
		e.cfg.logger.Error("unexpected operator", "operator", string(e.op))
		return e.halt(errors.Wrapf(ErrInternal, "unexpected operator %q", string(e.op)))
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return e.halt(errors.Wrapf(ErrOverflow, "%s %s %s", e.acc, e.op, e.pending))
	}

	result := e.format(v)
	e.operation = fmt.Sprintf("%s %s %s =", e.acc, e.op, e.format(b))
	e.acc = result
	e.op = OpNone
	e.pending = ""
	e.resetDisplay = true
	e.result = result
	return e.Snapshot()
}

// Unary applies f to the active operand. An empty operand is left alone.
func (e *Engine) Unary(f UnaryFunc) Snapshot {
	if e.err != nil {
		return e.Snapshot()
	}
	text := e.active()
	v, ok := parseOperand(text)
	if !ok {
		return e.Snapshot()
	}

	var r float64
	switch f {
	case FuncInvert:
		// Toggle the sign on the text so a trailing point survives.
		if v != 0 {
			e.setActive(toggleSign(text))
		}
		return e.Snapshot()
	case FuncSquare:
		r = v * v
	case FuncSquareRoot:
		if v < 0 {
			return e.halt(errors.Wrapf(ErrInvalidInput, "sqrt(%s)", text))
		}
		r = math.Sqrt(v)
	case FuncPercent:
		r = e.percent(v)
	case FuncReciprocal:
		if v == 0 {
			return e.halt(errors.Wrapf(ErrDivideByZero, "1/(%s)", text))
		}
		r = 1 / v
	default:
		e.cfg.logger.Error("unexpected unary function", "func", int(f))
		return e.halt(errors.Wrapf(ErrInternal, "unexpected function %s", f))
	}
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return e.halt(errors.Wrapf(ErrOverflow, "%s(%s)", f, text))
	}
	e.setActive(e.format(r))
	return e.Snapshot()
}

// Invert toggles the sign of the active operand.
func (e *Engine) Invert() Snapshot { return e.Unary(FuncInvert) }

// Square squares the active operand.
func (e *Engine) Square() Snapshot { return e.Unary(FuncSquare) }

// SquareRoot replaces the active operand with its square root.
func (e *Engine) SquareRoot() Snapshot { return e.Unary(FuncSquareRoot) }

// Percent converts the active operand into a percentage.
func (e *Engine) Percent() Snapshot { return e.Unary(FuncPercent) }

// Reciprocal replaces the active operand with 1/x.
func (e *Engine) Reciprocal() Snapshot { return e.Unary(FuncReciprocal) }

// percent follows the usual desk calculator rule: 200 + 10 % adds 10% of
// 200, while for X and / (or without an operator) the operand is divided by 100.
func (e *Engine) percent(v float64) float64 {
	if e.op == OpAdd || e.op == OpSubtract {
		if a, ok := parseOperand(e.acc); ok {
			return a * v / 100
		}
	}
	return v / 100
}

// Backspace removes the last character of the active operand.
func (e *Engine) Backspace() Snapshot {
	if e.err != nil {
		return e.Snapshot()
	}
	text := e.active()
	if text == "" {
		return e.Snapshot()
	}
	text = text[:len(text)-1]
	if text == "-" {
		text = ""
	}
	e.setActive(text)
	return e.Snapshot()
}

// Memory runs a memory register operation.
//
// Add and subtract use the value currently on display and do nothing when
// the display is empty. Recall writes the register into the active operand.
// Clear zeroes the register and hides the memory indicator.
func (e *Engine) Memory(action MemoryAction) Snapshot {
	if e.err != nil {
		return e.Snapshot()
	}
	switch action {
	case MemoryAdd, MemorySubtract:
		v, ok := parseOperand(e.result)
		if !ok {
			return e.Snapshot()
		}
		if action == MemoryAdd {
			e.memory += v
		} else {
			e.memory -= v
		}
		e.memoryActive = true
		e.resetDisplay = true
	case MemoryRecall:
		e.setActive(e.format(e.memory))
		e.memoryActive = true
		e.resetDisplay = true
	case MemoryClear:
		e.memory = 0
		e.memoryActive = false
	default:
		e.cfg.logger.Debug("ignoring unknown memory action", "action", int(action))
	}
	return e.Snapshot()
}

// ClearEntry empties the active operand. The operator, the other operand and
// the operation line are kept. On a halted engine it behaves like ClearAll.
func (e *Engine) ClearEntry() Snapshot {
	if e.err != nil {
		return e.ClearAll()
	}
	e.resetDisplay = false
	e.setActive("")
	return e.Snapshot()
}

// ClearAll returns the engine to its initial state, memory included.
func (e *Engine) ClearAll() Snapshot {
	e.reset()
	return e.Snapshot()
}

// active returns the operand that receives input: the pending operand once an
// operator is set, the accumulated operand before that.
func (e *Engine) active() string {
	if e.op == OpNone {
		return e.acc
	}
	return e.pending
}

// setActive replaces the active operand and shows it as the result.
func (e *Engine) setActive(text string) {
	if e.op == OpNone {
		e.acc = text
	} else {
		e.pending = text
	}
	e.result = text
}

func (e *Engine) halt(err error) Snapshot {
	e.cfg.logger.Warn("calculator halted", "err", err)
	e.acc, e.op, e.pending = "", OpNone, ""
	e.resetDisplay = false
	e.result, e.operation = "", ""
	e.err = err
	return e.Snapshot()
}

func (e *Engine) reset() {
	e.acc, e.op, e.pending = "", OpNone, ""
	e.memory, e.memoryActive = 0, false
	e.resetDisplay = false
	e.err = nil
	e.result, e.operation = "", ""
}

func (e *Engine) format(v float64) string {
	return FormatNumber(v, e.cfg.precision)
}

func toggleSign(text string) string {
	if strings.HasPrefix(text, "-") {
		return text[1:]
	}
	return "-" + text
}
