package calc

import "fmt"

// Operator is a binary operator symbol. The zero value means no operator is pending.
type Operator string

const (
	OpNone     Operator = ""
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "X"
	OpDivide   Operator = "/"
)

// ParseOperator normalizes the aliases a user may type for an operator.
// Multiplication accepts "*", "x", "X" and "×"; division accepts "/" and "÷".
func ParseOperator(sign string) (Operator, bool) {
	switch sign {
	case "+":
		return OpAdd, true
	case "-":
		return OpSubtract, true
	case "*", "x", "X", "×":
		return OpMultiply, true
	case "/", "÷":
		return OpDivide, true
	default:
		return OpNone, false
	}
}

// UnaryFunc is a transform applied to the active operand.
type UnaryFunc int

const (
	FuncInvert UnaryFunc = iota
	FuncSquare
	FuncSquareRoot
	FuncPercent
	FuncReciprocal
)

func (f UnaryFunc) String() string {
	switch f {
	case FuncInvert:
		return "invert"
	case FuncSquare:
		return "square"
	case FuncSquareRoot:
		return "sqrt"
	case FuncPercent:
		return "percent"
	case FuncReciprocal:
		return "reciprocal"
	default:
		return fmt.Sprintf("UnaryFunc(%d)", int(f))
	}
}

// MemoryAction selects a memory register operation.
type MemoryAction int

const (
	MemoryAdd MemoryAction = iota
	MemorySubtract
	MemoryRecall
	MemoryClear
)

func (m MemoryAction) String() string {
	switch m {
	case MemoryAdd:
		return "m+"
	case MemorySubtract:
		return "m-"
	case MemoryRecall:
		return "mr"
	case MemoryClear:
		return "mc"
	default:
		return fmt.Sprintf("MemoryAction(%d)", int(m))
	}
}

// ActionKind is the input category of an Action.
type ActionKind int

const (
	ActionDigit ActionKind = iota
	ActionOperator
	ActionEvaluate
	ActionUnary
	ActionMemory
	ActionBackspace
	ActionClearEntry
	ActionClearAll
)

// Action is one user gesture, already mapped from whatever produced it.
// Only the field matching Kind is meaningful.
type Action struct {
	Kind   ActionKind
	Digit  rune
	Op     Operator
	Func   UnaryFunc
	Memory MemoryAction
}

// Digit returns the action for typing d, which may be '0'-'9' or '.'.
func Digit(d rune) Action { return Action{Kind: ActionDigit, Digit: d} }

// Op returns the action for choosing op.
func Op(op Operator) Action { return Action{Kind: ActionOperator, Op: op} }

// Unary returns the action for applying f.
func Unary(f UnaryFunc) Action { return Action{Kind: ActionUnary, Func: f} }

// Mem returns the action for the memory operation m.
func Mem(m MemoryAction) Action { return Action{Kind: ActionMemory, Memory: m} }

var (
	Evaluate   = Action{Kind: ActionEvaluate}
	Backspace  = Action{Kind: ActionBackspace}
	ClearEntry = Action{Kind: ActionClearEntry}
	ClearAll   = Action{Kind: ActionClearAll}
)

func (a Action) String() string {
	switch a.Kind {
	case ActionDigit:
		return string(a.Digit)
	case ActionOperator:
		return string(a.Op)
	case ActionEvaluate:
		return "="
	case ActionUnary:
		return a.Func.String()
	case ActionMemory:
		return a.Memory.String()
	case ActionBackspace:
		return "backspace"
	case ActionClearEntry:
		return "ce"
	case ActionClearAll:
		return "c"
	default:
		return fmt.Sprintf("Action(%d)", int(a.Kind))
	}
}
