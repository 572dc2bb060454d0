package calc

import "github.com/cockroachdb/errors"

// Conditions reported through Snapshot.Err. Check them with errors.Is.
var (
	// ErrDivideByZero is reported for x / 0 and for the reciprocal of zero.
	ErrDivideByZero = errors.New("divide by zero")
	// ErrInvalidInput is reported for the square root of a negative number.
	ErrInvalidInput = errors.New("invalid input")
	// ErrOverflow is reported when a result is not a finite number.
	ErrOverflow = errors.New("overflow")
	// ErrInternal means the engine reached a state its own input handling
	// should have made impossible.
	ErrInternal = errors.New("internal error")
)
