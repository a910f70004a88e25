package operation

import "errors"

// Operation errors.
var (
	// ErrUnknownOperation indicates no operation is registered under the name.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrDivisionByZero indicates a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrInvalidRootDegree indicates a root degree that is zero or not an integer.
	ErrInvalidRootDegree = errors.New("root degree must be a nonzero integer")

	// ErrEvenRoot indicates an even root of a negative number.
	ErrEvenRoot = errors.New("even root of a negative number is not real")

	// ErrNotFinite indicates the result overflowed or is undefined.
	ErrNotFinite = errors.New("result is not finite")
)
