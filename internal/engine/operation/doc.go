// Package operation implements the catalog of binary arithmetic operations.
//
// Every operation takes two float64 operands and either returns a finite
// float64 or fails with one of the package's sentinel errors. Lookup by
// name is case-insensitive and ignores surrounding whitespace:
//
//	op, err := operation.Lookup(" Divide ")
//	if err != nil {
//	    return err // wraps ErrUnknownOperation
//	}
//	result, err := op.Apply(10, 4) // 2.5
//
// Results that are +Inf, -Inf or NaN are never returned; power and root
// report them as ErrNotFinite.
package operation
