package operation

import (
	"fmt"
	"math"
	"strings"
)

// Func computes a result from two operands.
type Func func(a, b float64) (float64, error)

// Operation is a named entry in the catalog.
type Operation struct {
	// Name is the canonical lowercase name (e.g. "int_divide").
	Name string

	// Description is a short human readable formula.
	Description string

	fn Func
}

// Apply runs the operation. Infinite and NaN results fail with ErrNotFinite.
func (o Operation) Apply(a, b float64) (float64, error) {
	if o.fn == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, o.Name)
	}
	v, err := o.fn(a, b)
	if err != nil {
		return 0, err
	}
	return finite(o.Name, v)
}

// catalog lists operations in display order.
var catalog = []Operation{
	{Name: "add", Description: "add", fn: add},
	{Name: "subtract", Description: "subtract", fn: subtract},
	{Name: "multiply", Description: "multiply", fn: multiply},
	{Name: "divide", Description: "divide", fn: divide},
	{Name: "power", Description: "a ** b", fn: power},
	{Name: "root", Description: "n-th root of a", fn: root},
	{Name: "modulus", Description: "a % b", fn: modulus},
	{Name: "int_divide", Description: "a // b", fn: intDivide},
	{Name: "percent", Description: "(a / b) * 100", fn: percent},
	{Name: "abs_diff", Description: "|a - b|", fn: absDiff},
}

var byName = func() map[string]Operation {
	m := make(map[string]Operation, len(catalog))
	for _, op := range catalog {
		m[op.Name] = op
	}
	return m
}()

// Lookup returns the operation registered under name.
// The name is trimmed and matched case-insensitively.
func Lookup(name string) (Operation, error) {
	op, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %s", ErrUnknownOperation, name)
	}
	return op, nil
}

// Apply looks up name and applies it to a and b.
func Apply(name string, a, b float64) (float64, error) {
	op, err := Lookup(name)
	if err != nil {
		return 0, err
	}
	return op.Apply(a, b)
}

// All returns every operation in display order.
func All() []Operation {
	out := make([]Operation, len(catalog))
	copy(out, catalog)
	return out
}

// Names returns the canonical operation names in display order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, op := range catalog {
		names[i] = op.Name
	}
	return names
}

func add(a, b float64) (float64, error)      { return a + b, nil }
func subtract(a, b float64) (float64, error) { return a - b, nil }
func multiply(a, b float64) (float64, error) { return a * b, nil }
func absDiff(a, b float64) (float64, error)  { return math.Abs(a - b), nil }

func divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}

func power(a, b float64) (float64, error) {
	return math.Pow(a, b), nil
}

// root computes the real n-th root of a where n is the integer value of b.
// Odd roots of negative numbers are real and returned with a negative sign.
func root(a, b float64) (float64, error) {
	if b == 0 || math.IsInf(b, 0) || b != math.Trunc(b) {
		return 0, ErrInvalidRootDegree
	}
	if a < 0 && math.Mod(b, 2) == 0 {
		return 0, ErrEvenRoot
	}
	exp := 1.0 / b
	if a < 0 {
		return -math.Pow(-a, exp), nil
	}
	return math.Pow(a, exp), nil
}

// modulus follows floored division: the result carries the sign of b.
func modulus(a, b float64) (float64, error) {
	if b == 0 {
		return 0, fmt.Errorf("modulus: %w", ErrDivisionByZero)
	}
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r, nil
}

// intDivide truncates both operands toward zero, then floor-divides them.
// int_divide(-10, 3) is -4.
func intDivide(a, b float64) (float64, error) {
	ta, tb := math.Trunc(a), math.Trunc(b)
	if tb == 0 {
		return 0, fmt.Errorf("integer division: %w", ErrDivisionByZero)
	}
	if math.Abs(ta) < 1<<62 && math.Abs(tb) < 1<<62 {
		x, y := int64(ta), int64(tb)
		q := x / y
		if x%y != 0 && (x < 0) != (y < 0) {
			q--
		}
		return float64(q), nil
	}
	return math.Floor(ta / tb), nil
}

func percent(a, b float64) (float64, error) {
	if b == 0 {
		return 0, fmt.Errorf("percentage denominator: %w", ErrDivisionByZero)
	}
	return (a / b) * 100, nil
}

func finite(name string, v float64) (float64, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%s: %w", name, ErrNotFinite)
	}
	return v, nil
}
