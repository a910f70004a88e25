// Package calculation defines the immutable record of one computed result.
package calculation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the ISO-8601 UTC layout used for record timestamps.
const TimestampLayout = "2006-01-02T15:04:05+00:00"

// Field names of the flat record form, in persisted column order.
const (
	FieldID        = "id"
	FieldOperation = "operation"
	FieldA         = "a"
	FieldB         = "b"
	FieldResult    = "result"
	FieldTimestamp = "timestamp"
)

// Columns is the persisted column order.
var Columns = []string{FieldID, FieldOperation, FieldA, FieldB, FieldResult, FieldTimestamp}

var (
	// ErrMissingField indicates a mandatory field is absent from a flat record.
	ErrMissingField = errors.New("missing field")

	// ErrNotFinite indicates a numeric field holds an infinity or NaN.
	ErrNotFinite = errors.New("number is not finite")
)

// Hooks for identity generation; replaced in tests.
var (
	newID = uuid.NewString
	now   = time.Now
)

// Calculation is one computed result. It is a value type: methods never
// modify the receiver, and ID and Timestamp are never reassigned once set.
type Calculation struct {
	Operation string
	A         float64
	B         float64
	Result    float64

	// ID is an opaque identifier, empty until stamped.
	ID string

	// Timestamp is an ISO-8601 UTC instant, empty until stamped.
	Timestamp string
}

// New creates an unstamped calculation.
func New(op string, a, b, result float64) Calculation {
	return Calculation{Operation: op, A: a, B: b, Result: result}
}

// Stamped reports whether both ID and Timestamp are set.
func (c Calculation) Stamped() bool {
	return c.ID != "" && c.Timestamp != ""
}

// WithIdentity returns c with any unset ID or Timestamp filled in.
// A stamped calculation is returned unchanged, so the call is idempotent.
func (c Calculation) WithIdentity() Calculation {
	if c.Stamped() {
		return c
	}
	if c.ID == "" {
		c.ID = newID()
	}
	if c.Timestamp == "" {
		c.Timestamp = now().UTC().Format(TimestampLayout)
	}
	return c
}

// Time parses Timestamp. The zero time is returned when unset or invalid.
func (c Calculation) Time() time.Time {
	t, err := time.Parse(time.RFC3339, c.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Serialize returns the flat form of the stamped calculation, keyed by
// field name, with numbers in shortest round-trip notation.
func (c Calculation) Serialize() map[string]string {
	s := c.WithIdentity()
	return map[string]string{
		FieldID:        s.ID,
		FieldOperation: s.Operation,
		FieldA:         FormatFloat(s.A),
		FieldB:         FormatFloat(s.B),
		FieldResult:    FormatFloat(s.Result),
		FieldTimestamp: s.Timestamp,
	}
}

// Row returns the serialized fields in Columns order.
func (c Calculation) Row() []string {
	m := c.Serialize()
	row := make([]string, len(Columns))
	for i, col := range Columns {
		row[i] = m[col]
	}
	return row
}

// Deserialize rebuilds a calculation from its flat form.
// A missing id or timestamp is left empty. operation, a, b and result are
// mandatory; the numeric fields must parse as floating point.
func Deserialize(m map[string]string) (Calculation, error) {
	var c Calculation
	op, ok := m[FieldOperation]
	if !ok {
		return c, fmt.Errorf("%w: %s", ErrMissingField, FieldOperation)
	}
	c.Operation = op

	nums := []struct {
		field string
		dst   *float64
	}{
		{FieldA, &c.A},
		{FieldB, &c.B},
		{FieldResult, &c.Result},
	}
	for _, n := range nums {
		raw, ok := m[n.field]
		if !ok {
			return Calculation{}, fmt.Errorf("%w: %s", ErrMissingField, n.field)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Calculation{}, fmt.Errorf("field %s: %w", n.field, err)
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return Calculation{}, fmt.Errorf("field %s: %w: %q", n.field, ErrNotFinite, raw)
		}
		*n.dst = v
	}

	c.ID = strings.TrimSpace(m[FieldID])
	c.Timestamp = strings.TrimSpace(m[FieldTimestamp])
	return c, nil
}

// FormatFloat renders v in shortest round-trip form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatNumber renders v for display. Integral values keep a trailing ".0",
// very large or very small magnitudes use exponent form.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
