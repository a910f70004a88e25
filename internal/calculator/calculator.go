// Package calculator composes the operation catalog and the history into
// the calculator used by commands.
package calculator

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/text/encoding"

	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/engine/calculation"
	"github.com/dshills/keycalc/internal/engine/history"
	"github.com/dshills/keycalc/internal/engine/operation"
)

// Calculator errors.
var (
	// ErrInputTooLarge indicates an operand exceeds the configured magnitude.
	ErrInputTooLarge = errors.New("input exceeds configured maximum")

	// ErrInvalidInput indicates a NaN operand.
	ErrInvalidInput = errors.New("input is not a number")
)

// Options configures New.
type Options struct {
	// MaxInputValue bounds |a| and |b|.
	MaxInputValue float64

	// MaxHistorySize is the history capacity.
	MaxHistorySize int

	// Encoding is used for history files; nil means UTF-8.
	Encoding encoding.Encoding

	// Observers are notified after each calculation, in order.
	Observers []Observer
}

// Calculator validates input, runs operations and records results.
type Calculator struct {
	history   *history.History
	maxInput  float64
	observers []Observer
}

// New creates a calculator with an empty history.
func New(opts Options) (*Calculator, error) {
	if opts.MaxInputValue <= 0 {
		opts.MaxInputValue = config.DefaultMaxInputValue
	}
	h, err := history.New(opts.MaxHistorySize, history.WithEncoding(opts.Encoding))
	if err != nil {
		return nil, err
	}
	return &Calculator{
		history:   h,
		maxInput:  opts.MaxInputValue,
		observers: append([]Observer(nil), opts.Observers...),
	}, nil
}

// NewFromConfig creates a calculator from cfg.
func NewFromConfig(cfg config.Config, observers ...Observer) (*Calculator, error) {
	enc, err := cfg.TextEncoding()
	if err != nil {
		return nil, err
	}
	return New(Options{
		MaxInputValue:  cfg.MaxInputValue,
		MaxHistorySize: cfg.MaxHistorySize,
		Encoding:       enc,
		Observers:      observers,
	})
}

// AddObserver registers an observer after the existing ones.
func (c *Calculator) AddObserver(o Observer) {
	if o != nil {
		c.observers = append(c.observers, o)
	}
}

// History returns the calculator's history.
func (c *Calculator) History() *history.History {
	return c.history
}

// MaxInputValue returns the operand magnitude bound.
func (c *Calculator) MaxInputValue() float64 {
	return c.maxInput
}

// Execute validates the operands, applies the named operation, records the
// stamped result and notifies observers before returning it.
func (c *Calculator) Execute(opName string, a, b float64) (calculation.Calculation, error) {
	if math.IsNaN(a) || math.IsNaN(b) {
		return calculation.Calculation{}, ErrInvalidInput
	}
	if math.Abs(a) > c.maxInput || math.Abs(b) > c.maxInput {
		return calculation.Calculation{}, fmt.Errorf("%w (%g)", ErrInputTooLarge, c.maxInput)
	}

	op, err := operation.Lookup(opName)
	if err != nil {
		return calculation.Calculation{}, err
	}
	result, err := op.Apply(a, b)
	if err != nil {
		return calculation.Calculation{}, err
	}

	calc := calculation.New(op.Name, a, b, result).WithIdentity()
	if err := c.history.Add(calc); err != nil {
		return calculation.Calculation{}, err
	}
	c.notify(calc)
	return calc, nil
}

func (c *Calculator) notify(calc calculation.Calculation) {
	for _, o := range c.observers {
		o.OnNewCalculation(calc, c.history)
	}
}
