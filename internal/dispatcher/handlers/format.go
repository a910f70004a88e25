package handlers

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/engine/calculation"
)

// FormatResult renders v rounded to precision decimal places.
// The stored value is never rounded. A negative precision disables rounding
// and precision is capped at config.MaxPrecision.
func FormatResult(v float64, precision int) string {
	if precision < 0 {
		return calculation.FormatNumber(v)
	}
	precision = min(precision, config.MaxPrecision)
	rounded, _ := decimal.NewFromFloat(v).Round(int32(precision)).Float64()
	return calculation.FormatNumber(rounded)
}

// FormatCalculation renders c as "op(a, b) = result".
func FormatCalculation(name string, c calculation.Calculation, precision int) string {
	return fmt.Sprintf("%s(%s, %s) = %s",
		name,
		calculation.FormatNumber(c.A),
		calculation.FormatNumber(c.B),
		FormatResult(c.Result, precision))
}

func formatOperands(c calculation.Calculation) string {
	return fmt.Sprintf("%s(%s, %s)", c.Operation, calculation.FormatNumber(c.A), calculation.FormatNumber(c.B))
}
