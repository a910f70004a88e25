package handlers

import (
	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

// Operation returns the handler for the catalog operation name.
// It expects two numeric arguments and replies "name(a, b) = result".
func Operation(name string) handler.HandlerFunc {
	return func(ctx *execctx.Context, args []string) handler.Result {
		if ctx == nil || ctx.Calculator == nil {
			return handler.Error(execctx.ErrNoCalculator)
		}
		a, b, err := ParseTwo(args)
		if err != nil {
			return handler.Error(err)
		}
		c, err := ctx.Calculator.Execute(name, a, b)
		if err != nil {
			return handler.Error(err)
		}
		return handler.SuccessWithMessage(FormatCalculation(name, c, ctx.Precision))
	}
}
