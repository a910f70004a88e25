package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/keycalc/internal/dispatcher"
)

// ParseTwo parses exactly two numeric arguments.
func ParseTwo(args []string) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, dispatcher.ErrArgCount
	}
	a, err := parseNumber(args[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := parseNumber(args[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", dispatcher.ErrNotNumber, s)
	}
	return v, nil
}
