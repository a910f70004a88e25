package handlers

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/keycalc/internal/dispatcher"
	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
)

// helpNameWidth is the display width of the name column in help output.
const helpNameWidth = 12

// Help returns the help command for reg. Only live commands are listed.
func Help(reg *dispatcher.Registry) handler.HandlerFunc {
	return func(_ *execctx.Context, _ []string) handler.Result {
		entries := reg.Describe()
		lines := make([]string, 0, len(entries)+1)
		lines = append(lines, "Commands:")
		for _, e := range entries {
			lines = append(lines, "  "+padRight(e.Name, helpNameWidth)+" – "+e.Description)
		}
		return handler.Lines(lines)
	}
}

// Exit ends the interactive session.
func Exit(_ *execctx.Context, _ []string) handler.Result {
	return handler.Exit()
}

func padRight(s string, width int) string {
	w := uniseg.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
