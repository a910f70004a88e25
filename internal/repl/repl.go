// Package repl runs the interactive calculator loop.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/dispatcher"
)

// Banner is printed when the loop starts.
const Banner = "Enhanced Calculator REPL. Type 'help' for commands. Type 'exit' to quit."

// Prompt precedes every input line.
const Prompt = "> "

// Options configures Run.
type Options struct {
	// Color selects colored output. The zero value means auto.
	Color config.ColorMode
}

// styles colors the three kinds of output.
type styles struct {
	ok     lipgloss.Style
	err    lipgloss.Style
	banner lipgloss.Style
}

func newStyles(out io.Writer, enabled bool) styles {
	r := lipgloss.NewRenderer(out)
	if !enabled {
		r.SetColorProfile(termenv.Ascii)
	} else if r.ColorProfile() == termenv.Ascii {
		r.SetColorProfile(termenv.ANSI)
	}
	return styles{
		ok:     r.NewStyle().Foreground(lipgloss.Color("2")),
		err:    r.NewStyle().Foreground(lipgloss.Color("1")),
		banner: r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// render styles each line on its own so multi-line output is not padded.
func render(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = style.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

// UseColor reports whether output to w should be colored under mode.
// Auto colors only terminals.
func UseColor(mode config.ColorMode, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run prints the banner, then reads one command per line from in and
// writes each response to out until exit or end of input. It returns the
// process exit code.
func Run(d *dispatcher.Dispatcher, in io.Reader, out io.Writer, opts Options) int {
	st := newStyles(out, UseColor(opts.Color, out))
	log := d.Context().Log()

	fmt.Fprintln(out, render(st.banner, Banner))

	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, Prompt)

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			log.Error("read input", "error", err)
			fmt.Fprintln(out)
			return 1
		}
		if line == "" && err != nil {
			return 0
		}

		cont, text := d.Dispatch(line)
		if text != "" {
			style := st.ok
			if strings.HasPrefix(text, "error:") {
				style = st.err
			}
			fmt.Fprintln(out, render(style, text))
		}
		if !cont || err != nil {
			return 0
		}
	}
}
