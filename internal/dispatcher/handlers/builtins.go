package handlers

import (
	"errors"

	"github.com/dshills/keycalc/internal/dispatcher"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
	"github.com/dshills/keycalc/internal/engine/operation"
)

// Builtin describes one built-in command.
type Builtin struct {
	Name        string
	Description string
	Handler     handler.HandlerFunc
}

// Builtins returns the built-in commands in help order. The help command
// lists the commands of reg.
func Builtins(reg *dispatcher.Registry) []Builtin {
	builtins := []Builtin{
		{"history", "show history", History},
		{"clear", "clear history", Clear},
		{"undo", "undo last calculation", Undo},
		{"redo", "redo last undone calculation", Redo},
		{"save", "save history to CSV", Save},
		{"load", "load history from CSV", Load},
		{"export", "export history to JSON: export [path]", Export},
		{"import", "import history from JSON: import <path>", Import},
		{"enqueue", "queue a calculation: enqueue <op> <a> <b>", Enqueue},
		{"queue", "list queued calculations", ListQueue},
		{"runqueue", "run queued calculations", RunQueue},
		{"clearqueue", "clear queued calculations", ClearQueue},
		{"help", "show this help", Help(reg)},
		{"exit", "exit the program", Exit},
	}
	for _, op := range operation.All() {
		builtins = append(builtins, Builtin{op.Name, op.Description, Operation(op.Name)})
	}
	return builtins
}

// RegisterBuiltins installs every built-in command into reg.
func RegisterBuiltins(reg *dispatcher.Registry) error {
	var errs []error
	for _, b := range Builtins(reg) {
		if err := reg.RegisterFunc(b.Name, b.Handler, b.Description); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
