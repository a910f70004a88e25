package lua

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keycalc/internal/dispatcher"
	"github.com/dshills/keycalc/internal/dispatcher/execctx"
	"github.com/dshills/keycalc/internal/dispatcher/handler"
	"github.com/dshills/keycalc/internal/engine/calculation"
)

// Executor runs calculator operations for the calc global.
type Executor interface {
	Execute(op string, a, b float64) (calculation.Calculation, error)
}

// Host runs plugin scripts and registers their commands.
type Host struct {
	state    *State
	registry *dispatcher.Registry
	exec     Executor
	logger   *slog.Logger

	mu       sync.Mutex
	commands []string
}

// NewHost creates a host whose scripts register into registry and
// calculate through exec.
func NewHost(registry *dispatcher.Registry, exec Executor, opts ...StateOption) (*Host, error) {
	if registry == nil {
		return nil, fmt.Errorf("%w: nil registry", dispatcher.ErrInvalidCommand)
	}
	state, err := NewState(opts...)
	if err != nil {
		return nil, err
	}

	h := &Host{
		state:    state,
		registry: registry,
		exec:     exec,
		logger:   state.logger,
	}
	state.RegisterFunc("register", h.luaRegister)
	state.RegisterFunc("calc", h.luaCalc)
	return h, nil
}

// State returns the underlying Lua state.
func (h *Host) State() *State {
	return h.state
}

// Commands returns the names registered by scripts, in order.
func (h *Host) Commands() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.commands))
	copy(out, h.commands)
	return out
}

// Close releases the Lua state. Registered commands fail afterwards.
func (h *Host) Close() error {
	return h.state.Close()
}

// LoadFile runs one script.
func (h *Host) LoadFile(path string) error {
	if err := h.state.DoFile(path); err != nil {
		return fmt.Errorf("plugin %s: %w", filepath.Base(path), err)
	}
	h.logger.Debug("plugin loaded", "path", path)
	return nil
}

// LoadString runs script source under the given chunk name.
func (h *Host) LoadString(name, code string) error {
	if err := h.state.DoString(code); err != nil {
		return fmt.Errorf("plugin %s: %w", name, err)
	}
	return nil
}

// LoadDir runs every *.lua file in dir in name order and returns how many
// loaded. A failing script does not stop the others; all failures are
// returned joined.
func (h *Host) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("plugin dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".lua") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	loaded := 0
	var errs []error
	for _, name := range names {
		if err := h.LoadFile(filepath.Join(dir, name)); err != nil {
			h.logger.Warn("plugin failed", "file", name, "error", err)
			errs = append(errs, err)
			continue
		}
		loaded++
	}
	return loaded, errors.Join(errs...)
}

// IsMissingDir reports whether err came from a plugin directory that does
// not exist.
func IsMissingDir(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// luaRegister implements register(name, description, fn).
func (h *Host) luaRegister(L *lua.LState) int {
	name := L.CheckString(1)
	description := L.OptString(2, "")
	fn := L.CheckFunction(3)

	if err := h.registry.Register(name, h.commandHandler(name, fn), description); err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}

	h.mu.Lock()
	h.commands = append(h.commands, name)
	h.mu.Unlock()
	h.logger.Debug("plugin command registered", "command", name)
	return 0
}

// luaCalc implements calc(op, a, b).
func (h *Host) luaCalc(L *lua.LState) int {
	op := L.CheckString(1)
	a := float64(L.CheckNumber(2))
	b := float64(L.CheckNumber(3))

	if h.exec == nil {
		L.RaiseError("calc: no calculator")
		return 0
	}
	c, err := h.exec.Execute(op, a, b)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(c.Result))
	return 1
}

// commandHandler adapts a Lua function to a command handler.
func (h *Host) commandHandler(name string, fn *lua.LFunction) handler.HandlerFunc {
	return func(_ *execctx.Context, args []string) handler.Result {
		results, err := h.state.CallValue(fn, h.state.NewStringTable(args))
		if err != nil {
			return handler.Error(fmt.Errorf("%s: %w", name, err))
		}
		if len(results) >= 2 && results[0] == lua.LNil && results[1] != lua.LNil {
			return handler.Errorf("%s", results[1].String())
		}
		if len(results) == 0 || results[0] == lua.LNil {
			return handler.Success()
		}
		return handler.SuccessWithMessage(results[0].String())
	}
}
