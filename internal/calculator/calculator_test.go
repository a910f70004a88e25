package calculator

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/keycalc/internal/config"
	"github.com/dshills/keycalc/internal/engine/calculation"
	"github.com/dshills/keycalc/internal/engine/history"
	"github.com/dshills/keycalc/internal/engine/operation"
)

func newTestCalculator(t *testing.T, observers ...Observer) *Calculator {
	t.Helper()
	c, err := New(Options{MaxInputValue: 1e6, MaxHistorySize: 10, Observers: observers})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestExecuteRecordsHistory(t *testing.T) {
	c := newTestCalculator(t)

	calc, err := c.Execute("ADD", 2, 3)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if calc.Result != 5 || calc.Operation != "add" {
		t.Errorf("Execute = %+v", calc)
	}
	if !calc.Stamped() {
		t.Error("returned calculation should be stamped")
	}
	items := c.History().Items()
	if len(items) != 1 || items[0] != calc {
		t.Errorf("history = %+v, want [%+v]", items, calc)
	}
}

func TestExecuteRejectsLargeInput(t *testing.T) {
	c := newTestCalculator(t)

	for _, in := range [][2]float64{{2e6, 1}, {1, -2e6}, {math.Inf(1), 1}} {
		if _, err := c.Execute("add", in[0], in[1]); !errors.Is(err, ErrInputTooLarge) {
			t.Errorf("Execute(%v) error = %v, want ErrInputTooLarge", in, err)
		}
	}
	if _, err := c.Execute("add", math.NaN(), 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Execute(NaN) error = %v, want ErrInvalidInput", err)
	}
	if !c.History().IsEmpty() {
		t.Error("rejected input must not reach history")
	}
}

func TestExecuteOperationErrors(t *testing.T) {
	c := newTestCalculator(t)

	if _, err := c.Execute("divide", 1, 0); !errors.Is(err, operation.ErrDivisionByZero) {
		t.Errorf("divide error = %v", err)
	}
	if _, err := c.Execute("nope", 1, 2); !errors.Is(err, operation.ErrUnknownOperation) {
		t.Errorf("unknown error = %v", err)
	}
	if !c.History().IsEmpty() {
		t.Error("failed operations must not reach history")
	}
}

func TestObserversNotifiedInOrder(t *testing.T) {
	var order []string
	first := ObserverFunc(func(calc calculation.Calculation, h *history.History) {
		order = append(order, "first:"+calc.Operation)
		if h.Size() != 1 {
			t.Errorf("observer saw size %d, want 1", h.Size())
		}
	})
	c := newTestCalculator(t, first)
	c.AddObserver(ObserverFunc(func(calc calculation.Calculation, _ *history.History) {
		order = append(order, "second:"+calc.Operation)
	}))
	c.AddObserver(nil)

	if _, err := c.Execute("multiply", 2, 4); err != nil {
		t.Fatal(err)
	}
	if strings.Join(order, ",") != "first:multiply,second:multiply" {
		t.Errorf("order = %v", order)
	}

	order = nil
	_, _ = c.Execute("divide", 1, 0)
	if len(order) != 0 {
		t.Errorf("observers notified on failure: %v", order)
	}
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c := newTestCalculator(t, NewLoggingObserver(logger))

	if _, err := c.Execute("subtract", 9, 4); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"msg=calculation", "op=subtract", "result=5", "size=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}

func TestAutoSaveObserver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auto", "h.csv")
	c := newTestCalculator(t, NewAutoSaveObserver(path, true, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	_, _ = c.Execute("add", 1, 1)
	_, _ = c.Execute("add", 2, 2)

	h, _ := history.New(10)
	if n := h.LoadFrom(path, true); n != 2 {
		t.Errorf("autosaved file holds %d records, want 2", n)
	}
}

func TestAutoSaveObserverDisabledAndFailing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "h.csv")
	c := newTestCalculator(t, NewAutoSaveObserver(path, false, nil))
	_, _ = c.Execute("add", 1, 1)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("disabled autosave wrote a file: %v", err)
	}

	blocker := filepath.Join(dir, "file")
	_ = os.WriteFile(blocker, []byte("x"), 0o644)
	var buf bytes.Buffer
	failing := NewAutoSaveObserver(filepath.Join(blocker, "h.csv"), true, slog.New(slog.NewTextHandler(&buf, nil)))
	c.AddObserver(failing)
	if _, err := c.Execute("add", 2, 2); err != nil {
		t.Fatalf("autosave failure leaked to caller: %v", err)
	}
	if !strings.Contains(buf.String(), "autosave failed") {
		t.Errorf("failure not logged: %q", buf.String())
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.MaxHistorySize = 2
	cfg.MaxInputValue = 10
	c, err := NewFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewFromConfig error: %v", err)
	}
	if c.MaxInputValue() != 10 || c.History().MaxSize() != 2 {
		t.Errorf("config not applied: max=%v cap=%d", c.MaxInputValue(), c.History().MaxSize())
	}

	cfg.MaxHistorySize = 0
	if _, err := NewFromConfig(cfg); !errors.Is(err, history.ErrInvalidCapacity) {
		t.Errorf("NewFromConfig(cap 0) error = %v", err)
	}
}

func TestExecuteRejectsInfiniteResultAndExportStaysValid(t *testing.T) {
	c := newTestCalculator(t)

	if _, err := c.Execute("divide", 1, 4); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	for _, op := range []string{"divide", "percent"} {
		if _, err := c.Execute(op, 1e6, 1e-320); !errors.Is(err, operation.ErrNotFinite) {
			t.Errorf("Execute(%s, 1e6, 1e-320) error = %v, want ErrNotFinite", op, err)
		}
	}
	if got := c.History().Size(); got != 1 {
		t.Fatalf("history size = %d, want 1", got)
	}

	data, err := c.History().ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON error: %v", err)
	}
	if bytes.Contains(data, []byte("Inf")) {
		t.Errorf("export contains a non-finite number: %s", data)
	}

	restored, err := history.New(10)
	if err != nil {
		t.Fatal(err)
	}
	n, err := restored.ImportJSON(data)
	if err != nil || n != 1 {
		t.Fatalf("ImportJSON = %d, %v; want 1, nil", n, err)
	}
	if got := restored.Items()[0].Result; got != 0.25 {
		t.Errorf("imported result = %v, want 0.25", got)
	}
}
