package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
	"golang.org/x/text/encoding/charmap"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "h.csv")

	h := newTestHistory(t, 10)
	_ = h.Add(calc("add", 1, 2, 3))
	_ = h.Add(calc("multiply", 2.5, 3, 7.5))
	want := h.Items()

	if err := h.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	firstLine := strings.SplitN(string(data), "\n", 2)[0]
	if firstLine != "id,operation,a,b,result,timestamp" {
		t.Errorf("header = %q", firstLine)
	}

	h2 := newTestHistory(t, 10)
	if n := h2.LoadFrom(path, true); n != 2 {
		t.Fatalf("LoadFrom = %d, want 2", n)
	}
	got := h2.Items()
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Operation != want[i].Operation ||
			got[i].A != want[i].A || got[i].B != want[i].B || got[i].Result != want[i].Result {
			t.Errorf("item %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	h := newTestHistory(t, 10)
	_ = h.Add(calc("add", 1, 2, 3))

	out := h.Load(filepath.Join(t.TempDir(), "missing.csv"), true)
	if out.Status != LoadNotFound || out.Loaded() != 0 {
		t.Errorf("outcome = %+v, want not-found", out)
	}
	if h.Size() != 1 {
		t.Errorf("existing history changed: size=%d", h.Size())
	}
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing columns", "not,valid,columns\n1,2,3\n"},
		{"empty file", ""},
		{"bad number", "id,operation,a,b,result,timestamp\nx,add,one,2,3,\n"},
		{"ragged rows", "id,operation,a,b,result,timestamp\nx,add,1,2\n"},
		{"empty operation", "operation,a,b,result\n,1,2,3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.csv")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			h := newTestHistory(t, 10)
			_ = h.Add(calc("add", 1, 2, 3))

			out := h.Load(path, true)
			if out.Status != LoadMalformed || out.Err == nil {
				t.Errorf("outcome = %+v, want malformed", out)
			}
			if h.LoadFrom(path, true) != 0 {
				t.Error("LoadFrom should report 0")
			}
			if h.Size() != 1 {
				t.Errorf("existing history changed: size=%d", h.Size())
			}
		})
	}
}

func TestLoadReadFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dir.csv")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	h := newTestHistory(t, 10)
	if out := h.Load(dir, true); out.Status != LoadMalformed {
		t.Errorf("outcome = %+v, want malformed", out)
	}
}

func TestLoadWithoutIdentityColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.csv")
	content := "operation,a,b,result\nadd,1,2,3\nsubtract,5,3,2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	h := newTestHistory(t, 10)
	if n := h.LoadFrom(path, true); n != 2 {
		t.Fatalf("LoadFrom = %d, want 2", n)
	}
	for _, c := range h.Items() {
		if !c.Stamped() {
			t.Errorf("loaded record not stamped: %+v", c)
		}
	}
}

func TestLoadAppendRespectsCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.csv")
	src := newTestHistory(t, 10)
	_ = src.Add(calc("c", 0, 0, 0))
	_ = src.Add(calc("d", 0, 0, 0))
	if err := src.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	h := newTestHistory(t, 3)
	_ = h.Add(calc("a", 0, 0, 0))
	_ = h.Add(calc("b", 0, 0, 0))
	_, _ = h.Undo()
	_ = h.Add(calc("b", 0, 0, 0))

	if n := h.LoadFrom(path, false); n != 2 {
		t.Fatalf("LoadFrom = %d, want 2", n)
	}
	if got := ops(h.Items()); !equalStrings(got, []string{"b", "c", "d"}) {
		t.Errorf("Items = %v, want [b c d]", got)
	}
}

func TestSaveFailureIsPersistenceError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(blocker, "h.csv")

	h := newTestHistory(t, 10)
	_ = h.Add(calc("add", 1, 2, 3))
	err := h.SaveTo(target)

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("SaveTo error = %v, want *PersistenceError", err)
	}
	if perr.Path != target || perr.Err == nil {
		t.Errorf("PersistenceError = %+v", perr)
	}
}

func TestSaveLoadWithEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.csv")
	h, err := New(10, WithEncoding(charmap.ISO8859_1))
	if err != nil {
		t.Fatal(err)
	}
	_ = h.Add(calc("café", 1, 2, 3))
	if err := h.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "caf\xe9") {
		t.Errorf("file not latin-1 encoded: %q", raw)
	}

	h2, _ := New(10, WithEncoding(charmap.ISO8859_1))
	if n := h2.LoadFrom(path, true); n != 1 {
		t.Fatalf("LoadFrom = %d, want 1", n)
	}
	if op := h2.Items()[0].Operation; op != "café" {
		t.Errorf("Operation = %q, want café", op)
	}
}

func TestExportImportJSON(t *testing.T) {
	h := newTestHistory(t, 10)
	_ = h.Add(calc("add", 1, 2, 3))
	_ = h.Add(calc("divide", 1, 4, 0.25))

	path := filepath.Join(t.TempDir(), "out", "h.json")
	n, err := h.ExportTo(path)
	if err != nil {
		t.Fatalf("ExportTo error: %v", err)
	}
	if n != 2 {
		t.Errorf("exported %d, want 2", n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := gjson.GetBytes(data, "1.operation").String(); got != "divide" {
		t.Errorf("1.operation = %q", got)
	}
	if got := gjson.GetBytes(data, "1.result").Float(); got != 0.25 {
		t.Errorf("1.result = %v", got)
	}

	h2 := newTestHistory(t, 10)
	n, err = h2.ImportFrom(path)
	if err != nil {
		t.Fatalf("ImportFrom error: %v", err)
	}
	if n != 2 || h2.Items()[0].ID != h.Items()[0].ID {
		t.Errorf("imported %d items: %+v", n, h2.Items())
	}
}

func TestImportJSONMalformed(t *testing.T) {
	h := newTestHistory(t, 10)
	inputs := []string{
		`not json`,
		`{"operation":"add"}`,
		`[{"operation":"add","a":1,"b":2}]`,
		`[{"operation":"","a":1,"b":2,"result":3}]`,
	}
	for _, in := range inputs {
		if _, err := h.ImportJSON([]byte(in)); err == nil {
			t.Errorf("ImportJSON(%s) expected error", in)
		}
	}
	if !h.IsEmpty() {
		t.Error("failed imports must not add records")
	}
	if _, err := h.ImportFrom(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("ImportFrom missing file expected error")
	}
}
