package history

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/transform"

	"github.com/dshills/keycalc/internal/atomicfile"
	"github.com/dshills/keycalc/internal/engine/calculation"
)

var requiredColumns = []string{
	calculation.FieldOperation,
	calculation.FieldA,
	calculation.FieldB,
	calculation.FieldResult,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadStatus classifies the result of a Load.
type LoadStatus uint8

const (
	// LoadOK indicates the file parsed and its rows were added.
	LoadOK LoadStatus = iota
	// LoadNotFound indicates the file does not exist.
	LoadNotFound
	// LoadMalformed indicates the file could not be read or parsed.
	LoadMalformed
)

// String returns a string representation of the status.
func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadNotFound:
		return "not-found"
	case LoadMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// LoadOutcome reports what Load did. Err is set for LoadMalformed.
type LoadOutcome struct {
	Status LoadStatus
	Count  int
	Err    error
}

// Loaded returns the number of calculations added, zero unless Status is LoadOK.
func (o LoadOutcome) Loaded() int {
	if o.Status != LoadOK {
		return 0
	}
	return o.Count
}

// SaveTo writes the log to path as CSV, creating parent directories.
// Failures are returned as *PersistenceError.
func (h *History) SaveTo(path string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(calculation.Columns); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	for _, c := range h.Items() {
		if err := w.Write(c.Row()); err != nil {
			return &PersistenceError{Op: "save", Path: path, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}

	data, _, err := transform.Bytes(h.enc.NewEncoder(), buf.Bytes())
	if err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: fmt.Errorf("encode: %w", err)}
	}
	if err := atomicfile.Save(path, data, 0); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// LoadFrom reads path and returns the number of calculations added.
// Missing or malformed files yield zero and leave the log untouched.
func (h *History) LoadFrom(path string, clearExisting bool) int {
	return h.Load(path, clearExisting).Loaded()
}

// Load reads a CSV file written by SaveTo. Every row is parsed before the
// log is touched; when clearExisting is true the log is cleared first.
// Rows are re-added through Add so capacity and redo rules still apply.
func (h *History) Load(path string, clearExisting bool) LoadOutcome {
	calcs, err := h.readCSV(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadOutcome{Status: LoadNotFound, Err: err}
		}
		return LoadOutcome{Status: LoadMalformed, Err: err}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if clearExisting {
		h.done = nil
		h.undone = nil
	}
	for _, c := range calcs {
		h.addLocked(c)
	}
	return LoadOutcome{Status: LoadOK, Count: len(calcs)}
}

func (h *History) readCSV(path string) ([]Calculation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, _, err := transform.Bytes(h.enc.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrMissingColumns
	}

	header := make([]string, len(records[0]))
	present := make(map[string]bool, len(header))
	for i, name := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(name))
		present[header[i]] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumns, col)
		}
	}

	calcs := make([]Calculation, 0, len(records)-1)
	for line, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		c, err := calculation.Deserialize(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line+2, err)
		}
		if c.Operation == "" {
			return nil, fmt.Errorf("row %d: %w", line+2, ErrInvalidRecord)
		}
		calcs = append(calcs, c.WithIdentity())
	}
	return calcs, nil
}
