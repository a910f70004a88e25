package history

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/keycalc/internal/atomicfile"
	"github.com/dshills/keycalc/internal/engine/calculation"
)

// ExportJSON encodes the log as a JSON array of flat records.
func (h *History) ExportJSON() ([]byte, error) {
	out := []byte("[]")
	for _, c := range h.Items() {
		s := c.WithIdentity()
		obj := []byte("{}")
		fields := []struct {
			key string
			val any
		}{
			{calculation.FieldID, s.ID},
			{calculation.FieldOperation, s.Operation},
			{calculation.FieldA, s.A},
			{calculation.FieldB, s.B},
			{calculation.FieldResult, s.Result},
			{calculation.FieldTimestamp, s.Timestamp},
		}
		var err error
		for _, f := range fields {
			if obj, err = sjson.SetBytes(obj, f.key, f.val); err != nil {
				return nil, fmt.Errorf("encode %s: %w", f.key, err)
			}
		}
		if out, err = sjson.SetRawBytes(out, "-1", obj); err != nil {
			return nil, fmt.Errorf("append record: %w", err)
		}
	}
	return out, nil
}

// ExportTo writes ExportJSON output to path.
func (h *History) ExportTo(path string) (int, error) {
	data, err := h.ExportJSON()
	if err != nil {
		return 0, &PersistenceError{Op: "export", Path: path, Err: err}
	}
	if err := atomicfile.Save(path, data, 0); err != nil {
		return 0, &PersistenceError{Op: "export", Path: path, Err: err}
	}
	return int(gjson.GetBytes(data, "#").Int()), nil
}

// ImportJSON appends the records of a JSON array produced by ExportJSON.
// Nothing is added unless every record parses.
func (h *History) ImportJSON(data []byte) (int, error) {
	if !gjson.ValidBytes(data) {
		return 0, ErrMalformedJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return 0, fmt.Errorf("%w: top level is not an array", ErrMalformedJSON)
	}

	var (
		calcs []Calculation
		err   error
		index int
	)
	root.ForEach(func(_, value gjson.Result) bool {
		row := make(map[string]string, len(calculation.Columns))
		for _, col := range calculation.Columns {
			if v := value.Get(col); v.Exists() {
				row[col] = v.String()
			}
		}
		var c Calculation
		if c, err = calculation.Deserialize(row); err != nil {
			err = fmt.Errorf("%w: record %d: %v", ErrMalformedJSON, index, err)
			return false
		}
		if c.Operation == "" {
			err = fmt.Errorf("record %d: %w", index, ErrInvalidRecord)
			return false
		}
		calcs = append(calcs, c)
		index++
		return true
	})
	if err != nil {
		return 0, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range calcs {
		h.addLocked(c)
	}
	return len(calcs), nil
}

// ImportFrom reads path and passes its contents to ImportJSON.
func (h *History) ImportFrom(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, &PersistenceError{Op: "import", Path: path, Err: err}
	}
	return h.ImportJSON(data)
}
