// Reading tab-separated raw tables.

package moveio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/juju/errors"
	"github.com/lynxkite/lynxkite/move/moveerrors"
)

// readTSV reads a table whose first row holds the feature names and whose first column holds
// the sample names.
func readTSV(path string, samples []string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to open %v: %v", path, err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("Failed to read header of %v: %v", path, err)
	}
	if len(header) < 1 {
		return nil, errors.NotValidf("empty header in %v", path)
	}
	t := &Table{Features: header[1:]}
	rowOf := make(map[string]int)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if pe, ok := err.(*csv.ParseError); ok && pe.Err == csv.ErrFieldCount {
				return nil, moveerrors.ShapeMismatch(fmt.Sprintf("fields on line %d of %v", pe.Line, path),
					len(header), len(record))
			}
			return nil, fmt.Errorf("Failed to read %v: %v", path, err)
		}
		values := record[1:]
		defined := make([]bool, len(values))
		for j, v := range values {
			defined[j] = !IsMissing(v)
		}
		rowOf[record[0]] = len(t.Values)
		t.Values = append(t.Values, values)
		t.Defined = append(t.Defined, defined)
	}
	return align(path, samples, rowOf, t)
}

// WriteTSV writes a table in the format readTSV reads.
func WriteTSV(path string, t *Table, samples []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Failed to create %v: %v", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := w.Write(append([]string{""}, t.Features...)); err != nil {
		return fmt.Errorf("Failed to write %v: %v", path, err)
	}
	for i, s := range samples {
		record := make([]string, 0, len(t.Features)+1)
		record = append(record, s)
		for j, v := range t.Values[i] {
			if !t.Defined[i][j] {
				v = "NA"
			}
			record = append(record, v)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("Failed to write %v: %v", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("Failed to write %v: %v", path, err)
	}
	return f.Close()
}
