package shared

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// WriteCSV renders a header row plus data rows as a CSV document. Every data
// row must have the same width as the header.
func WriteCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("csv: row %d has %d columns, want %d", i, len(row), len(header))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
