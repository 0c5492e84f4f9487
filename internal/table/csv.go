package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/branchdash/loandash/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVDecoder reads comma-delimited text.
type CSVDecoder struct{}

// Format returns the decoder name.
func (d *CSVDecoder) Format() string { return "csv" }

// Decode reads all records. Rows may be shorter than the header; rows
// longer than the header are rejected.
func (d *CSVDecoder) Decode(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	width := len(records[0])
	for i, rec := range records[1:] {
		if len(rec) > width {
			return nil, fmt.Errorf("row %d: expected at most %d fields, got %d", i+2, width, len(rec))
		}
	}
	return records, nil
}

// WriteCSV writes t as comma-delimited text, header first. Null cells are
// written as empty fields.
func WriteCSV(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range t.Rows {
		rec := MarshalRow(t.Columns, row)
		if len(rec) == 1 && rec[0] == "" {
			// A bare empty line is skipped on read; quote it so the row survives.
			cw.Flush()
			if err := cw.Error(); err != nil {
				return fmt.Errorf("writing row %d: %w", i+2, err)
			}
			if _, err := io.WriteString(w, "\"\"\n"); err != nil {
				return fmt.Errorf("writing row %d: %w", i+2, err)
			}
			continue
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalRow converts a row to CSV fields in column order.
func MarshalRow(columns []string, row model.Row) []string {
	rec := make([]string, len(columns))
	for i, c := range columns {
		rec[i] = row.Get(c).String()
	}
	return rec
}
