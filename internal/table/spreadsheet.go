package table

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SpreadsheetDecoder reads the first sheet of an Office Open XML workbook.
type SpreadsheetDecoder struct{}

// Format returns the decoder name.
func (d *SpreadsheetDecoder) Format() string { return "spreadsheet" }

// Decode returns the raw cell values of the first sheet. Leading blank rows
// are skipped so the first populated row is the header.
func (d *SpreadsheetDecoder) Decode(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	for len(rows) > 0 && blank(rows[0]) {
		rows = rows[1:]
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, s := range rec {
		if s != "" {
			return false
		}
	}
	return true
}
