package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/branchdash/loandash/internal/model"
)

// naTokens are read as missing values, matching what spreadsheet users
// typically type for "no data".
var naTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"#N/A": true,
	"NaN":  true,
	"nan":  true,
	"NULL": true,
	"null": true,
	"None": true,
	"<NA>": true,
}

// build turns raw records into a typed table. The first record is the
// header; every later record is a row.
func build(records [][]string) (*model.Table, error) {
	if len(records) == 0 {
		return nil, errors.New("no header row")
	}

	width := 0
	for _, rec := range records {
		width = max(width, len(rec))
	}
	columns := headerNames(records[0], width)

	body := records[1:]
	kinds := make([]model.Kind, width)
	for c := range width {
		kinds[c] = inferKind(body, c)
	}

	rows := make([]model.Row, len(body))
	for i, rec := range body {
		row := make(model.Row, width)
		for c := range width {
			v, err := cell(rec, c, kinds[c])
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", i+2, columns[c], err)
			}
			row[columns[c]] = v
		}
		rows[i] = row
	}

	return &model.Table{Columns: columns, Rows: rows}, nil
}

// headerNames fills blank header cells with "Unnamed: N" and suffixes
// duplicates with ".1", ".2", ... so every column name is unique.
func headerNames(header []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := range width {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if seen[name] > 0 {
			base := name
			for n := seen[base]; ; n++ {
				candidate := fmt.Sprintf("%s.%d", base, n)
				if seen[candidate] == 0 {
					name = candidate
					break
				}
			}
			seen[base]++
		}
		seen[name]++
		names[i] = name
	}
	return names
}

// inferKind returns KindNumber when every present cell in column c parses
// as a number, KindText otherwise. An all-missing column is KindNull.
func inferKind(body [][]string, c int) model.Kind {
	kind := model.KindNull
	for _, rec := range body {
		if c >= len(rec) || naTokens[rec[c]] {
			continue
		}
		if _, err := decimal.NewFromString(strings.TrimSpace(rec[c])); err != nil {
			return model.KindText
		}
		kind = model.KindNumber
	}
	return kind
}

func cell(rec []string, c int, kind model.Kind) (model.Value, error) {
	if c >= len(rec) || naTokens[rec[c]] {
		return model.Null, nil
	}
	s := rec[c]
	switch kind {
	case model.KindNumber:
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return model.Null, fmt.Errorf("parsing number %q: %w", s, err)
		}
		return model.NumberValue(d), nil
	default:
		return model.TextValue(s), nil
	}
}
