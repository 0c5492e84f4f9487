// Package combine selects one loan file or unions all of them into a
// single table.
package combine

import (
	"errors"
	"fmt"

	"github.com/branchdash/loandash/internal/model"
	"github.com/branchdash/loandash/internal/table"
)

// Combined selects every file.
const Combined = "All Files (Combined)"

var (
	// ErrEmptyInput means Combined was requested over zero files.
	ErrEmptyInput = errors.New("no files to combine")
	// ErrFileNotFound means no file name equals the selection.
	ErrFileNotFound = errors.New("file not found")
)

// Parser turns a raw file into a table.
type Parser interface {
	Parse(raw model.RawFile) (*model.Table, error)
}

// Aggregate parses files with the default table registry.
func Aggregate(files []model.RawFile, selection string) (*model.Table, error) {
	return AggregateWith(table.DefaultRegistry(), files, selection)
}

// AggregateWith returns the table for selection: the union of every file in
// order when selection is Combined, otherwise the one file whose name
// matches exactly. Any parse failure aborts the whole call.
func AggregateWith(p Parser, files []model.RawFile, selection string) (*model.Table, error) {
	if selection == Combined {
		if len(files) == 0 {
			return nil, ErrEmptyInput
		}
		tables := make([]*model.Table, len(files))
		for i, f := range files {
			t, err := p.Parse(f)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", f.Name, err)
			}
			tables[i] = t
		}
		return Union(tables...), nil
	}

	for _, f := range files {
		if f.Name != selection {
			continue
		}
		t, err := p.Parse(f)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f.Name, err)
		}
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrFileNotFound, selection)
}

// Union concatenates tables row-wise. The header is the union of all
// columns in first-seen order; a row lacking a column reads it as Null.
func Union(tables ...*model.Table) *model.Table {
	out := &model.Table{}
	seen := make(map[string]bool)
	total := 0
	for _, t := range tables {
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				out.Columns = append(out.Columns, c)
			}
		}
		total += t.Len()
	}

	out.Rows = make([]model.Row, 0, total)
	for _, t := range tables {
		for _, r := range t.Rows {
			row := make(model.Row, len(out.Columns))
			for _, c := range out.Columns {
				row[c] = r.Get(c)
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
