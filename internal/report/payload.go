// Package report turns summary results into terminal, CSV and JSON output.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/branchdash/loandash/internal/model"
	"github.com/branchdash/loandash/internal/summary"
)

// View is one rendered dashboard state.
type View struct {
	Title     string
	File      string
	Selection model.FilterSelection
	Result    *summary.Result
	// MaxRows caps the filtered rows shown; 0 hides them, negative shows all.
	MaxRows int
}

// Payload is the JSON shape of a View.
type Payload struct {
	Title       string        `json:"title"`
	File        string        `json:"file"`
	Branch      string        `json:"branch"`
	Status      string        `json:"status"`
	TotalLoans  int           `json:"total_loans"`
	TotalAmount string        `json:"total_amount"`
	Summary     []SummaryItem `json:"summary"`
	Columns     []string      `json:"columns,omitempty"`
	Rows        []model.Row   `json:"rows,omitempty"`
}

// SummaryItem is the JSON shape of a SummaryRow.
type SummaryItem struct {
	Branch      model.Value `json:"branch"`
	Status      model.Value `json:"status"`
	TotalAmount string      `json:"total_amount"`
	LoanCount   int         `json:"loan_count"`
}

// NewPayload flattens v for JSON encoding. Amounts are fixed to two places.
func NewPayload(v View) Payload {
	p := Payload{
		Title:       v.Title,
		File:        v.File,
		Branch:      v.Selection.Branch,
		Status:      v.Selection.Status,
		TotalLoans:  v.Result.Totals.Loans,
		TotalAmount: v.Result.Totals.Amount.StringFixed(2),
		Summary:     make([]SummaryItem, len(v.Result.Summary)),
	}
	for i, r := range v.Result.Summary {
		p.Summary[i] = SummaryItem{
			Branch:      r.Branch,
			Status:      r.Status,
			TotalAmount: r.TotalAmount.StringFixed(2),
			LoanCount:   r.LoanCount,
		}
	}
	if rows := visibleRows(v); len(rows) > 0 {
		p.Columns = v.Result.Filtered.Columns
		p.Rows = rows
	}
	return p
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewPayload(v)); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func visibleRows(v View) []model.Row {
	rows := v.Result.Filtered.Rows
	switch {
	case v.MaxRows == 0:
		return nil
	case v.MaxRows > 0 && len(rows) > v.MaxRows:
		return rows[:v.MaxRows]
	default:
		return rows
	}
}
