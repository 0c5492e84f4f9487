package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/branchdash/loandash/internal/model"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Faint(true)
	metricStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Render draws v as a terminal dashboard: headline metrics, the summary
// table and, when requested, the filtered rows.
func Render(w io.Writer, v View) error {
	sections := []string{
		titleStyle.Render(v.Title),
		fmt.Sprintf("%s %s   %s %s   %s %s",
			labelStyle.Render("File:"), v.File,
			labelStyle.Render("Branch:"), v.Selection.Branch,
			labelStyle.Render("Status:"), v.Selection.Status),
		fmt.Sprintf("%s %s   %s %s",
			labelStyle.Render("Total Loans:"), metricStyle.Render(strconv.Itoa(v.Result.Totals.Loans)),
			labelStyle.Render("Total Amount:"), metricStyle.Render(v.Result.Totals.Amount.StringFixed(2))),
		"",
		summaryTable(v.Result.Summary),
	}

	if rows := visibleRows(v); len(rows) > 0 {
		sections = append(sections, "", rowsTable(v.Result.Filtered.Columns, rows))
		if shown, total := len(rows), v.Result.Filtered.Len(); shown < total {
			sections = append(sections, labelStyle.Render(fmt.Sprintf("showing %d of %d rows", shown, total)))
		}
	}

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}

func summaryTable(rows []model.SummaryRow) string {
	t := newTable("Branch", "Status", "Total Amount", "Loan Count")
	for _, r := range rows {
		t.Row(display(r.Branch), display(r.Status), r.TotalAmount.StringFixed(2), strconv.Itoa(r.LoanCount))
	}
	return t.Render()
}

func rowsTable(columns []string, rows []model.Row) string {
	t := newTable(columns...)
	for _, r := range rows {
		cells := make([]string, len(columns))
		for i, c := range columns {
			cells[i] = display(r.Get(c))
		}
		t.Row(cells...)
	}
	return t.Render()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// display renders a cell for humans; Null shows as a dash.
func display(v model.Value) string {
	if v.IsNull() {
		return "-"
	}
	return v.String()
}
