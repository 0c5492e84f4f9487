package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/branchdash/loandash/internal/model"
)

// SummaryHeader is the CSV header for summary exports.
const SummaryHeader = "Branch,Status,total_amount,loan_count"

// WriteSummaryCSV writes summary rows with a header.
func WriteSummaryCSV(w io.Writer, rows []model.SummaryRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(SummaryHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range rows {
		rec := []string{
			r.Branch.String(),
			r.Status.String(),
			r.TotalAmount.StringFixed(2),
			strconv.Itoa(r.LoanCount),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
