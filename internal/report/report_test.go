package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchdash/loandash/internal/model"
	"github.com/branchdash/loandash/internal/summary"
)

func sampleView(t *testing.T, maxRows int) View {
	t.Helper()
	tbl := &model.Table{
		Columns: model.RequiredColumns,
		Rows: []model.Row{
			{model.ColBranch: model.TextValue("A"), model.ColStatus: model.TextValue("Approved"), model.ColLoanAmount: model.IntValue(100), model.ColLoanID: model.IntValue(1)},
			{model.ColBranch: model.TextValue("A"), model.ColStatus: model.TextValue("Pending"), model.ColLoanAmount: model.Null, model.ColLoanID: model.IntValue(2)},
			{model.ColBranch: model.TextValue("B"), model.ColStatus: model.TextValue("Approved"), model.ColLoanAmount: model.IntValue(200), model.ColLoanID: model.IntValue(3)},
		},
	}
	sel := model.FilterSelection{Branch: "A", Status: model.All}
	res, err := summary.FilterAndSummarize(tbl, sel)
	require.NoError(t, err)
	return View{Title: "Branchwise Loan Dashboard", File: "loans.csv", Selection: sel, Result: res, MaxRows: maxRows}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleView(t, 0)))
	out := buf.String()

	assert.Contains(t, out, "Branchwise Loan Dashboard")
	assert.Contains(t, out, "loans.csv")
	assert.Contains(t, out, "100.00")
	assert.Contains(t, out, "Pending")
	assert.NotContains(t, out, "Loan_ID", "rows are hidden by default")
}

func TestRender_Rows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleView(t, 1)))
	out := buf.String()

	assert.Contains(t, out, "Loan_ID")
	assert.Contains(t, out, "showing 1 of 2 rows")
}

func TestWriteSummaryCSV(t *testing.T) {
	v := sampleView(t, 0)

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, v.Result.Summary))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		SummaryHeader,
		"A,Approved,100.00,1",
		"A,Pending,0.00,1",
	}, lines)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleView(t, -1)))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "A", got["branch"])
	assert.Equal(t, float64(2), got["total_loans"])
	assert.Equal(t, "100.00", got["total_amount"])

	sum, ok := got["summary"].([]any)
	require.True(t, ok)
	require.Len(t, sum, 2)
	first := sum[0].(map[string]any)
	assert.Equal(t, "Approved", first["status"])
	assert.Equal(t, float64(1), first["loan_count"])

	rows, ok := got["rows"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[1].(map[string]any)[model.ColLoanAmount])
}

func TestNewPayload_HidesRows(t *testing.T) {
	p := NewPayload(sampleView(t, 0))
	assert.Empty(t, p.Rows)
	assert.Empty(t, p.Columns)
}
