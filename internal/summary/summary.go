// Package summary filters loan tables by branch and status and computes the
// dashboard metrics over what remains.
package summary

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/branchdash/loandash/internal/model"
)

// ErrSchemaViolation means a mandatory loan column is absent or unusable.
var ErrSchemaViolation = errors.New("schema violation")

// Result holds everything the dashboard shows for one selection.
type Result struct {
	Filtered *model.Table
	Totals   model.Totals
	Summary  []model.SummaryRow
}

// CheckSchema verifies t carries every mandatory loan column.
func CheckSchema(t *model.Table) error {
	var missing []string
	for _, c := range model.RequiredColumns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing column(s) %s", ErrSchemaViolation, strings.Join(missing, ", "))
	}
	return nil
}

// Filter returns the rows matching sel. The input table is not modified;
// the returned table shares row values with it.
func Filter(t *model.Table, sel model.FilterSelection) *model.Table {
	out := &model.Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]model.Row, 0, len(t.Rows)),
	}
	for _, r := range t.Rows {
		if keep(r, sel) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

func keep(r model.Row, sel model.FilterSelection) bool {
	if sel.Branch != model.All && !r.Get(model.ColBranch).Matches(sel.Branch) {
		return false
	}
	if sel.Status != model.All && !r.Get(model.ColStatus).Matches(sel.Status) {
		return false
	}
	return true
}

// FilterAndSummarize applies sel to t and computes totals and the
// per-(Branch, Status) summary of the retained rows.
func FilterAndSummarize(t *model.Table, sel model.FilterSelection) (*Result, error) {
	if err := CheckSchema(t); err != nil {
		return nil, err
	}

	filtered := Filter(t, sel)

	type groupKey struct{ branch, status model.Value }
	type group struct {
		key    groupKey
		amount decimal.Decimal
		count  int
	}

	var (
		groups []*group
		index  = make(map[string]*group)
		totals = model.Totals{Amount: decimal.Zero}
	)
	for i, r := range filtered.Rows {
		amount, err := loanAmount(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		totals.Loans++
		totals.Amount = totals.Amount.Add(amount)

		b, s := r.Get(model.ColBranch), r.Get(model.ColStatus)
		id := keyString(b) + "\x00" + keyString(s)
		g, ok := index[id]
		if !ok {
			g = &group{key: groupKey{b, s}, amount: decimal.Zero}
			index[id] = g
			groups = append(groups, g)
		}
		g.count++
		g.amount = g.amount.Add(amount)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if c := groups[i].key.branch.Compare(groups[j].key.branch); c != 0 {
			return c < 0
		}
		return groups[i].key.status.Compare(groups[j].key.status) < 0
	})

	rows := make([]model.SummaryRow, len(groups))
	for i, g := range groups {
		rows[i] = model.SummaryRow{
			Branch:      g.key.branch,
			Status:      g.key.status,
			TotalAmount: g.amount,
			LoanCount:   g.count,
		}
	}

	return &Result{Filtered: filtered, Totals: totals, Summary: rows}, nil
}

// loanAmount reads Loan_Amount, treating Null as zero.
func loanAmount(r model.Row) (decimal.Decimal, error) {
	v := r.Get(model.ColLoanAmount)
	switch v.Kind {
	case model.KindNull:
		return decimal.Zero, nil
	case model.KindNumber:
		return v.Num, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a number", ErrSchemaViolation, model.ColLoanAmount, v.Text)
	}
}

// keyString identifies a value for grouping. Numbers are normalised so 1
// and 1.0 share a group; kinds are prefixed so the number 1 and the text
// "1" stay apart.
func keyString(v model.Value) string {
	switch v.Kind {
	case model.KindNumber:
		return "n:" + v.Num.String()
	case model.KindText:
		return "t:" + v.Text
	default:
		return "-"
	}
}

// Options lists the selectable branches and statuses: All, then the
// distinct non-null values in sorted order.
func Options(t *model.Table) (branches, statuses []string, err error) {
	if err := CheckSchema(t); err != nil {
		return nil, nil, err
	}
	return distinct(t, model.ColBranch), distinct(t, model.ColStatus), nil
}

func distinct(t *model.Table, col string) []string {
	seen := make(map[string]model.Value)
	for _, v := range t.Column(col) {
		if v.IsNull() {
			continue
		}
		if _, ok := seen[v.String()]; !ok {
			seen[v.String()] = v
		}
	}

	vals := make([]model.Value, 0, len(seen))
	for _, v := range seen {
		vals = append(vals, v)
	}
	sort.Slice(vals, func(i, j int) bool {
		if c := vals[i].Compare(vals[j]); c != 0 {
			return c < 0
		}
		return vals[i].String() < vals[j].String()
	})

	out := make([]string, 0, len(vals)+1)
	out = append(out, model.All)
	for _, v := range vals {
		out = append(out, v.String())
	}
	return out
}
