package model

import "github.com/shopspring/decimal"

// Loan columns every table must carry for filtering and summaries.
const (
	ColBranch     = "Branch"
	ColStatus     = "Status"
	ColLoanAmount = "Loan_Amount"
	ColLoanID     = "Loan_ID"
)

// RequiredColumns lists the mandatory loan columns.
var RequiredColumns = []string{ColBranch, ColStatus, ColLoanAmount, ColLoanID}

// All disables a branch or status filter.
const All = "All"

// FilterSelection picks a branch and a status; either may be All.
type FilterSelection struct {
	Branch string
	Status string
}

// SelectAll returns the unfiltered selection.
func SelectAll() FilterSelection {
	return FilterSelection{Branch: All, Status: All}
}

// Totals are the headline metrics over a filtered table.
type Totals struct {
	Loans  int
	Amount decimal.Decimal
}

// SummaryRow aggregates one (Branch, Status) pair.
type SummaryRow struct {
	Branch      Value
	Status      Value
	TotalAmount decimal.Decimal
	LoanCount   int
}
