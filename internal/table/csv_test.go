package table

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchdash/loandash/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func csvFile(name, content string) model.RawFile {
	return model.RawFile{Name: name, Data: []byte(content)}
}

func TestParseCSV(t *testing.T) {
	raw := csvFile("loans.csv", "Loan_ID,Branch,Status,Loan_Amount\n1,A,Approved,100\n2,A,Pending,50.25\n")

	tbl, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"Loan_ID", "Branch", "Status", "Loan_Amount"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())

	first := tbl.Rows[0]
	assert.True(t, model.IntValue(1).Equal(first.Get("Loan_ID")))
	assert.Equal(t, model.TextValue("A"), first.Get("Branch"))
	assert.Equal(t, model.TextValue("Approved"), first.Get("Status"))
	assert.True(t, tbl.Rows[1].Get("Loan_Amount").Num.Equal(dec("50.25")))
}

func TestParseCSV_TypeInferencePerColumn(t *testing.T) {
	// Branch codes are numeric-looking in every row; Ref has one text value.
	raw := csvFile("codes.csv", "Branch,Ref\n101,7\n102,X9\n")

	tbl, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, model.KindNumber, tbl.Rows[0].Get("Branch").Kind)
	assert.Equal(t, model.KindText, tbl.Rows[0].Get("Ref").Kind, "mixed column stays text")
	assert.Equal(t, "7", tbl.Rows[0].Get("Ref").String())
}

func TestParseCSV_MissingValues(t *testing.T) {
	raw := csvFile("gaps.csv", "Loan_ID,Loan_Amount,Status\n1,,Approved\n2,NA,\n3,30\n")

	tbl, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())

	assert.True(t, tbl.Rows[0].Get("Loan_Amount").IsNull())
	assert.True(t, tbl.Rows[1].Get("Loan_Amount").IsNull())
	assert.True(t, tbl.Rows[1].Get("Status").IsNull())
	assert.True(t, tbl.Rows[2].Get("Status").IsNull(), "short row is padded with nulls")
	assert.Equal(t, model.KindNumber, tbl.Rows[2].Get("Loan_Amount").Kind)
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	tbl, err := Parse(csvFile("empty.csv", "Loan_ID,Branch\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Loan_ID", "Branch"}, tbl.Columns)
	assert.Equal(t, 0, tbl.Len())
}

func TestParseCSV_NoContent(t *testing.T) {
	_, err := Parse(csvFile("blank.csv", ""))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestParseCSV_TooManyFields(t *testing.T) {
	_, err := Parse(csvFile("wide.csv", "A,B\n1,2,3\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptData)
	assert.Contains(t, err.Error(), "row 2")
}

func TestParseCSV_BadQuoting(t *testing.T) {
	_, err := Parse(csvFile("bad.csv", "A,B\n\"unterminated,2\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptData)
}

func TestParseCSV_ByteOrderMark(t *testing.T) {
	raw := csvFile("bom.csv", "\xEF\xBB\xBFLoan_ID,Branch\n1,A\n")
	tbl, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Loan_ID", tbl.Columns[0])
}

func TestParseCSV_HeaderNames(t *testing.T) {
	tbl, err := Parse(csvFile("dupes.csv", "A,,A,A\n1,2,3,4\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "Unnamed: 1", "A.1", "A.2"}, tbl.Columns)
	assert.Equal(t, "4", tbl.Rows[0].Get("A.2").String())
}

func TestParseCSV_UppercaseExtension(t *testing.T) {
	tbl, err := Parse(csvFile("LOANS.CSV", "Loan_ID\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	data, err := os.ReadFile("../../testdata/loans_north.csv")
	require.NoError(t, err)

	orig, err := Parse(model.RawFile{Name: "loans_north.csv", Data: data})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, orig))

	got, err := Parse(model.RawFile{Name: "copy.csv", Data: buf.Bytes()})
	require.NoError(t, err)

	assert.Equal(t, orig.Columns, got.Columns)
	require.Equal(t, orig.Len(), got.Len())
	for i := range orig.Rows {
		for _, c := range orig.Columns {
			assert.True(t, orig.Rows[i].Get(c).Equal(got.Rows[i].Get(c)), "row %d column %s", i, c)
		}
	}
}

func TestWriteCSV_RoundTripSingleColumnNull(t *testing.T) {
	orig, err := Parse(csvFile("notes.csv", "Note\nx\nNA\ny\n"))
	require.NoError(t, err)
	require.Equal(t, 3, orig.Len())

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, orig))
	assert.Equal(t, "Note\nx\n\"\"\ny\n", buf.String())

	got, err := Parse(csvFile("copy.csv", buf.String()))
	require.NoError(t, err)
	require.Equal(t, 3, got.Len())
	assert.True(t, got.Rows[1].Get("Note").IsNull())
	assert.Equal(t, "y", got.Rows[2].Get("Note").String())
}

func TestWriteCSV_SpecialCharacters(t *testing.T) {
	tbl := &model.Table{
		Columns: []string{"Customer", "Loan_Amount"},
		Rows: []model.Row{
			{"Customer": model.TextValue(`Shah, "Vikram"`), "Loan_Amount": model.Null},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))
	assert.True(t, strings.HasPrefix(buf.String(), "Customer,Loan_Amount\n"))

	got, err := Parse(model.RawFile{Name: "x.csv", Data: buf.Bytes()})
	require.NoError(t, err)
	assert.Equal(t, `Shah, "Vikram"`, got.Rows[0].Get("Customer").Text)
	assert.True(t, got.Rows[0].Get("Loan_Amount").IsNull())
}

func TestReadTestdata(t *testing.T) {
	data, err := os.ReadFile("../../testdata/loans_north.csv")
	require.NoError(t, err)

	tbl, err := Parse(model.RawFile{Name: "loans_north.csv", Data: data})
	require.NoError(t, err)
	require.Equal(t, 5, tbl.Len())

	for _, col := range model.RequiredColumns {
		assert.True(t, tbl.HasColumn(col), "missing %s", col)
	}
	assert.True(t, tbl.Rows[3].Get(model.ColLoanAmount).IsNull(), "loan 1004 has no amount")
}
