package combine

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/branchdash/loandash/internal/model"
	"github.com/branchdash/loandash/internal/table"
)

func testdata(t *testing.T, name string) model.RawFile {
	t.Helper()
	data, err := os.ReadFile("../../testdata/" + name)
	require.NoError(t, err)
	return model.RawFile{Name: name, Data: data}
}

func TestAggregate_Combined(t *testing.T) {
	north := testdata(t, "loans_north.csv")
	south := testdata(t, "loans_south.csv")

	got, err := Aggregate([]model.RawFile{north, south}, Combined)
	require.NoError(t, err)

	n, err := table.Parse(north)
	require.NoError(t, err)
	s, err := table.Parse(south)
	require.NoError(t, err)
	assert.Equal(t, n.Len()+s.Len(), got.Len())

	// First file's rows come first.
	assert.Equal(t, "1001", got.Rows[0].Get(model.ColLoanID).String())
	assert.Equal(t, "2001", got.Rows[n.Len()].Get(model.ColLoanID).String())
}

func TestAggregate_CombinedColumnUnion(t *testing.T) {
	north := testdata(t, "loans_north.csv")
	south := testdata(t, "loans_south.csv")

	got, err := Aggregate([]model.RawFile{north, south}, Combined)
	require.NoError(t, err)

	assert.Equal(t, []string{"Loan_ID", "Branch", "Status", "Loan_Amount", "Customer", "Officer"}, got.Columns)

	// North rows have no Officer; south rows have no Customer.
	assert.True(t, got.Rows[0].Get("Officer").IsNull())
	assert.Equal(t, "Asha Rao", got.Rows[0].Get("Customer").String())
	last := got.Rows[got.Len()-1]
	assert.True(t, last.Get("Customer").IsNull())
	assert.Equal(t, "P. Roy", last.Get("Officer").String())
}

func TestAggregate_EmptyInput(t *testing.T) {
	got, err := Aggregate(nil, Combined)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Nil(t, got)
}

func TestAggregate_Named(t *testing.T) {
	files := []model.RawFile{testdata(t, "loans_north.csv"), testdata(t, "loans_south.csv")}

	got, err := Aggregate(files, "loans_south.csv")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Len())
	assert.Equal(t, "2001", got.Rows[0].Get(model.ColLoanID).String())
}

func TestAggregate_NamedIsExactMatch(t *testing.T) {
	files := []model.RawFile{testdata(t, "loans_north.csv")}

	for _, name := range []string{"LOANS_NORTH.CSV", "loans_north", "loans_north.csv "} {
		_, err := Aggregate(files, name)
		require.Error(t, err, name)
		assert.ErrorIs(t, err, ErrFileNotFound, name)
	}
}

func TestAggregate_NamedOnlyParsesSelection(t *testing.T) {
	files := []model.RawFile{
		{Name: "broken.xlsx", Data: []byte("not a workbook")},
		testdata(t, "loans_north.csv"),
	}

	got, err := Aggregate(files, "loans_north.csv")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Len())
}

func TestAggregate_CombinedAbortsOnParseError(t *testing.T) {
	files := []model.RawFile{
		testdata(t, "loans_north.csv"),
		{Name: "broken.xlsx", Data: []byte("not a workbook")},
	}

	got, err := Aggregate(files, Combined)
	require.Error(t, err)
	assert.ErrorIs(t, err, table.ErrCorruptData)
	assert.Contains(t, err.Error(), "broken.xlsx")
	assert.Nil(t, got, "no partial table on failure")
}

func TestAggregateWith_CustomParser(t *testing.T) {
	strict := table.NewRegistry()
	strict.Register(".csv", &table.CSVDecoder{})

	_, err := AggregateWith(strict, []model.RawFile{{Name: "a.xlsx"}}, Combined)
	require.Error(t, err)
	assert.ErrorIs(t, err, table.ErrUnsupportedFormat)
}

func TestUnion_DoesNotAliasInputs(t *testing.T) {
	a := &model.Table{
		Columns: []string{"X"},
		Rows:    []model.Row{{"X": model.IntValue(1)}},
	}
	b := &model.Table{
		Columns: []string{"Y"},
		Rows:    []model.Row{{"Y": model.IntValue(2)}},
	}

	u := Union(a, b)
	require.Equal(t, 2, u.Len())
	assert.Equal(t, []string{"X", "Y"}, u.Columns)

	u.Rows[0]["X"] = model.TextValue("changed")
	assert.Equal(t, "1", a.Rows[0].Get("X").String())
	_, hasY := a.Rows[0]["Y"]
	assert.False(t, hasY)
}
