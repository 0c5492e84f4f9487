package model

// RawFile is a named byte buffer handed over by a file source.
type RawFile struct {
	Name string
	Data []byte
}

// Row maps column name to cell. A column missing from the map reads as Null.
type Row map[string]Value

// Get returns the cell for col, or Null.
func (r Row) Get(col string) Value {
	v, ok := r[col]
	if !ok {
		return Null
	}
	return v
}

// Table is an ordered set of rows with a header.
type Table struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether col is part of the header.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Column returns all cells of col in row order.
func (t *Table) Column(col string) []Value {
	out := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Get(col)
	}
	return out
}
