package table

import (
	"fmt"
	"strings"
)

// Table is an ordered set of uniquely named columns of equal length.
// Tables are never modified once built, every operation returns a new one.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a table, column names must be unique and lengths equal
func New(columns ...*Column) (*Table, error) {
	t := &Table{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if c == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if _, dup := t.index[c.name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", c.name, c.Len(), t.rows)
		}
		t.index[c.name] = i
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	return t.rows
}

// Width returns the number of columns
func (t *Table) Width() int {
	return len(t.columns)
}

func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

func (t *Table) ColumnAt(i int) *Column {
	return t.columns[i]
}

// Index returns the position of a column or -1
func (t *Table) Index(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Row returns the values of row i in column order
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.values[i]
	}
	return row
}

// RenameColumns applies fn to every column name
func (t *Table) RenameColumns(fn func(string) string) (*Table, error) {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.Rename(fn(c.name))
	}
	return New(cols...)
}

// Rename renames the columns present in mapping, others are kept as they are
func (t *Table) Rename(mapping map[string]string) (*Table, error) {
	return t.RenameColumns(func(name string) string {
		if to, ok := mapping[name]; ok {
			return to
		}
		return name
	})
}

// SelectRows returns the given rows in the given order
func (t *Table) SelectRows(rows []int) *Table {
	cols := make([]*Column, len(t.columns))
	for j, c := range t.columns {
		vs := make([]Value, len(rows))
		for k, r := range rows {
			vs[k] = c.values[r]
		}
		cols[j] = &Column{name: c.name, kind: c.kind, values: vs}
	}
	return &Table{columns: cols, index: t.copyIndex(), rows: len(rows)}
}

// WithColumns appends columns on the right
func (t *Table) WithColumns(cols ...*Column) (*Table, error) {
	all := make([]*Column, 0, len(t.columns)+len(cols))
	all = append(all, t.columns...)
	all = append(all, cols...)
	return New(all...)
}

// InsertColumn places col at position pos, pos is clamped to the table width
func (t *Table) InsertColumn(pos int, col *Column) (*Table, error) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(t.columns) {
		pos = len(t.columns)
	}
	all := make([]*Column, 0, len(t.columns)+1)
	all = append(all, t.columns[:pos]...)
	all = append(all, col)
	all = append(all, t.columns[pos:]...)
	return New(all...)
}

// ReplaceColumn swaps the column with the same name for col
func (t *Table) ReplaceColumn(col *Column) (*Table, error) {
	i, ok := t.index[col.name]
	if !ok {
		return nil, fmt.Errorf("no column named %q", col.name)
	}
	all := t.Columns()
	all[i] = col
	return New(all...)
}

// Concat stacks tables row-wise. Column names must match in order and
// kinds must unify, see UnifyKinds.
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return New()
	}
	first := tables[0]
	header := strings.Join(first.ColumnNames(), "\x00")
	total := 0
	for n, t := range tables {
		if strings.Join(t.ColumnNames(), "\x00") != header {
			return nil, fmt.Errorf("table %d columns differ from table 0", n)
		}
		total += t.rows
	}

	kinds := make([]Kind, first.Width())
	for j := range first.columns {
		k, err := unifyColumn(tables, j)
		if err != nil {
			return nil, err
		}
		kinds[j] = k
	}

	cols := make([]*Column, first.Width())
	for j, c := range first.columns {
		vs := make([]Value, 0, total)
		for _, t := range tables {
			vs = append(vs, t.columns[j].values...)
		}
		cols[j] = &Column{name: c.name, kind: kinds[j], values: vs}
	}
	return New(cols...)
}

// unifyColumn finds the kind for column j across tables. Columns without a
// single value take no part, they adopt whatever the others agree on.
func unifyColumn(tables []*Table, j int) (Kind, error) {
	kind := tables[0].columns[j].kind
	seen := false
	for _, t := range tables {
		c := t.columns[j]
		if c.AllNull() {
			continue
		}
		if !seen {
			kind, seen = c.kind, true
			continue
		}
		k, ok := UnifyKinds(kind, c.kind)
		if !ok {
			return kind, fmt.Errorf("column %q: cannot combine %s with %s", c.name, kind, c.kind)
		}
		kind = k
	}
	return kind, nil
}

func (t *Table) copyIndex() map[string]int {
	idx := make(map[string]int, len(t.index))
	for k, v := range t.index {
		idx[k] = v
	}
	return idx
}
