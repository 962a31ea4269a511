package table

// Column is a named, typed and immutable run of values
type Column struct {
	name   string
	kind   Kind
	values []Value
}

// NewColumn copies values into a new column
func NewColumn(name string, kind Kind, values []Value) *Column {
	vs := make([]Value, len(values))
	copy(vs, values)
	return &Column{name: name, kind: kind, values: vs}
}

func (c *Column) Name() string {
	return c.name
}

func (c *Column) Kind() Kind {
	return c.kind
}

func (c *Column) Len() int {
	return len(c.values)
}

// Value returns the cell at row i
func (c *Column) Value(i int) Value {
	return c.values[i]
}

// Values returns a copy of the cells
func (c *Column) Values() []Value {
	vs := make([]Value, len(c.values))
	copy(vs, c.values)
	return vs
}

// NullCount returns how many cells are missing
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.values {
		if v.IsNull() {
			n++
		}
	}
	return n
}

// AllNull reports whether the column holds no values at all
func (c *Column) AllNull() bool {
	return c.NullCount() == len(c.values)
}

// Rename returns the same data under a different name
func (c *Column) Rename(name string) *Column {
	return &Column{name: name, kind: c.kind, values: c.values}
}

// WithKind returns the same data declared as a different kind
func (c *Column) WithKind(kind Kind) *Column {
	return &Column{name: c.name, kind: kind, values: c.values}
}

// Strings formats every cell, nulls become empty strings
func (c *Column) Strings() []string {
	out := make([]string, len(c.values))
	for i, v := range c.values {
		out[i] = v.Format(c.kind)
	}
	return out
}
