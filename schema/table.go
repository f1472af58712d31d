package schema

import "sort"

// Option is a column option flag.
type Option string

// AutoIncrement marks a column whose default draws from a generator.
const AutoIncrement Option = "autoincrement"

// Column describes one table column.
type Column struct {
	Name       string
	Type       Type
	Nullable   bool
	PrimaryKey bool
	Default    string
	Options    []Option
}

// Has reports whether the column carries the option.
func (c Column) Has(opt Option) bool {
	for _, o := range c.Options {
		if o == opt {
			return true
		}
	}
	return false
}

// Table describes a table. Columns keep their insertion order and are addressable by name.
type Table struct {
	Name   string
	Exists bool

	columns []Column
	index   map[string]int
}

// NewTable creates an empty descriptor.
func NewTable(name string) *Table {
	return &Table{Name: name, index: make(map[string]int)}
}

// Add appends a column, replacing any earlier column with the same name in place.
func (t *Table) Add(c Column) *Table {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[c.Name]; ok {
		t.columns[i] = c
		return t
	}
	t.index[c.Name] = len(t.columns)
	t.columns = append(t.columns, c)
	return t
}

// Column returns the named column.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Columns returns the columns in insertion order.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Names returns the column names in insertion order.
func (t *Table) Names() []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Name
	}
	return out
}

// SortedNames returns the column names alphabetically.
func (t *Table) SortedNames() []string {
	out := t.Names()
	sort.Strings(out)
	return out
}

// PrimaryKey returns the primary key columns in insertion order.
func (t *Table) PrimaryKey() []Column {
	var out []Column
	for _, c := range t.columns {
		if c.PrimaryKey {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of columns.
func (t *Table) Len() int {
	return len(t.columns)
}
