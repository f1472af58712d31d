package schema

import (
	"sort"

	"github.com/zoobzio/dbml"
)

// FromDBML builds a desired table descriptor from a DBML table,
// mapping each column's native type through types.
func FromDBML(t *dbml.Table, types *TypeMap) *Table {
	out := NewTable(t.Name)
	out.Exists = true
	for _, col := range t.Columns {
		c := Column{Name: col.Name, Type: types.Semantic(col.Type)}
		if s := col.Settings; s != nil {
			c.PrimaryKey = s.PrimaryKey
			c.Nullable = s.Null
			if s.Increment {
				c.Options = append(c.Options, AutoIncrement)
			}
			if s.Default != nil {
				c.Default = *s.Default
			}
		}
		out.Add(c)
	}
	return out
}

// ProjectFromDBML builds descriptors for every table of a DBML project, sorted by name.
func ProjectFromDBML(p *dbml.Project, types *TypeMap) []*Table {
	out := make([]*Table, 0, len(p.Tables))
	for _, t := range p.Tables {
		out = append(out, FromDBML(t, types))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ToDBML renders a descriptor as a DBML table using the dialect's native types.
// Columns without a native mapping fall back to the semantic type name.
func ToDBML(t *Table, types *TypeMap) *dbml.Table {
	out := dbml.NewTable(t.Name)
	for _, c := range t.Columns() {
		native, ok := types.Native(c.Type)
		if !ok {
			native = string(c.Type)
		}
		col := dbml.NewColumn(c.Name, native)
		if c.PrimaryKey {
			col.WithPrimaryKey()
		}
		if c.Nullable {
			col.WithNull()
		}
		if c.Has(AutoIncrement) {
			col.WithIncrement()
		}
		if c.Default != "" {
			col.WithDefault(c.Default)
		}
		out.AddColumn(col)
	}
	return out
}
