package types

// TableRef is a table reference with an optional alias.
type TableRef struct {
	Name  string
	Alias string
}

// Prefix returns the name used to qualify columns of this table.
func (t TableRef) Prefix() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}
