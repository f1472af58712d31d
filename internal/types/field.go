package types

import "strings"

// ColumnRef is a parsed column reference.
// Exactly one of Raw or Name is set. Base marks a reference that is qualified
// by the statement's base table, whatever alias it carries when rendered.
type ColumnRef struct {
	Source string // caller-supplied text, used for parameter labels
	Table  string // explicit qualifier
	Name   string
	Raw    string // passthrough SQL (function calls, pre-quoted identifiers)
	Func   string // optional wrapping function, e.g. polygon
	Base   bool
}

// ParseColumn parses a caller-supplied column reference.
// "*" and anything containing a quote or a parenthesis pass through untouched;
// "table.column" is split on the last dot.
func ParseColumn(s string) ColumnRef {
	s = strings.TrimSpace(s)
	if s == "*" || strings.ContainsAny(s, `"(`) {
		return ColumnRef{Source: s, Raw: s}
	}
	if i := strings.LastIndex(s, "."); i >= 0 {
		return ColumnRef{Source: s, Table: s[:i], Name: s[i+1:]}
	}
	return ColumnRef{Source: s, Name: s}
}

// Qualified reports whether the reference carries a table qualifier or is raw SQL.
func (c ColumnRef) Qualified() bool {
	return c.Table != "" || c.Raw != "" || c.Base
}

// IsRaw reports whether the reference is passthrough SQL.
func (c ColumnRef) IsRaw() bool {
	return c.Raw != ""
}

// Expr converts the reference into a clause expression.
// baseAlias resolves Base references.
func (c ColumnRef) Expr(baseAlias string) Expr {
	var e Expr
	switch {
	case c.Raw != "":
		e = Raw{SQL: c.Raw}
	case c.Base:
		e = Identifier{Table: baseAlias, Name: c.Name, Star: c.Name == "*"}
	default:
		e = Identifier{Table: c.Table, Name: c.Name, Star: c.Name == "*"}
	}
	if c.Func != "" {
		e = Func{Name: c.Func, Arg: e}
	}
	return e
}
