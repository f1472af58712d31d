package types

import (
	"strconv"
	"strings"
)

// Criterion is one comparison or one column assignment.
// Conditions and assignments share the type; assignments carry the Assign operator.
type Criterion struct {
	Column   ColumnRef
	Value    Value
	Operator Operator
	Label    string
}

// NewCriterion creates a criterion, deriving its parameter label from the
// explicit label when given, otherwise from the column text.
func NewCriterion(column ColumnRef, value Value, op Operator, label string) *Criterion {
	if label == "" {
		label = column.Source
		if label == "" {
			label = column.Name
		}
	}
	return &Criterion{
		Column:   column,
		Value:    value,
		Operator: op,
		Label:    DeriveLabel(label),
	}
}

// IsAssignment reports whether the criterion assigns a column value.
func (c *Criterion) IsAssignment() bool {
	return c.Operator == Assign
}

// BindName returns the parameter name without the leading colon.
func (c *Criterion) BindName() string {
	if c.IsAssignment() {
		return AssignmentPrefix + c.Label
	}
	return c.Label
}

// Placeholder returns the named placeholder for the criterion.
func (c *Criterion) Placeholder() string {
	return Placeholder(c.BindName())
}

// memberName names the i-th (1-based) member of a bound sequence.
func (c *Criterion) memberName(i int) string {
	return c.BindName() + "_" + strconv.Itoa(i)
}

// inlined reports whether the value is embedded as literal SQL instead of bound.
// Only Integer and finite Float values are inlined; text that merely looks
// numeric is bound, as are infinities and NaN.
func (c *Criterion) inlined() bool {
	if c.Value.IsSequence() {
		return c.Value.AllInlinable()
	}
	return c.Value.Inlinable()
}

// QueryParameter returns the SQL text that stands for the criterion's value:
// a numeric literal, a parenthesised list, an empty string for null tests,
// or a named placeholder.
func (c *Criterion) QueryParameter() string {
	if c.Value.IsSequence() {
		items := c.Value.Items()
		parts := make([]string, len(items))
		for i, item := range items {
			if c.inlined() {
				parts[i] = item.Literal()
			} else {
				parts[i] = Placeholder(c.memberName(i + 1))
			}
		}
		if c.inlined() {
			return "(" + strings.Join(parts, ",") + ")"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	if c.inlined() {
		return c.Value.Literal()
	}
	if c.Operator.IsNullTest() {
		return ""
	}
	return c.Placeholder()
}

// ParameterExpr returns the clause expression for the criterion's value,
// or nil for null tests.
func (c *Criterion) ParameterExpr() Expr {
	if c.Value.IsSequence() {
		items := c.Value.Items()
		list := List{Items: make([]Expr, len(items))}
		for i, item := range items {
			if c.inlined() {
				list.Items[i] = Literal{Value: item}
			} else {
				list.Items[i] = Param{Name: c.memberName(i + 1)}
			}
		}
		return list
	}
	if c.inlined() {
		return Literal{Value: c.Value}
	}
	if c.Operator.IsNullTest() {
		return nil
	}
	return Param{Name: c.BindName()}
}

// Bindable reports whether the criterion contributes driver parameters.
func (c *Criterion) Bindable() bool {
	return !c.inlined() && !c.Operator.IsNullTest()
}

// NamedArg is one named driver argument.
type NamedArg struct {
	Name  string
	Value any
}

// Placeholder returns the placeholder text for the argument.
func (a NamedArg) Placeholder() string {
	return Placeholder(a.Name)
}

// Arguments returns the named driver arguments the criterion contributes.
func (c *Criterion) Arguments() []NamedArg {
	if !c.Bindable() {
		return nil
	}
	if c.Value.IsSequence() {
		items := c.Value.Items()
		args := make([]NamedArg, len(items))
		for i, item := range items {
			args[i] = NamedArg{Name: c.memberName(i + 1), Value: item.Native()}
		}
		return args
	}
	return []NamedArg{{Name: c.BindName(), Value: c.Value.Native()}}
}
