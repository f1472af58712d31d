package render

import (
	"fmt"
	"strings"

	"github.com/zoobzio/critql/internal/types"
)

// Dialect supplies the dialect-specific pieces of SQL printing.
type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	Capabilities() Capabilities
}

// Printer renders a Statement with one dialect's quoting and feature set.
type Printer struct {
	dialect Dialect
	caps    Capabilities
}

// NewPrinter creates a printer for the dialect.
func NewPrinter(d Dialect) *Printer {
	return &Printer{dialect: d, caps: d.Capabilities()}
}

// printContext tracks the parameters referenced by one statement.
type printContext struct {
	params     []string
	usedParams map[string]bool
}

func (ctx *printContext) addParam(name string) string {
	if !ctx.usedParams[name] {
		ctx.params = append(ctx.params, name)
		ctx.usedParams[name] = true
	}
	return types.Placeholder(name)
}

// Print validates and renders the statement.
func (p *Printer) Print(stmt *types.Statement) (*types.QueryResult, error) {
	if err := stmt.Validate(); err != nil {
		return nil, err
	}

	var sql strings.Builder
	ctx := &printContext{usedParams: make(map[string]bool)}

	var err error
	switch stmt.Operation {
	case types.OpSelect:
		err = p.printSelect(stmt, &sql, ctx)
	case types.OpInsert:
		err = p.printInsert(stmt, &sql, ctx)
	case types.OpUpdate:
		err = p.printUpdate(stmt, &sql, ctx)
	case types.OpDelete:
		err = p.printDelete(stmt, &sql, ctx)
	default:
		err = fmt.Errorf("unsupported operation: %s", stmt.Operation)
	}
	if err != nil {
		return nil, err
	}

	return &types.QueryResult{
		SQL:            sql.String(),
		RequiredParams: ctx.params,
	}, nil
}

func (p *Printer) printSelect(stmt *types.Statement, sql *strings.Builder, ctx *printContext) error {
	sql.WriteString("SELECT ")
	if stmt.Distinct {
		sql.WriteString("DISTINCT ")
	}

	columns := stmt.Columns
	if len(columns) == 0 {
		columns = []types.Expr{types.Identifier{Star: true}}
	}
	parts := make([]string, 0, len(columns)+len(stmt.Aliased))
	for _, c := range columns {
		s, err := p.expr(c, ctx)
		if err != nil {
			return err
		}
		parts = append(parts, s)
	}
	for _, a := range stmt.Aliased {
		s, err := p.expr(a, ctx)
		if err != nil {
			return err
		}
		parts = append(parts, s)
	}
	sql.WriteString(strings.Join(parts, ", "))

	if stmt.Table.Name != "" {
		sql.WriteString(" FROM ")
		sql.WriteString(p.table(stmt.Table))
	}

	// Joins print newest first.
	for i := len(stmt.Joins) - 1; i >= 0; i-- {
		if err := p.printJoin(stmt.Joins[i], sql, ctx); err != nil {
			return err
		}
	}

	if err := p.printWhere(stmt, sql, ctx); err != nil {
		return err
	}

	if len(stmt.Order) > 0 {
		terms := make([]string, len(stmt.Order))
		for i, o := range stmt.Order {
			s, err := p.orderTerm(o, ctx)
			if err != nil {
				return err
			}
			terms[i] = s
		}
		sql.WriteString(" ORDER BY ")
		sql.WriteString(strings.Join(terms, ", "))
	}

	if len(stmt.Group) > 0 {
		terms := make([]string, len(stmt.Group))
		for i, g := range stmt.Group {
			s, err := p.expr(g, ctx)
			if err != nil {
				return err
			}
			terms[i] = s
		}
		sql.WriteString(" GROUP BY ")
		sql.WriteString(strings.Join(terms, ", "))
	}

	if stmt.Limit != nil {
		fmt.Fprintf(sql, " LIMIT %d", *stmt.Limit)
	}
	if stmt.Offset != nil {
		fmt.Fprintf(sql, " OFFSET %d", *stmt.Offset)
	}
	return nil
}

func (p *Printer) printInsert(stmt *types.Statement, sql *strings.Builder, ctx *printContext) error {
	sql.WriteString("INSERT INTO ")
	sql.WriteString(p.table(types.TableRef{Name: stmt.Table.Name}))

	columns := make([]string, len(stmt.Assignments))
	values := make([]string, len(stmt.Assignments))
	for i, a := range stmt.Assignments {
		columns[i] = p.dialect.QuoteIdentifier(a.Column)
		v, err := p.expr(a.Value, ctx)
		if err != nil {
			return err
		}
		values[i] = v
	}
	sql.WriteString(" (")
	sql.WriteString(strings.Join(columns, ", "))
	sql.WriteString(") VALUES (")
	sql.WriteString(strings.Join(values, ", "))
	sql.WriteString(")")
	return nil
}

func (p *Printer) printUpdate(stmt *types.Statement, sql *strings.Builder, ctx *printContext) error {
	sql.WriteString("UPDATE ")
	sql.WriteString(p.table(stmt.Table))
	sql.WriteString(" SET ")

	sets := make([]string, len(stmt.Assignments))
	for i, a := range stmt.Assignments {
		v, err := p.expr(a.Value, ctx)
		if err != nil {
			return err
		}
		sets[i] = p.dialect.QuoteIdentifier(a.Column) + " = " + v
	}
	sql.WriteString(strings.Join(sets, ", "))
	return p.printWhere(stmt, sql, ctx)
}

func (p *Printer) printDelete(stmt *types.Statement, sql *strings.Builder, ctx *printContext) error {
	sql.WriteString("DELETE FROM ")
	sql.WriteString(p.table(stmt.Table))
	return p.printWhere(stmt, sql, ctx)
}

// printWhere joins every condition with AND.
func (p *Printer) printWhere(stmt *types.Statement, sql *strings.Builder, ctx *printContext) error {
	conds := stmt.Conditions()
	if len(conds) == 0 {
		return nil
	}
	terms := make([]string, len(conds))
	for i, c := range conds {
		s, err := p.expr(c, ctx)
		if err != nil {
			return err
		}
		terms[i] = s
	}
	sql.WriteString(" WHERE ")
	sql.WriteString(strings.Join(terms, " AND "))
	return nil
}

func (p *Printer) printJoin(j types.JoinClause, sql *strings.Builder, ctx *printContext) error {
	if j.Natural && !p.caps.NaturalJoin {
		return NewUnsupportedFeatureError(p.dialect.Name(), "joins", "NATURAL JOIN")
	}
	if j.Side == types.Full && !p.caps.FullJoin {
		return NewUnsupportedFeatureError(p.dialect.Name(), "joins", "FULL JOIN", "use a UNION of LEFT and RIGHT joins")
	}

	sql.WriteString(" ")
	if j.Natural {
		sql.WriteString("NATURAL ")
	}
	if j.Side != types.NoSide {
		sql.WriteString(string(j.Side))
		sql.WriteString(" ")
	}
	if j.Kind != "" {
		sql.WriteString(string(j.Kind))
		sql.WriteString(" ")
	}
	sql.WriteString("JOIN ")
	sql.WriteString(p.table(j.Table))
	if j.On != nil {
		on, err := p.expr(*j.On, ctx)
		if err != nil {
			return err
		}
		sql.WriteString(" ON ")
		sql.WriteString(on)
	}
	return nil
}

func (p *Printer) orderTerm(o types.OrderTerm, ctx *printContext) (string, error) {
	s, err := p.expr(o.Expr, ctx)
	if err != nil {
		return "", err
	}
	if o.Direction != "" {
		s += " " + string(o.Direction)
	}
	if o.Nulls != "" {
		if !p.caps.NullsOrdering {
			return "", NewUnsupportedFeatureError(p.dialect.Name(), "order by", string(o.Nulls))
		}
		s += " " + string(o.Nulls)
	}
	return s, nil
}

func (p *Printer) table(t types.TableRef) string {
	quoted := p.dialect.QuoteIdentifier(t.Name)
	if t.Alias != "" {
		return quoted + " AS " + p.dialect.QuoteIdentifier(t.Alias)
	}
	return quoted
}

func (p *Printer) expr(e types.Expr, ctx *printContext) (string, error) {
	switch x := e.(type) {
	case types.Identifier:
		return p.identifier(x), nil
	case types.Raw:
		return x.SQL, nil
	case types.Literal:
		lit := x.Value.Literal()
		if lit == "" {
			return "", fmt.Errorf("%s cannot be embedded as a literal", x.Value)
		}
		return lit, nil
	case types.Param:
		return ctx.addParam(x.Name), nil
	case types.List:
		return p.list(x, ctx)
	case types.Func:
		arg, err := p.expr(x.Arg, ctx)
		if err != nil {
			return "", err
		}
		return x.Name + "(" + arg + ")", nil
	case types.BinaryOp:
		return p.binary(x, ctx)
	case types.AliasedExpr:
		inner, err := p.expr(x.Expr, ctx)
		if err != nil {
			return "", err
		}
		return inner + " AS " + p.dialect.QuoteIdentifier(x.Alias), nil
	case nil:
		return "", fmt.Errorf("missing expression")
	default:
		return "", fmt.Errorf("unsupported expression %T", e)
	}
}

func (p *Printer) identifier(id types.Identifier) string {
	var name string
	if id.Star {
		name = "*"
	} else {
		name = p.dialect.QuoteIdentifier(id.Name)
	}
	if id.Table == "" {
		return name
	}
	return p.dialect.QuoteIdentifier(id.Table) + "." + name
}

// list prints numeric literal lists tightly and placeholder lists spaced,
// matching Criterion.QueryParameter.
func (p *Printer) list(l types.List, ctx *printContext) (string, error) {
	items := make([]string, len(l.Items))
	sep := ","
	for i, item := range l.Items {
		if _, ok := item.(types.Literal); !ok {
			sep = ", "
		}
		s, err := p.expr(item, ctx)
		if err != nil {
			return "", err
		}
		items[i] = s
	}
	return "(" + strings.Join(items, sep) + ")", nil
}

func (p *Printer) binary(b types.BinaryOp, ctx *printContext) (string, error) {
	switch b.Op {
	case types.ILIKE, types.NotILike:
		if !p.caps.CaseInsensitiveLike {
			return "", NewUnsupportedFeatureError(p.dialect.Name(), "conditions", string(b.Op), "use LIKE with LOWER()")
		}
	case types.Contains:
		if !p.caps.GeometricContains {
			return "", NewUnsupportedFeatureError(p.dialect.Name(), "conditions", "CONTAINS", "geometric containment requires PostgreSQL")
		}
	case types.Assign:
		return "", fmt.Errorf("assignment cannot be used as a condition")
	}
	if !b.Op.Valid() {
		return "", fmt.Errorf("invalid operator %q", b.Op)
	}

	left, err := p.expr(b.Left, ctx)
	if err != nil {
		return "", err
	}
	if b.Op.IsNullTest() {
		return left + " " + string(b.Op), nil
	}
	right, err := p.expr(b.Right, ctx)
	if err != nil {
		return "", err
	}
	return left + " " + string(b.Op) + " " + right, nil
}
