package critql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zoobzio/critql/internal/types"
	"github.com/zoobzio/critql/schema"
)

// aliasSeparator separates a table name from its self-join number.
const aliasSeparator = "__"

// selectAlias is one aliased select expression.
type selectAlias struct {
	expr  string
	alias string
}

// orderClause is one ORDER BY entry before base-table resolution.
type orderClause struct {
	column    types.ColumnRef
	direction types.Direction
	nulls     types.NullsOrdering
}

// Builder accumulates the clauses of one statement.
// The first error is sticky: later calls are ignored and every compiler returns it.
// A Builder is not safe for concurrent use.
type Builder struct {
	dialect Dialect

	table string
	alias string

	columns     []types.ColumnRef
	selectAs    []selectAlias
	conditions  []*types.Criterion
	assignments []*types.Criterion
	joins       []types.Join
	order       []orderClause
	group       []types.ColumnRef
	limit       *int
	offset      *int
	distinct    bool

	assignmentsAsConditions bool

	labels map[string]bool
	used   map[string]int

	err error
}

// NewBuilder creates an empty builder compiling for the dialect.
func NewBuilder(d Dialect) *Builder {
	return &Builder{
		dialect: d,
		labels:  make(map[string]bool),
		used:    make(map[string]int),
	}
}

// clone copies the builder with its own criteria, so their values can be
// rewritten without touching b.
func (b *Builder) clone() *Builder {
	cp := *b
	cp.conditions = cloneCriteria(b.conditions)
	cp.assignments = cloneCriteria(b.assignments)
	return &cp
}

func cloneCriteria(in []*types.Criterion) []*types.Criterion {
	out := make([]*types.Criterion, len(in))
	for i, c := range in {
		copied := *c
		out[i] = &copied
	}
	return out
}

// Err returns the sticky error, if any.
func (b *Builder) Err() error {
	return b.err
}

// Dialect returns the dialect the builder compiles for.
func (b *Builder) Dialect() Dialect {
	return b.dialect
}

// TableName returns the base table name, without any self-join alias.
func (b *Builder) TableName() string {
	return b.table
}

// Alias returns the current self-join alias of the base table, or "".
func (b *Builder) Alias() string {
	return b.alias
}

// prefix is the name that qualifies base table columns.
func (b *Builder) prefix() string {
	if b.alias != "" {
		return b.alias
	}
	return b.table
}

func (b *Builder) fail(err *types.BuildError) *Builder {
	b.err = err
	return b
}

// Table sets the base table.
func (b *Builder) Table(table string) *Builder {
	if b.err != nil {
		return b
	}
	table = strings.TrimSpace(table)
	if table == "" {
		return b.fail(types.NewBuildError("", "table", "table name cannot be empty"))
	}
	b.table = table
	b.alias = ""
	return b
}

// Into is Table for inserts.
func (b *Builder) Into(table string) *Builder { return b.Table(table) }

// From is Table for selects and deletes.
func (b *Builder) From(table string) *Builder { return b.Table(table) }

// Assign sets a column value for INSERT and UPDATE.
// An empty string assigned with an INTEGER hint becomes NULL; with a BOOLEAN hint it becomes false.
func (b *Builder) Assign(column string, value any, hint ...schema.Type) *Builder {
	if b.err != nil {
		return b
	}
	v := types.ValueOf(value)
	if len(hint) > 0 && v.Kind() == types.KindText && v.TextValue() == "" {
		switch hint[0] {
		case schema.Integer:
			v = types.Null()
		case schema.Boolean:
			v = types.Bool(false)
		}
	}

	ref := types.ParseColumn(column)
	switch {
	case ref.IsRaw():
		return b.fail(types.NewBuildError("", "assignments", "cannot assign to expression %q", column))
	case ref.Table == "":
		if b.table == "" {
			return b.fail(types.NewBuildError("", "assignments", "cannot assign %q without specifying table", column))
		}
		ref.Base = true
	case ref.Table == b.table || ref.Table == b.alias:
		ref.Base = true
	}

	c := types.NewCriterion(ref, v, types.Assign, b.label(ref, v, types.Assign))
	b.assignments = append(b.assignments, c)
	return b
}

// UseAssignmentsAsConditions makes non-null assignments act as equality filters.
func (b *Builder) UseAssignmentsAsConditions(enabled bool) *Builder {
	if b.err != nil {
		return b
	}
	b.assignmentsAsConditions = enabled
	return b
}

// Equal adds column = value, or column IS NULL for a nil value.
func (b *Builder) Equal(column string, value any) *Builder {
	v := types.ValueOf(value)
	if v.IsNull() {
		return b.addCondition(column, v, types.IsNull)
	}
	return b.addCondition(column, v, types.EQ)
}

// NotEqual adds column != value, or column IS NOT NULL for a nil value.
func (b *Builder) NotEqual(column string, value any) *Builder {
	v := types.ValueOf(value)
	if v.IsNull() {
		return b.addCondition(column, v, types.IsNotNull)
	}
	return b.addCondition(column, v, types.NE)
}

// GreaterThan adds column > value.
func (b *Builder) GreaterThan(column string, value any) *Builder {
	return b.addCondition(column, types.ValueOf(value), types.GT)
}

// GreaterThanOrEqualTo adds column >= value.
func (b *Builder) GreaterThanOrEqualTo(column string, value any) *Builder {
	return b.addCondition(column, types.ValueOf(value), types.GE)
}

// LessThan adds column < value.
func (b *Builder) LessThan(column string, value any) *Builder {
	return b.addCondition(column, types.ValueOf(value), types.LT)
}

// LessThanOrEqualTo adds column <= value.
func (b *Builder) LessThanOrEqualTo(column string, value any) *Builder {
	return b.addCondition(column, types.ValueOf(value), types.LE)
}

// Between adds small < column < big. Both bounds are exclusive.
func (b *Builder) Between(column string, small, big any) *Builder {
	return b.GreaterThan(column, small).LessThan(column, big)
}

// Like adds column LIKE value.
func (b *Builder) Like(column string, value any) *Builder {
	return b.addCondition(column, types.ValueOf(value), types.LIKE)
}

// NotLike adds column NOT LIKE value.
func (b *Builder) NotLike(column string, value any) *Builder {
	return b.addCondition(column, types.ValueOf(value), types.NotLike)
}

// ILike adds the case-insensitive column ILIKE value.
func (b *Builder) ILike(column string, value any) *Builder {
	return b.addCondition(column, types.ValueOf(value), types.ILIKE)
}

// NotILike adds column NOT ILIKE value.
func (b *Builder) NotILike(column string, value any) *Builder {
	return b.addCondition(column, types.ValueOf(value), types.NotILike)
}

// IsNull adds column IS NULL.
func (b *Builder) IsNull(column string) *Builder {
	return b.addCondition(column, types.Null(), types.IsNull)
}

// IsNotNull adds column IS NOT NULL.
func (b *Builder) IsNotNull(column string) *Builder {
	return b.addCondition(column, types.Null(), types.IsNotNull)
}

// In adds column IN (values). A scalar is treated as a one-member list.
func (b *Builder) In(column string, values any) *Builder {
	if b.err != nil {
		return b
	}
	v := types.ValueOf(values)
	if !v.IsSequence() {
		v = types.Seq(v)
	}
	if len(v.Items()) == 0 {
		return b.fail(types.NewBuildError("", "conditions", "IN on %q requires at least one value", column))
	}
	return b.addCondition(column, v, types.IN)
}

// Contains adds polygon(column) @> point.
func (b *Builder) Contains(column string, point any) *Builder {
	if b.err != nil {
		return b
	}
	ref, ok := b.resolveCondition(column, types.Contains)
	if !ok {
		return b
	}
	ref.Func = "polygon"
	v := types.ValueOf(point)
	c := types.NewCriterion(ref, v, types.Contains, b.label(ref, v, types.Contains))
	b.conditions = append(b.conditions, c)
	return b
}

func (b *Builder) addCondition(column string, v types.Value, op types.Operator) *Builder {
	if b.err != nil {
		return b
	}
	ref, ok := b.resolveCondition(column, op)
	if !ok {
		return b
	}
	c := types.NewCriterion(ref, v, op, b.label(ref, v, op))
	b.conditions = append(b.conditions, c)
	return b
}

// resolveCondition qualifies an unqualified condition column with the base table.
func (b *Builder) resolveCondition(column string, op types.Operator) (types.ColumnRef, bool) {
	ref := types.ParseColumn(column)
	if ref.Qualified() || b.isSelectAlias(ref.Name) {
		return ref, true
	}
	if b.table == "" {
		b.fail(types.NewBuildError("", "table",
			"cannot use %q operator without specifying table for column %q", op, column))
		return ref, false
	}
	ref.Base = true
	return ref, true
}

func (b *Builder) isSelectAlias(name string) bool {
	for _, s := range b.selectAs {
		if s.alias == name {
			return true
		}
	}
	return false
}

// label picks a parameter label for a criterion on ref that is unused in this
// builder. Repeated columns get _2, _3 and so on; assignments count separately.
func (b *Builder) label(ref types.ColumnRef, v types.Value, op types.Operator) string {
	base := ref.Source
	if base == "" {
		base = ref.Name
	}
	base = types.DeriveLabel(base)
	key := base
	if op == types.Assign {
		key = types.AssignmentPrefix + base
	}
	for {
		b.used[key]++
		label := base
		if n := b.used[key]; n > 1 {
			label = base + "_" + strconv.Itoa(n)
		}
		probe := types.NewCriterion(ref, v, op, label)
		if !b.taken(probe) {
			b.reserve(probe)
			return label
		}
	}
}

// parameterNames lists every parameter name a criterion may bind,
// including the members of a bound sequence.
func parameterNames(c *types.Criterion) []string {
	names := []string{c.BindName()}
	for _, a := range c.Arguments() {
		names = append(names, a.Name)
	}
	return names
}

func (b *Builder) taken(c *types.Criterion) bool {
	for _, name := range parameterNames(c) {
		if b.labels[name] {
			return true
		}
	}
	return false
}

func (b *Builder) reserve(c *types.Criterion) {
	for _, name := range parameterNames(c) {
		b.labels[name] = true
	}
}

// LeftOuterJoin adds LEFT OUTER JOIN table ON primaryKey = foreignKey.
func (b *Builder) LeftOuterJoin(table, primaryKey, foreignKey string) *Builder {
	return b.Join(types.Left, types.Outer, table, primaryKey, foreignKey)
}

// RightOuterJoin adds RIGHT OUTER JOIN table ON primaryKey = foreignKey.
func (b *Builder) RightOuterJoin(table, primaryKey, foreignKey string) *Builder {
	return b.Join(types.Right, types.Outer, table, primaryKey, foreignKey)
}

// FullOuterJoin adds FULL OUTER JOIN table ON primaryKey = foreignKey.
func (b *Builder) FullOuterJoin(table, primaryKey, foreignKey string) *Builder {
	return b.Join(types.Full, types.Outer, table, primaryKey, foreignKey)
}

// InnerJoin adds INNER JOIN table ON primaryKey = foreignKey.
func (b *Builder) InnerJoin(table, primaryKey, foreignKey string) *Builder {
	return b.Join(types.NoSide, types.Inner, table, primaryKey, foreignKey)
}

// CrossJoin adds CROSS JOIN table.
func (b *Builder) CrossJoin(table string) *Builder {
	return b.Join(types.NoSide, types.Cross, table, "", "")
}

// NaturalJoin adds NATURAL [side] kind JOIN table.
func (b *Builder) NaturalJoin(side JoinSide, kind JoinKind, table string) *Builder {
	return b.join(types.Join{Side: side, Kind: kind, Natural: true, Table: table})
}

// Join adds a join. primaryKey belongs to the joined table, foreignKey to the base table.
// Joining the base table to itself aliases the base occurrence as table__N.
func (b *Builder) Join(side JoinSide, kind JoinKind, table, primaryKey, foreignKey string) *Builder {
	j := types.Join{Side: side, Kind: kind, Table: strings.TrimSpace(table)}
	if j.NeedsOn() {
		if primaryKey == "" || foreignKey == "" {
			return b.fail(types.NewBuildError("", "joins", "%s JOIN %s requires both key columns", kind, table))
		}
		j.PrimaryKey = types.ParseColumn(primaryKey)
		j.ForeignKey = types.ParseColumn(foreignKey)
	}
	return b.join(j)
}

func (b *Builder) join(j types.Join) *Builder {
	if b.err != nil {
		return b
	}
	if b.table == "" {
		return b.fail(types.NewBuildError("", "joins", "cannot join %q without specifying table", j.Table))
	}
	if j.Table == "" {
		return b.fail(types.NewBuildError("", "joins", "join table cannot be empty"))
	}
	switch j.Kind {
	case types.Inner, types.Cross:
	case types.Outer:
		if j.Side == types.NoSide {
			return b.fail(types.NewBuildError("", "joins", "OUTER JOIN %s requires LEFT, RIGHT or FULL", j.Table))
		}
	default:
		return b.fail(types.NewBuildError("", "joins", "unknown join kind %q", j.Kind))
	}

	if j.Table == b.table {
		b.alias = nextAlias(b.prefix())
	}

	if j.NeedsOn() {
		if !j.PrimaryKey.Qualified() {
			j.PrimaryKey.Table = j.Table
		}
		fk := j.ForeignKey
		if !fk.IsRaw() && (fk.Table == "" || fk.Table == b.table || fk.Table == b.alias) {
			j.ForeignKey.Base = true
		}
	}

	b.joins = append(b.joins, j)
	return b
}

// nextAlias returns name__2, or name__(N+1) when name already ends in __N.
func nextAlias(name string) string {
	if i := strings.LastIndex(name, aliasSeparator); i > 0 {
		if n, err := strconv.Atoi(name[i+len(aliasSeparator):]); err == nil {
			return name[:i] + aliasSeparator + strconv.Itoa(n+1)
		}
	}
	return name + aliasSeparator + "2"
}

// Columns replaces the default "*" select list.
// Unqualified names stay unqualified.
func (b *Builder) Columns(columns ...string) *Builder {
	if b.err != nil {
		return b
	}
	for _, c := range columns {
		ref := types.ParseColumn(c)
		if ref.Table != "" && (ref.Table == b.table || ref.Table == b.alias) {
			ref.Base = true
		}
		b.columns = append(b.columns, ref)
	}
	return b
}

// SelectAs appends "expr AS alias" to the select list.
// The alias may then be used unqualified in conditions and ordering.
func (b *Builder) SelectAs(expr, alias string) *Builder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(expr) == "" || strings.TrimSpace(alias) == "" {
		return b.fail(types.NewBuildError("", "select", "select expression and alias are required"))
	}
	b.selectAs = append(b.selectAs, selectAlias{expr: expr, alias: strings.Trim(alias, `"`)})
	return b
}

// Distinct selects distinct rows.
func (b *Builder) Distinct() *Builder {
	if b.err != nil {
		return b
	}
	b.distinct = true
	return b
}

// OrderBy adds an ORDER BY term such as "name", "name DESC" or "name ASC NULLS LAST".
// The direction and nulls suffix are read from the end, so the term itself may
// be a function call containing spaces.
func (b *Builder) OrderBy(clause string) *Builder {
	if b.err != nil {
		return b
	}
	clause = strings.TrimSpace(clause)
	words := strings.Fields(clause)
	if len(words) == 0 {
		return b.fail(types.NewBuildError("", "order by", "order by clause cannot be empty"))
	}

	var o orderClause
	if n := len(words); n >= 3 && strings.EqualFold(words[n-2], "NULLS") {
		nulls := types.NullsOrdering("NULLS " + strings.ToUpper(words[n-1]))
		if nulls != types.NullsFirst && nulls != types.NullsLast {
			return b.fail(types.NewBuildError("", "order by", "invalid order by clause %q", clause))
		}
		o.nulls = nulls
		words = words[:n-2]
	}
	if n := len(words); n >= 2 {
		switch dir := types.Direction(strings.ToUpper(words[n-1])); dir {
		case types.ASC, types.DESC:
			o.direction = dir
			words = words[:n-1]
		}
	}

	term := strings.Join(words, " ")
	if len(words) > 1 && !strings.ContainsAny(term, `"(`) {
		return b.fail(types.NewBuildError("", "order by", "invalid order by clause %q", clause))
	}
	o.column = b.resolveClauseColumn(term)
	b.order = append(b.order, o)
	return b
}

// GroupBy adds a GROUP BY column.
func (b *Builder) GroupBy(clause string) *Builder {
	if b.err != nil {
		return b
	}
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return b.fail(types.NewBuildError("", "group by", "group by clause cannot be empty"))
	}
	if strings.ContainsAny(clause, " ") && !strings.ContainsAny(clause, `"(`) {
		b.group = append(b.group, types.ColumnRef{Source: clause, Raw: clause})
		return b
	}
	b.group = append(b.group, b.resolveClauseColumn(clause))
	return b
}

// resolveClauseColumn qualifies an ORDER BY or GROUP BY column with the base
// table when one is set. Without a table the column stays bare and SELECT
// validation reports it.
func (b *Builder) resolveClauseColumn(name string) types.ColumnRef {
	ref := types.ParseColumn(name)
	if ref.Qualified() || b.isSelectAlias(ref.Name) || b.table == "" {
		return ref
	}
	ref.Base = true
	return ref
}

// Limit caps the number of rows.
func (b *Builder) Limit(size int) *Builder {
	if b.err != nil {
		return b
	}
	if size < 0 {
		return b.fail(types.NewBuildError("", "limit", "limit cannot be negative"))
	}
	b.limit = &size
	return b
}

// Offset skips rows. SELECT requires a limit alongside it.
func (b *Builder) Offset(offset int) *Builder {
	if b.err != nil {
		return b
	}
	if offset < 0 {
		return b.fail(types.NewBuildError("", "offset", "offset cannot be negative"))
	}
	b.offset = &offset
	return b
}

// Range selects rows [start, finish): Offset(start).Limit(finish - start).
func (b *Builder) Range(start, finish int) *Builder {
	if b.err != nil {
		return b
	}
	if finish < start {
		return b.fail(types.NewBuildError("", "limit", "range end %d is before start %d", finish, start))
	}
	return b.Offset(start).Limit(finish - start)
}

// Criteria returns the conditions followed by the assignments.
// Values set through the returned pointers change what the builder compiles.
func (b *Builder) Criteria() []*types.Criterion {
	out := make([]*types.Criterion, 0, len(b.conditions)+len(b.assignments))
	out = append(out, b.conditions...)
	return append(out, b.assignments...)
}

// Arguments returns the criteria that bind driver parameters. With assignments
// used as conditions, null-valued assignments are left out.
func (b *Builder) Arguments() []*types.Criterion {
	var out []*types.Criterion
	for _, c := range b.conditions {
		if c.Bindable() {
			out = append(out, c)
		}
	}
	for _, c := range b.assignments {
		if b.assignmentsAsConditions && c.Value.IsNull() {
			continue
		}
		if c.Bindable() {
			out = append(out, c)
		}
	}
	return out
}

// Build assembles and validates the statement for op.
func (b *Builder) Build(op Operation) (*AST, error) {
	if b.err != nil {
		return nil, b.err
	}

	prefix := b.prefix()
	stmt := &types.Statement{
		Operation:               op,
		Table:                   types.TableRef{Name: b.table, Alias: b.alias},
		Distinct:                b.distinct,
		Limit:                   b.limit,
		Offset:                  b.offset,
		AssignmentsAsConditions: b.assignmentsAsConditions,
	}

	switch {
	case len(b.columns) > 0:
		for _, c := range b.columns {
			stmt.Columns = append(stmt.Columns, c.Expr(prefix))
		}
	case len(b.joins) > 0:
		stmt.Columns = []types.Expr{types.Identifier{Table: prefix, Star: true}}
	}
	for _, s := range b.selectAs {
		stmt.Aliased = append(stmt.Aliased, types.AliasedExpr{Expr: types.Raw{SQL: s.expr}, Alias: s.alias})
	}

	for _, c := range b.conditions {
		stmt.Where = append(stmt.Where, types.BinaryOp{
			Left:  c.Column.Expr(prefix),
			Op:    c.Operator,
			Right: c.ParameterExpr(),
		})
	}

	for _, c := range b.assignments {
		if (op == types.OpInsert || op == types.OpUpdate) && !c.Column.Base {
			return nil, types.NewBuildError(op, "assignments",
				"cannot assign %q, it does not belong to table %s", c.Column.Source, b.table)
		}
		stmt.Assignments = append(stmt.Assignments, types.Assignment{Column: c.Column.Name, Value: c.ParameterExpr()})
		if c.Value.IsNull() {
			continue
		}
		filter := types.BinaryOp{Left: c.Column.Expr(prefix), Op: types.EQ, Right: c.ParameterExpr()}
		if c.Value.IsSequence() {
			filter.Op = types.IN
		}
		stmt.Filters = append(stmt.Filters, filter)
	}

	for _, j := range b.joins {
		clause := types.JoinClause{Side: j.Side, Kind: j.Kind, Natural: j.Natural, Table: types.TableRef{Name: j.Table}}
		if j.NeedsOn() {
			clause.On = &types.BinaryOp{Left: j.PrimaryKey.Expr(prefix), Op: types.EQ, Right: j.ForeignKey.Expr(prefix)}
		}
		stmt.Joins = append(stmt.Joins, clause)
	}

	for _, o := range b.order {
		stmt.Order = append(stmt.Order, types.OrderTerm{Expr: o.column.Expr(prefix), Direction: o.direction, Nulls: o.nulls})
	}
	for _, g := range b.group {
		stmt.Group = append(stmt.Group, g.Expr(prefix))
	}

	if err := stmt.Validate(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// Render builds the statement for op and renders it with the builder's dialect.
func (b *Builder) Render(op Operation) (*QueryResult, error) {
	stmt, err := b.Build(op)
	if err != nil {
		return nil, err
	}
	if b.dialect == nil {
		return nil, fmt.Errorf("builder has no dialect")
	}
	return b.dialect.Render(stmt)
}

// Compile renders the statement for op and returns its SQL text.
func (b *Builder) Compile(op Operation) (string, error) {
	result, err := b.Render(op)
	if err != nil {
		return "", err
	}
	return result.SQL, nil
}

// MustCompile compiles op or panics on error.
func (b *Builder) MustCompile(op Operation) string {
	sql, err := b.Compile(op)
	if err != nil {
		panic(err)
	}
	return sql
}

// Insert compiles an INSERT.
func (b *Builder) Insert() (string, error) { return b.Compile(types.OpInsert) }

// Update compiles an UPDATE.
func (b *Builder) Update() (string, error) { return b.Compile(types.OpUpdate) }

// Delete compiles a DELETE.
func (b *Builder) Delete() (string, error) { return b.Compile(types.OpDelete) }

// Select compiles a SELECT.
func (b *Builder) Select() (string, error) { return b.Compile(types.OpSelect) }
