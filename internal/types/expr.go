package types

// Expr is a node of the clause expression tree handed to a dialect printer.
type Expr interface {
	isExpr()
}

// Identifier is a possibly qualified column name. Star selects every column.
type Identifier struct {
	Table string
	Name  string
	Star  bool
}

// Raw is SQL text emitted verbatim.
type Raw struct {
	SQL string
}

// Literal is a value embedded directly in the SQL text.
type Literal struct {
	Value Value
}

// Param is a named parameter placeholder.
type Param struct {
	Name string
}

// List is a parenthesised, comma separated list.
type List struct {
	Items []Expr
}

// Func is a single argument function call.
type Func struct {
	Name string
	Arg  Expr
}

// BinaryOp is a comparison. Right is nil for null tests.
type BinaryOp struct {
	Left  Expr
	Op    Operator
	Right Expr
}

// AliasedExpr is a select-list entry with an alias.
type AliasedExpr struct {
	Expr  Expr
	Alias string
}

// OrderTerm is one ORDER BY entry.
type OrderTerm struct {
	Expr      Expr
	Direction Direction
	Nulls     NullsOrdering
}

// Assignment is one column assignment of an INSERT or UPDATE.
type Assignment struct {
	Column string
	Value  Expr
}

// JoinClause is a rendered join.
type JoinClause struct {
	Side    JoinSide
	Kind    JoinKind
	Natural bool
	Table   TableRef
	On      *BinaryOp
}

func (Identifier) isExpr()  {}
func (Raw) isExpr()         {}
func (Literal) isExpr()     {}
func (Param) isExpr()       {}
func (List) isExpr()        {}
func (Func) isExpr()        {}
func (BinaryOp) isExpr()    {}
func (AliasedExpr) isExpr() {}
