// Package critql provides a chainable relational query builder with per-dialect
// adapters.
//
// A Builder accumulates a table, a select list, conditions, assignments, joins,
// ordering, grouping and paging, then compiles to exactly one statement kind at a
// time. Compiled SQL uses named parameters (`:name`); numeric values are embedded
// as literals and everything else is bound.
//
// # Basic Usage
//
//	b := critql.NewBuilder(postgres.New())
//	sql, err := b.Into("t").Assign("a", "x").Assign("b", 5).Insert()
//	// sql: INSERT INTO "t" ("a", "b") VALUES (:assgn_a, 5)
//
// # Execution
//
// A Binder coerces every criterion against the live column types before binding,
// and a Materializer converts fetched native values (timestamps, booleans, points,
// boxes) into semantic values:
//
//	src, err := critql.Open(ctx, cfg, postgres.NewAdapter())
//	rows, err := src.FetchAll(ctx, src.Builder().From("users").Equal("id", 3))
//
// # Dialects
//
// Available adapters: postgres, mysql, sqlite. Features a dialect cannot express,
// such as ILIKE on SQLite, fail with an UnsupportedFeatureError at compile time.
package critql

import (
	"github.com/zoobzio/critql/internal/render"
	"github.com/zoobzio/critql/internal/types"
)

// AST is a compiled statement ready for a dialect printer.
type AST = types.Statement

// QueryResult contains the rendered SQL and required parameters.
type QueryResult = types.QueryResult

// Operation represents the statement kind.
type Operation = types.Operation

// Re-export operation constants for public API.
const (
	OpInsert = types.OpInsert
	OpUpdate = types.OpUpdate
	OpDelete = types.OpDelete
	OpSelect = types.OpSelect
)

// Direction represents sort direction.
type Direction = types.Direction

// Re-export direction constants for public API.
const (
	ASC  = types.ASC
	DESC = types.DESC
)

// NullsOrdering represents NULL ordering in ORDER BY.
type NullsOrdering = types.NullsOrdering

// Re-export nulls ordering constants for public API.
const (
	NullsFirst = types.NullsFirst
	NullsLast  = types.NullsLast
)

// Operator represents criterion operators.
type Operator = types.Operator

// Re-export operator constants for public API.
const (
	EQ        = types.EQ
	NE        = types.NE
	GT        = types.GT
	GE        = types.GE
	LT        = types.LT
	LE        = types.LE
	LIKE      = types.LIKE
	NotLike   = types.NotLike
	ILIKE     = types.ILIKE
	NotILike  = types.NotILike
	IsNull    = types.IsNull
	IsNotNull = types.IsNotNull
	IN        = types.IN
	Contains  = types.Contains
)

// JoinSide is the LEFT/RIGHT/FULL part of a join.
type JoinSide = types.JoinSide

// JoinKind is the INNER/OUTER/CROSS part of a join.
type JoinKind = types.JoinKind

// Re-export join constants for public API.
const (
	NoSide = types.NoSide
	Left   = types.Left
	Right  = types.Right
	Full   = types.Full
	Inner  = types.Inner
	Outer  = types.Outer
	Cross  = types.Cross
)

// Criterion is one condition or assignment.
type Criterion = types.Criterion

// NamedArg is one named driver argument.
type NamedArg = types.NamedArg

// Value is a tagged criterion value.
type Value = types.Value

// Kind tags a Value.
type Kind = types.Kind

// Re-export value kinds for public API.
const (
	KindNull     = types.KindNull
	KindInteger  = types.KindInteger
	KindFloat    = types.KindFloat
	KindText     = types.KindText
	KindBool     = types.KindBool
	KindSequence = types.KindSequence
)

// Null returns the SQL NULL value.
func Null() Value { return types.Null() }

// Int returns an integer value.
func Int(i int64) Value { return types.Int(i) }

// Float returns a floating point value.
func Float(f float64) Value { return types.Float(f) }

// Text returns a text value. Text is always bound, even when it looks numeric.
func Text(s string) Value { return types.Text(s) }

// Bool returns a boolean value.
func Bool(b bool) Value { return types.Bool(b) }

// Seq returns a sequence value for membership tests.
func Seq(items ...Value) Value { return types.Seq(items...) }

// ValueOf infers a Value from a Go value.
func ValueOf(v any) Value { return types.ValueOf(v) }

// BuildError reports builder misuse detected before SQL is emitted.
type BuildError = types.BuildError

// UnsupportedFeatureError reports a feature the dialect cannot express.
type UnsupportedFeatureError = render.UnsupportedFeatureError

// IsUnsupported reports whether err, or any error it wraps, is an UnsupportedFeatureError.
func IsUnsupported(err error) bool { return render.IsUnsupported(err) }

// Capabilities describes the SQL features supported by a dialect.
type Capabilities = render.Capabilities
