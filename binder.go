package critql

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/zoobzio/critql/internal/types"
	"github.com/zoobzio/critql/schema"
)

// Timestamp layouts used when binding epoch seconds to temporal columns.
const (
	dateTimeLayout = "2006-01-02 15:04:05"
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05"
)

// Statement is a compiled statement with its arguments bound.
type Statement struct {
	// Named is the compiled SQL with :name placeholders.
	Named string
	// SQL is Named rewritten to the dialect's bind variables.
	SQL string
	// Args are the positional driver arguments for SQL.
	Args []any
	// Params are the named values bound into Named.
	Params map[string]any
}

// Preparer is satisfied by *sqlx.DB and *sqlx.Tx.
type Preparer interface {
	PreparexContext(ctx context.Context, query string) (*sqlx.Stmt, error)
}

// Exec executes the statement.
func (s *Statement) Exec(ctx context.Context, db sqlx.ExecerContext) (sql.Result, error) {
	return db.ExecContext(ctx, s.SQL, s.Args...)
}

// Query runs the statement and returns its rows.
func (s *Statement) Query(ctx context.Context, db sqlx.QueryerContext) (*sqlx.Rows, error) {
	return db.QueryxContext(ctx, s.SQL, s.Args...)
}

// Prepare prepares the statement. Execute the result with s.Args.
func (s *Statement) Prepare(ctx context.Context, db Preparer) (*sqlx.Stmt, error) {
	return db.PreparexContext(ctx, s.SQL)
}

// Binder coerces criterion values against live column types, compiles the
// builder and binds its parameters.
type Binder struct {
	catalog  schema.Describer
	location *time.Location
	logger   zerolog.Logger
}

// NewBinder creates a binder. A nil catalog disables coercion and a nil
// location means UTC.
func NewBinder(catalog schema.Describer, location *time.Location, logger zerolog.Logger) *Binder {
	if location == nil {
		location = time.UTC
	}
	return &Binder{catalog: catalog, location: location, logger: logger}
}

// Bind coerces a copy of the builder's criteria, compiles op and binds the
// parameters that the compiled SQL references. The builder itself is left
// untouched, so binding it again yields the same statement.
func (bd *Binder) Bind(ctx context.Context, b *Builder, op Operation) (*Statement, error) {
	if err := b.Err(); err != nil {
		return nil, err
	}
	b = b.clone()
	if err := bd.Coerce(ctx, b); err != nil {
		return nil, err
	}

	result, err := b.Render(op)
	if err != nil {
		return nil, err
	}

	required := make(map[string]bool, len(result.RequiredParams))
	for _, name := range result.RequiredParams {
		required[name] = true
	}
	params := make(map[string]any, len(required))
	for _, c := range b.Criteria() {
		for _, arg := range c.Arguments() {
			if !required[arg.Name] {
				bd.logger.Debug().Str("param", arg.Name).Str("operation", string(op)).Msg("parameter not used by statement")
				continue
			}
			params[arg.Name] = arg.Value
		}
	}
	for _, name := range result.RequiredParams {
		if _, ok := params[name]; !ok {
			return nil, fmt.Errorf("no value for parameter %q", name)
		}
	}

	query, args, err := sqlx.Named(result.SQL, params)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s statement: %w", op, err)
	}
	query = sqlx.Rebind(b.Dialect().BindType(), query)

	bd.logger.Debug().Str("dialect", b.Dialect().Name()).Str("sql", query).Int("args", len(args)).Msg("statement bound")

	return &Statement{
		Named:  result.SQL,
		SQL:    query,
		Args:   args,
		Params: params,
	}, nil
}

// Coerce rewrites each criterion value to suit its column's semantic type.
// Tables are described once per call. Unknown tables and columns are left alone.
func (bd *Binder) Coerce(ctx context.Context, b *Builder) error {
	if bd.catalog == nil {
		return nil
	}
	described := make(map[string]*schema.Table)
	for _, c := range b.Criteria() {
		name := criterionTable(b, c.Column)
		if name == "" {
			continue
		}
		table, ok := described[name]
		if !ok {
			var err error
			table, err = bd.catalog.Describe(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to coerce values for %s: %w", name, err)
			}
			described[name] = table
			if !table.Exists {
				bd.logger.Debug().Str("table", name).Msg("table not found, values left uncoerced")
			}
		}
		col, ok := table.Column(c.Column.Name)
		if !ok {
			continue
		}
		coerced := coerceValue(col.Type, c.Value, bd.location)
		if coerced.IsNull() && !c.Value.IsNull() {
			bd.logger.Debug().
				Str("table", name).
				Str("column", col.Name).
				Str("type", string(col.Type)).
				Str("value", c.Value.String()).
				Msg("value coerced to null")
		}
		c.Value = coerced
	}
	return nil
}

// criterionTable names the table a criterion column belongs to, or "" when it
// cannot be told.
func criterionTable(b *Builder, ref types.ColumnRef) string {
	switch {
	case ref.IsRaw():
		return ""
	case ref.Base:
		return b.TableName()
	case ref.Table != "" && ref.Table == b.Alias():
		return b.TableName()
	default:
		return ref.Table
	}
}

// coerceValue converts v for a column of type t. Values that cannot be
// converted become Null rather than failing.
func coerceValue(t schema.Type, v types.Value, loc *time.Location) types.Value {
	switch t {
	case schema.DateTime:
		if v.Kind() != types.KindInteger {
			return types.Null()
		}
		return types.Text(time.Unix(v.Integer(), 0).In(loc).Format(dateTimeLayout))
	case schema.Date:
		if v.Kind() == types.KindInteger {
			return types.Text(time.Unix(v.Integer(), 0).In(loc).Format(dateLayout))
		}
	case schema.Time:
		if v.Kind() == types.KindInteger {
			return types.Text(time.Unix(v.Integer(), 0).In(loc).Format(timeLayout))
		}
	case schema.Integer:
		switch {
		case v.IsSequence(), v.Kind() == types.KindInteger:
			return v
		case v.Kind() == types.KindFloat:
			return floatToInt(v.FloatValue())
		case v.Kind() == types.KindText:
			return textToInt(v.TextValue())
		default:
			return types.Null()
		}
	case schema.Float:
		if !v.IsSequence() && !v.IsNumeric() && !v.NumericText() {
			return types.Null()
		}
	}
	return v
}

// textToInt parses decimal integer text exactly. Fractional or exponent text
// is truncated when it fits in an int64.
func textToInt(s string) types.Value {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return types.Int(i)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return types.Null()
	}
	return floatToInt(f)
}

// floatToInt truncates f, or returns Null when f is not finite or lies
// outside the int64 range.
func floatToInt(f float64) types.Value {
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return types.Null()
	}
	return types.Int(int64(f))
}
