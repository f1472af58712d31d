// Package sqlite provides the SQLite dialect for critql.
package sqlite

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/zoobzio/critql/internal/render"
	"github.com/zoobzio/critql/internal/types"
)

// Renderer implements the SQLite dialect renderer.
type Renderer struct {
	printer *render.Printer
}

// New creates a new SQLite renderer.
func New() *Renderer {
	r := &Renderer{}
	r.printer = render.NewPrinter(r)
	return r
}

// Name returns "sqlite".
func (r *Renderer) Name() string {
	return "sqlite"
}

// Render converts a statement to SQLite SQL with named parameters.
func (r *Renderer) Render(stmt *types.Statement) (*types.QueryResult, error) {
	return r.printer.Print(stmt)
}

// BindType rebinds named parameters to ?.
func (r *Renderer) BindType() int {
	return sqlx.QUESTION
}

// QuoteIdentifier quotes with double quotes, doubling embedded ones.
func (r *Renderer) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}

// Capabilities returns the SQL features supported by SQLite 3.39 and later.
// SQLite has no ILIKE and no geometric types.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		FullJoin:      true,
		NaturalJoin:   true,
		NullsOrdering: true,
	}
}
