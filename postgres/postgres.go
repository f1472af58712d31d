// Package postgres provides the PostgreSQL dialect for critql.
package postgres

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/zoobzio/critql/internal/render"
	"github.com/zoobzio/critql/internal/types"
)

// Renderer implements the PostgreSQL dialect renderer.
type Renderer struct {
	printer *render.Printer
}

// New creates a new PostgreSQL renderer.
func New() *Renderer {
	r := &Renderer{}
	r.printer = render.NewPrinter(r)
	return r
}

// Name returns "postgres".
func (r *Renderer) Name() string {
	return "postgres"
}

// Render converts a statement to PostgreSQL SQL with named parameters.
func (r *Renderer) Render(stmt *types.Statement) (*types.QueryResult, error) {
	return r.printer.Print(stmt)
}

// BindType rebinds named parameters to $1, $2, ...
func (r *Renderer) BindType() int {
	return sqlx.DOLLAR
}

// QuoteIdentifier quotes with double quotes, doubling embedded ones.
func (r *Renderer) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, `"`, `""`)
	return `"` + escaped + `"`
}

// Capabilities returns the SQL features supported by PostgreSQL.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		CaseInsensitiveLike: true,
		GeometricContains:   true,
		FullJoin:            true,
		NaturalJoin:         true,
		NullsOrdering:       true,
		Sequences:           true,
	}
}
