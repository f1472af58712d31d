// Package mysql provides the MySQL and MariaDB dialect for critql.
package mysql

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/zoobzio/critql/internal/render"
	"github.com/zoobzio/critql/internal/types"
)

// Renderer implements the MySQL dialect renderer.
type Renderer struct {
	printer *render.Printer
}

// New creates a new MySQL renderer.
func New() *Renderer {
	r := &Renderer{}
	r.printer = render.NewPrinter(r)
	return r
}

// Name returns "mysql".
func (r *Renderer) Name() string {
	return "mysql"
}

// Render converts a statement to MySQL SQL with named parameters.
func (r *Renderer) Render(stmt *types.Statement) (*types.QueryResult, error) {
	return r.printer.Print(stmt)
}

// BindType rebinds named parameters to ?.
func (r *Renderer) BindType() int {
	return sqlx.QUESTION
}

// QuoteIdentifier quotes with backticks, doubling embedded ones.
func (r *Renderer) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, "`", "``")
	return "`" + escaped + "`"
}

// Capabilities returns the SQL features supported by MySQL.
func (r *Renderer) Capabilities() render.Capabilities {
	return render.Capabilities{
		NaturalJoin: true,
	}
}
