package critql

import "github.com/zoobzio/critql/internal/types"

// Dialect renders statements for one SQL dialect.
type Dialect interface {
	// Name identifies the dialect in errors and logs.
	Name() string

	// Render converts a statement to dialect SQL with named parameters.
	Render(stmt *types.Statement) (*types.QueryResult, error)

	// Capabilities reports the optional features the dialect supports.
	Capabilities() Capabilities

	// BindType is the sqlx bind variable style used to rebind named parameters.
	BindType() int
}
