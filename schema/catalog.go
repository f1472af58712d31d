package schema

import "context"

// Catalog introspects a live schema and generates DDL for one dialect.
// Every call issues fresh queries; nothing is cached.
type Catalog interface {
	Describer

	// Tables lists the base tables alphabetically.
	Tables(ctx context.Context) ([]string, error)

	// Columns lists a table's column names. A missing table yields no names.
	Columns(ctx context.Context, table string) ([]string, error)

	// Cascade validates desired against the live table, see Cascade.
	Cascade(ctx context.Context, table string, desired *Table) (*Table, error)

	// CreateTableSQL returns the CREATE TABLE statement for the descriptor.
	// It may execute preparatory DDL, such as creating sequences.
	CreateTableSQL(ctx context.Context, table *Table) (string, error)

	DropTable(ctx context.Context, table string) error
	EmptyTable(ctx context.Context, table string) error

	TypeMap() *TypeMap
}
