package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/zoobzio/critql/schema"
)

const (
	tablesQuery = `SELECT name FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
ORDER BY name`

	columnsQuery = `SELECT name FROM pragma_table_info(?) ORDER BY name`

	describeQuery = `SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`
)

type columnRow struct {
	Name    string         `db:"name"`
	Type    string         `db:"type"`
	NotNull bool           `db:"notnull"`
	Default sql.NullString `db:"dflt_value"`
	PK      int            `db:"pk"`
}

// Catalog introspects a SQLite database through sqlite_master and
// pragma_table_info.
type Catalog struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

// NewCatalog creates a catalog over db.
func NewCatalog(db *sqlx.DB, logger zerolog.Logger) *Catalog {
	return &Catalog{db: db, logger: logger}
}

// TypeMap returns the SQLite type map.
func (c *Catalog) TypeMap() *schema.TypeMap {
	return typeMap
}

// Tables lists user tables alphabetically.
func (c *Catalog) Tables(ctx context.Context) ([]string, error) {
	var tables []string
	if err := sqlx.SelectContext(ctx, c.db, &tables, tablesQuery); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

// Columns lists a table's column names alphabetically.
func (c *Catalog) Columns(ctx context.Context, table string) ([]string, error) {
	var columns []string
	if err := sqlx.SelectContext(ctx, c.db, &columns, columnsQuery, table); err != nil {
		return nil, fmt.Errorf("failed to list columns of %s: %w", table, err)
	}
	return columns, nil
}

// Describe reads the live descriptor of table. A single INTEGER primary key
// aliases the rowid and is reported as autoincrement.
func (c *Catalog) Describe(ctx context.Context, table string) (*schema.Table, error) {
	var rows []columnRow
	if err := sqlx.SelectContext(ctx, c.db, &rows, describeQuery, table); err != nil {
		return nil, fmt.Errorf("failed to describe table %s: %w", table, err)
	}

	keys := 0
	for _, r := range rows {
		if r.PK > 0 {
			keys++
		}
	}

	desc := schema.NewTable(table)
	desc.Exists = len(rows) > 0
	for _, r := range rows {
		col := schema.Column{
			Name:       r.Name,
			Type:       typeMap.Semantic(r.Type),
			Nullable:   !r.NotNull && r.PK == 0,
			PrimaryKey: r.PK > 0,
			Default:    r.Default.String,
		}
		if keys == 1 && r.PK > 0 && strings.EqualFold(r.Type, "INTEGER") {
			col.Options = append(col.Options, schema.AutoIncrement)
		}
		desc.Add(col)
	}
	return desc, nil
}

// Cascade validates desired against the live table.
func (c *Catalog) Cascade(ctx context.Context, table string, desired *schema.Table) (*schema.Table, error) {
	return schema.Cascade(ctx, c, table, desired)
}

// CreateTableSQL returns the CREATE TABLE statement for t. Autoincrement is
// only valid on an INTEGER primary key.
func (c *Catalog) CreateTableSQL(_ context.Context, t *schema.Table) (string, error) {
	defs := make([]string, 0, t.Len())
	for _, col := range t.Columns() {
		native, ok := typeMap.Native(col.Type)
		if !ok {
			return "", fmt.Errorf("column %q: no sqlite type for %s", col.Name, col.Type)
		}
		def := quote(col.Name) + " " + native
		switch {
		case col.Has(schema.AutoIncrement):
			if !col.PrimaryKey || col.Type != schema.Integer {
				return "", fmt.Errorf("column %q: autoincrement requires an INTEGER primary key", col.Name)
			}
			def += " PRIMARY KEY AUTOINCREMENT"
		case col.PrimaryKey:
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}
	return "CREATE TABLE " + quote(t.Name) + " (" + strings.Join(defs, ", ") + ")", nil
}

// DropTable drops table.
func (c *Catalog) DropTable(ctx context.Context, table string) error {
	if _, err := c.db.ExecContext(ctx, "DROP TABLE "+quote(table)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	c.logger.Info().Str("table", table).Msg("table dropped")
	return nil
}

// EmptyTable deletes every row of table.
func (c *Catalog) EmptyTable(ctx context.Context, table string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM "+quote(table)); err != nil {
		return fmt.Errorf("failed to empty table %s: %w", table, err)
	}
	return nil
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
