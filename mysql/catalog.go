package mysql

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
	tablesQuery = `SELECT table_name AS name FROM information_schema.tables
WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
ORDER BY table_name`

	columnsQuery = `SELECT column_name AS name FROM information_schema.columns
WHERE table_schema = DATABASE() AND table_name = ?
ORDER BY column_name`

	describeQuery = `SELECT column_name AS name, column_type AS type, column_default AS dflt,
	is_nullable AS nullable, column_key AS col_key, extra AS extra
FROM information_schema.columns
WHERE table_schema = DATABASE() AND table_name = ?
ORDER BY ordinal_position`
)

type columnRow struct {
	Name     string         `db:"name"`
	Type     string         `db:"type"`
	Default  sql.NullString `db:"dflt"`
	Nullable string         `db:"nullable"`
	Key      string         `db:"col_key"`
	Extra    string         `db:"extra"`
}

// Catalog introspects the connection's current database through information_schema.
type Catalog struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

// NewCatalog creates a catalog over db.
func NewCatalog(db *sqlx.DB, logger zerolog.Logger) *Catalog {
	return &Catalog{db: db, logger: logger}
}

// TypeMap returns the MySQL type map.
func (c *Catalog) TypeMap() *schema.TypeMap {
	return typeMap
}

// Tables lists base tables alphabetically.
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

// Describe reads the live descriptor of table.
func (c *Catalog) Describe(ctx context.Context, table string) (*schema.Table, error) {
	var rows []columnRow
	if err := sqlx.SelectContext(ctx, c.db, &rows, describeQuery, table); err != nil {
		return nil, fmt.Errorf("failed to describe table %s: %w", table, err)
	}

	desc := schema.NewTable(table)
	desc.Exists = len(rows) > 0
	for _, r := range rows {
		col := schema.Column{
			Name:       r.Name,
			Type:       typeMap.Semantic(r.Type),
			Nullable:   r.Nullable != "NO",
			PrimaryKey: r.Key == "PRI",
			Default:    r.Default.String,
		}
		if strings.Contains(strings.ToLower(r.Extra), "auto_increment") {
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

// CreateTableSQL returns the CREATE TABLE statement for t.
func (c *Catalog) CreateTableSQL(_ context.Context, t *schema.Table) (string, error) {
	defs := make([]string, 0, t.Len())
	for _, col := range t.Columns() {
		native, ok := typeMap.Native(col.Type)
		if !ok {
			return "", fmt.Errorf("column %q: no mysql type for %s", col.Name, col.Type)
		}
		def := quote(col.Name) + " " + native
		if col.Has(schema.AutoIncrement) {
			def += " NOT NULL AUTO_INCREMENT"
		}
		if col.PrimaryKey {
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
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
