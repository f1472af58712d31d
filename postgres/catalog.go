package postgres

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
	tablesQuery = `SELECT table_name FROM information_schema.tables
WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
ORDER BY table_name`

	columnsQuery = `SELECT column_name FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1
ORDER BY column_name`

	describeQuery = `SELECT cols.column_name, cols.data_type, cols.column_default, cols.is_nullable,
	EXISTS (
		SELECT 1 FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND tc.table_schema = cols.table_schema
			AND tc.table_name = cols.table_name
			AND kcu.column_name = cols.column_name
	) AS is_primary
FROM information_schema.columns cols
WHERE cols.table_schema = current_schema() AND cols.table_name = $1
ORDER BY cols.ordinal_position`

	sequencesQuery = `SELECT sequence_name FROM information_schema.sequences
WHERE sequence_schema = current_schema() AND sequence_name LIKE $1`
)

// columnRow is one row of describeQuery.
type columnRow struct {
	Name      string         `db:"column_name"`
	DataType  string         `db:"data_type"`
	Default   sql.NullString `db:"column_default"`
	Nullable  string         `db:"is_nullable"`
	IsPrimary bool           `db:"is_primary"`
}

// Catalog introspects a PostgreSQL schema through information_schema.
// Only the current schema is visible.
type Catalog struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

// NewCatalog creates a catalog over db.
func NewCatalog(db *sqlx.DB, logger zerolog.Logger) *Catalog {
	return &Catalog{db: db, logger: logger}
}

// TypeMap returns the PostgreSQL type map.
func (c *Catalog) TypeMap() *schema.TypeMap {
	return typeMap
}

// Tables lists the base tables of the current schema alphabetically.
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

// Describe reads the live descriptor of table. A table with no visible
// columns is reported with Exists false.
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
			Type:       typeMap.Semantic(r.DataType),
			Nullable:   r.Nullable != "NO",
			PrimaryKey: r.IsPrimary,
			Default:    r.Default.String,
		}
		if strings.HasPrefix(r.Default.String, "nextval(") {
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

// CreateTableSQL returns the CREATE TABLE statement for t. Each autoincrement
// column gets a <table>_<column>_seq sequence, which is created immediately.
func (c *Catalog) CreateTableSQL(ctx context.Context, t *schema.Table) (string, error) {
	defs := make([]string, 0, t.Len())
	for _, col := range t.Columns() {
		native, ok := typeMap.Native(col.Type)
		if !ok {
			return "", fmt.Errorf("column %q: no postgres type for %s", col.Name, col.Type)
		}
		def := quote(col.Name) + " " + native
		if col.Has(schema.AutoIncrement) {
			seq := sequenceName(t.Name, col.Name)
			if _, err := c.db.ExecContext(ctx, "CREATE SEQUENCE "+seq); err != nil {
				return "", fmt.Errorf("failed to create sequence %s: %w", seq, err)
			}
			c.logger.Info().Str("table", t.Name).Str("sequence", seq).Msg("sequence created")
			def += " NOT NULL DEFAULT nextval('" + seq + "')"
		}
		if col.PrimaryKey {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}
	return "CREATE TABLE " + quote(t.Name) + " (" + strings.Join(defs, ", ") + ")", nil
}

// DropTable drops the table and every sequence named <table>_*.
func (c *Catalog) DropTable(ctx context.Context, table string) error {
	var sequences []string
	if err := sqlx.SelectContext(ctx, c.db, &sequences, sequencesQuery, table+"_%"); err != nil {
		return fmt.Errorf("failed to list sequences of %s: %w", table, err)
	}
	if _, err := c.db.ExecContext(ctx, "DROP TABLE "+quote(table)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	for _, seq := range sequences {
		if _, err := c.db.ExecContext(ctx, "DROP SEQUENCE "+quote(seq)); err != nil {
			return fmt.Errorf("failed to drop sequence %s: %w", seq, err)
		}
	}
	c.logger.Info().Str("table", table).Int("sequences", len(sequences)).Msg("table dropped")
	return nil
}

// EmptyTable deletes every row of table.
func (c *Catalog) EmptyTable(ctx context.Context, table string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM "+quote(table)); err != nil {
		return fmt.Errorf("failed to empty table %s: %w", table, err)
	}
	return nil
}

func sequenceName(table, column string) string {
	return table + "_" + column + "_seq"
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
