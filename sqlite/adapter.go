package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/zoobzio/critql"
	"github.com/zoobzio/critql/schema"
)

// Adapter connects critql to SQLite through modernc.org/sqlite.
type Adapter struct {
	*Renderer
}

// NewAdapter creates a SQLite adapter.
func NewAdapter() *Adapter {
	return &Adapter{Renderer: New()}
}

// Connect opens the database file named by cfg.DSN or cfg.Database.
// An in-memory database is limited to one connection so every query sees it.
func (a *Adapter) Connect(_ context.Context, cfg *critql.Config) (*sqlx.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = cfg.Database
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// NewCatalog returns a pragma-based catalog over db.
func (a *Adapter) NewCatalog(db *sqlx.DB, logger zerolog.Logger) schema.Catalog {
	return NewCatalog(db, logger)
}
