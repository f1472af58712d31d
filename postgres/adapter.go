package postgres

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/zoobzio/critql"
	"github.com/zoobzio/critql/schema"
)

// Adapter connects critql to PostgreSQL through pgx.
type Adapter struct {
	*Renderer
}

// NewAdapter creates a PostgreSQL adapter.
func NewAdapter() *Adapter {
	return &Adapter{Renderer: New()}
}

// Connect validates the DSN with pgx and opens a pooled handle.
func (a *Adapter) Connect(_ context.Context, cfg *critql.Config) (*sqlx.DB, error) {
	connConfig, err := pgx.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	return sqlx.NewDb(stdlib.OpenDB(*connConfig), "pgx"), nil
}

// NewCatalog returns an information_schema catalog over db.
func (a *Adapter) NewCatalog(db *sqlx.DB, logger zerolog.Logger) schema.Catalog {
	return NewCatalog(db, logger)
}

// DSN returns cfg.DSN, or a postgres:// URL assembled from the discrete fields.
func DSN(cfg *critql.Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	u := url.URL{Scheme: "postgres", Path: "/" + cfg.Database}
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	if cfg.Port != 0 {
		host += ":" + strconv.Itoa(cfg.Port)
	}
	u.Host = host
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	q := url.Values{}
	for k, v := range cfg.Params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
