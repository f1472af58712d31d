package mysql

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/zoobzio/critql"
	"github.com/zoobzio/critql/schema"
)

// Adapter connects critql to MySQL or MariaDB through go-sql-driver/mysql.
type Adapter struct {
	*Renderer
}

// NewAdapter creates a MySQL adapter.
func NewAdapter() *Adapter {
	return &Adapter{Renderer: New()}
}

// Connect validates the DSN and opens a pooled handle.
func (a *Adapter) Connect(_ context.Context, cfg *critql.Config) (*sqlx.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql database: %w", err)
	}
	return db, nil
}

// NewCatalog returns an information_schema catalog over db.
func (a *Adapter) NewCatalog(db *sqlx.DB, logger zerolog.Logger) schema.Catalog {
	return NewCatalog(db, logger)
}

// DSN validates cfg.DSN, or assembles a DSN from the discrete fields.
// Assembled DSNs always parse DATETIME columns into time.Time.
func DSN(cfg *critql.Config) (string, error) {
	if cfg.DSN != "" {
		if _, err := mysql.ParseDSN(cfg.DSN); err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		return cfg.DSN, nil
	}

	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Database
	mc.ParseTime = true
	mc.Net = "tcp"
	host, port := cfg.Host, cfg.Port
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = 3306
	}
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	if len(cfg.Params) > 0 {
		mc.Params = make(map[string]string, len(cfg.Params))
		for k, v := range cfg.Params {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN(), nil
}
