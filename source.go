package critql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/zoobzio/critql/schema"
)

// Adapter is a dialect that can also connect to its database and introspect it.
type Adapter interface {
	Dialect

	// Connect opens a handle for the config. It does not ping.
	Connect(ctx context.Context, cfg *Config) (*sqlx.DB, error)

	// NewCatalog returns the dialect's schema catalog over db.
	NewCatalog(db *sqlx.DB, logger zerolog.Logger) schema.Catalog
}

// Option configures a DataSource.
type Option func(*DataSource)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(ds *DataSource) {
		ds.logger = logger
	}
}

// WithLocation sets the zone used to bind and fetch temporal values.
func WithLocation(loc *time.Location) Option {
	return func(ds *DataSource) {
		if loc != nil {
			ds.location = loc
		}
	}
}

// DataSource ties a database handle to its dialect, catalog, binder and materializer.
type DataSource struct {
	db           *sqlx.DB
	adapter      Adapter
	catalog      schema.Catalog
	binder       *Binder
	materializer *Materializer
	logger       zerolog.Logger
	location     *time.Location
}

// Open connects with cfg through adapter and verifies the connection.
func Open(ctx context.Context, cfg *Config, adapter Adapter, opts ...Option) (*DataSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !strings.EqualFold(cfg.Dialect, adapter.Name()) {
		return nil, fmt.Errorf("config dialect %q does not match adapter %q", cfg.Dialect, adapter.Name())
	}
	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	db, err := adapter.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", adapter.Name(), err)
	}
	cfg.ApplyPool(db.DB)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", adapter.Name(), err)
	}

	opts = append([]Option{WithLocation(loc)}, opts...)
	ds := NewDataSource(db, adapter, opts...)
	ds.logger = ds.logger.Level(level)
	ds.logger.Info().Str("dialect", adapter.Name()).Msg("data source opened")
	return ds, nil
}

// NewDataSource wraps an open handle.
func NewDataSource(db *sqlx.DB, adapter Adapter, opts ...Option) *DataSource {
	ds := &DataSource{
		db:       db,
		adapter:  adapter,
		logger:   zerolog.Nop(),
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(ds)
	}
	ds.catalog = adapter.NewCatalog(db, ds.logger)
	ds.binder = NewBinder(ds.catalog, ds.location, ds.logger)
	ds.materializer = NewMaterializer(ds.catalog.TypeMap(), ds.location)
	return ds
}

// Builder returns an empty builder for the data source's dialect.
func (ds *DataSource) Builder() *Builder {
	return NewBuilder(ds.adapter)
}

// Catalog returns the schema catalog.
func (ds *DataSource) Catalog() schema.Catalog {
	return ds.catalog
}

// DB returns the underlying handle.
func (ds *DataSource) DB() *sqlx.DB {
	return ds.db
}

// Statement coerces, compiles and binds op.
func (ds *DataSource) Statement(ctx context.Context, b *Builder, op Operation) (*Statement, error) {
	return ds.binder.Bind(ctx, b, op)
}

// Exec compiles and executes op.
func (ds *DataSource) Exec(ctx context.Context, b *Builder, op Operation) (sql.Result, error) {
	stmt, err := ds.Statement(ctx, b, op)
	if err != nil {
		return nil, err
	}
	return stmt.Exec(ctx, ds.db)
}

// FetchAll runs the builder's SELECT and materializes every row.
func (ds *DataSource) FetchAll(ctx context.Context, b *Builder) ([]Row, error) {
	stmt, err := ds.Statement(ctx, b, OpSelect)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.Query(ctx, ds.db)
	if err != nil {
		return nil, err
	}
	return ds.materializer.FetchAll(rows)
}

// Close closes the handle.
func (ds *DataSource) Close() error {
	return ds.db.Close()
}
