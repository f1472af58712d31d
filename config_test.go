package critql_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/critql"
)

func TestParseConfig(t *testing.T) {
	t.Setenv("CRITQL_TEST_PASSWORD", "s3cret")

	cfg, err := critql.ParseConfig([]byte(`
dialect: postgres
host: db.internal
port: 5433
user: app
password: ${CRITQL_TEST_PASSWORD}
database: shop
params:
  sslmode: disable
max_open_conns: 10
max_idle_conns: 2
conn_max_lifetime: 5m
location: UTC
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.Equal(t, map[string]string{"sslmode": "disable"}, cfg.Params)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)

	loc, err := cfg.TimeLocation()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := critql.ParseConfig([]byte("dialect: sqlite\ndatabase: ':memory:'\n"))
	require.NoError(t, err)

	loc, err := cfg.TimeLocation()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"malformed", "dialect: [", "failed to parse data source config"},
		{"no dialect", "database: x", "dialect is required"},
		{"unknown dialect", "dialect: oracle\ndatabase: x", `unknown dialect "oracle"`},
		{"no target", "dialect: mysql", "dsn or database is required"},
		{"bad port", "dialect: mysql\ndatabase: x\nport: 70000", "invalid port"},
		{"negative pool", "dialect: mysql\ndatabase: x\nmax_open_conns: -1", "pool sizes"},
		{"bad location", "dialect: mysql\ndatabase: x\nlocation: Mars/Olympus", "invalid location"},
		{"bad level", "dialect: mysql\ndatabase: x\nlog_level: loud", "invalid log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := critql.ParseConfig([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "critql.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dialect: mysql\ndsn: app@tcp(localhost:3306)/shop\n"), 0o600))

	cfg, err := critql.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "app@tcp(localhost:3306)/shop", cfg.DSN)

	_, err = critql.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_ApplyPool(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := &critql.Config{MaxOpenConns: 7}
	cfg.ApplyPool(db)
	assert.Equal(t, 7, db.Stats().MaxOpenConnections)

	(&critql.Config{}).ApplyPool(db)
	assert.Equal(t, 7, db.Stats().MaxOpenConnections, "zero values keep the current limits")
}
