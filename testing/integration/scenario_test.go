package integration

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/critql"
	"github.com/zoobzio/critql/schema"
)

const launchEpoch = int64(1700000000)

func eventsTable(name string) *schema.Table {
	return schema.NewTable(name).
		Add(schema.Column{Name: "id", Type: schema.Integer, PrimaryKey: true, Options: []schema.Option{schema.AutoIncrement}}).
		Add(schema.Column{Name: "parent_id", Type: schema.Integer}).
		Add(schema.Column{Name: "name", Type: schema.String}).
		Add(schema.Column{Name: "at", Type: schema.DateTime}).
		Add(schema.Column{Name: "score", Type: schema.Float})
}

// createTable creates a fresh table and drops it when the test ends.
func createTable(t *testing.T, ds *critql.DataSource, desired *schema.Table) {
	t.Helper()
	ctx := context.Background()

	live, err := ds.Catalog().Describe(ctx, desired.Name)
	require.NoError(t, err)
	if live.Exists {
		require.NoError(t, ds.Catalog().DropTable(ctx, desired.Name))
	}

	ddl, err := ds.Catalog().CreateTableSQL(ctx, desired)
	require.NoError(t, err)
	_, err = ds.DB().ExecContext(ctx, ddl)
	require.NoError(t, err, ddl)

	t.Cleanup(func() { _ = ds.Catalog().DropTable(context.Background(), desired.Name) })
}

// exerciseDataSource runs the same round trip against any dialect.
func exerciseDataSource(t *testing.T, ds *critql.DataSource, table string) {
	ctx := context.Background()
	createTable(t, ds, eventsTable(table))

	t.Run("catalog", func(t *testing.T) {
		tables, err := ds.Catalog().Tables(ctx)
		require.NoError(t, err)
		assert.Contains(t, tables, table)

		columns, err := ds.Catalog().Columns(ctx, table)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"at", "id", "name", "parent_id", "score"}, columns)

		live, err := ds.Catalog().Cascade(ctx, table, eventsTable(table))
		require.NoError(t, err)
		id, ok := live.Column("id")
		require.True(t, ok)
		assert.True(t, id.PrimaryKey)
		assert.True(t, id.Has(schema.AutoIncrement))
	})

	t.Run("insert", func(t *testing.T) {
		for i, name := range []string{"launch", "landing", "debrief"} {
			b := ds.Builder().Into(table).
				Assign("name", name).
				Assign("at", launchEpoch+int64(i)*3600).
				Assign("score", fmt.Sprintf("%d.5", i))
			if i > 0 {
				b.Assign("parent_id", 1)
			}
			res, err := ds.Exec(ctx, b, critql.OpInsert)
			require.NoError(t, err)
			n, err := res.RowsAffected()
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)
		}
	})

	t.Run("fetch", func(t *testing.T) {
		rows, err := ds.FetchAll(ctx, ds.Builder().From(table).Columns("name", "at", "score").Equal("name", "launch"))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, launchEpoch, rows[0]["at"])
		assert.Equal(t, "launch", fmt.Sprint(rows[0]["name"]))
	})

	t.Run("between and order", func(t *testing.T) {
		rows, err := ds.FetchAll(ctx, ds.Builder().From(table).
			Columns("name").
			Between("at", launchEpoch, launchEpoch+7200).
			OrderBy("id DESC"))
		require.NoError(t, err)
		require.Len(t, rows, 1, "between is exclusive")
		assert.Equal(t, "landing", fmt.Sprint(rows[0]["name"]))
	})

	t.Run("in and like", func(t *testing.T) {
		rows, err := ds.FetchAll(ctx, ds.Builder().From(table).In("name", []string{"launch", "debrief"}))
		require.NoError(t, err)
		assert.Len(t, rows, 2)

		rows, err = ds.FetchAll(ctx, ds.Builder().From(table).Like("name", "la%").OrderBy("name ASC"))
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("self join", func(t *testing.T) {
		rows, err := ds.FetchAll(ctx, ds.Builder().From(table).
			Columns(table+"__2.name").
			InnerJoin(table, "id", "parent_id").
			OrderBy("name ASC"))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "debrief", fmt.Sprint(rows[0]["name"]))
	})

	t.Run("update", func(t *testing.T) {
		res, err := ds.Exec(ctx, ds.Builder().Table(table).Assign("score", 9.5).Equal("name", "debrief"), critql.OpUpdate)
		require.NoError(t, err)
		n, _ := res.RowsAffected()
		assert.Equal(t, int64(1), n)

		rows, err := ds.FetchAll(ctx, ds.Builder().From(table).Columns("score").Equal("name", "debrief"))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "9.5", fmt.Sprint(rows[0]["score"]))
	})

	t.Run("delete with assignments as conditions", func(t *testing.T) {
		res, err := ds.Exec(ctx, ds.Builder().Table(table).Assign("name", "landing").UseAssignmentsAsConditions(true), critql.OpDelete)
		require.NoError(t, err)
		n, _ := res.RowsAffected()
		assert.Equal(t, int64(1), n)
	})

	t.Run("paging", func(t *testing.T) {
		rows, err := ds.FetchAll(ctx, ds.Builder().From(table).OrderBy("id ASC").Range(1, 2))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "debrief", fmt.Sprint(rows[0]["name"]))
	})

	t.Run("empty", func(t *testing.T) {
		require.NoError(t, ds.Catalog().EmptyTable(ctx, table))
		rows, err := ds.FetchAll(ctx, ds.Builder().From(table))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
