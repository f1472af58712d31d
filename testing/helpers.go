// Package testing provides test utilities for critql.
package testing

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/zoobzio/critql"
	"github.com/zoobzio/critql/internal/render"
	"github.com/zoobzio/critql/schema"
	"github.com/zoobzio/dbml"
)

// TestProject returns a DBML project with users, posts and events tables.
// Every id column is an auto-incrementing primary key; events carries one
// column of every temporal and geometric type.
func TestProject() *dbml.Project {
	project := dbml.NewProject("critql")

	tables := []struct {
		name    string
		columns [][2]string
	}{
		{"users", [][2]string{
			{"id", "bigint"},
			{"name", "varchar"},
			{"email", "varchar"},
			{"age", "int"},
			{"active", "boolean"},
			{"created_at", "timestamp"},
		}},
		{"posts", [][2]string{
			{"id", "bigint"},
			{"user_id", "bigint"},
			{"parent_id", "bigint"},
			{"title", "varchar"},
			{"body", "text"},
			{"views", "int"},
			{"published_on", "date"},
		}},
		{"events", [][2]string{
			{"id", "bigint"},
			{"name", "varchar"},
			{"at", "timestamp"},
			{"opens", "time"},
			{"loc", "point"},
			{"area", "box"},
			{"score", "float8"},
		}},
	}
	for _, def := range tables {
		table := dbml.NewTable(def.name)
		for _, col := range def.columns {
			column := dbml.NewColumn(col[0], col[1])
			if col[0] == "id" {
				column.WithPrimaryKey().WithIncrement()
			}
			table.AddColumn(column)
		}
		project.AddTable(table)
	}
	return project
}

// Describer serves fixed table descriptors, keyed by table name.
// Tables it does not know are reported as missing.
type Describer map[string]*schema.Table

// Describe implements schema.Describer.
func (d Describer) Describe(_ context.Context, table string) (*schema.Table, error) {
	if t, ok := d[table]; ok {
		return t, nil
	}
	return schema.NewTable(table), nil
}

// TestDescriber returns a describer over TestProject mapped through types.
func TestDescriber(types *schema.TypeMap) Describer {
	d := make(Describer)
	for _, t := range schema.ProjectFromDBML(TestProject(), types) {
		d[t.Name] = t
	}
	return d
}

// AssertSQL compares expected and actual SQL, reporting detailed differences.
func AssertSQL(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nExpected: %s\nActual:   %s", expected, actual)
	}
}

// AssertCompiles compiles op and compares the SQL.
func AssertCompiles(t *testing.T, b *critql.Builder, op critql.Operation, expected string) {
	t.Helper()
	sql, err := b.Compile(op)
	if err != nil {
		t.Fatalf("Unexpected error compiling %s: %v", op, err)
	}
	AssertSQL(t, expected, sql)
}

// AssertRequiredParams checks the rendered parameter names, ignoring order.
func AssertRequiredParams(t *testing.T, result *critql.QueryResult, expected ...string) {
	t.Helper()
	got := append([]string(nil), result.RequiredParams...)
	want := append([]string(nil), expected...)
	sort.Strings(got)
	sort.Strings(want)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Required params mismatch:\nExpected: %v\nActual:   %v", want, got)
	}
}

// AssertArgs checks the bound SQL and its positional arguments.
func AssertArgs(t *testing.T, stmt *critql.Statement, sql string, args ...any) {
	t.Helper()
	AssertSQL(t, sql, stmt.SQL)
	if len(stmt.Args) != len(args) {
		t.Fatalf("Arg count mismatch: expected %d, got %d\nExpected: %v\nActual:   %v",
			len(args), len(stmt.Args), args, stmt.Args)
	}
	for i := range args {
		if stmt.Args[i] != args[i] {
			t.Errorf("Arg %d mismatch: expected %#v, got %#v", i+1, args[i], stmt.Args[i])
		}
	}
}

// AssertBuildError checks that err is a *critql.BuildError naming clause.
func AssertBuildError(t *testing.T, err error, clause string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected build error on %q but got nil", clause)
	}
	var be *critql.BuildError
	if !errors.As(err, &be) {
		t.Fatalf("Expected *BuildError, got %T: %v", err, err)
	}
	if be.Clause != clause {
		t.Errorf("Expected error on clause %q, got %q: %v", clause, be.Clause, err)
	}
}

// AssertUnsupported checks that err reports an unsupported feature whose name
// contains feature.
func AssertUnsupported(t *testing.T, err error, feature string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected %s to be unsupported but got nil", feature)
	}
	var ufe render.UnsupportedFeatureError
	if !errors.As(err, &ufe) {
		t.Fatalf("Expected UnsupportedFeatureError, got %T: %v", err, err)
	}
	if !strings.Contains(ufe.Feature, feature) {
		t.Errorf("Expected unsupported feature %q, got %q", feature, ufe.Feature)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertErrorContains checks that error message contains substr.
func AssertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q but got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("Expected error containing %q, got: %v", substr, err)
	}
}

// AssertPanics verifies that a function panics.
func AssertPanics(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic but function completed normally")
		}
	}()
	fn()
}
