package critql_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/zoobzio/critql"
	"github.com/zoobzio/critql/postgres"
	"github.com/zoobzio/critql/schema"
)

func newBuilder() *critql.Builder {
	return critql.NewBuilder(postgres.New())
}

func assertSQL(t *testing.T, want string, got string, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("compile error = %v", err)
	}
	if got != want {
		t.Errorf("SQL mismatch:\nExpected: %s\nActual:   %s", want, got)
	}
}

func assertBuildError(t *testing.T, err error, clause string) {
	t.Helper()
	var be *critql.BuildError
	if !errors.As(err, &be) {
		t.Fatalf("error = %v, want *BuildError", err)
	}
	if clause != "" && be.Clause != clause {
		t.Errorf("BuildError.Clause = %q, want %q (%v)", be.Clause, clause, err)
	}
}

// ============================================================================
// Compilation
// ============================================================================

func TestInsert(t *testing.T) {
	sql, err := newBuilder().Into("t").Assign("a", "x").Assign("b", 5).Insert()
	assertSQL(t, `INSERT INTO "t" ("a", "b") VALUES (:assgn_a, 5)`, sql, err)
}

func TestSelect(t *testing.T) {
	sql, err := newBuilder().From("t").Equal("id", 3).Select()
	assertSQL(t, `SELECT * FROM "t" WHERE "t"."id" = 3`, sql, err)
}

func TestUpdate(t *testing.T) {
	sql, err := newBuilder().Table("t").Assign("a", 1).Assign("b", "x").Equal("id", 2).Update()
	assertSQL(t, `UPDATE "t" SET "a" = 1, "b" = :assgn_b WHERE "t"."id" = 2`, sql, err)
}

func TestDelete(t *testing.T) {
	sql, err := newBuilder().From("t").LessThan("age", 18).Delete()
	assertSQL(t, `DELETE FROM "t" WHERE "t"."age" < 18`, sql, err)
}

func TestSelect_ClauseOrder(t *testing.T) {
	sql, err := newBuilder().
		From("users").
		Distinct().
		Columns("id", "users.name").
		SelectAs("count(*)", "total").
		GreaterThan("age", 21).
		OrderBy("name ASC").
		GroupBy("name").
		Range(10, 30).
		Select()
	assertSQL(t,
		`SELECT DISTINCT "id", "users"."name", count(*) AS "total" FROM "users"`+
			` WHERE "users"."age" > 21 ORDER BY "users"."name" ASC GROUP BY "users"."name" LIMIT 20 OFFSET 10`,
		sql, err)
}

func TestSelect_JoinSelectsBaseColumns(t *testing.T) {
	sql, err := newBuilder().From("posts").LeftOuterJoin("users", "id", "user_id").Select()
	assertSQL(t, `SELECT "posts".* FROM "posts" LEFT OUTER JOIN "users" ON "users"."id" = "posts"."user_id"`, sql, err)
}

func TestSelect_JoinsRenderNewestFirst(t *testing.T) {
	sql, err := newBuilder().
		From("comments").
		InnerJoin("posts", "id", "post_id").
		RightOuterJoin("users", "users.id", "comments.user_id").
		Select()
	assertSQL(t,
		`SELECT "comments".* FROM "comments"`+
			` RIGHT OUTER JOIN "users" ON "users"."id" = "comments"."user_id"`+
			` INNER JOIN "posts" ON "posts"."id" = "comments"."post_id"`,
		sql, err)
}

func TestSelect_CrossAndNaturalJoins(t *testing.T) {
	sql, err := newBuilder().From("a").CrossJoin("b").Select()
	assertSQL(t, `SELECT "a".* FROM "a" CROSS JOIN "b"`, sql, err)

	sql, err = newBuilder().From("a").NaturalJoin(critql.Left, critql.Outer, "b").Select()
	assertSQL(t, `SELECT "a".* FROM "a" NATURAL LEFT OUTER JOIN "b"`, sql, err)
}

// ============================================================================
// Values and operators
// ============================================================================

func TestEqual_NilBecomesNullTest(t *testing.T) {
	sql, err := newBuilder().From("t").Equal("deleted_at", nil).NotEqual("owner", nil).Select()
	assertSQL(t, `SELECT * FROM "t" WHERE "t"."deleted_at" IS NULL AND "t"."owner" IS NOT NULL`, sql, err)
}

func TestBetween_IsExclusive(t *testing.T) {
	sql, err := newBuilder().From("t").Between("n", 1, 10).Select()
	assertSQL(t, `SELECT * FROM "t" WHERE "t"."n" > 1 AND "t"."n" < 10`, sql, err)
}

func TestIn(t *testing.T) {
	sql, err := newBuilder().From("t").In("id", []int{1, 2, 3}).Select()
	assertSQL(t, `SELECT * FROM "t" WHERE "t"."id" IN (1,2,3)`, sql, err)

	sql, err = newBuilder().From("t").In("name", []string{"a", "b"}).Select()
	assertSQL(t, `SELECT * FROM "t" WHERE "t"."name" IN (:name_1, :name_2)`, sql, err)

	sql, err = newBuilder().From("t").In("id", 7).Select()
	assertSQL(t, `SELECT * FROM "t" WHERE "t"."id" IN (7)`, sql, err)

	_, err = newBuilder().From("t").In("id", []int{}).Select()
	assertBuildError(t, err, "conditions")
}

func TestNumericTextIsBound(t *testing.T) {
	sql, err := newBuilder().From("t").Equal("code", "42").Equal("ratio", 0.5).Select()
	assertSQL(t, `SELECT * FROM "t" WHERE "t"."code" = :code AND "t"."ratio" = 0.5`, sql, err)
}

func TestLike(t *testing.T) {
	sql, err := newBuilder().From("t").Like("name", "a%").NotLike("name", "%z").Select()
	assertSQL(t, `SELECT * FROM "t" WHERE "t"."name" LIKE :name AND "t"."name" NOT LIKE :name_2`, sql, err)
}

func TestAssign_TypeHints(t *testing.T) {
	b := newBuilder().Into("t").
		Assign("count", "", schema.Integer).
		Assign("flag", "", schema.Boolean).
		Assign("name", "", schema.String)
	criteria := b.Criteria()
	if len(criteria) != 3 {
		t.Fatalf("Criteria() = %d, want 3", len(criteria))
	}
	if !criteria[0].Value.IsNull() {
		t.Errorf("empty INTEGER should become NULL, got %s", criteria[0].Value)
	}
	if criteria[1].Value.Kind() != critql.KindBool || criteria[1].Value.BoolValue() {
		t.Errorf("empty BOOLEAN should become false, got %s", criteria[1].Value)
	}
	if criteria[2].Value.Kind() != critql.KindText {
		t.Errorf("empty STRING should stay text, got %s", criteria[2].Value)
	}
}

// ============================================================================
// Labels and aliasing
// ============================================================================

func TestLabels_RepeatedColumns(t *testing.T) {
	sql, err := newBuilder().From("t").Equal("col", "a").Equal("col", "b").Equal("col", "c").Select()
	assertSQL(t, `SELECT * FROM "t" WHERE "t"."col" = :col AND "t"."col" = :col_2 AND "t"."col" = :col_3`, sql, err)
}

func TestLabels_AssignmentsAndConditionsDoNotCollide(t *testing.T) {
	sql, err := newBuilder().Table("t").Assign("name", "new").Equal("name", "old").Update()
	assertSQL(t, `UPDATE "t" SET "name" = :assgn_name WHERE "t"."name" = :name`, sql, err)
}

func TestLabels_QualifiedColumns(t *testing.T) {
	sql, err := newBuilder().From("posts").InnerJoin("users", "id", "user_id").Equal("users.name", "ann").Select()
	assertSQL(t,
		`SELECT "posts".* FROM "posts" INNER JOIN "users" ON "users"."id" = "posts"."user_id" WHERE "users"."name" = :users_name`,
		sql, err)
}

func TestSelfJoin_Aliases(t *testing.T) {
	b := newBuilder().From("t").InnerJoin("t", "id", "parent_id")
	if b.Alias() != "t__2" {
		t.Errorf("Alias() = %q, want t__2", b.Alias())
	}
	b.InnerJoin("t", "id", "grand_id")
	if b.Alias() != "t__3" {
		t.Errorf("Alias() = %q, want t__3", b.Alias())
	}
	sql, err := b.Select()
	assertSQL(t,
		`SELECT "t__3".* FROM "t" AS "t__3"`+
			` INNER JOIN "t" ON "t"."id" = "t__3"."grand_id"`+
			` INNER JOIN "t" ON "t"."id" = "t__3"."parent_id"`,
		sql, err)
}

func TestSelfJoin_EarlierClausesFollowAlias(t *testing.T) {
	sql, err := newBuilder().
		From("t").
		Equal("name", "x").
		OrderBy("name").
		InnerJoin("t", "id", "pid").
		Select()
	assertSQL(t,
		`SELECT "t__2".* FROM "t" AS "t__2" INNER JOIN "t" ON "t"."id" = "t__2"."pid"`+
			` WHERE "t__2"."name" = :name ORDER BY "t__2"."name"`,
		sql, err)
}

func TestSelectAlias_NotPrefixed(t *testing.T) {
	sql, err := newBuilder().From("t").SelectAs("count(*)", "total").GreaterThan("total", 1).OrderBy("total DESC").Select()
	assertSQL(t, `SELECT *, count(*) AS "total" FROM "t" WHERE "total" > 1 ORDER BY "total" DESC`, sql, err)
}

func TestRawReferencesPassThrough(t *testing.T) {
	sql, err := newBuilder().From("t").Equal("lower(name)", "ann").Select()
	assertSQL(t, `SELECT * FROM "t" WHERE lower(name) = :lower_name_`, sql, err)
}

// ============================================================================
// Assignments as conditions
// ============================================================================

func TestUseAssignmentsAsConditions(t *testing.T) {
	b := newBuilder().Table("t").Assign("a", "x").Assign("b", nil).Assign("ids", []int{1, 2}).UseAssignmentsAsConditions(true)

	sql, err := b.Select()
	assertSQL(t, `SELECT * FROM "t" WHERE "t"."a" = :assgn_a AND "t"."ids" IN (1,2)`, sql, err)

	sql, err = b.Delete()
	assertSQL(t, `DELETE FROM "t" WHERE "t"."a" = :assgn_a AND "t"."ids" IN (1,2)`, sql, err)

	args := b.Arguments()
	if len(args) != 1 || args[0].BindName() != "assgn_a" {
		names := make([]string, len(args))
		for i, a := range args {
			names[i] = a.BindName()
		}
		t.Errorf("Arguments() = %v, want [assgn_a]", names)
	}
}

func TestAssignmentsIgnoredWithoutFlag(t *testing.T) {
	sql, err := newBuilder().Table("t").Assign("a", "x").Select()
	assertSQL(t, `SELECT * FROM "t"`, sql, err)

	_, err = newBuilder().Table("t").Assign("a", "x").Delete()
	assertBuildError(t, err, "assignments")
}

// ============================================================================
// Sanity checks
// ============================================================================

type clause struct {
	name  string
	apply func(b *critql.Builder)
}

var selectClauses = []clause{
	{"joins", func(b *critql.Builder) { b.InnerJoin("u", "id", "u_id") }},
	{"order by", func(b *critql.Builder) { b.OrderBy("a") }},
	{"group by", func(b *critql.Builder) { b.GroupBy("a") }},
	{"limit", func(b *critql.Builder) { b.Limit(5) }},
	{"offset", func(b *critql.Builder) { b.Offset(5) }},
	{"distinct", func(b *critql.Builder) { b.Distinct() }},
}

// subsets yields every non-empty combination of clauses.
func subsets(clauses []clause) [][]clause {
	var out [][]clause
	for mask := 1; mask < 1<<len(clauses); mask++ {
		var set []clause
		for i, c := range clauses {
			if mask&(1<<i) != 0 {
				set = append(set, c)
			}
		}
		out = append(out, set)
	}
	return out
}

func names(set []clause) string {
	parts := make([]string, len(set))
	for i, c := range set {
		parts[i] = c.name
	}
	return strings.Join(parts, "+")
}

func TestSanity_InsertRejectsEveryClauseCombination(t *testing.T) {
	all := append([]clause{{"conditions", func(b *critql.Builder) { b.Equal("id", 1) }}}, selectClauses...)
	for _, set := range subsets(all) {
		b := newBuilder().Into("t").Assign("a", 1)
		for _, c := range set {
			c.apply(b)
		}
		_, err := b.Insert()
		if err == nil {
			t.Errorf("INSERT with %s: expected error", names(set))
			continue
		}
		var be *critql.BuildError
		if !errors.As(err, &be) {
			t.Errorf("INSERT with %s: error = %v, want *BuildError", names(set), err)
		}
	}
}

func TestSanity_UpdateAndDeleteRejectSelectClauses(t *testing.T) {
	for _, set := range subsets(selectClauses) {
		update := newBuilder().Table("t").Assign("a", 1).Equal("id", 1)
		del := newBuilder().From("t").Equal("id", 1)
		for _, c := range set {
			c.apply(update)
			c.apply(del)
		}
		if _, err := update.Update(); err == nil {
			t.Errorf("UPDATE with %s: expected error", names(set))
		}
		if _, err := del.Delete(); err == nil {
			t.Errorf("DELETE with %s: expected error", names(set))
		}
	}
}

func TestSanity_ErrorNamesClause(t *testing.T) {
	_, err := newBuilder().Into("t").Assign("a", 1).InnerJoin("u", "id", "u_id").Insert()
	assertBuildError(t, err, "joins")
	if err.Error() != "INSERT does not use joins" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestSanity_InsertAndUpdateRequireAssignments(t *testing.T) {
	_, err := newBuilder().Into("t").Insert()
	assertBuildError(t, err, "assignments")

	_, err = newBuilder().Table("t").Equal("id", 1).Update()
	assertBuildError(t, err, "assignments")
}

func TestSanity_SelectWithoutTable(t *testing.T) {
	_, err := newBuilder().Select()
	assertBuildError(t, err, "table")
}

func TestSanity_OffsetRequiresLimit(t *testing.T) {
	_, err := newBuilder().From("t").Offset(10).Select()
	assertBuildError(t, err, "offset")
}

// ============================================================================
// Builder misuse
// ============================================================================

func TestAssign_WithoutTable(t *testing.T) {
	b := newBuilder().Assign("a", 1)
	if b.Err() == nil || !strings.Contains(b.Err().Error(), "without specifying table") {
		t.Errorf("Err() = %v", b.Err())
	}
}

func TestAssign_ForeignColumn(t *testing.T) {
	_, err := newBuilder().Into("t").Assign("u.a", 1).Insert()
	assertBuildError(t, err, "assignments")
}

func TestCondition_WithoutTable(t *testing.T) {
	b := newBuilder().Equal("id", 1)
	err := b.Err()
	assertBuildError(t, err, "table")
	if !strings.Contains(err.Error(), `"="`) || !strings.Contains(err.Error(), `"id"`) {
		t.Errorf("error %q should name the operator and column", err)
	}
}

func TestCondition_QualifiedWithoutTable(t *testing.T) {
	if err := newBuilder().Equal("users.id", 1).Err(); err != nil {
		t.Errorf("qualified column should not need a table: %v", err)
	}
}

func TestErrorsAreSticky(t *testing.T) {
	b := newBuilder().Equal("id", 1)
	first := b.Err()
	b.Table("t").Equal("name", "x").Limit(-1)
	if b.Err() != first {
		t.Errorf("Err() changed from %v to %v", first, b.Err())
	}
	if _, err := b.Select(); err != first {
		t.Errorf("Select() error = %v, want %v", err, first)
	}
}

func TestJoin_Errors(t *testing.T) {
	_, err := newBuilder().InnerJoin("u", "id", "u_id").Select()
	assertBuildError(t, err, "joins")

	_, err = newBuilder().From("t").Join(critql.NoSide, critql.Outer, "u", "id", "u_id").Select()
	assertBuildError(t, err, "joins")

	_, err = newBuilder().From("t").InnerJoin("u", "", "u_id").Select()
	assertBuildError(t, err, "joins")
}

func TestOrderBy_Invalid(t *testing.T) {
	for _, clause := range []string{"name sideways", "name DESC NULLS sideways", "NULLS LAST", "  "} {
		_, err := newBuilder().From("t").OrderBy(clause).Select()
		assertBuildError(t, err, "order by")
	}
}

func TestOrderBy_FunctionTermWithSpaces(t *testing.T) {
	sql, err := newBuilder().From("t").OrderBy("coalesce(a, b) DESC NULLS LAST").Select()
	assertSQL(t, `SELECT * FROM "t" ORDER BY coalesce(a, b) DESC NULLS LAST`, sql, err)
}

func TestOrderBy_NullsWithoutDirection(t *testing.T) {
	sql, err := newBuilder().From("t").OrderBy("name nulls first").Select()
	assertSQL(t, `SELECT * FROM "t" ORDER BY "t"."name" NULLS FIRST`, sql, err)
}

func TestNonFiniteFloatsAreBound(t *testing.T) {
	b := newBuilder().From("t").Equal("f", math.Inf(1)).LessThan("g", 2.5)
	sql, err := b.Select()
	assertSQL(t, `SELECT * FROM "t" WHERE "t"."f" = :f AND "t"."g" < 2.5`, sql, err)

	args := b.Arguments()
	if len(args) != 1 || !math.IsInf(args[0].Value.FloatValue(), 1) {
		t.Errorf("Arguments() = %v, want the infinity bound", args)
	}
}

func TestPaging_Invalid(t *testing.T) {
	_, err := newBuilder().From("t").Limit(-1).Select()
	assertBuildError(t, err, "limit")

	_, err = newBuilder().From("t").Range(10, 5).Select()
	assertBuildError(t, err, "limit")
}

func TestMustCompile_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile should panic on error")
		}
	}()
	newBuilder().MustCompile(critql.OpInsert)
}

func TestBuild_ReturnsStatement(t *testing.T) {
	stmt, err := newBuilder().From("t").Equal("id", 1).Build(critql.OpSelect)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if stmt.Table.Name != "t" || len(stmt.Where) != 1 {
		t.Errorf("Build() = %+v", stmt)
	}
}
