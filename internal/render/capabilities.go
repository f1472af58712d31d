package render

// Capabilities describes the SQL features supported by a dialect.
type Capabilities struct {
	CaseInsensitiveLike bool // ILIKE, NOT ILIKE
	GeometricContains   bool // polygon(col) @> point
	FullJoin            bool // FULL [OUTER] JOIN
	NaturalJoin         bool // NATURAL JOIN
	NullsOrdering       bool // ORDER BY ... NULLS FIRST/LAST
	Sequences           bool // CREATE SEQUENCE backed autoincrement
}
