package types

// JoinSide is the LEFT/RIGHT/FULL part of a join.
type JoinSide string

const (
	NoSide JoinSide = ""
	Left   JoinSide = "LEFT"
	Right  JoinSide = "RIGHT"
	Full   JoinSide = "FULL"
)

// JoinKind is the INNER/OUTER/CROSS part of a join.
type JoinKind string

const (
	Inner JoinKind = "INNER"
	Outer JoinKind = "OUTER"
	Cross JoinKind = "CROSS"
)

// Join describes one join clause.
// PrimaryKey belongs to the joined table, ForeignKey to the base table.
type Join struct {
	Side       JoinSide
	Kind       JoinKind
	Natural    bool
	Table      string
	PrimaryKey ColumnRef
	ForeignKey ColumnRef
}

// NeedsOn reports whether the join carries an ON predicate.
func (j Join) NeedsOn() bool {
	return !j.Natural && j.Kind != Cross
}
