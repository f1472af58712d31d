package types

// Operator represents criterion operators.
type Operator string

const (
	// Comparison operators.
	EQ Operator = "="
	NE Operator = "!="
	GT Operator = ">"
	GE Operator = ">="
	LT Operator = "<"
	LE Operator = "<="

	// Pattern operators. LIKE is case sensitive on PostgreSQL, ILIKE is not.
	LIKE     Operator = "LIKE"
	NotLike  Operator = "NOT LIKE"
	ILIKE    Operator = "ILIKE"
	NotILike Operator = "NOT ILIKE"

	// Null tests carry no parameter.
	IsNull    Operator = "IS NULL"
	IsNotNull Operator = "IS NOT NULL"

	// Membership and geometry.
	IN       Operator = "IN"
	Contains Operator = "@>"

	// Assign marks a criterion used as a column assignment.
	Assign Operator = ":="
)

// IsNullTest reports whether the operator needs no parameter.
func (op Operator) IsNullTest() bool {
	return op == IsNull || op == IsNotNull
}

// Valid reports whether the operator is known.
func (op Operator) Valid() bool {
	switch op {
	case EQ, NE, GT, GE, LT, LE, LIKE, NotLike, ILIKE, NotILike, IsNull, IsNotNull, IN, Contains, Assign:
		return true
	}
	return false
}
