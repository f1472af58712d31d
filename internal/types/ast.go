package types

import "fmt"

// Operation is the statement kind a builder is compiled into.
type Operation string

const (
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
	OpSelect Operation = "SELECT"
)

// Direction is an ORDER BY direction. The empty direction leaves it to the database.
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// NullsOrdering places NULLs in an ORDER BY term.
type NullsOrdering string

const (
	NullsFirst NullsOrdering = "NULLS FIRST"
	NullsLast  NullsOrdering = "NULLS LAST"
)

// Statement is one compiled statement, ready for a dialect printer.
//
//nolint:govet // fieldalignment: clause order mirrors the emitted SQL
type Statement struct {
	Operation   Operation
	Table       TableRef
	Distinct    bool
	Columns     []Expr
	Aliased     []AliasedExpr
	Joins       []JoinClause
	Where       []BinaryOp
	Assignments []Assignment
	Order       []OrderTerm
	Group       []Expr
	Limit       *int
	Offset      *int

	// AssignmentsAsConditions makes Filters part of the WHERE clause.
	// Filters holds the non-null assignments rendered as equality tests.
	AssignmentsAsConditions bool
	Filters                 []BinaryOp
}

// Conditions returns the WHERE terms in emission order.
func (s *Statement) Conditions() []BinaryOp {
	if !s.AssignmentsAsConditions || len(s.Filters) == 0 {
		return s.Where
	}
	out := make([]BinaryOp, 0, len(s.Where)+len(s.Filters))
	out = append(out, s.Where...)
	return append(out, s.Filters...)
}

// SelectsStar reports whether the select list is the bare "*".
func (s *Statement) SelectsStar() bool {
	if len(s.Columns) == 0 {
		return true
	}
	if len(s.Columns) != 1 {
		return false
	}
	switch c := s.Columns[0].(type) {
	case Identifier:
		return c.Star && c.Table == ""
	case Raw:
		return c.SQL == "*"
	}
	return false
}

// Validate rejects clauses that are not legal for the statement kind.
func (s *Statement) Validate() error {
	switch s.Operation {
	case OpInsert:
		if len(s.Where) > 0 {
			return unused(s.Operation, "conditions")
		}
		if err := s.rejectSelectClauses(); err != nil {
			return err
		}
		if err := s.requireTable(); err != nil {
			return err
		}
		if len(s.Assignments) == 0 {
			return NewBuildError(s.Operation, "assignments", "%s requires at least one assignment", s.Operation)
		}
	case OpUpdate:
		if err := s.rejectSelectClauses(); err != nil {
			return err
		}
		if err := s.requireTable(); err != nil {
			return err
		}
		if len(s.Assignments) == 0 {
			return NewBuildError(s.Operation, "assignments", "%s requires at least one assignment", s.Operation)
		}
	case OpDelete:
		if err := s.rejectSelectClauses(); err != nil {
			return err
		}
		if len(s.Assignments) > 0 && !s.AssignmentsAsConditions {
			return NewBuildError(s.Operation, "assignments",
				"%s does not use assignments, enable UseAssignmentsAsConditions to filter by them", s.Operation)
		}
		if err := s.requireTable(); err != nil {
			return err
		}
	case OpSelect:
		if s.Table.Name == "" {
			switch {
			case len(s.Conditions()) > 0:
				return NewBuildError(s.Operation, "table", "%s requires a table when using conditions", s.Operation)
			case len(s.Joins) > 0:
				return NewBuildError(s.Operation, "table", "%s requires a table when using joins", s.Operation)
			case len(s.Order) > 0:
				return NewBuildError(s.Operation, "table", "%s requires a table when using order by", s.Operation)
			case len(s.Group) > 0:
				return NewBuildError(s.Operation, "table", "%s requires a table when using group by", s.Operation)
			case s.SelectsStar():
				return NewBuildError(s.Operation, "table", "no table has been selected")
			}
		}
		if s.Offset != nil && s.Limit == nil {
			return NewBuildError(s.Operation, "offset", "limit must be defined when using offset")
		}
	default:
		return fmt.Errorf("unsupported operation: %s", s.Operation)
	}
	return nil
}

func (s *Statement) rejectSelectClauses() error {
	switch {
	case len(s.Joins) > 0:
		return unused(s.Operation, "joins")
	case len(s.Order) > 0:
		return unused(s.Operation, "order by")
	case len(s.Group) > 0:
		return unused(s.Operation, "group by")
	case s.Limit != nil:
		return unused(s.Operation, "limit")
	case s.Offset != nil:
		return unused(s.Operation, "offset")
	case s.Distinct:
		return unused(s.Operation, "distinct")
	}
	return nil
}

func (s *Statement) requireTable() error {
	if s.Table.Name == "" {
		return NewBuildError(s.Operation, "table", "%s requires a table", s.Operation)
	}
	return nil
}
