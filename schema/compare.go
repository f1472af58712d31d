package schema

import (
	"context"
	"fmt"
	"strings"
)

// MismatchKind classifies one column discrepancy.
type MismatchKind string

const (
	MissingColumn MismatchKind = "missing"
	TypeMismatch  MismatchKind = "type"
	NotPrimaryKey MismatchKind = "primary_key"
)

// Mismatch is one column discrepancy between a desired and an actual table.
type Mismatch struct {
	Column  string
	Kind    MismatchKind
	Desired Type
	Actual  Type
}

func (m Mismatch) message(table string) string {
	switch m.Kind {
	case MissingColumn:
		return fmt.Sprintf("column %q does not exist in table %s", m.Column, table)
	case NotPrimaryKey:
		return fmt.Sprintf("column %q is not the primary key in table %s", m.Column, table)
	default:
		return fmt.Sprintf("column %q type %s does not match database column type %s", m.Column, m.Desired, m.Actual)
	}
}

// SchemaMismatchError aggregates every discrepancy found by Compare.
type SchemaMismatchError struct {
	Table      string
	Mismatches []Mismatch
}

func (e *SchemaMismatchError) Error() string {
	msgs := make([]string, len(e.Mismatches))
	for i, m := range e.Mismatches {
		msgs[i] = m.message(e.Table)
	}
	return fmt.Sprintf("table %s does not match: %s", e.Table, strings.Join(msgs, "; "))
}

// Compare checks every desired column against the actual table.
// All discrepancies are collected before returning.
func Compare(desired, actual *Table) error {
	var mismatches []Mismatch
	for _, want := range desired.Columns() {
		got, ok := actual.Column(want.Name)
		if !ok {
			mismatches = append(mismatches, Mismatch{Column: want.Name, Kind: MissingColumn, Desired: want.Type})
			continue
		}
		if want.PrimaryKey && !got.PrimaryKey {
			mismatches = append(mismatches, Mismatch{Column: want.Name, Kind: NotPrimaryKey, Desired: want.Type, Actual: got.Type})
		}
		if want.Type != got.Type {
			mismatches = append(mismatches, Mismatch{Column: want.Name, Kind: TypeMismatch, Desired: want.Type, Actual: got.Type})
		}
	}
	if len(mismatches) > 0 {
		return &SchemaMismatchError{Table: actual.Name, Mismatches: mismatches}
	}
	return nil
}

// Describer introspects one table.
type Describer interface {
	Describe(ctx context.Context, table string) (*Table, error)
}

// Cascade validates desired against the live table. A missing table returns
// desired with Exists false; a matching table returns the live descriptor.
func Cascade(ctx context.Context, d Describer, table string, desired *Table) (*Table, error) {
	actual, err := d.Describe(ctx, table)
	if err != nil {
		return nil, err
	}
	if !actual.Exists {
		desired.Exists = false
		return desired, nil
	}
	if err := Compare(desired, actual); err != nil {
		return nil, err
	}
	return actual, nil
}
