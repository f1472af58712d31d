package types

import "fmt"

// BuildError reports a builder misuse detected before any SQL is emitted.
// Clause names the offending clause, e.g. "joins" or "offset".
type BuildError struct {
	Operation Operation
	Clause    string
	Message   string
}

func (e *BuildError) Error() string {
	return e.Message
}

// NewBuildError creates a BuildError with a formatted message.
func NewBuildError(op Operation, clause, format string, args ...any) *BuildError {
	return &BuildError{Operation: op, Clause: clause, Message: fmt.Sprintf(format, args...)}
}

// unused reports a clause that is not legal for the operation.
func unused(op Operation, clause string) *BuildError {
	return &BuildError{Operation: op, Clause: clause, Message: fmt.Sprintf("%s does not use %s", op, clause)}
}
