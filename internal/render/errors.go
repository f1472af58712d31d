package render

import (
	"errors"
	"fmt"
)

// UnsupportedFeatureError reports SQL that the dialect cannot express.
// It is raised while printing, before any SQL is returned.
type UnsupportedFeatureError struct {
	Dialect string
	Clause  string
	Feature string
	Hint    string
}

func (e UnsupportedFeatureError) Error() string {
	msg := fmt.Sprintf("%s cannot render %s in %s", e.Dialect, e.Feature, e.Clause)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// NewUnsupportedFeatureError reports feature, found in clause, as unsupported by dialect.
func NewUnsupportedFeatureError(dialect, clause, feature string, hint ...string) error {
	err := UnsupportedFeatureError{Dialect: dialect, Clause: clause, Feature: feature}
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	return err
}

// IsUnsupported reports whether err, or any error it wraps, is an UnsupportedFeatureError.
func IsUnsupported(err error) bool {
	var ufErr UnsupportedFeatureError
	return errors.As(err, &ufErr)
}
