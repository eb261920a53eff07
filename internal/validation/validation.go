// Package validation checks records before they are accepted and reports
// every violated rule at once.
package validation

import (
	"errors"
	"strings"
)

// Error is returned when a record breaks one or more rules. Reasons keeps
// the order in which the rules were checked.
type Error struct {
	Reasons []string
}

func (e *Error) Error() string {
	return "Validation failed: " + strings.Join(e.Reasons, ", ")
}

// IsValidationError reports whether err carries a *Error.
func IsValidationError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// Reasons extracts the violation list from err, or nil.
func Reasons(err error) []string {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Reasons
	}
	return nil
}

// violations collects reasons in check order.
type violations []string

func (v *violations) check(ok bool, reason string) {
	if !ok {
		*v = append(*v, reason)
	}
}

func (v *violations) add(reason string) {
	*v = append(*v, reason)
}

func (v violations) err() error {
	if len(v) == 0 {
		return nil
	}
	return &Error{Reasons: v}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
