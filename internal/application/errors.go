package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrTopicNotFound      = errors.New("topic not found")
	ErrInvalidTransition  = errors.New("invalid state transition")
)

// FieldErrors reports validation failures per field. Callers render it as
// the error detail map; there is no retry.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s %s", f, e[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err carries field-level validation errors.
func IsValidation(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
