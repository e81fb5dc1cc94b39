// Package validation implements the synchronous validation class of failures:
// problems detected before any storage or network I/O happens.
package validation

import "strings"

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Message flattens violations into one human-readable string, the only shape
// the view layer consumes.
func (v Violations) Message() string {
	if len(v) == 0 {
		return ""
	}
	parts := make([]string, 0, len(v))
	for field, reason := range v {
		parts = append(parts, field+": "+reason)
	}
	return strings.Join(parts, "; ")
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func RangeInt(field string, val, minVal, maxVal int, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// Email checks the minimal shape local@domain; full verification is the
// backend's job.
func Email(field, value string, v Violations) {
	at := strings.Index(value, "@")
	if at <= 0 || at == len(value)-1 {
		v[field] = "invalid_email"
	}
}

// ConfirmMatch flags a mismatched confirmation field (e.g. password confirm).
func ConfirmMatch(field, value, confirm string, v Violations) {
	if value != confirm {
		v[field] = "confirmation_mismatch"
	}
}

func MinLen(field, value string, n int, v Violations) {
	if len(value) < n {
		v[field] = "too_short"
	}
}
