package shared

import (
	"errors"
	"fmt"
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// BUSINESS RULE ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// BusinessError is a single violated business rule.
// Code is stable across versions (e.g. "PROPOSITION-24"), Kind is the
// symbolic name of the rule (e.g. "CandidatNonTrouveException").
type BusinessError struct {
	Code    string
	Kind    string
	Message string
}

// NewBusinessError creates a business error.
func NewBusinessError(code, kind, message string) *BusinessError {
	return &BusinessError{Code: code, Kind: kind, Message: message}
}

// Error implements the error interface.
func (e *BusinessError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches ErrBusinessRule and other business errors of the same kind.
func (e *BusinessError) Is(target error) bool {
	if target == ErrBusinessRule {
		return true
	}
	var other *BusinessError
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// MultipleBusinessErrors holds every rule violation raised during one
// validation pass, in the order the rules were run.
type MultipleBusinessErrors struct {
	Errors []*BusinessError
}

// Error implements the error interface.
func (m *MultipleBusinessErrors) Error() string {
	parts := make([]string, 0, len(m.Errors))
	for _, e := range m.Errors {
		parts = append(parts, e.Error())
	}
	return fmt.Sprintf("%d business rule violation(s): %s", len(m.Errors), strings.Join(parts, "; "))
}

// Is matches ErrBusinessRule.
func (m *MultipleBusinessErrors) Is(target error) bool {
	return target == ErrBusinessRule
}

// Kinds returns the kinds of the contained errors, in order.
func (m *MultipleBusinessErrors) Kinds() []string {
	kinds := make([]string, 0, len(m.Errors))
	for _, e := range m.Errors {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// Has reports whether at least one contained error is of the given kind.
func (m *MultipleBusinessErrors) Has(kind string) bool {
	return m.Count(kind) > 0
}

// Count returns how many contained errors are of the given kind.
func (m *MultipleBusinessErrors) Count(kind string) int {
	n := 0
	for _, e := range m.Errors {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Messages returns the human-readable messages, in order.
func (m *MultipleBusinessErrors) Messages() []string {
	msgs := make([]string, 0, len(m.Errors))
	for _, e := range m.Errors {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

// AsMultipleBusinessErrors extracts the aggregated violations from err.
func AsMultipleBusinessErrors(err error) (*MultipleBusinessErrors, bool) {
	var m *MultipleBusinessErrors
	if errors.As(err, &m) {
		return m, true
	}
	return nil, false
}
