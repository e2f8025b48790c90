// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation   = errors.New("validation error")
	ErrInvalidID    = errors.New("invalid ID")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyValue   = errors.New("value cannot be empty")

	// Business rule errors, always surfaced through MultipleBusinessErrors
	ErrBusinessRule = errors.New("business rule violation")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "proposition", "document", "checklist"
	Op      string // Operation that failed, e.g., "Get", "ApprouverParSic"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Proposition domain errors
var (
	ErrPropositionNonTrouvee  = NewDomainError("proposition", "Get", ErrNotFound, "proposition not found")
	ErrTransitionInterdite    = NewDomainError("proposition", "Transition", ErrStateTransition, "operation not allowed in the current status")
	ErrExperienceNonTrouvee   = NewDomainError("proposition", "FindExperience", ErrNotFound, "experience not found")
	ErrCandidatNonTrouve      = NewDomainError("profil", "Get", ErrNotFound, "candidate not found")
	ErrAnneeAcademiqueInconnu = NewDomainError("academic_year", "Get", ErrNotFound, "academic year not found")
)

// Document domain errors
var (
	ErrEmplacementNonTrouve     = NewDomainError("document", "Get", ErrNotFound, "document slot not found")
	ErrEmplacementNonLibre      = NewDomainError("document", "CreateFree", ErrInvalidInput, "only free document slots can be created by a manager")
	ErrEmplacementNonReclame    = NewDomainError("document", "Complete", ErrInvalidState, "document slot is not requested")
	ErrEmplacementNonModifiable = NewDomainError("document", "Update", ErrInvalidState, "document slot cannot be modified")
)

// Checklist domain errors
var (
	ErrTransitionChecklist       = NewDomainError("checklist", "Transition", ErrStateTransition, "checklist status transition not allowed")
	ErrChecklistNonInitialisee   = NewDomainError("checklist", "Get", ErrInvalidState, "checklist not initialized")
	ErrAuthentificationInterdite = NewDomainError("checklist", "Authenticate", ErrInvalidState, "authentication can only be changed while the experience is being authenticated")
	ErrStatutChecklistInvalide   = NewDomainError("checklist", "Validate", ErrInvalidInput, "unknown checklist status")
)

// External service errors
var (
	ErrPaiementIndisponible = NewDomainError("paiement", "Request", ErrServiceUnavailable, "payment provider is unavailable")
	ErrPaiementTimeout      = NewDomainError("paiement", "Request", ErrTimeout, "payment provider request timeout")
	ErrPaiementReponse      = NewDomainError("paiement", "Parse", ErrExternalService, "invalid response from payment provider")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue)
}

// IsInvalidState checks if the error is a precondition/state error.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState) || errors.Is(err, ErrStateTransition)
}

// IsBusinessRule checks if the error carries business rule violations.
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrBusinessRule)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConcurrentModification)
}
