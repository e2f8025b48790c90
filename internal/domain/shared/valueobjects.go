// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// UUID is an opaque identifier exchanged at the boundary as a plain string.
type UUID string

// IsValid checks that the value parses as a UUID.
func (u UUID) IsValid() bool {
	_, err := uuid.Parse(string(u))
	return err == nil
}

// String returns the string representation.
func (u UUID) String() string {
	return string(u)
}

// NewUUID generates a random identifier.
func NewUUID() UUID {
	return UUID(uuid.NewString())
}

// ParseUUID validates and normalises an identifier.
func ParseUUID(value string) (UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", WrapError("shared", "ParseUUID", ErrInvalidID, "invalid UUID", err)
	}
	return UUID(parsed.String()), nil
}

// Matricule identifies a person (candidate or manager) in the reference system.
type Matricule string

// IsValid checks the matricule is not blank.
func (m Matricule) IsValid() bool {
	return strings.TrimSpace(string(m)) != ""
}

// String returns the string representation.
func (m Matricule) String() string {
	return string(m)
}

// ═══════════════════════════════════════════════════════════════════════════
// AnneeAcademique Value Object
// ═══════════════════════════════════════════════════════════════════════════

// AnneeAcademique is an academic year, e.g. 2020 for "2020-2021".
type AnneeAcademique struct {
	Annee int
	Debut time.Time
	Fin   time.Time
}

// IsValid checks the bounds are consistent.
func (a AnneeAcademique) IsValid() bool {
	return a.Annee > 0 && !a.Debut.IsZero() && a.Debut.Before(a.Fin)
}

// Contains checks if a date is within the academic year.
func (a AnneeAcademique) Contains(t time.Time) bool {
	return !t.Before(a.Debut) && !t.After(a.Fin)
}

// String formats the year as "2020-2021".
func (a AnneeAcademique) String() string {
	return fmt.Sprintf("%d-%d", a.Annee, a.Annee+1)
}

// NewAnneeAcademique builds the default bounds: 14 September to 13 September.
func NewAnneeAcademique(annee int) AnneeAcademique {
	return AnneeAcademique{
		Annee: annee,
		Debut: time.Date(annee, time.September, 14, 0, 0, 0, 0, time.UTC),
		Fin:   time.Date(annee+1, time.September, 13, 23, 59, 59, 0, time.UTC),
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Pagination represents pagination parameters.
type Pagination struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Offset returns the offset for database queries.
func (p Pagination) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// Limit returns the limit for database queries.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// NewPagination creates a new Pagination with defaults.
func NewPagination(page, pageSize int) Pagination {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

