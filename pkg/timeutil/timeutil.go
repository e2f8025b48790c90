// Package timeutil provides date helpers for the Brussels timezone and the
// Belgian academic calendar, where year N runs from 1 September N to
// 31 August N+1. Missing periods are labelled in French.
package timeutil

import (
	"fmt"
	"time"
)

// BrusselsTZ is the Europe/Brussels timezone, falling back to UTC+1 when
// the tz database is not available in the container.
var BrusselsTZ = loadBrussels()

func loadBrussels() *time.Location {
	loc, err := time.LoadLocation("Europe/Brussels")
	if err != nil {
		return time.FixedZone("Europe/Brussels", 60*60)
	}
	return loc
}

// MoisDebutAnneeAcademique is the month an academic year starts in.
const MoisDebutAnneeAcademique = time.September

// Now returns the current time in Brussels timezone.
func Now() time.Time {
	return time.Now().In(BrusselsTZ)
}

// Date creates a date at midnight UTC. Dates in the admission domain are
// calendar dates, never instants.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// StartOfMonth returns the first day of the month of t.
func StartOfMonth(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), 1)
}

// StartOfDay truncates t to its calendar date.
func StartOfDay(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// AddMonths moves a first-of-month date by n months.
func AddMonths(t time.Time, n int) time.Time {
	return StartOfMonth(t).AddDate(0, n, 0)
}

// AnneeAcademique returns the academic year t belongs to: the calendar year
// from September on, the previous one before.
func AnneeAcademique(t time.Time) int {
	if t.Month() >= MoisDebutAnneeAcademique {
		return t.Year()
	}
	return t.Year() - 1
}

// MonthsBetween returns the number of calendar months covered by [from, to],
// both bounds counted.
func MonthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return 12*(to.Year()-from.Year()) + int(to.Month()) - int(from.Month()) + 1
}

// InRange reports whether d falls in [from, to], dates compared by day.
func InRange(d, from, to time.Time) bool {
	d = StartOfDay(d)
	return !d.Before(StartOfDay(from)) && !d.After(StartOfDay(to))
}

// MonthNameFr returns the capitalised French name of a month.
func MonthNameFr(m time.Month) string {
	months := []string{
		"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
		"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
	}
	if m < time.January || m > time.December {
		return ""
	}
	return months[m-1]
}

// FormatMoisFr formats a month as "Septembre 2010".
func FormatMoisFr(t time.Time) string {
	return fmt.Sprintf("%s %d", MonthNameFr(t.Month()), t.Year())
}

// FormatPeriodeFr formats a month run as "De Septembre 2010 à Février 2011",
// or a single month when both bounds are equal.
func FormatPeriodeFr(from, to time.Time) string {
	if from.Year() == to.Year() && from.Month() == to.Month() {
		return FormatMoisFr(from)
	}
	return fmt.Sprintf("De %s à %s", FormatMoisFr(from), FormatMoisFr(to))
}
