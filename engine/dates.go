/*
dates.go - Free-text date validation and canonicalization

PURPOSE:
  Raw record dates are free text. Besides real dates in two separator
  styles (2024-03-05, 2024/03/05), the fields carry domain markers like
  "return" or "unknown" and occasional trailing noise ("2024-03-05 14:00").
  Every component that buckets by time goes through these helpers so the
  whole engine agrees on what counts as a usable date.

CONTRACT:
  No helper panics and none returns an error. Invalid input yields the
  zero value (false, "", 0) and the caller treats the record as "date
  unknown" — filtered from whichever aggregate it would have affected.

SEE ALSO:
  - stock.go: lexical date comparisons on normalized YYYY-MM-DD strings
  - aggregate.go: YYYY-MM bucketing
*/
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MinYear is the floor for plausible years. Anything earlier is treated
// as data-entry noise.
const MinYear = 2000

// Exclusion markers: values users type into date fields that mean "this is
// not a sale/purchase you should count".
var exclusionMarkers = regexp.MustCompile(`(?i)return|unknown|cancelled`)

// A usable date starts with 4-digit-year / 2-digit-month / 2-digit-day,
// separated by '-' or '/'. Anything after the first ten characters is noise.
var datePattern = regexp.MustCompile(`^\d{4}[-/]\d{2}[-/]\d{2}`)

// IsValidDate reports whether s starts with a usable calendar date and
// carries no exclusion marker.
func IsValidDate(s string) bool {
	if s == "" {
		return false
	}
	if exclusionMarkers.MatchString(s) {
		return false
	}
	return datePattern.MatchString(s)
}

// NormalizeDate canonicalizes a valid date to YYYY-MM-DD.
// Returns "" for invalid input.
func NormalizeDate(s string) string {
	if !IsValidDate(s) {
		return ""
	}
	return strings.ReplaceAll(s[:10], "/", "-")
}

// NormalizeYearMonth canonicalizes a valid date to YYYY-MM.
// Returns "" for invalid input.
func NormalizeYearMonth(s string) string {
	if !IsValidDate(s) {
		return ""
	}
	return strings.Replace(s[:7], "/", "-", 1)
}

// ExtractYear returns the year of a valid date. Years before 2000 are
// treated as data-entry noise and rejected.
func ExtractYear(s string) (int, bool) {
	if !IsValidDate(s) {
		return 0, false
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil || year < MinYear {
		return 0, false
	}
	return year, true
}

// ExtractMonth returns the month (1-12) of a valid date, with the same
// year floor as ExtractYear.
func ExtractMonth(s string) (int, bool) {
	if _, ok := ExtractYear(s); !ok {
		return 0, false
	}
	month, err := strconv.Atoi(s[5:7])
	if err != nil || month < 1 || month > 12 {
		return 0, false
	}
	return month, true
}

// parseDay parses a normalized or normalizable date into a UTC midnight time.
func parseDay(s string) (time.Time, bool) {
	norm := NormalizeDate(s)
	if norm == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", norm)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// daysBetween returns whole days from one date to another.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// DaysInMonth returns the number of calendar days in (year, month).
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// EndOfMonth returns the last day of (year, month) as a UTC midnight time.
func EndOfMonth(year, month int) time.Time {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}

// EndOfPreviousMonth rolls to December of the prior year when month is
// January.
func EndOfPreviousMonth(year, month int) time.Time {
	if month == 1 {
		return EndOfMonth(year-1, 12)
	}
	return EndOfMonth(year, month-1)
}

// yearMonthKey formats a (year, month) bucket as YYYY-MM.
func yearMonthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
