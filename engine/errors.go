/*
errors.go - Centralized error types for the engine

PURPOSE:
  All error values in one place for consistency and discoverability.
  Callers classify with errors.Is and the predicate helpers; the API
  layer maps classes to HTTP status codes.

ERROR CATEGORIES:
  1. Lookup errors - Referenced rows that do not exist
  2. Validation errors - Malformed periods or goal payloads
  3. Store errors - Database-level failures

SEE ALSO:
  - source.go: Source methods return these
  - api/handlers.go: maps classes to status codes
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrGoalNotFound is returned when no goal row exists for the requested
	// (user, year, month). Absence is a normal state, not a failure.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrInvalidPeriod is returned when a requested period is malformed
	// (year before 2000, or month outside 0..12).
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidGoal is returned when a goal payload fails validation.
	ErrInvalidGoal = errors.New("invalid goal")

	// ErrStoreFailed is returned when the store cannot complete a write.
	ErrStoreFailed = errors.New("store operation failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PeriodError reports the offending year/month alongside the class.
type PeriodError struct {
	Year  int
	Month int
}

func (e *PeriodError) Error() string {
	return fmt.Sprintf("invalid period: year=%d month=%d", e.Year, e.Month)
}

func (e *PeriodError) Unwrap() error {
	return ErrInvalidPeriod
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// ValidatePeriod rejects years before the epoch floor and out-of-range
// months. Month 0 is accepted and means "whole year".
func ValidatePeriod(year, month int) error {
	if year < MinYear || month < 0 || month > 12 {
		return &PeriodError{Year: year, Month: month}
	}
	return nil
}

// IsNotFound returns true if the error indicates a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGoalNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidGoal)
}
