package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates an operation was rejected because of the current
// workflow state (e.g. confirming a conversion while rates are still loading).
var ErrConflict = errors.New("operation conflicts with current state")

// ErrLedgerWrite indicates a bulk rewrite transaction could not commit.
var ErrLedgerWrite = errors.New("ledger write failed")

// RateUnavailableError reports that no exchange rate could be produced for a
// currency pair on a given day after every lookup strategy (direct cache,
// inverse, hub triangulation, remote fetch) was exhausted. It is recoverable:
// callers retry later or surface a retry action to the user.
type RateUnavailableError struct {
	From string
	To   string
	Day  string // ISO-8601 calendar day
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("no exchange rate available for %s/%s on %s", e.From, e.To, e.Day)
}

// NewRateUnavailable builds a RateUnavailableError for the given pair and day.
func NewRateUnavailable(from, to, day string) *RateUnavailableError {
	return &RateUnavailableError{From: from, To: to, Day: day}
}

// IsRateUnavailable reports whether err is (or wraps) a RateUnavailableError.
func IsRateUnavailable(err error) bool {
	var rue *RateUnavailableError
	return errors.As(err, &rue)
}
