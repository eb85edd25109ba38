package domain

import (
	"fmt"
	"time"
)

// Error types for consistent error handling across the service.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrInvalidDateRange indicates the end date precedes the start date or a bound could not be read.
type ErrInvalidDateRange struct {
	Start string
	End   string
}

func (e *ErrInvalidDateRange) Error() string {
	return fmt.Sprintf("invalid date range: %s to %s", e.Start, e.End)
}

// ErrSourceUnavailable indicates the order source call itself failed.
type ErrSourceUnavailable struct {
	Source string
	Err    error
}

func (e *ErrSourceUnavailable) Error() string {
	return fmt.Sprintf("source unavailable [%s]: %v", e.Source, e.Err)
}

func (e *ErrSourceUnavailable) Unwrap() error {
	return e.Err
}

// ErrFetchIncomplete indicates pagination did not converge within its safety limits.
type ErrFetchIncomplete struct {
	Pages   int
	Elapsed time.Duration
	Reason  string
}

func (e *ErrFetchIncomplete) Error() string {
	return fmt.Sprintf("fetch incomplete after %d pages (%s): %s", e.Pages, e.Elapsed.Round(time.Millisecond), e.Reason)
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrAggregationFailed is what callers see when a sales summary could not be produced.
// The cause is kept for errors.As and logging but is not part of the message.
type ErrAggregationFailed struct {
	Err error
}

func (e *ErrAggregationFailed) Error() string {
	return "an error occurred while fetching sales data"
}

func (e *ErrAggregationFailed) Unwrap() error {
	return e.Err
}
