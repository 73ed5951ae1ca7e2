package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientTokens indicates a debit was refused because the account
// balance is lower than the requested amount. This is a normal business
// outcome, not an infrastructure failure, and is never retried automatically.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// ErrInvalidStateTransition indicates a job lifecycle transition that is not
// present in the transition table.
var ErrInvalidStateTransition = errors.New("invalid state transition")

// ErrLedgerUnavailable indicates the token ledger store could not be reached
// or failed mid-operation. Callers should retry with backoff.
var ErrLedgerUnavailable = errors.New("token ledger unavailable")

// ErrScoringUnavailable indicates the external scoring capability was
// unreachable or rate limited. Per-candidate, non-fatal to a batch run.
var ErrScoringUnavailable = errors.New("scoring capability unavailable")

// ErrInvalidResponse indicates the scoring capability returned a payload that
// could not be parsed into a valid match result.
var ErrInvalidResponse = errors.New("invalid scoring response")

// ErrInvalidScore indicates a score outside [0,100] or a structurally
// malformed explanation was offered to the match cache.
var ErrInvalidScore = errors.New("invalid match score")

// AppError wraps an underlying error with an HTTP-ish status code and a
// message suitable for logging. Used by repositories for infrastructure
// failures where the sentinel errors above are too coarse.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
