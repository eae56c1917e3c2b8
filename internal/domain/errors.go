package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSubmission is returned when required submission fields are missing or malformed.
	ErrInvalidSubmission = errors.New("invalid data")
	// ErrCandidateNotFound is returned when no candidate has the requested id.
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrQuestionNotFound indicates a requested question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidCredentials is returned by login when no account matches.
	ErrInvalidCredentials = errors.New("invalid email/whatsapp or password")
	// ErrEmailTaken and ErrWhatsappTaken guard registration uniqueness.
	ErrEmailTaken    = errors.New("email already in use")
	ErrWhatsappTaken = errors.New("whatsapp number already in use")
	// ErrUnauthorized means the caller presented no valid token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the caller is authenticated but not an admin.
	ErrForbidden = errors.New("access denied, admin required")
	// ErrPersistence wraps store failures surfaced to clients.
	ErrPersistence = errors.New("persistence failure")
)

// AttemptLimitError is returned when the attempt gate denies a submission.
type AttemptLimitError struct {
	MaxAttempts int
}

func (e *AttemptLimitError) Error() string {
	return fmt.Sprintf("you have reached the limit of %d attempt(s), contact the administrator", e.MaxAttempts)
}

// ValidationError carries a client-facing reason for a rejected request.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSubmission
}

// Invalid builds a ValidationError.
func Invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
