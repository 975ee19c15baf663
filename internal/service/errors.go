package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventInactive      = errors.New("event is no longer active")
	ErrEventPast          = errors.New("event has already started")
	ErrAlreadyRegistered  = errors.New("user already has an active registration for this event")
	ErrNotRegistered      = errors.New("no active registration for this event")
	ErrForbidden          = errors.New("only the organizer may modify this event")
	ErrConflict           = errors.New("request conflicted with concurrent updates, please retry")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already registered")
)

// Validation failure codes surfaced to API clients.
const (
	CodeMissingField        = "missing_field"
	CodeInvalidField        = "invalid_field"
	CodePastDate            = "past_date"
	CodeNonPositiveCapacity = "non_positive_capacity"
)

// ValidationError reports a single rejected input field.
type ValidationError struct {
	Field  string
	Code   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func errMissingField(field string) error {
	return &ValidationError{Field: field, Code: CodeMissingField, Reason: "is required"}
}

func errInvalidField(field, reason string) error {
	return &ValidationError{Field: field, Code: CodeInvalidField, Reason: reason}
}

func errPastDate(field string) error {
	return &ValidationError{Field: field, Code: CodePastDate, Reason: "must be in the future"}
}

func errNonPositiveCapacity() error {
	return &ValidationError{Field: "capacity", Code: CodeNonPositiveCapacity, Reason: "must be at least 1"}
}

// Postgres SQLSTATE codes the services react to.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// Unique constraint names created by pkg/database.
const (
	uniqueUsersUsername      = "idx_users_username"
	uniqueUsersEmail         = "idx_users_email"
	uniqueActiveRegistration = "idx_registrations_active"
)

// isUniqueViolation reports whether err is a Postgres unique violation on the
// named constraint; an empty constraint matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// isRetryableTxError reports whether the transaction was aborted by a
// serialization failure or deadlock and is worth retrying.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}
