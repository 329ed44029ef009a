// Package errors defines the client's error taxonomy: known request errors
// carrying Prisma P-codes, unknown request errors, validation errors and
// initialization errors, plus the mapping from driver errors onto them.
package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ProductionMode hides driver details from returned errors.
var ProductionMode = os.Getenv("ENV") == "production" || os.Getenv("ENV") == "prod"

// KnownRequestError is a failure the database reported in a way that maps
// onto a P-code (unique violation, missing record, ...).
type KnownRequestError struct {
	Code    string
	Message string
	// Meta carries code specific details, e.g. "target" for P2002 or
	// "cause" for P2025.
	Meta  map[string]interface{}
	Model string
	cause error
}

func (e *KnownRequestError) Error() string {
	msg := e.Code + ": " + e.Message
	if e.Model != "" {
		msg = e.Code + ": " + e.Model + ": " + e.Message
	}
	if e.cause != nil && !ProductionMode {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *KnownRequestError) Unwrap() error { return e.cause }

// Is matches any KnownRequestError with the same code.
func (e *KnownRequestError) Is(target error) bool {
	t, ok := target.(*KnownRequestError)
	return ok && t.Code == e.Code
}

// UnknownRequestError wraps a driver failure with no P-code.
type UnknownRequestError struct {
	Message string
	cause   error
}

func (e *UnknownRequestError) Error() string {
	if e.cause != nil && !ProductionMode {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *UnknownRequestError) Unwrap() error { return e.cause }

// ValidationError reports arguments rejected before any SQL was sent.
type ValidationError struct {
	Model     string
	Operation string
	Message   string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid ")
	if e.Model != "" {
		b.WriteString(e.Model)
		b.WriteString(".")
	}
	if e.Operation != "" {
		b.WriteString(e.Operation)
		b.WriteString("() ")
	}
	b.WriteString("invocation: ")
	b.WriteString(e.Message)
	return b.String()
}

// Is matches every ValidationError, so errors.Is(err, ErrValidation) works.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// InitializationError reports a client that could not start: bad config,
// unreachable database, rejected credentials.
type InitializationError struct {
	Code    string
	Message string
	cause   error
}

func (e *InitializationError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *InitializationError) Unwrap() error { return e.cause }

func (e *InitializationError) Is(target error) bool {
	t, ok := target.(*InitializationError)
	return ok && (t.Code == "" || t.Code == e.Code)
}

var (
	ErrValueTooLong         = &KnownRequestError{Code: "P2000", Message: "The provided value for the column is too long"}
	ErrUniqueConstraint     = &KnownRequestError{Code: "P2002", Message: "Unique constraint failed"}
	ErrForeignKeyConstraint = &KnownRequestError{Code: "P2003", Message: "Foreign key constraint failed"}
	ErrNullConstraint       = &KnownRequestError{Code: "P2011", Message: "Null constraint violation"}
	ErrTableNotFound        = &KnownRequestError{Code: "P2021", Message: "The table does not exist in the current database"}
	ErrNotFound             = &KnownRequestError{Code: "P2025", Message: "Record not found"}
	ErrTransaction          = &KnownRequestError{Code: "P2028", Message: "Transaction API error"}
	ErrWriteConflict        = &KnownRequestError{Code: "P2034", Message: "Transaction failed due to a write conflict or a deadlock"}
	ErrTimeout              = &KnownRequestError{Code: "P1008", Message: "Operations timed out"}
	ErrConnectionFailed     = &KnownRequestError{Code: "P1001", Message: "Can't reach database server"}

	ErrAuthenticationFailed = &InitializationError{Code: "P1000", Message: "Authentication failed against database server"}
	ErrDatabaseUnreachable  = &InitializationError{Code: "P1001", Message: "Can't reach database server"}
	ErrInitialization       = &InitializationError{}

	ErrValidation = &ValidationError{}
	ErrUnknown    = &UnknownRequestError{Message: "Unknown request error"}
)

// Known builds a KnownRequestError from a sentinel.
func Known(sentinel *KnownRequestError, model string, meta map[string]interface{}, cause error) *KnownRequestError {
	return &KnownRequestError{
		Code:    sentinel.Code,
		Message: sentinel.Message,
		Meta:    meta,
		Model:   model,
		cause:   cause,
	}
}

// NotFound is P2025 with a Prisma style cause message.
func NotFound(model, cause string) *KnownRequestError {
	return Known(ErrNotFound, model, map[string]interface{}{"cause": cause}, nil)
}

// Validation builds a ValidationError.
func Validation(model, operation, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Model: model, Operation: operation, Message: fmt.Sprintf(format, args...)}
}

// Initialization wraps a startup failure.
func Initialization(sentinel *InitializationError, cause error) *InitializationError {
	return &InitializationError{Code: sentinel.Code, Message: sentinel.Message, cause: cause}
}

func IsNotFound(err error) bool         { return errors.Is(err, ErrNotFound) }
func IsUniqueConstraint(err error) bool { return errors.Is(err, ErrUniqueConstraint) }
func IsForeignKey(err error) bool       { return errors.Is(err, ErrForeignKeyConstraint) }
func IsValidation(err error) bool       { return errors.Is(err, ErrValidation) }

// Code returns the P-code carried by err, or "" when there is none.
func Code(err error) string {
	var known *KnownRequestError
	if errors.As(err, &known) {
		return known.Code
	}
	var initErr *InitializationError
	if errors.As(err, &initErr) {
		return initErr.Code
	}
	return ""
}

// WrapError prefixes err with msg, hiding err in production.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if ProductionMode {
		return errors.New(msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
