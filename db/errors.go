package db

import "github.com/carlosnayan/gigboard/internal/errors"

// The client's error types. Match them with errors.Is against the
// sentinels or errors.As against the types:
//
//	var known *db.KnownRequestError
//	if errors.As(err, &known) && known.Code == "P2002" { ... }
type (
	KnownRequestError   = errors.KnownRequestError
	UnknownRequestError = errors.UnknownRequestError
	ValidationError     = errors.ValidationError
	InitializationError = errors.InitializationError
)

var (
	ErrNotFound             = errors.ErrNotFound
	ErrUniqueConstraint     = errors.ErrUniqueConstraint
	ErrForeignKeyConstraint = errors.ErrForeignKeyConstraint
	ErrNullConstraint       = errors.ErrNullConstraint
	ErrValueTooLong         = errors.ErrValueTooLong
	ErrTableNotFound        = errors.ErrTableNotFound
	ErrTransaction          = errors.ErrTransaction
	ErrWriteConflict        = errors.ErrWriteConflict
	ErrTimeout              = errors.ErrTimeout
	ErrValidation           = errors.ErrValidation
)

func IsNotFound(err error) bool         { return errors.IsNotFound(err) }
func IsUniqueConstraint(err error) bool { return errors.IsUniqueConstraint(err) }
func IsForeignKey(err error) bool       { return errors.IsForeignKey(err) }
func IsValidation(err error) bool       { return errors.IsValidation(err) }

// ErrorCode returns the P-code carried by err, or "".
func ErrorCode(err error) string { return errors.Code(err) }

func notFound(model string) error {
	return errors.NotFound(model, "No "+model+" found")
}
