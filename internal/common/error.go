// Package common defines sentinel errors and the typed storage error shared
// by the model, repository and service layers. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Error kinds. A *Error matches the sentinel of its kind.
	ErrHashFailure         = errors.New("hash failure")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrConnectivity        = errors.New("connectivity failure")
	ErrSchemaMismatch      = errors.New("schema mismatch")

	// Constraint violations, narrower than ErrConstraintViolation.
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrUniqueViolation     = errors.New("unique violation")
	ErrNotNullViolation    = errors.New("not null violation")
	ErrCheckViolation      = errors.New("check violation")
)
