package common

import (
	"errors"
	"fmt"
)

// Kind groups failures by who has to act on them.
type Kind uint8

const (
	// KindInternal is anything not recognised by the classifier.
	KindInternal Kind = iota
	// KindHash is a failure of the password hashing step.
	KindHash
	// KindConstraint is an input or constraint violation: the caller's fault.
	KindConstraint
	// KindConnectivity is an infrastructure failure that may succeed on retry.
	KindConnectivity
	// KindSchema means the code and the database schema disagree.
	KindSchema
)

func (k Kind) String() string {
	switch k {
	case KindHash:
		return "hash failure"
	case KindConstraint:
		return "constraint violation"
	case KindConnectivity:
		return "connectivity failure"
	case KindSchema:
		return "schema mismatch"
	default:
		return "internal error"
	}
}

// Retryable reports whether repeating the operation may succeed.
func (k Kind) Retryable() bool {
	return k == KindConnectivity
}

func (k Kind) sentinel() error {
	switch k {
	case KindHash:
		return ErrHashFailure
	case KindConstraint:
		return ErrConstraintViolation
	case KindConnectivity:
		return ErrConnectivity
	case KindSchema:
		return ErrSchemaMismatch
	default:
		return ErrorInternal
	}
}

// Violation names the constraint type behind a KindConstraint error.
type Violation string

const (
	ViolationNone       Violation = ""
	ViolationForeignKey Violation = "foreign_key"
	ViolationUnique     Violation = "unique"
	ViolationNotNull    Violation = "not_null"
	ViolationCheck      Violation = "check"
)

func (v Violation) sentinel() error {
	switch v {
	case ViolationForeignKey:
		return ErrForeignKeyViolation
	case ViolationUnique:
		return ErrUniqueViolation
	case ViolationNotNull:
		return ErrNotNullViolation
	case ViolationCheck:
		return ErrCheckViolation
	default:
		return nil
	}
}

// Error is a classified failure of a storage or hashing operation.
type Error struct {
	Kind Kind
	// Op names the failed operation, e.g. "create user".
	Op string
	// Code is the SQLSTATE reported by the database, if any.
	Code string
	// Constraint is the violated constraint name, if reported.
	Constraint string
	Violation  Violation
	Err        error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Constraint != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Constraint)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind and, for constraint errors,
// the sentinel of the violation.
func (e *Error) Is(target error) bool {
	if target == e.Kind.sentinel() {
		return true
	}
	if e.Kind == KindConstraint {
		if s := e.Violation.sentinel(); s != nil && target == s {
			return true
		}
	}
	return false
}

// NewError builds a classified error for op.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsRetryable reports whether err was classified as transient.
func IsRetryable(err error) bool {
	return KindOf(err).Retryable()
}
