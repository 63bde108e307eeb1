package dbx

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/rowx"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Classify wraps err from operation op into a *common.Error carrying the
// failure kind. sql.ErrNoRows becomes common.ErrorNotFound; already
// classified errors pass through unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var classified *common.Error
	if errors.As(err, &classified) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, common.ErrorNotFound)
	}

	if errors.Is(err, common.ErrorValidation) {
		return common.NewError(common.KindConstraint, op, err)
	}

	if errors.Is(err, rowx.ErrSchemaMismatch) {
		return common.NewError(common.KindSchema, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		kind, violation := classifyCode(pgErr.Code)
		return &common.Error{
			Kind:       kind,
			Op:         op,
			Code:       pgErr.Code,
			Constraint: pgErr.ConstraintName,
			Violation:  violation,
			Err:        err,
		}
	}

	if isConnectivity(err) {
		return common.NewError(common.KindConnectivity, op, err)
	}

	return common.NewError(common.KindInternal, op, err)
}

// classifyCode maps a SQLSTATE to an error kind. The first two characters
// are the condition class.
func classifyCode(code string) (common.Kind, common.Violation) {
	switch code {
	case pgerrcode.ForeignKeyViolation:
		return common.KindConstraint, common.ViolationForeignKey
	case pgerrcode.UniqueViolation:
		return common.KindConstraint, common.ViolationUnique
	case pgerrcode.NotNullViolation:
		return common.KindConstraint, common.ViolationNotNull
	case pgerrcode.CheckViolation:
		return common.KindConstraint, common.ViolationCheck
	}

	if len(code) < 2 {
		return common.KindInternal, common.ViolationNone
	}
	switch code[:2] {
	case "23", // integrity constraint violation
		"22": // data exception: value out of range, invalid text
		return common.KindConstraint, common.ViolationNone
	case "08", // connection exception
		"40", // transaction rollback: serialization failure, deadlock
		"53", // insufficient resources
		"57": // operator intervention: admin shutdown, query canceled
		return common.KindConnectivity, common.ViolationNone
	case "42": // syntax error or access rule violation: undefined table/column
		return common.KindSchema, common.ViolationNone
	}
	return common.KindInternal, common.ViolationNone
}

func isConnectivity(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
