// Package permissions stores per-borrower access grants on invoices.
package permissions

import (
	"context"

	"github.com/dmitrijs2005/invoicekeeper/internal/dbx"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/dmitrijs2005/invoicekeeper/internal/rowx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create stores a grant. Both flags may be false. A second grant for the
// same borrower and invoice fails with common.ErrUniqueViolation.
func (r *PostgresRepository) Create(ctx context.Context, p models.NewInvoicePermissions) (*models.InvoicePermissions, error) {
	const op = "create invoice permissions"

	if err := p.Validate(); err != nil {
		return nil, dbx.Classify(op, err)
	}

	query, args, err := models.InvoicePermissionsTable.Insert(p.Row())
	if err != nil {
		return nil, dbx.Classify(op, err)
	}

	return scanPermissions(op, r.db.QueryRowContext(ctx, query, args...))
}

// Get returns the grant for borrowerID on invoiceID, or common.ErrorNotFound
// when there is none.
func (r *PostgresRepository) Get(ctx context.Context, borrowerID, invoiceID int64) (*models.InvoicePermissions, error) {
	const op = "get invoice permissions"

	query, err := models.InvoicePermissionsTable.Select("borrower_id", "invoice_id")
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	return scanPermissions(op, r.db.QueryRowContext(ctx, query, borrowerID, invoiceID))
}

func (r *PostgresRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]*models.InvoicePermissions, error) {
	return r.list(ctx, "list invoice permissions", "invoice_id", invoiceID)
}

func (r *PostgresRepository) ListByBorrower(ctx context.Context, borrowerID int64) ([]*models.InvoicePermissions, error) {
	return r.list(ctx, "list borrower permissions", "borrower_id", borrowerID)
}

func (r *PostgresRepository) list(ctx context.Context, op, column string, id int64) ([]*models.InvoicePermissions, error) {
	query, err := models.InvoicePermissionsTable.Select(column)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	defer rows.Close()

	var result []*models.InvoicePermissions
	for rows.Next() {
		p, err := scanPermissions(op, rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(op, err)
	}
	return result, nil
}

func scanPermissions(op string, s rowx.Scanner) (*models.InvoicePermissions, error) {
	row, err := rowx.Scan(s, models.InvoicePermissionsTable.Columns)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	p, err := models.InvoicePermissionsFromRow(row)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	return p, nil
}
