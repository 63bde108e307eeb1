package invoices

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

// Create inserts an invoice. A missing owner fails with a foreign key violation.
func (r *PostgresRepository) Create(ctx context.Context, invoice models.NewInvoice) (*models.Invoice, error) {
	const op = "create invoice"

	if err := invoice.Validate(); err != nil {
		return nil, dbx.Classify(op, err)
	}

	query, args, err := models.InvoicesTable.Insert(invoice.Row())
	if err != nil {
		return nil, dbx.Classify(op, err)
	}

	return scanInvoice(op, r.db.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	const op = "get invoice"

	query, err := models.InvoicesTable.Select("invoice_id")
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	return scanInvoice(op, r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Invoice, error) {
	const op = "list invoices by owner"

	query, err := models.InvoicesTable.Select("owner_id")
	if err != nil {
		return nil, dbx.Classify(op, err)
	}

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	defer rows.Close()

	var result []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(op, rows)
		if err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(op, err)
	}
	return result, nil
}

func scanInvoice(op string, s rowx.Scanner) (*models.Invoice, error) {
	row, err := rowx.Scan(s, models.InvoicesTable.Columns)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	inv, err := models.InvoiceFromRow(row)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	return inv, nil
}
