// Package lineitems stores invoice line items. Prices are integer cents.
package lineitems

import (
	"context"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, item models.NewInvoiceLineItem) (*models.InvoiceLineItem, error) {
	const op = "create invoice line item"

	if err := item.Validate(); err != nil {
		return nil, dbx.Classify(op, err)
	}

	query, args, err := models.InvoiceLineItemsTable.Insert(item.Row())
	if err != nil {
		return nil, dbx.Classify(op, err)
	}

	return scanLineItem(op, r.db.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]*models.InvoiceLineItem, error) {
	const op = "list invoice line items"

	query, err := models.InvoiceLineItemsTable.Select("invoice_id")
	if err != nil {
		return nil, dbx.Classify(op, err)
	}

	rows, err := r.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	defer rows.Close()

	var result []*models.InvoiceLineItem
	for rows.Next() {
		li, err := scanLineItem(op, rows)
		if err != nil {
			return nil, err
		}
		result = append(result, li)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(op, err)
	}
	return result, nil
}

// SumByInvoice totals the line item prices of an invoice; an invoice with no
// items totals zero. The sum is done by the database in NUMERIC and cast
// back, so overflow surfaces as an error instead of wrapping.
func (r *PostgresRepository) SumByInvoice(ctx context.Context, invoiceID int64) (models.Cents, error) {
	const op = "sum invoice line items"

	query := fmt.Sprintf(`SELECT COALESCE(SUM(item_price_usd), 0)::BIGINT FROM %s WHERE invoice_id = $1`,
		models.InvoiceLineItemsTable.Name)

	var total int64
	if err := r.db.QueryRowContext(ctx, query, invoiceID).Scan(&total); err != nil {
		return 0, dbx.Classify(op, err)
	}
	return models.Cents(total), nil
}

func scanLineItem(op string, s rowx.Scanner) (*models.InvoiceLineItem, error) {
	row, err := rowx.Scan(s, models.InvoiceLineItemsTable.Columns)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	li, err := models.InvoiceLineItemFromRow(row)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	return li, nil
}
