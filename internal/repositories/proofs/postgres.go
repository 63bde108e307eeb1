// Package proofs stores the binary evidence attached to invoices.
package proofs

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

// Create stores proof. An invoice_id with no invoice fails with
// common.ErrForeignKeyViolation.
func (r *PostgresRepository) Create(ctx context.Context, proof models.NewInvoiceProof) (*models.InvoiceProof, error) {
	const op = "create invoice proof"

	if err := proof.Validate(); err != nil {
		return nil, dbx.Classify(op, err)
	}

	query, args, err := models.InvoiceProofTable.Insert(proof.Row())
	if err != nil {
		return nil, dbx.Classify(op, err)
	}

	return scanProof(op, r.db.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.InvoiceProof, error) {
	const op = "get invoice proof"

	query, err := models.InvoiceProofTable.Select("proof_id")
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	return scanProof(op, r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListByInvoice(ctx context.Context, invoiceID int64) ([]*models.InvoiceProof, error) {
	const op = "list invoice proofs"

	query, err := models.InvoiceProofTable.Select("invoice_id")
	if err != nil {
		return nil, dbx.Classify(op, err)
	}

	rows, err := r.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	defer rows.Close()

	var result []*models.InvoiceProof
	for rows.Next() {
		p, err := scanProof(op, rows)
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

const listInfoQuery = `SELECT proof_id, invoice_id, octet_length(data) AS size ` +
	`FROM invoice_proof WHERE invoice_id = $1 ORDER BY proof_id`

// ListInfoByInvoice lists the proofs of an invoice with their sizes. The
// proof bytes stay in the database.
func (r *PostgresRepository) ListInfoByInvoice(ctx context.Context, invoiceID int64) ([]*models.InvoiceProofInfo, error) {
	const op = "list invoice proof info"

	rows, err := r.db.QueryContext(ctx, listInfoQuery, invoiceID)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	defer rows.Close()

	var result []*models.InvoiceProofInfo
	for rows.Next() {
		row, err := rowx.Scan(rows, models.InvoiceProofInfoColumns)
		if err != nil {
			return nil, dbx.Classify(op, err)
		}
		info, err := models.InvoiceProofInfoFromRow(row)
		if err != nil {
			return nil, dbx.Classify(op, err)
		}
		result = append(result, info)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(op, err)
	}
	return result, nil
}

func scanProof(op string, s rowx.Scanner) (*models.InvoiceProof, error) {
	row, err := rowx.Scan(s, models.InvoiceProofTable.Columns)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	p, err := models.InvoiceProofFromRow(row)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	return p, nil
}
