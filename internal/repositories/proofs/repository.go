package proofs

import (
	"context"

	"github.com/dmitrijs2005/invoicekeeper/internal/models"
)

type Repository interface {
	Create(ctx context.Context, proof models.NewInvoiceProof) (*models.InvoiceProof, error)
	GetByID(ctx context.Context, id int64) (*models.InvoiceProof, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*models.InvoiceProof, error)
	ListInfoByInvoice(ctx context.Context, invoiceID int64) ([]*models.InvoiceProofInfo, error)
}
