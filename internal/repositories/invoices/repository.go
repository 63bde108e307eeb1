package invoices

import (
	"context"

	"github.com/dmitrijs2005/invoicekeeper/internal/models"
)

type Repository interface {
	Create(ctx context.Context, invoice models.NewInvoice) (*models.Invoice, error)
	GetByID(ctx context.Context, id int64) (*models.Invoice, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.Invoice, error)
}
