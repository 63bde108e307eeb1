package lineitems

import (
	"context"

	"github.com/dmitrijs2005/invoicekeeper/internal/models"
)

type Repository interface {
	Create(ctx context.Context, item models.NewInvoiceLineItem) (*models.InvoiceLineItem, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*models.InvoiceLineItem, error)
	SumByInvoice(ctx context.Context, invoiceID int64) (models.Cents, error)
}
