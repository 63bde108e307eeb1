package permissions

import (
	"context"

	"github.com/dmitrijs2005/invoicekeeper/internal/models"
)

type Repository interface {
	Create(ctx context.Context, p models.NewInvoicePermissions) (*models.InvoicePermissions, error)
	Get(ctx context.Context, borrowerID, invoiceID int64) (*models.InvoicePermissions, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*models.InvoicePermissions, error)
	ListByBorrower(ctx context.Context, borrowerID int64) ([]*models.InvoicePermissions, error)
}
