package users

import (
	"context"

	"github.com/dmitrijs2005/invoicekeeper/internal/models"
)

type Repository interface {
	Create(ctx context.Context, user models.NewUser) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListByEmail(ctx context.Context, email string) ([]*models.User, error)
}
