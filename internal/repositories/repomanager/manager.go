package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/invoicekeeper/internal/dbx"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/invoices"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/lineitems"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/permissions"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/proofs"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Invoices(db dbx.DBTX) invoices.Repository
	Proofs(db dbx.DBTX) proofs.Repository
	Permissions(db dbx.DBTX) permissions.Repository
	LineItems(db dbx.DBTX) lineitems.Repository
}
