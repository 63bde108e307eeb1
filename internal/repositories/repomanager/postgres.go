// Package repomanager provides a PostgreSQL RepositoryManager, wiring the
// repository constructors together with the goose schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/invoicekeeper/internal/dbx"
	"github.com/dmitrijs2005/invoicekeeper/internal/migrations"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/invoices"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/lineitems"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/permissions"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/proofs"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Invoices(db dbx.DBTX) invoices.Repository {
	return invoices.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Proofs(db dbx.DBTX) proofs.Repository {
	return proofs.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Permissions(db dbx.DBTX) permissions.Repository {
	return permissions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) LineItems(db dbx.DBTX) lineitems.Repository {
	return lineitems.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations to db.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return dbx.Classify("run migrations", gooseUpContext(ctx, db, "."))
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
