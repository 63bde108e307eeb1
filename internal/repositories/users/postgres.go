// Package users stores accounts in the users table.
package users

import (
	"context"

	"github.com/dmitrijs2005/invoicekeeper/internal/dbx"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/dmitrijs2005/invoicekeeper/internal/rowx"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user and returns the stored row with its assigned user_id.
func (r *PostgresRepository) Create(ctx context.Context, user models.NewUser) (*models.User, error) {
	const op = "create user"

	if err := user.Validate(); err != nil {
		return nil, dbx.Classify(op, err)
	}

	query, args, err := models.UsersTable.Insert(user.Row())
	if err != nil {
		return nil, dbx.Classify(op, err)
	}

	return r.scanOne(op, r.db.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, "get user", "user_id", id)
}

// GetByUsername returns the oldest user with the given name. Usernames are
// not unique in the schema.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "get user by username", "username", username)
}

func (r *PostgresRepository) ListByEmail(ctx context.Context, email string) ([]*models.User, error) {
	const op = "list users by email"

	query, err := models.UsersTable.Select("email")
	if err != nil {
		return nil, dbx.Classify(op, err)
	}

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := r.scanOne(op, rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(op, err)
	}
	return result, nil
}

func (r *PostgresRepository) getBy(ctx context.Context, op, column string, value any) (*models.User, error) {
	query, err := models.UsersTable.Select(column)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	return r.scanOne(op, r.db.QueryRowContext(ctx, query+" LIMIT 1", value))
}

func (r *PostgresRepository) scanOne(op string, s rowx.Scanner) (*models.User, error) {
	row, err := rowx.Scan(s, models.UsersTable.Columns)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	u, err := models.UserFromRow(row)
	if err != nil {
		return nil, dbx.Classify(op, err)
	}
	return u, nil
}
