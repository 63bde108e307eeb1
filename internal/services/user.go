// Package services holds the invoicing business logic on top of the
// repositories. This file implements UserService: account creation with
// Argon2id password hashing, and password checks.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/config"
	"github.com/dmitrijs2005/invoicekeeper/internal/cryptox"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/repomanager"
)

// Seams for tests.
var (
	hashPassword   = cryptox.HashPassword
	verifyPassword = cryptox.VerifyPassword
)

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	params      cryptox.Params
	log         logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		params:      cfg.PasswordParams(),
		log:         log.With("service", "users"),
	}
}

// Create hashes password and stores a new user without a profile picture.
// Errors are *common.Error values: KindConstraint for missing fields or
// rejected rows, KindHash when hashing fails, KindConnectivity or
// KindSchema for database trouble.
func (s *UserService) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	const op = "create user"

	switch {
	case username == "":
		return nil, common.NewError(common.KindConstraint, op, fmt.Errorf("%w: username is required", common.ErrorValidation))
	case email == "":
		return nil, common.NewError(common.KindConstraint, op, fmt.Errorf("%w: email is required", common.ErrorValidation))
	case password == "":
		return nil, common.NewError(common.KindConstraint, op, fmt.Errorf("%w: password is required", common.ErrorValidation))
	}

	secret := []byte(password)
	defer common.WipeByteArray(secret)

	hash, err := hashPassword(secret, s.params)
	if err != nil {
		return nil, common.NewError(common.KindHash, op, err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, models.NewUser{
		Username:       username,
		Email:          email,
		ProfilePicture: nil,
		PasswordHash:   hash,
	})
	if err != nil {
		s.log.Warn(ctx, "user not created", "kind", common.KindOf(err).String())
		return nil, err
	}

	s.log.Info(ctx, "user created", "user_id", user.UserID)
	return user, nil
}

// Authenticate returns the user named username when password matches its
// stored hash. Unknown users and wrong passwords both yield
// common.ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	secret := []byte(password)
	defer common.WipeByteArray(secret)

	ok, err := verifyPassword(secret, user.PasswordHash)
	if err != nil {
		return nil, common.NewError(common.KindHash, "verify password", err)
	}
	if !ok {
		s.log.Debug(ctx, "password mismatch", "user_id", user.UserID)
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}
