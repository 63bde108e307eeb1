// Package models defines the records persisted by invoicekeeper and their
// mapping to and from generic rows. Relationships are plain foreign-key ids;
// resolving them is the repositories' job.
package models

import (
	"fmt"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/rowx"
)

// UsersTable describes the users table.
var UsersTable = rowx.Table{
	Name:    "users",
	Key:     "user_id",
	Columns: []string{"user_id", "username", "email", "profile_picture", "password_hash"},
}

// User is a stored account.
type User struct {
	UserID   int64
	Username string
	Email    string
	// ProfilePicture is nil when the column is NULL.
	ProfilePicture []byte
	// PasswordHash is a self-describing Argon2id PHC string.
	PasswordHash string
}

// Row maps u to a generic row in schema order.
func (u User) Row() rowx.Row {
	return rowx.Row{
		{Name: "user_id", Value: u.UserID},
		{Name: "username", Value: u.Username},
		{Name: "email", Value: u.Email},
		{Name: "profile_picture", Value: nullableBytes(u.ProfilePicture)},
		{Name: "password_hash", Value: u.PasswordHash},
	}
}

// UserFromRow rebuilds a User from a row holding every users column.
func UserFromRow(r rowx.Row) (*User, error) {
	d := r.Decode()
	u := &User{
		UserID:         d.Int64("user_id"),
		Username:       d.String("username"),
		Email:          d.String("email"),
		ProfilePicture: d.Bytes("profile_picture"),
		PasswordHash:   d.String("password_hash"),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return u, nil
}

// NewUser is a user that has not been inserted yet.
type NewUser struct {
	Username       string
	Email          string
	ProfilePicture []byte
	PasswordHash   string
}

// Validate checks the required fields.
func (n NewUser) Validate() error {
	switch {
	case n.Username == "":
		return fmt.Errorf("%w: username is required", common.ErrorValidation)
	case n.Email == "":
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	case n.PasswordHash == "":
		return fmt.Errorf("%w: password hash is required", common.ErrorValidation)
	}
	return nil
}

// Row maps n to the insert row for UsersTable.
func (n NewUser) Row() rowx.Row {
	return rowx.Row{
		{Name: "username", Value: n.Username},
		{Name: "email", Value: n.Email},
		{Name: "profile_picture", Value: nullableBytes(n.ProfilePicture)},
		{Name: "password_hash", Value: n.PasswordHash},
	}
}

// nullableBytes turns a nil slice into an untyped nil so drivers send NULL.
func nullableBytes(b []byte) any {
	if b == nil {
		return nil
	}
	return b
}
