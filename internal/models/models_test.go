package models

import (
	"testing"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/rowx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every insertable row must build against its table.
func TestInsertRowsFitTables(t *testing.T) {
	tests := []struct {
		name  string
		table rowx.Table
		row   rowx.Row
	}{
		{"users", UsersTable, NewUser{Username: "a", Email: "e", PasswordHash: "h"}.Row()},
		{"invoices", InvoicesTable, NewInvoice{OwnerID: 1}.Row()},
		{"invoice_proof", InvoiceProofTable, NewInvoiceProof{InvoiceID: 1, Data: []byte("x")}.Row()},
		{"invoice_permissions", InvoicePermissionsTable, NewInvoicePermissions{BorrowerID: 1, InvoiceID: 1}.Row()},
		{"invoice_line_items", InvoiceLineItemsTable, NewInvoiceLineItem{InvoiceID: 1, ItemName: "n", ItemPriceUSD: 1}.Row()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, args, err := tt.table.Insert(tt.row)
			require.NoError(t, err)
			assert.Len(t, args, len(tt.table.Columns)-1)
		})
	}
}

// Entity rows list the table columns in schema order.
func TestEntityRowsMatchColumns(t *testing.T) {
	assert.Equal(t, UsersTable.Columns, User{}.Row().Names())
	assert.Equal(t, InvoicesTable.Columns, Invoice{}.Row().Names())
	assert.Equal(t, InvoiceProofTable.Columns, InvoiceProof{}.Row().Names())
	assert.Equal(t, InvoicePermissionsTable.Columns, InvoicePermissions{}.Row().Names())
	assert.Equal(t, InvoiceLineItemsTable.Columns, InvoiceLineItem{}.Row().Names())
}

func TestUserFromRow(t *testing.T) {
	u := User{UserID: 5, Username: "alice", Email: "a@x.com", PasswordHash: "h"}

	got, err := UserFromRow(u.Row())
	require.NoError(t, err)
	assert.Equal(t, &u, got)
	assert.Nil(t, got.ProfilePicture)

	u.ProfilePicture = []byte{0x89, 'P', 'N', 'G'}
	got, err = UserFromRow(u.Row())
	require.NoError(t, err)
	assert.Equal(t, u.ProfilePicture, got.ProfilePicture)
}

func TestNewUser_NilPictureIsNull(t *testing.T) {
	v, ok := NewUser{Username: "a"}.Row().Lookup("profile_picture")
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestFromRow_SchemaMismatch(t *testing.T) {
	_, err := UserFromRow(rowx.Row{{Name: "user_id", Value: int64(1)}})
	assert.ErrorIs(t, err, rowx.ErrSchemaMismatch)

	_, err = InvoiceFromRow(rowx.Row{{Name: "invoice_id", Value: "1"}, {Name: "owner_id", Value: int64(1)}})
	assert.ErrorIs(t, err, rowx.ErrSchemaMismatch)

	_, err = InvoicePermissionsFromRow(InvoicePermissions{}.Row()[:3])
	assert.ErrorIs(t, err, rowx.ErrSchemaMismatch)
}

func TestInvoicePermissions_NoAccessRow(t *testing.T) {
	p := InvoicePermissions{AccessID: 1, BorrowerID: 2, InvoiceID: 3}
	got, err := InvoicePermissionsFromRow(p.Row())
	require.NoError(t, err)
	assert.False(t, got.ReadAccess)
	assert.False(t, got.WriteAccess)

	assert.NoError(t, NewInvoicePermissions{BorrowerID: 2, InvoiceID: 3}.Validate())
}

func TestInvoiceProofFromRow(t *testing.T) {
	got, err := InvoiceProofFromRow(InvoiceProof{ProofID: 1, InvoiceID: 2, Data: []byte{1, 2, 3}}.Row())
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got.Data)
}

func TestInvoiceLineItem_PriceRoundTrip(t *testing.T) {
	price, err := ParseCents("$19.99")
	require.NoError(t, err)

	li := InvoiceLineItem{ID: 1, InvoiceID: 2, ItemName: "widget", ItemPriceUSD: price}
	v, _ := li.Row().Lookup("item_price_usd")
	assert.Equal(t, int64(1999), v)

	got, err := InvoiceLineItemFromRow(li.Row())
	require.NoError(t, err)
	assert.Equal(t, Cents(1999), got.ItemPriceUSD)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"user without name", NewUser{Email: "e", PasswordHash: "h"}.Validate()},
		{"user without email", NewUser{Username: "u", PasswordHash: "h"}.Validate()},
		{"user without hash", NewUser{Username: "u", Email: "e"}.Validate()},
		{"proof without data", NewInvoiceProof{InvoiceID: 1}.Validate()},
		{"line item without name", NewInvoiceLineItem{InvoiceID: 1}.Validate()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, common.ErrorValidation)
		})
	}

	assert.NoError(t, NewUser{Username: "u", Email: "e", PasswordHash: "h"}.Validate())
	assert.NoError(t, NewInvoiceProof{InvoiceID: 1, Data: []byte{}}.Validate())
}

func TestValidate_ReferencesAreLeftToTheDatabase(t *testing.T) {
	for _, id := range []int64{0, -5} {
		assert.NoError(t, NewInvoice{OwnerID: id}.Validate())
		assert.NoError(t, NewInvoiceProof{InvoiceID: id, Data: []byte{}}.Validate())
		assert.NoError(t, NewInvoicePermissions{BorrowerID: id, InvoiceID: id}.Validate())
		assert.NoError(t, NewInvoiceLineItem{InvoiceID: id, ItemName: "x"}.Validate())
	}
}
