package models

import (
	"github.com/dmitrijs2005/invoicekeeper/internal/rowx"
)

var InvoicePermissionsTable = rowx.Table{
	Name:    "invoice_permissions",
	Key:     "access_id",
	Columns: []string{"access_id", "borrower_id", "invoice_id", "read_access", "write_access"},
}

// InvoicePermissions grants a borrower access to someone else's invoice.
// A row with both flags false is an explicit "no access" grant; a missing
// row also means no access.
type InvoicePermissions struct {
	AccessID    int64
	BorrowerID  int64
	InvoiceID   int64
	ReadAccess  bool
	WriteAccess bool
}

func (p InvoicePermissions) Row() rowx.Row {
	return rowx.Row{
		{Name: "access_id", Value: p.AccessID},
		{Name: "borrower_id", Value: p.BorrowerID},
		{Name: "invoice_id", Value: p.InvoiceID},
		{Name: "read_access", Value: p.ReadAccess},
		{Name: "write_access", Value: p.WriteAccess},
	}
}

func InvoicePermissionsFromRow(r rowx.Row) (*InvoicePermissions, error) {
	d := r.Decode()
	p := &InvoicePermissions{
		AccessID:    d.Int64("access_id"),
		BorrowerID:  d.Int64("borrower_id"),
		InvoiceID:   d.Int64("invoice_id"),
		ReadAccess:  d.Bool("read_access"),
		WriteAccess: d.Bool("write_access"),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

type NewInvoicePermissions struct {
	BorrowerID  int64
	InvoiceID   int64
	ReadAccess  bool
	WriteAccess bool
}

// Validate accepts any ids; dangling references fail in the database as
// foreign key violations.
func (n NewInvoicePermissions) Validate() error {
	return nil
}

func (n NewInvoicePermissions) Row() rowx.Row {
	return rowx.Row{
		{Name: "borrower_id", Value: n.BorrowerID},
		{Name: "invoice_id", Value: n.InvoiceID},
		{Name: "read_access", Value: n.ReadAccess},
		{Name: "write_access", Value: n.WriteAccess},
	}
}
