package models

import (
	"github.com/dmitrijs2005/invoicekeeper/internal/rowx"
)

var InvoicesTable = rowx.Table{
	Name:    "invoices",
	Key:     "invoice_id",
	Columns: []string{"invoice_id", "owner_id"},
}

type Invoice struct {
	InvoiceID int64
	OwnerID   int64
}

func (i Invoice) Row() rowx.Row {
	return rowx.Row{
		{Name: "invoice_id", Value: i.InvoiceID},
		{Name: "owner_id", Value: i.OwnerID},
	}
}

func InvoiceFromRow(r rowx.Row) (*Invoice, error) {
	d := r.Decode()
	i := &Invoice{
		InvoiceID: d.Int64("invoice_id"),
		OwnerID:   d.Int64("owner_id"),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return i, nil
}

type NewInvoice struct {
	OwnerID int64
}

// Validate has nothing to check locally: the owner reference is enforced by
// the invoices_owner_id_fkey constraint.
func (n NewInvoice) Validate() error {
	return nil
}

func (n NewInvoice) Row() rowx.Row {
	return rowx.Row{
		{Name: "owner_id", Value: n.OwnerID},
	}
}
