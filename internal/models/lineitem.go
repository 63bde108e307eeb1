package models

import (
	"fmt"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/rowx"
)

var InvoiceLineItemsTable = rowx.Table{
	Name:    "invoice_line_items",
	Key:     "id",
	Columns: []string{"id", "invoice_id", "item_name", "item_price_usd"},
}

type InvoiceLineItem struct {
	ID           int64
	InvoiceID    int64
	ItemName     string
	ItemPriceUSD Cents
}

func (li InvoiceLineItem) Row() rowx.Row {
	return rowx.Row{
		{Name: "id", Value: li.ID},
		{Name: "invoice_id", Value: li.InvoiceID},
		{Name: "item_name", Value: li.ItemName},
		{Name: "item_price_usd", Value: int64(li.ItemPriceUSD)},
	}
}

func InvoiceLineItemFromRow(r rowx.Row) (*InvoiceLineItem, error) {
	d := r.Decode()
	li := &InvoiceLineItem{
		ID:           d.Int64("id"),
		InvoiceID:    d.Int64("invoice_id"),
		ItemName:     d.String("item_name"),
		ItemPriceUSD: Cents(d.Int64("item_price_usd")),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return li, nil
}

type NewInvoiceLineItem struct {
	InvoiceID    int64
	ItemName     string
	ItemPriceUSD Cents
}

func (n NewInvoiceLineItem) Validate() error {
	if n.ItemName == "" {
		return fmt.Errorf("%w: item name is required", common.ErrorValidation)
	}
	return nil
}

func (n NewInvoiceLineItem) Row() rowx.Row {
	return rowx.Row{
		{Name: "invoice_id", Value: n.InvoiceID},
		{Name: "item_name", Value: n.ItemName},
		{Name: "item_price_usd", Value: int64(n.ItemPriceUSD)},
	}
}
