package models

import (
	"fmt"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/rowx"
)

var InvoiceProofTable = rowx.Table{
	Name:    "invoice_proof",
	Key:     "proof_id",
	Columns: []string{"proof_id", "invoice_id", "data"},
}

// InvoiceProof is binary evidence attached to an invoice. Data is opaque and
// is never modified after insert.
type InvoiceProof struct {
	ProofID   int64
	InvoiceID int64
	Data      []byte
}

func (p InvoiceProof) Row() rowx.Row {
	return rowx.Row{
		{Name: "proof_id", Value: p.ProofID},
		{Name: "invoice_id", Value: p.InvoiceID},
		{Name: "data", Value: p.Data},
	}
}

func InvoiceProofFromRow(r rowx.Row) (*InvoiceProof, error) {
	d := r.Decode()
	p := &InvoiceProof{
		ProofID:   d.Int64("proof_id"),
		InvoiceID: d.Int64("invoice_id"),
		Data:      d.Bytes("data"),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	// data is NOT NULL
	if p.Data == nil {
		p.Data = []byte{}
	}
	return p, nil
}

// InvoiceProofInfo describes a stored proof without its bytes.
type InvoiceProofInfo struct {
	ProofID   int64
	InvoiceID int64
	Size      int64
}

// InvoiceProofInfoColumns are the result columns InvoiceProofInfoFromRow reads.
var InvoiceProofInfoColumns = []string{"proof_id", "invoice_id", "size"}

func InvoiceProofInfoFromRow(r rowx.Row) (*InvoiceProofInfo, error) {
	d := r.Decode()
	info := &InvoiceProofInfo{
		ProofID:   d.Int64("proof_id"),
		InvoiceID: d.Int64("invoice_id"),
		Size:      d.Int64("size"),
	}
	if err := d.Err(); err != nil {
		return nil, err
	}
	return info, nil
}

type NewInvoiceProof struct {
	InvoiceID int64
	Data      []byte
}

func (n NewInvoiceProof) Validate() error {
	if n.Data == nil {
		return fmt.Errorf("%w: proof data is required", common.ErrorValidation)
	}
	return nil
}

func (n NewInvoiceProof) Row() rowx.Row {
	return rowx.Row{
		{Name: "invoice_id", Value: n.InvoiceID},
		{Name: "data", Value: n.Data},
	}
}
