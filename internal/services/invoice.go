package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/dbx"
	"github.com/dmitrijs2005/invoicekeeper/internal/logging"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/invoicekeeper/internal/storage"
)

// Item is a line item to add to an invoice.
type Item struct {
	Name  string
	Price models.Cents
}

// Access is the effective right of a user on an invoice.
type Access struct {
	Read  bool
	Write bool
}

// InvoiceService manages invoices together with their line items, proofs
// and permissions.
type InvoiceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	archive     storage.ProofArchive
	log         logging.Logger
}

// NewInvoiceService constructs an InvoiceService. archive may be nil, in
// which case proofs live only in the database.
func NewInvoiceService(db *sql.DB, m repomanager.RepositoryManager, archive storage.ProofArchive, log logging.Logger) *InvoiceService {
	return &InvoiceService{
		db:          db,
		repomanager: m,
		archive:     archive,
		log:         log.With("service", "invoices"),
	}
}

// Create stores a new invoice for ownerID and its initial items in one
// transaction. Nothing is stored when any insert fails.
func (s *InvoiceService) Create(ctx context.Context, ownerID int64, items ...Item) (*models.Invoice, []*models.InvoiceLineItem, error) {
	var (
		invoice *models.Invoice
		stored  []*models.InvoiceLineItem
	)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		invoice, err = s.repomanager.Invoices(tx).Create(ctx, models.NewInvoice{OwnerID: ownerID})
		if err != nil {
			return err
		}

		lineItems := s.repomanager.LineItems(tx)
		stored = make([]*models.InvoiceLineItem, 0, len(items))
		for _, it := range items {
			li, err := lineItems.Create(ctx, models.NewInvoiceLineItem{
				InvoiceID:    invoice.InvoiceID,
				ItemName:     it.Name,
				ItemPriceUSD: it.Price,
			})
			if err != nil {
				return err
			}
			stored = append(stored, li)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.log.Info(ctx, "invoice created", "invoice_id", invoice.InvoiceID, "owner_id", ownerID, "items", len(stored))
	return invoice, stored, nil
}

func (s *InvoiceService) Get(ctx context.Context, id int64) (*models.Invoice, error) {
	return s.repomanager.Invoices(s.db).GetByID(ctx, id)
}

func (s *InvoiceService) ListOwned(ctx context.Context, ownerID int64) ([]*models.Invoice, error) {
	return s.repomanager.Invoices(s.db).ListByOwner(ctx, ownerID)
}

func (s *InvoiceService) AddLineItem(ctx context.Context, invoiceID int64, item Item) (*models.InvoiceLineItem, error) {
	li, err := s.repomanager.LineItems(s.db).Create(ctx, models.NewInvoiceLineItem{
		InvoiceID:    invoiceID,
		ItemName:     item.Name,
		ItemPriceUSD: item.Price,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "line item added", "invoice_id", invoiceID, "item_id", li.ID)
	return li, nil
}

func (s *InvoiceService) LineItems(ctx context.Context, invoiceID int64) ([]*models.InvoiceLineItem, error) {
	return s.repomanager.LineItems(s.db).ListByInvoice(ctx, invoiceID)
}

// Total sums the invoice's line item prices in the database.
func (s *InvoiceService) Total(ctx context.Context, invoiceID int64) (models.Cents, error) {
	return s.repomanager.LineItems(s.db).SumByInvoice(ctx, invoiceID)
}

// AttachProof stores data as proof for invoiceID. When an archive is
// configured the blob is also copied there; a failed copy is logged and
// does not fail the call.
func (s *InvoiceService) AttachProof(ctx context.Context, invoiceID int64, data []byte) (*models.InvoiceProof, error) {
	proof, err := s.repomanager.Proofs(s.db).Create(ctx, models.NewInvoiceProof{InvoiceID: invoiceID, Data: data})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "proof attached", "invoice_id", invoiceID, "proof_id", proof.ProofID, "size", len(proof.Data))

	if s.archive != nil {
		key := storage.ProofKey(invoiceID, proof.ProofID)
		if err := s.archive.Put(ctx, key, proof.Data); err != nil {
			s.log.Warn(ctx, "proof archive failed", "proof_id", proof.ProofID, "key", key, "error", err)
		} else {
			s.log.Debug(ctx, "proof archived", "proof_id", proof.ProofID, "key", key)
		}
	}

	return proof, nil
}

func (s *InvoiceService) Proof(ctx context.Context, id int64) (*models.InvoiceProof, error) {
	return s.repomanager.Proofs(s.db).GetByID(ctx, id)
}

func (s *InvoiceService) Proofs(ctx context.Context, invoiceID int64) ([]*models.InvoiceProof, error) {
	return s.repomanager.Proofs(s.db).ListByInvoice(ctx, invoiceID)
}

// ProofInfos lists an invoice's proofs by size, without loading their data.
func (s *InvoiceService) ProofInfos(ctx context.Context, invoiceID int64) ([]*models.InvoiceProofInfo, error) {
	return s.repomanager.Proofs(s.db).ListInfoByInvoice(ctx, invoiceID)
}

// Grant records a borrower's rights on an invoice. A grant with neither
// read nor write is stored as is.
func (s *InvoiceService) Grant(ctx context.Context, p models.NewInvoicePermissions) (*models.InvoicePermissions, error) {
	perm, err := s.repomanager.Permissions(s.db).Create(ctx, p)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "access granted",
		"access_id", perm.AccessID, "invoice_id", perm.InvoiceID, "borrower_id", perm.BorrowerID,
		"read", perm.ReadAccess, "write", perm.WriteAccess)
	return perm, nil
}

// Access resolves what userID may do with invoiceID. The owner may read and
// write; anyone else gets the flags of their permission row, or nothing when
// there is no row.
func (s *InvoiceService) Access(ctx context.Context, userID, invoiceID int64) (Access, error) {
	invoice, err := s.repomanager.Invoices(s.db).GetByID(ctx, invoiceID)
	if err != nil {
		return Access{}, err
	}
	if invoice.OwnerID == userID {
		return Access{Read: true, Write: true}, nil
	}

	perm, err := s.repomanager.Permissions(s.db).Get(ctx, userID, invoiceID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return Access{}, nil
		}
		return Access{}, err
	}
	return Access{Read: perm.ReadAccess, Write: perm.WriteAccess}, nil
}

func (s *InvoiceService) Permissions(ctx context.Context, invoiceID int64) ([]*models.InvoicePermissions, error) {
	return s.repomanager.Permissions(s.db).ListByInvoice(ctx, invoiceID)
}

// Borrowed lists the grants held by borrowerID.
func (s *InvoiceService) Borrowed(ctx context.Context, borrowerID int64) ([]*models.InvoicePermissions, error) {
	return s.repomanager.Permissions(s.db).ListByBorrower(ctx, borrowerID)
}
