package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/invoicekeeper/internal/common"
	"github.com/dmitrijs2005/invoicekeeper/internal/dbx"
	"github.com/dmitrijs2005/invoicekeeper/internal/models"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/invoices"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/lineitems"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/permissions"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/proofs"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/invoicekeeper/internal/repositories/users"
)

// -------- in-memory store --------

// memStore keeps rows in maps and enforces the foreign keys and the
// borrower/invoice uniqueness that PostgreSQL would.
type memStore struct {
	mu     sync.Mutex
	nextID int64

	users       map[int64]*models.User
	invoices    map[int64]*models.Invoice
	proofs      map[int64]*models.InvoiceProof
	permissions map[int64]*models.InvoicePermissions
	items       map[int64]*models.InvoiceLineItem

	// failOn makes the named operation fail with the given error.
	failOn map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[int64]*models.User{},
		invoices:    map[int64]*models.Invoice{},
		proofs:      map[int64]*models.InvoiceProof{},
		permissions: map[int64]*models.InvoicePermissions{},
		items:       map[int64]*models.InvoiceLineItem{},
		failOn:      map[string]error{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) fail(op string) error {
	if err, ok := m.failOn[op]; ok {
		return err
	}
	return nil
}

func fkError(op, constraint string) error {
	return &common.Error{
		Kind:       common.KindConstraint,
		Op:         op,
		Code:       "23503",
		Constraint: constraint,
		Violation:  common.ViolationForeignKey,
		Err:        errors.New("violates foreign key constraint"),
	}
}

func notFound(op string) error {
	return dbx.Classify(op, sql.ErrNoRows)
}

func sortedKeys[T any](m map[int64]T) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// -------- users --------

type memUsers struct {
	users.Repository
	s *memStore
}

func (r *memUsers) Create(ctx context.Context, u models.NewUser) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("create user"); err != nil {
		return nil, err
	}
	if err := u.Validate(); err != nil {
		return nil, dbx.Classify("create user", err)
	}
	user := &models.User{
		UserID:         r.s.id(),
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		PasswordHash:   u.PasswordHash,
	}
	r.s.users[user.UserID] = user
	return user, nil
}

func (r *memUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return u, nil
	}
	return nil, notFound("get user")
}

func (r *memUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("get user by username"); err != nil {
		return nil, err
	}
	for _, id := range sortedKeys(r.s.users) {
		if u := r.s.users[id]; u.Username == username {
			return u, nil
		}
	}
	return nil, notFound("get user by username")
}

// -------- invoices --------

type memInvoices struct {
	invoices.Repository
	s *memStore
}

func (r *memInvoices) Create(ctx context.Context, n models.NewInvoice) (*models.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("create invoice"); err != nil {
		return nil, err
	}
	if err := n.Validate(); err != nil {
		return nil, dbx.Classify("create invoice", err)
	}
	if _, ok := r.s.users[n.OwnerID]; !ok {
		return nil, fkError("create invoice", "invoices_owner_id_fkey")
	}
	inv := &models.Invoice{InvoiceID: r.s.id(), OwnerID: n.OwnerID}
	r.s.invoices[inv.InvoiceID] = inv
	return inv, nil
}

func (r *memInvoices) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if inv, ok := r.s.invoices[id]; ok {
		return inv, nil
	}
	return nil, notFound("get invoice")
}

func (r *memInvoices) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Invoice
	for _, id := range sortedKeys(r.s.invoices) {
		if inv := r.s.invoices[id]; inv.OwnerID == ownerID {
			out = append(out, inv)
		}
	}
	return out, nil
}

// -------- proofs --------

type memProofs struct {
	proofs.Repository
	s *memStore
}

func (r *memProofs) Create(ctx context.Context, n models.NewInvoiceProof) (*models.InvoiceProof, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := n.Validate(); err != nil {
		return nil, dbx.Classify("create proof", err)
	}
	if _, ok := r.s.invoices[n.InvoiceID]; !ok {
		return nil, fkError("create proof", "invoice_proof_invoice_id_fkey")
	}
	p := &models.InvoiceProof{ProofID: r.s.id(), InvoiceID: n.InvoiceID, Data: append([]byte{}, n.Data...)}
	r.s.proofs[p.ProofID] = p
	return p, nil
}

func (r *memProofs) GetByID(ctx context.Context, id int64) (*models.InvoiceProof, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.proofs[id]; ok {
		return p, nil
	}
	return nil, notFound("get proof")
}

func (r *memProofs) ListByInvoice(ctx context.Context, invoiceID int64) ([]*models.InvoiceProof, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.InvoiceProof
	for _, id := range sortedKeys(r.s.proofs) {
		if p := r.s.proofs[id]; p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProofs) ListInfoByInvoice(ctx context.Context, invoiceID int64) ([]*models.InvoiceProofInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.InvoiceProofInfo
	for _, id := range sortedKeys(r.s.proofs) {
		if p := r.s.proofs[id]; p.InvoiceID == invoiceID {
			out = append(out, &models.InvoiceProofInfo{ProofID: p.ProofID, InvoiceID: p.InvoiceID, Size: int64(len(p.Data))})
		}
	}
	return out, nil
}

// -------- permissions --------

type memPermissions struct {
	permissions.Repository
	s *memStore
}

func (r *memPermissions) Create(ctx context.Context, n models.NewInvoicePermissions) (*models.InvoicePermissions, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := n.Validate(); err != nil {
		return nil, dbx.Classify("create permissions", err)
	}
	if _, ok := r.s.users[n.BorrowerID]; !ok {
		return nil, fkError("create permissions", "invoice_permissions_borrower_id_fkey")
	}
	if _, ok := r.s.invoices[n.InvoiceID]; !ok {
		return nil, fkError("create permissions", "invoice_permissions_invoice_id_fkey")
	}
	for _, p := range r.s.permissions {
		if p.BorrowerID == n.BorrowerID && p.InvoiceID == n.InvoiceID {
			return nil, &common.Error{
				Kind:       common.KindConstraint,
				Op:         "create permissions",
				Code:       "23505",
				Constraint: "invoice_permissions_borrower_invoice_key",
				Violation:  common.ViolationUnique,
				Err:        errors.New("duplicate key value"),
			}
		}
	}
	p := &models.InvoicePermissions{
		AccessID:    r.s.id(),
		BorrowerID:  n.BorrowerID,
		InvoiceID:   n.InvoiceID,
		ReadAccess:  n.ReadAccess,
		WriteAccess: n.WriteAccess,
	}
	r.s.permissions[p.AccessID] = p
	return p, nil
}

func (r *memPermissions) Get(ctx context.Context, borrowerID, invoiceID int64) (*models.InvoicePermissions, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("get permissions"); err != nil {
		return nil, err
	}
	for _, p := range r.s.permissions {
		if p.BorrowerID == borrowerID && p.InvoiceID == invoiceID {
			return p, nil
		}
	}
	return nil, notFound("get permissions")
}

func (r *memPermissions) ListByInvoice(ctx context.Context, invoiceID int64) ([]*models.InvoicePermissions, error) {
	return r.list(func(p *models.InvoicePermissions) bool { return p.InvoiceID == invoiceID }), nil
}

func (r *memPermissions) ListByBorrower(ctx context.Context, borrowerID int64) ([]*models.InvoicePermissions, error) {
	return r.list(func(p *models.InvoicePermissions) bool { return p.BorrowerID == borrowerID }), nil
}

func (r *memPermissions) list(keep func(*models.InvoicePermissions) bool) []*models.InvoicePermissions {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.InvoicePermissions
	for _, id := range sortedKeys(r.s.permissions) {
		if p := r.s.permissions[id]; keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// -------- line items --------

type memLineItems struct {
	lineitems.Repository
	s *memStore
}

func (r *memLineItems) Create(ctx context.Context, n models.NewInvoiceLineItem) (*models.InvoiceLineItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := n.Validate(); err != nil {
		return nil, dbx.Classify("create line item", err)
	}
	if _, ok := r.s.invoices[n.InvoiceID]; !ok {
		return nil, fkError("create line item", "invoice_line_items_invoice_id_fkey")
	}
	li := &models.InvoiceLineItem{ID: r.s.id(), InvoiceID: n.InvoiceID, ItemName: n.ItemName, ItemPriceUSD: n.ItemPriceUSD}
	r.s.items[li.ID] = li
	return li, nil
}

func (r *memLineItems) ListByInvoice(ctx context.Context, invoiceID int64) ([]*models.InvoiceLineItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.InvoiceLineItem
	for _, id := range sortedKeys(r.s.items) {
		if li := r.s.items[id]; li.InvoiceID == invoiceID {
			out = append(out, li)
		}
	}
	return out, nil
}

func (r *memLineItems) SumByInvoice(ctx context.Context, invoiceID int64) (models.Cents, error) {
	items, _ := r.ListByInvoice(ctx, invoiceID)
	var total models.Cents
	for _, li := range items {
		total += li.ItemPriceUSD
	}
	return total, nil
}

// -------- manager --------

type fakeRepoManager struct {
	repomanager.RepositoryManager
	s *memStore
}

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository { return &memUsers{s: m.s} }
func (m *fakeRepoManager) Invoices(dbx.DBTX) invoices.Repository {
	return &memInvoices{s: m.s}
}
func (m *fakeRepoManager) Proofs(dbx.DBTX) proofs.Repository { return &memProofs{s: m.s} }
func (m *fakeRepoManager) Permissions(dbx.DBTX) permissions.Repository {
	return &memPermissions{s: m.s}
}
func (m *fakeRepoManager) LineItems(dbx.DBTX) lineitems.Repository {
	return &memLineItems{s: m.s}
}

// -------- helpers --------

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}
