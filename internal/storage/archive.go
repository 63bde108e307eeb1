// Package storage mirrors invoice proof blobs to S3-compatible object
// storage. The database row stays authoritative; the archive is a copy.
package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ProofArchive stores a copy of a proof blob under key.
type ProofArchive interface {
	Put(ctx context.Context, key string, data []byte) error
}

// newObjectID is a seam for tests.
var newObjectID = uuid.NewString

// ProofKey returns a fresh object key for a proof:
// invoices/<invoice>/proofs/<proof>-<uuid>.
func ProofKey(invoiceID, proofID int64) string {
	return fmt.Sprintf("invoices/%d/proofs/%d-%s", invoiceID, proofID, newObjectID())
}
