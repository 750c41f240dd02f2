// Package hashindex is the append-only content-hash index behind duplicate
// detection. Claims must be unique-constrained: two concurrent uploads of
// identical content must never both see "not a duplicate".
package hashindex

import (
	"context"

	"github.com/google/uuid"
)

// Index records which document first claimed each content hash.
//
// Unavailability of the index is fatal to a pipeline run: silently assuming
// "not a duplicate" is a security-relevant decision, so implementations wrap
// sentinel.ErrUnavailable instead of degrading.
type Index interface {
	// Claim atomically records hash -> docID if the hash is unseen. When the
	// hash was already claimed it returns the claiming document's id and
	// duplicate=true; the new claim is discarded.
	Claim(ctx context.Context, hash string, docID uuid.UUID) (existing uuid.UUID, duplicate bool, err error)
}
