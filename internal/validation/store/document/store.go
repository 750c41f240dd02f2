// Package document persists validated documents. Stores are interface-driven
// so the pipeline can run against memory in tests and PostgreSQL in
// production without rewiring business code.
package document

import (
	"context"
	"time"

	"github.com/google/uuid"

	"veridoc/internal/domain"
)

// Store is the record store the orchestrator reads from and writes to. The
// orchestrator is the only pipeline component allowed to mutate it.
type Store interface {
	// Insert persists a document scored on its own evidence; the coherence
	// fold lands through Update once the counterpart is visible. Fails with
	// sentinel.ErrConflict if the id is already present.
	Insert(ctx context.Context, doc *domain.Document) error

	// Update replaces a persisted document (coherence recomputation, review).
	Update(ctx context.Context, doc *domain.Document) error

	FindByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)

	// FindByHash returns any previously seen document with the same content
	// hash, or sentinel.ErrNotFound.
	FindByHash(ctx context.Context, hash string) (*domain.Document, error)

	ListBySubmission(ctx context.Context, submissionID string) ([]*domain.Document, error)
}

// Reviewer applies a manual decision to a stored document.
type Reviewer interface {
	ApplyReview(ctx context.Context, id uuid.UUID, reviewer string, status domain.ValidationStatus, notes string, at time.Time) (*domain.Document, error)
}
