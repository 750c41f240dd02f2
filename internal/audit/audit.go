// Package audit records every automated decision and manual override so a
// submission's vetting history can be reconstructed.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is emitted from the pipeline to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp    time.Time
	DocumentID   uuid.UUID
	SubmissionID string
	Action       string
	Status       string
	OverallScore int
	Actor        string
	Reason       string
}

// Actions recorded by the pipeline and the review path.
const (
	ActionValidated       = "document.validated"
	ActionCoherenceScored = "document.coherence_scored"
	ActionReviewed        = "document.reviewed"
)

// Store persists audit events, append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]Event, error)
}

// InMemoryStore keeps events in process for tests and single-node deployments.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByDocument(_ context.Context, documentID uuid.UUID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.DocumentID == documentID {
			out = append(out, e)
		}
	}
	return out, nil
}
