package document

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"veridoc/internal/domain"
	"veridoc/pkg/platform/sentinel"
)

// InMemory keeps the initial implementation lightweight and testable. It
// intentionally favors clarity over performance.
type InMemory struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]domain.Document
	byHash map[string]uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[uuid.UUID]domain.Document),
		byHash: make(map[string]uuid.UUID),
	}
}

func (s *InMemory) Insert(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[doc.ID]; exists {
		return fmt.Errorf("document %s: %w", doc.ID, sentinel.ErrConflict)
	}
	s.byID[doc.ID] = *doc
	if doc.ContentHash != "" {
		if _, claimed := s.byHash[doc.ContentHash]; !claimed {
			s.byHash[doc.ContentHash] = doc.ID
		}
	}
	return nil
}

func (s *InMemory) Update(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[doc.ID]; !exists {
		return fmt.Errorf("document %s: %w", doc.ID, sentinel.ErrNotFound)
	}
	s.byID[doc.ID] = *doc
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if doc, ok := s.byID[id]; ok {
		return &doc, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByHash(_ context.Context, hash string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.byHash[hash]; ok {
		if doc, ok := s.byID[id]; ok {
			return &doc, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListBySubmission(_ context.Context, submissionID string) ([]*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []*domain.Document
	for _, doc := range s.byID {
		if doc.SubmissionID == submissionID {
			d := doc
			docs = append(docs, &d)
		}
	}
	return docs, nil
}

func (s *InMemory) ApplyReview(_ context.Context, id uuid.UUID, reviewer string, status domain.ValidationStatus, notes string, at time.Time) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := doc.ApplyReview(reviewer, status, notes, at); err != nil {
		return nil, err
	}
	s.byID[id] = doc
	return &doc, nil
}
