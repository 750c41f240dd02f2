package hashindex

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemory is a mutex-guarded map. The single lock gives the same
// claim-uniqueness guarantee the redis implementation gets from SET NX.
type InMemory struct {
	mu     sync.Mutex
	claims map[string]uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{claims: make(map[string]uuid.UUID)}
}

func (i *InMemory) Claim(_ context.Context, hash string, docID uuid.UUID) (uuid.UUID, bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if existing, ok := i.claims[hash]; ok {
		return existing, true, nil
	}
	i.claims[hash] = docID
	return uuid.Nil, false, nil
}
