package hashindex

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type MemoryIndexSuite struct {
	suite.Suite
	index *InMemory
	ctx   context.Context
}

func (s *MemoryIndexSuite) SetupTest() {
	s.index = NewInMemory()
	s.ctx = context.Background()
}

func TestMemoryIndexSuite(t *testing.T) {
	suite.Run(t, new(MemoryIndexSuite))
}

func (s *MemoryIndexSuite) TestClaim() {
	s.Run("first claim wins", func() {
		docID := uuid.New()
		existing, duplicate, err := s.index.Claim(s.ctx, "sha256:aaa", docID)
		s.Require().NoError(err)
		s.False(duplicate)
		s.Equal(uuid.Nil, existing)
	})

	s.Run("second claim reports the original owner", func() {
		first := uuid.New()
		second := uuid.New()
		_, _, err := s.index.Claim(s.ctx, "sha256:bbb", first)
		s.Require().NoError(err)

		existing, duplicate, err := s.index.Claim(s.ctx, "sha256:bbb", second)
		s.Require().NoError(err)
		s.True(duplicate)
		s.Equal(first, existing)
	})

	s.Run("distinct hashes do not collide", func() {
		_, dup1, err := s.index.Claim(s.ctx, "sha256:ccc", uuid.New())
		s.Require().NoError(err)
		_, dup2, err := s.index.Claim(s.ctx, "sha256:ddd", uuid.New())
		s.Require().NoError(err)
		s.False(dup1)
		s.False(dup2)
	})
}

// Concurrent uploads of identical bytes must resolve to exactly one owner.
func (s *MemoryIndexSuite) TestConcurrentClaims() {
	const claimants = 50

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, duplicate, err := s.index.Claim(s.ctx, "sha256:contested", uuid.New())
			s.NoError(err)
			if !duplicate {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, winners)
}
