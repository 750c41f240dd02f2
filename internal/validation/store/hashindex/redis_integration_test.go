//go:build integration

package hashindex_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"veridoc/internal/validation/store/hashindex"
	"veridoc/pkg/testutil/containers"
)

type RedisIndexSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	index *hashindex.Redis
}

func TestRedisIndexSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisIndexSuite))
}

func (s *RedisIndexSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.index = hashindex.NewRedis(s.redis.Client)
}

func (s *RedisIndexSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisIndexSuite) TestClaim() {
	ctx := context.Background()

	first := uuid.New()
	existing, duplicate, err := s.index.Claim(ctx, "sha256:aaa", first)
	s.Require().NoError(err)
	s.False(duplicate)
	s.Equal(uuid.Nil, existing)

	existing, duplicate, err = s.index.Claim(ctx, "sha256:aaa", uuid.New())
	s.Require().NoError(err)
	s.True(duplicate)
	s.Equal(first, existing)
}

// TestConcurrentClaims verifies that concurrent uploads of identical content
// resolve to exactly one owner across the shared index.
func (s *RedisIndexSuite) TestConcurrentClaims() {
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var winners atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, duplicate, err := s.index.Claim(ctx, "sha256:contested", uuid.New())
			s.NoError(err)
			if !duplicate {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), winners.Load(), "exactly one claim should win")
}

func (s *RedisIndexSuite) TestDistinctHashes() {
	ctx := context.Background()

	_, dup1, err := s.index.Claim(ctx, "sha256:bbb", uuid.New())
	s.Require().NoError(err)
	_, dup2, err := s.index.Claim(ctx, "sha256:ccc", uuid.New())
	s.Require().NoError(err)
	s.False(dup1)
	s.False(dup2)
}
