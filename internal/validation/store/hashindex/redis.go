package hashindex

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"veridoc/pkg/platform/sentinel"
)

const keyPrefix = "veridoc:hash:"

// Redis claims hashes with SET NX, which makes the first-claim race safe
// across multiple server instances.
type Redis struct {
	client redis.Cmdable
}

func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Claim(ctx context.Context, hash string, docID uuid.UUID) (uuid.UUID, bool, error) {
	key := keyPrefix + hash

	claimed, err := r.client.SetNX(ctx, key, docID.String(), 0).Result()
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("hash index claim: %w: %w", sentinel.ErrUnavailable, err)
	}
	if claimed {
		return uuid.Nil, false, nil
	}

	existing, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("hash index lookup: %w: %w", sentinel.ErrUnavailable, err)
	}
	id, err := uuid.Parse(existing)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("hash index holds malformed id %q: %w", existing, err)
	}
	return id, true, nil
}
