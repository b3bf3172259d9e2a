package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sirpyerre/leaderboard-api/internal/core/ports"
)

// ClaimReplayStore remembers claim results by idempotency key.
// Key format: claim:idem:<idempotency_key>
type ClaimReplayStore struct {
	client *redis.Client
}

// NewClaimReplayStore creates a ClaimReplayStore wrapping the given Redis client.
func NewClaimReplayStore(client *redis.Client) *ClaimReplayStore {
	return &ClaimReplayStore{client: client}
}

// Lookup returns the result stored for key, if any.
func (s *ClaimReplayStore) Lookup(ctx context.Context, key string) (*ports.ClaimResult, bool, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("replay lookup: %w", err)
	}

	var result ports.ClaimResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false, fmt.Errorf("replay decode: %w", err)
	}
	return &result, true, nil
}

// Remember stores result under key until ttl expires.
func (s *ClaimReplayStore) Remember(ctx context.Context, key string, result *ports.ClaimResult, ttl time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("replay encode: %w", err)
	}
	return s.client.Set(ctx, s.key(key), raw, ttl).Err()
}

func (s *ClaimReplayStore) key(idempotencyKey string) string {
	return "claim:idem:" + idempotencyKey
}
