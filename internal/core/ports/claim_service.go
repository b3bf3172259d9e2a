package ports

import (
	"context"
	"time"

	"github.com/sirpyerre/leaderboard-api/internal/core/domain"
)

// ClaimInput carries a claim request.
type ClaimInput struct {
	UserID string
	// IdempotencyKey is optional; a repeated key replays the first result.
	IdempotencyKey string
}

// ClaimResult is returned after a successful claim.
type ClaimResult struct {
	User   *domain.User `json:"user"`
	Points int          `json:"points"`
	// Replayed is true when the result came from the replay store.
	Replayed bool `json:"-"`
}

// ClaimReplayStore remembers claim results by idempotency key.
type ClaimReplayStore interface {
	Lookup(ctx context.Context, key string) (*ClaimResult, bool, error)
	Remember(ctx context.Context, key string, result *ClaimResult, ttl time.Duration) error
}

// Serializer runs fn so that calls sharing a key never overlap.
type Serializer interface {
	Do(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// ClaimService awards points and reads the claim history.
type ClaimService interface {
	Claim(ctx context.Context, input ClaimInput) (*ClaimResult, error)
	History(ctx context.Context) ([]*domain.HistoryEntry, error)
}
