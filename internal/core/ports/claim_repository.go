package ports

import (
	"context"

	"github.com/sirpyerre/leaderboard-api/internal/core/domain"
)

// ClaimRepository is the append-only claim history.
type ClaimRepository interface {
	Insert(ctx context.Context, record *domain.ClaimRecord) (*domain.ClaimRecord, error)
	// List returns all records, newest claim first.
	List(ctx context.Context) ([]*domain.ClaimRecord, error)
}
