package ports

import (
	"context"

	"github.com/sirpyerre/leaderboard-api/internal/core/domain"
)

// UserRepository defines persistence operations for leaderboard users.
// Implementations wrap driver failures with domain.ErrStore.
type UserRepository interface {
	// List returns every user ordered by total points, highest first.
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByIDs resolves the given ids; ids that match no user are absent from the map.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	// AddPoints atomically increments the user's total and returns the updated user.
	// Returns domain.ErrUserNotFound when no user has the id.
	AddPoints(ctx context.Context, id string, points int) (*domain.User, error)
}
