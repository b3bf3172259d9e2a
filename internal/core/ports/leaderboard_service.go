package ports

import (
	"context"

	"github.com/sirpyerre/leaderboard-api/internal/core/domain"
)

// AddUserInput is the DTO passed from the transport layer to LeaderboardService.
type AddUserInput struct {
	Name           string
	ProfilePicture string
}

// LeaderboardService exposes the user directory.
type LeaderboardService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	AddUser(ctx context.Context, input AddUserInput) (*domain.User, error)
}
