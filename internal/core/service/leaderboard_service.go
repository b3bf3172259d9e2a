package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/leaderboard-api/internal/core/domain"
	"github.com/sirpyerre/leaderboard-api/internal/core/ports"
	"github.com/sirpyerre/leaderboard-api/internal/pkg/metrics"
)

// LeaderboardService implements the user directory.
type LeaderboardService struct {
	users  ports.UserRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewLeaderboardService(users ports.UserRepository, logger zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{users: users, logger: logger, now: time.Now}
}

// ListUsers returns the leaderboard, highest total first.
func (s *LeaderboardService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, err
	}
	return users, nil
}

// AddUser creates a user with a zero total.
func (s *LeaderboardService) AddUser(ctx context.Context, input ports.AddUserInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}

	user := &domain.User{
		Name:           name,
		ProfilePicture: strings.TrimSpace(input.ProfilePicture),
		TotalPoints:    0,
		CreatedAt:      s.now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create user")
		return nil, err
	}

	metrics.UsersCreatedTotal.Inc()
	s.logger.Info().Str("user_id", created.ID).Str("name", created.Name).Msg("user created")
	return created, nil
}
