package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/leaderboard-api/internal/core/domain"
	"github.com/sirpyerre/leaderboard-api/internal/core/ports"
	"github.com/sirpyerre/leaderboard-api/internal/pkg/metrics"
)

const defaultReplayTTL = time.Hour

// ClaimServiceConfig wires the optional collaborators of ClaimService.
type ClaimServiceConfig struct {
	// Serializer orders claims per user. Nil uses an in-process lock per user.
	Serializer ports.Serializer
	// Replay stores results by idempotency key. Nil disables replay.
	Replay    ports.ClaimReplayStore
	ReplayTTL time.Duration
}

type claimService struct {
	users     ports.UserRepository
	claims    ports.ClaimRepository
	serial    ports.Serializer
	replay    ports.ClaimReplayStore
	replayTTL time.Duration
	log       zerolog.Logger

	draw func() int
	now  func() time.Time
}

// NewClaimService returns a ClaimService implementation.
func NewClaimService(
	users ports.UserRepository,
	claims ports.ClaimRepository,
	cfg ClaimServiceConfig,
	log zerolog.Logger,
) ports.ClaimService {
	s := &claimService{
		users:     users,
		claims:    claims,
		serial:    cfg.Serializer,
		replay:    cfg.Replay,
		replayTTL: cfg.ReplayTTL,
		log:       log,
		draw:      drawPoints,
		now:       time.Now,
	}
	if s.serial == nil {
		s.serial = &stripedSerializer{}
	}
	if s.replayTTL <= 0 {
		s.replayTTL = defaultReplayTTL
	}
	return s
}

// drawPoints picks a grant uniformly from [MinClaimPoints, MaxClaimPoints].
func drawPoints() int {
	return domain.MinClaimPoints + rand.Intn(domain.MaxClaimPoints-domain.MinClaimPoints+1)
}

// Claim grants a random number of points to a user and records the grant.
func (s *claimService) Claim(ctx context.Context, in ports.ClaimInput) (*ports.ClaimResult, error) {
	start := time.Now()
	defer func() { metrics.ClaimDuration.Observe(time.Since(start).Seconds()) }()

	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		metrics.ClaimsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.NewValidationError("userId is required")
	}

	// Replay lookup, grant and remember run as one step per user, so a retry
	// racing the original request finds its stored result.
	var result *ports.ClaimResult
	err := s.serial.Do(ctx, userID, func(ctx context.Context) error {
		if prev, ok := s.lookupReplay(ctx, in.IdempotencyKey, userID); ok {
			result = prev
			return nil
		}
		r, err := s.grant(ctx, userID)
		if err != nil {
			return err
		}
		result = r
		s.rememberReplay(ctx, in.IdempotencyKey, r)
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.ClaimsTotal.WithLabelValues("not_found").Inc()
		} else {
			metrics.ClaimsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	if result.Replayed {
		metrics.ClaimsTotal.WithLabelValues("replayed").Inc()
		return result, nil
	}
	metrics.ClaimsTotal.WithLabelValues("granted").Inc()
	metrics.PointsAwarded.Observe(float64(result.Points))

	s.log.Info().
		Str("user_id", userID).
		Int("points", result.Points).
		Int("total_points", result.User.TotalPoints).
		Msg("points claimed")

	return result, nil
}

// lookupReplay returns the stored result for key when it belongs to userID.
// A broken replay store never blocks a claim.
func (s *claimService) lookupReplay(ctx context.Context, key, userID string) (*ports.ClaimResult, bool) {
	if key == "" || s.replay == nil {
		return nil, false
	}
	prev, found, err := s.replay.Lookup(ctx, key)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("replay lookup failed, claiming anyway")
		return nil, false
	case found && prev.User != nil && prev.User.ID == userID:
		metrics.ClaimReplayTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("idempotency_key", key).Str("user_id", userID).Msg("claim replayed")
		prev.Replayed = true
		return prev, true
	default:
		metrics.ClaimReplayTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
}

func (s *claimService) rememberReplay(ctx context.Context, key string, result *ports.ClaimResult) {
	if key == "" || s.replay == nil {
		return
	}
	if err := s.replay.Remember(ctx, key, result, s.replayTTL); err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store claim result")
	}
}

// grant performs the two store writes of a claim. The increment is atomic at
// the store; the history insert is a second, independent write.
func (s *claimService) grant(ctx context.Context, userID string) (*ports.ClaimResult, error) {
	points := s.draw()
	if !domain.ValidPoints(points) {
		return nil, fmt.Errorf("claim: drew %d points, want %d..%d", points, domain.MinClaimPoints, domain.MaxClaimPoints)
	}

	user, err := s.users.AddPoints(ctx, userID, points)
	if err != nil {
		return nil, fmt.Errorf("claim: %w", err)
	}

	record := &domain.ClaimRecord{
		UserID:    user.ID,
		Points:    points,
		ClaimedAt: s.now().UTC(),
	}
	if _, err := s.claims.Insert(ctx, record); err != nil {
		s.log.Error().Err(err).
			Str("user_id", user.ID).
			Int("points", points).
			Msg("points granted but claim history write failed")
		return nil, fmt.Errorf("claim: record history: %w", err)
	}

	return &ports.ClaimResult{User: user, Points: points}, nil
}

// History returns every claim, newest first, joined with its user.
func (s *claimService) History(ctx context.Context) ([]*domain.HistoryEntry, error) {
	records, err := s.claims.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list claim history")
		return nil, err
	}

	ids := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		ids = append(ids, r.UserID)
	}

	users := map[string]*domain.User{}
	if len(ids) > 0 {
		users, err = s.users.FindByIDs(ctx, ids)
		if err != nil {
			s.log.Error().Err(err).Int("users", len(ids)).Msg("failed to resolve history users")
			return nil, err
		}
	}

	entries := make([]*domain.HistoryEntry, 0, len(records))
	for _, r := range records {
		entry := &domain.HistoryEntry{ClaimRecord: *r}
		if u, ok := users[r.UserID]; ok {
			entry.User = u.Summary()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// stripedSerializer runs claims sharing a key one at a time when no
// dispatcher is configured.
type stripedSerializer struct {
	stripes [32]sync.Mutex
}

func (s *stripedSerializer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &s.stripes[h.Sum32()%uint32(len(s.stripes))]
	m.Lock()
	defer m.Unlock()
	return fn(ctx)
}
