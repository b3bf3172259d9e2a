package service

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/leaderboard-api/internal/core/domain"
	"github.com/sirpyerre/leaderboard-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	nextID    int
	createErr error // if set, Create returns this error
	listErr   error // if set, List and FindByIDs return this error
	addErr    error // if set, AddPoints returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) seed(name string, total int) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u := &domain.User{ID: "u" + strconv.Itoa(r.nextID), Name: name, TotalPoints: total}
	r.byID[u.ID] = u
	clone := *u
	return &clone
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		clone := *u
		out = append(out, &clone)
	}
	// Mirrors the Mongo sort: total_points desc, _id asc.
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := *user
	clone.ID = "u" + strconv.Itoa(r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

// get returns a copy of the stored user, or nil.
func (r *stubUserRepo) get(id string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			clone := *u
			out[id] = &clone
		}
	}
	return out, nil
}

func (r *stubUserRepo) AddPoints(_ context.Context, id string, points int) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.addErr != nil {
		return nil, r.addErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.TotalPoints += points
	clone := *u
	return &clone, nil
}

type stubClaimRepo struct {
	mu        sync.Mutex
	records   []*domain.ClaimRecord
	insertErr error
	listErr   error
}

func (r *stubClaimRepo) Insert(_ context.Context, rec *domain.ClaimRecord) (*domain.ClaimRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	clone := *rec
	clone.ID = "c" + strconv.Itoa(len(r.records)+1)
	r.records = append(r.records, &clone)
	out := clone
	return &out, nil
}

func (r *stubClaimRepo) List(_ context.Context) ([]*domain.ClaimRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.ClaimRecord, 0, len(r.records))
	for _, rec := range r.records {
		clone := *rec
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ClaimedAt.After(out[j].ClaimedAt) })
	return out, nil
}

type stubReplay struct {
	mu        sync.Mutex
	stored    map[string]*ports.ClaimResult
	lookupErr error
	storeErr  error
	// afterLookup, if set, runs after every lookup.
	afterLookup func()
}

func newStubReplay() *stubReplay {
	return &stubReplay{stored: make(map[string]*ports.ClaimResult)}
}

func (s *stubReplay) Lookup(_ context.Context, key string) (*ports.ClaimResult, bool, error) {
	if s.afterLookup != nil {
		defer s.afterLookup()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, false, s.lookupErr
	}
	r, ok := s.stored[key]
	if !ok {
		return nil, false, nil
	}
	clone := *r
	return &clone, true, nil
}

func (s *stubReplay) Remember(_ context.Context, key string, result *ports.ClaimResult, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storeErr != nil {
		return s.storeErr
	}
	clone := *result
	s.stored[key] = &clone
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

// fixedDraws returns a draw function cycling through the given grants.
func fixedDraws(points ...int) func() int {
	i := 0
	return func() int {
		p := points[i%len(points)]
		i++
		return p
	}
}

// tickingClock returns a clock advancing one second per call.
func tickingClock() func() time.Time {
	t := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}
