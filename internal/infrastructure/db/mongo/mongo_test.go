package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sirpyerre/leaderboard-api/internal/core/domain"
)

func TestDatabaseName(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"explicit wins", Config{URI: "mongodb://localhost:27017/fromuri", Database: "explicit"}, "explicit"},
		{"from uri path", Config{URI: "mongodb://localhost:27017/leaderboard_dev"}, "leaderboard_dev"},
		{"default", Config{URI: "mongodb://localhost:27017"}, defaultDatabase},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DatabaseName(tc.cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDatabaseName_InvalidURI(t *testing.T) {
	_, err := DatabaseName(Config{URI: "postgres://nope"})
	assert.Error(t, err)
}

func TestStoreErr_WrapsBoth(t *testing.T) {
	cause := errors.New("connection reset")
	err := storeErr("list users", cause)
	assert.ErrorIs(t, err, domain.ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "list users")
}

// setupTestDatabase starts a disposable MongoDB container.
func setupTestDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}

	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate mongo container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, db, err := Connect(ctx, Config{URI: uri, Database: "leaderboard_test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	require.NoError(t, EnsureIndexes(ctx, db))
	return db
}

func TestUserRepository_Integration(t *testing.T) {
	db := setupTestDatabase(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("create assigns id and keeps zero total", func(t *testing.T) {
		u, err := repo.Create(ctx, &domain.User{Name: "Alice", CreatedAt: time.Now()})
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, 0, u.TotalPoints)

		found, err := repo.FindByIDs(ctx, []string{u.ID})
		require.NoError(t, err)
		require.Contains(t, found, u.ID)
		assert.Equal(t, "Alice", found[u.ID].Name)
	})

	t.Run("find unknown and malformed ids", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, []string{"000000000000000000000000", "not-an-object-id"})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("add points increments atomically", func(t *testing.T) {
		u, err := repo.Create(ctx, &domain.User{Name: "Bob", CreatedAt: time.Now()})
		require.NoError(t, err)

		done := make(chan error, 20)
		for i := 0; i < 20; i++ {
			go func() {
				_, err := repo.AddPoints(ctx, u.ID, 3)
				done <- err
			}()
		}
		for i := 0; i < 20; i++ {
			require.NoError(t, <-done)
		}

		found, err := repo.FindByIDs(ctx, []string{u.ID})
		require.NoError(t, err)
		require.Contains(t, found, u.ID)
		assert.Equal(t, 60, found[u.ID].TotalPoints)
	})

	t.Run("add points to unknown user", func(t *testing.T) {
		_, err := repo.AddPoints(ctx, "000000000000000000000000", 5)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("list is sorted by total desc", func(t *testing.T) {
		users, err := repo.List(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, users)
		for i := 1; i < len(users); i++ {
			assert.GreaterOrEqual(t, users[i-1].TotalPoints, users[i].TotalPoints)
		}
		assert.Equal(t, "Bob", users[0].Name)
	})

	t.Run("find by ids skips unknown", func(t *testing.T) {
		users, err := repo.List(ctx)
		require.NoError(t, err)
		got, err := repo.FindByIDs(ctx, []string{users[0].ID, "000000000000000000000000", "bad"})
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Contains(t, got, users[0].ID)
	})
}

func TestClaimRepository_Integration(t *testing.T) {
	db := setupTestDatabase(t)
	repo := NewClaimRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, p := range []int{4, 9, 1} {
		_, err := repo.Insert(ctx, &domain.ClaimRecord{
			UserID:    "u1",
			Points:    p,
			ClaimedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 1, records[0].Points)
	assert.Equal(t, 9, records[1].Points)
	assert.Equal(t, 4, records[2].Points)
	for _, r := range records {
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, "u1", r.UserID)
	}
}
