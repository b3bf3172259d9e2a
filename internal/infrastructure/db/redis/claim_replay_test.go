package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/sirpyerre/leaderboard-api/internal/core/domain"
	"github.com/sirpyerre/leaderboard-api/internal/core/ports"
)

func TestClaimReplayStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Redis container test in short mode")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate redis container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := Connect(ctx, Config{Addr: endpoint})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := NewClaimReplayStore(client)

	t.Run("miss", func(t *testing.T) {
		res, found, err := store.Lookup(ctx, "unknown")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, res)
	})

	t.Run("remember then lookup", func(t *testing.T) {
		want := &ports.ClaimResult{
			User:   &domain.User{ID: "65f0c0ffee", Name: "Alice", TotalPoints: 7},
			Points: 7,
		}
		require.NoError(t, store.Remember(ctx, "k1", want, time.Minute))

		got, found, err := store.Lookup(ctx, "k1")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, want.Points, got.Points)
		assert.Equal(t, want.User.ID, got.User.ID)
		assert.Equal(t, want.User.TotalPoints, got.User.TotalPoints)

		ttl, err := client.TTL(ctx, "claim:idem:k1").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})
}

func TestConnect_NotConfigured(t *testing.T) {
	client, err := Connect(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, client)
}
