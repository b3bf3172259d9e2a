package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/sirpyerre/leaderboard-api/internal/core/domain"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultDatabase = "leaderboard"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI string
	// Database overrides the database named in URI. When both are empty
	// defaultDatabase is used.
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	name, err := DatabaseName(cfg)
	if err != nil {
		return nil, nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(name), nil
}

// DatabaseName resolves the database to use: the explicit setting, then the
// path of the connection string, then defaultDatabase.
func DatabaseName(cfg Config) (string, error) {
	if cfg.Database != "" {
		return cfg.Database, nil
	}
	cs, err := connstring.ParseAndValidate(cfg.URI)
	if err != nil {
		return "", fmt.Errorf("mongo uri: %w", err)
	}
	if cs.Database != "" {
		return cs.Database, nil
	}
	return defaultDatabase, nil
}

// EnsureIndexes creates the indexes backing the leaderboard and history sorts.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := NewClaimRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("claim indexes: %w", err)
	}
	return nil
}

// storeErr tags a driver failure as a domain store error.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStore, err)
}
