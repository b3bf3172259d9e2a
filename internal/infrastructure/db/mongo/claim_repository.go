package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirpyerre/leaderboard-api/internal/core/domain"
)

const collectionClaims = "claim_history"

// ClaimRepository persists the append-only claim history.
type ClaimRepository struct {
	col *mongo.Collection
}

// NewClaimRepository creates a new ClaimRepository.
func NewClaimRepository(db *mongo.Database) *ClaimRepository {
	return &ClaimRepository{col: db.Collection(collectionClaims)}
}

type mongoClaim struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Points    int                `bson:"points"`
	ClaimedAt time.Time          `bson:"claimed_at"`
}

func (mc *mongoClaim) toDomain() *domain.ClaimRecord {
	return &domain.ClaimRecord{
		ID:        mc.ID.Hex(),
		UserID:    mc.UserID,
		Points:    mc.Points,
		ClaimedAt: mc.ClaimedAt.UTC(),
	}
}

// Insert appends a claim record.
func (r *ClaimRepository) Insert(ctx context.Context, rec *domain.ClaimRecord) (*domain.ClaimRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoClaim{
		ID:        primitive.NewObjectID(),
		UserID:    rec.UserID,
		Points:    rec.Points,
		ClaimedAt: rec.ClaimedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, storeErr("insert claim", err)
	}
	return doc.toDomain(), nil
}

// List returns the full history, newest claim first.
func (r *ClaimRepository) List(ctx context.Context) ([]*domain.ClaimRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sort := bson.D{{Key: "claimed_at", Value: -1}, {Key: "_id", Value: -1}}
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, storeErr("list claims", err)
	}
	var docs []mongoClaim
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("list claims", err)
	}

	records := make([]*domain.ClaimRecord, 0, len(docs))
	for i := range docs {
		records = append(records, docs[i].toDomain())
	}
	return records, nil
}

// EnsureIndexes creates necessary indexes on the claim_history collection.
func (r *ClaimRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "claimed_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
