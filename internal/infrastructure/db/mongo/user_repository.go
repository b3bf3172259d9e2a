package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirpyerre/leaderboard-api/internal/core/domain"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	ProfilePicture string             `bson:"profile_picture,omitempty"`
	TotalPoints    int                `bson:"total_points"`
	CreatedAt      time.Time          `bson:"created_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:             mu.ID.Hex(),
		Name:           mu.Name,
		ProfilePicture: mu.ProfilePicture,
		TotalPoints:    mu.TotalPoints,
		CreatedAt:      mu.CreatedAt.UTC(),
	}
}

// leaderboardSort orders by total descending; ties fall back to insertion order.
var leaderboardSort = bson.D{{Key: "total_points", Value: -1}, {Key: "_id", Value: 1}}

// List returns all users, highest total first.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(leaderboardSort))
	if err != nil {
		return nil, storeErr("list users", err)
	}
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("list users", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

// Create inserts a new user and returns it with its generated id.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		ID:             primitive.NewObjectID(),
		Name:           user.Name,
		ProfilePicture: user.ProfilePicture,
		TotalPoints:    user.TotalPoints,
		CreatedAt:      user.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, storeErr("insert user", err)
	}
	return doc.toDomain(), nil
}

// FindByIDs resolves many users in one query. Unknown or malformed ids are
// simply absent from the result.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	out := make(map[string]*domain.User, len(oids))
	if len(oids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, storeErr("find users", err)
	}
	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storeErr("find users", err)
	}
	for i := range docs {
		u := docs[i].toDomain()
		out[u.ID] = u
	}
	return out, nil
}

// AddPoints increments total_points with $inc and returns the post-update
// document, so concurrent claims never overwrite each other.
func (r *UserRepository) AddPoints(ctx context.Context, id string, points int) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$inc": bson.M{"total_points": points}}

	var mu mongoUser
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeErr("add points", err)
	}
	return mu.toDomain(), nil
}

// EnsureIndexes creates necessary indexes on the users collection.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: leaderboardSort})
	return err
}
