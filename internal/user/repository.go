package user

import (
	"context"
	"errors"
	"fmt"

	"lms_backend/platform/apperr"
	"lms_backend/platform/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository provides access to the caller's own documents.
type Repository interface {
	GetUser(ctx context.Context, userID string) (bson.M, error)
	ListPurchases(ctx context.Context, userID string) ([]bson.M, error)
}

type mongoRepository struct {
	users     *mongo.Collection
	purchases *mongo.Collection
}

// NewRepository creates a repository over the users and purchases collections.
func NewRepository(database *mongo.Database) Repository {
	return &mongoRepository{
		users:     database.Collection(db.CollectionUsers),
		purchases: database.Collection(db.CollectionPurchases),
	}
}

func (r *mongoRepository) GetUser(ctx context.Context, userID string) (bson.M, error) {
	var user bson.M
	err := r.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", userID, err)
	}
	return user, nil
}

func (r *mongoRepository) ListPurchases(ctx context.Context, userID string) ([]bson.M, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cur, err := r.purchases.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find purchases: %w", err)
	}
	purchases := []bson.M{}
	if err := cur.All(ctx, &purchases); err != nil {
		return nil, fmt.Errorf("decode purchases: %w", err)
	}
	return purchases, nil
}
