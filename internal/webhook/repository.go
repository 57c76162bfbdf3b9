package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lms_backend/platform/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository persists webhook effects in MongoDB.
type Repository struct {
	events    *mongo.Collection
	users     *mongo.Collection
	purchases *mongo.Collection
	now       func() time.Time
}

// NewRepository creates a repository over the application database.
func NewRepository(database *mongo.Database) *Repository {
	return &Repository{
		events:    database.Collection(db.CollectionWebhookEvents),
		users:     database.Collection(db.CollectionUsers),
		purchases: database.Collection(db.CollectionPurchases),
		now:       time.Now,
	}
}

var _ Store = (*Repository)(nil)

func eventKey(provider, id string) string {
	return provider + ":" + id
}

// HasEvent reports whether a delivery was already recorded.
func (r *Repository) HasEvent(ctx context.Context, provider, id string) (bool, error) {
	err := r.events.FindOne(ctx, bson.M{"_id": eventKey(provider, id)},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RecordEvent stores a processed delivery. Recording the same delivery twice is not an error.
func (r *Repository) RecordEvent(ctx context.Context, evt Event) error {
	_, err := r.events.InsertOne(ctx, bson.M{
		"_id":        eventKey(evt.Provider, evt.ID),
		"provider":   evt.Provider,
		"eventId":    evt.ID,
		"type":       evt.Type,
		"payload":    string(evt.Payload),
		"receivedAt": evt.ReceivedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

// UpsertUser creates or refreshes the mirrored user document keyed by the provider user ID.
func (r *Repository) UpsertUser(ctx context.Context, user User) error {
	now := r.now().UTC()
	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{
			"$set": bson.M{
				"email":     user.Email,
				"name":      user.Name,
				"imageUrl":  user.ImageURL,
				"phone":     user.Phone,
				"updatedAt": now,
			},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// DeleteUser removes the mirrored user document. Deleting an unknown user is not an error.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	_, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// SetPurchaseStatus updates a purchase by ID and reports whether it exists.
func (r *Repository) SetPurchaseStatus(ctx context.Context, purchaseID, status string) (bool, error) {
	res, err := r.purchases.UpdateOne(ctx,
		bson.M{"_id": db.IDFilter(purchaseID)},
		bson.M{"$set": bson.M{"status": status, "updatedAt": r.now().UTC()}},
	)
	if err != nil {
		return false, fmt.Errorf("update purchase: %w", err)
	}
	return res.MatchedCount > 0, nil
}
