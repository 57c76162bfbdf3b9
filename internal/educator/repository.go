package educator

import (
	"context"
	"fmt"

	"lms_backend/platform/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository provides access to courses owned by an educator.
type Repository interface {
	ListCourses(ctx context.Context, educatorID string) ([]bson.M, error)
}

type mongoRepository struct {
	courses *mongo.Collection
}

// NewRepository creates a repository over the courses collection.
func NewRepository(database *mongo.Database) Repository {
	return &mongoRepository{courses: database.Collection(db.CollectionCourses)}
}

func (r *mongoRepository) ListCourses(ctx context.Context, educatorID string) ([]bson.M, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cur, err := r.courses.Find(ctx, bson.M{"educator": educatorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find educator courses: %w", err)
	}
	courses := []bson.M{}
	if err := cur.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("decode educator courses: %w", err)
	}
	return courses, nil
}
