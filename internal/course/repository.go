package course

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

const maxListSize = 200

// Repository provides read access to course documents.
type Repository interface {
	List(ctx context.Context) ([]bson.M, error)
	GetByID(ctx context.Context, id string) (bson.M, error)
}

type mongoRepository struct {
	courses *mongo.Collection
}

// NewRepository creates a repository over the courses collection.
func NewRepository(database *mongo.Database) Repository {
	return &mongoRepository{courses: database.Collection(db.CollectionCourses)}
}

func (r *mongoRepository) List(ctx context.Context) ([]bson.M, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(maxListSize)

	cur, err := r.courses.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find courses: %w", err)
	}
	courses := []bson.M{}
	if err := cur.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return courses, nil
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (bson.M, error) {
	var course bson.M
	err := r.courses.FindOne(ctx, bson.M{"_id": db.IDFilter(id)}).Decode(&course)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find course %s: %w", id, err)
	}
	return course, nil
}
