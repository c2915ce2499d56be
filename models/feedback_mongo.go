package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoFeedbackRepo struct {
	col *mongo.Collection
}

func NewMongoFeedbackRepository(col *mongo.Collection) FeedbackRepository {
	return &mongoFeedbackRepo{col: col}
}

func (r *mongoFeedbackRepo) Create(ctx context.Context, f *Feedback) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	_, err := r.col.InsertOne(ctx, f)
	return err
}

func (r *mongoFeedbackRepo) ListByEvents(ctx context.Context, eventIDs []string) ([]Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	if len(eventIDs) == 0 {
		return []Feedback{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"eventId": bson.M{"$in": eventIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Feedback{}
	for cur.Next(ctx) {
		var f Feedback
		if err := cur.Decode(&f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, cur.Err()
}
