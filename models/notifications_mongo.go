package models

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Vinay0726/Eventra/apperr"
)

type mongoNotificationRepo struct {
	col *mongo.Collection
}

func NewMongoNotificationRepository(col *mongo.Collection) NotificationRepository {
	return &mongoNotificationRepo{col: col}
}

func (r *mongoNotificationRepo) Create(ctx context.Context, n *Notification) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	_, err := r.col.InsertOne(ctx, n)
	return err
}

func (r *mongoNotificationRepo) Exists(ctx context.Context, eventID, message string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"eventId": eventID, "message": message})
	return n > 0, err
}

func (r *mongoNotificationRepo) ListByEvents(ctx context.Context, eventIDs []string) ([]Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	if len(eventIDs) == 0 {
		return []Notification{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "sentAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"eventId": bson.M{"$in": eventIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Notification{}
	for cur.Next(ctx) {
		var n Notification
		if err := cur.Decode(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, cur.Err()
}

func (r *mongoNotificationRepo) Update(ctx context.Context, id, message string) (Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var n Notification
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"message": message}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Notification{}, apperr.NotFound("notification")
	}
	return n, err
}

func (r *mongoNotificationRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("notification")
	}
	return nil
}
