package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Vinay0726/Eventra/apperr"
)

const mongoOpTimeout = 5 * time.Second

type mongoEventRepo struct {
	col *mongo.Collection
}

func NewMongoEventRepository(col *mongo.Collection) EventRepository {
	return &mongoEventRepo{col: col}
}

func (f EventFilter) query() bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.OrganizerID != 0 {
		q["organizerId"] = f.OrganizerID
	}
	return q
}

func (r *mongoEventRepo) List(ctx context.Context, f EventFilter) ([]Event, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, f.query())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Event{}
	for cur.Next(ctx) {
		var e Event
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, cur.Err()
}

func (r *mongoEventRepo) GetByID(ctx context.Context, id string) (Event, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var e Event
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Event{}, apperr.NotFound("event")
		}
		return Event{}, err
	}
	return e, nil
}

func (r *mongoEventRepo) Create(ctx context.Context, e *Event) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	_, err := r.col.InsertOne(ctx, e)
	return err
}

func (r *mongoEventRepo) Update(ctx context.Context, e *Event) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"id": e.ID}, bson.M{"$set": e})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("event")
	}
	return nil
}

func (r *mongoEventRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("event")
	}
	return nil
}

func (r *mongoEventRepo) SetStatus(ctx context.Context, id, status string) (Event, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var e Event
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Event{}, apperr.NotFound("event")
	}
	return e, err
}

func (r *mongoEventRepo) CountByFilter(ctx context.Context, f EventFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, f.query())
}

// decrementAvailable is the conditional check-and-decrement: the filter and
// the $inc are one server-side operation, so two requests can never both
// pass a stale availability check. Callers run it inside the booking
// transaction via sc (a session context).
func (r *mongoEventRepo) decrementAvailable(sc mongo.SessionContext, id string, seats int) error {
	res, err := r.col.UpdateOne(sc,
		bson.M{"id": id, "availableTickets": bson.M{"$gte": seats}},
		bson.M{"$inc": bson.M{"availableTickets": -seats}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Insufficient seats, or no such event. One extra lookup only on
		// this path to tell them apart.
		n, err := r.col.CountDocuments(sc, bson.M{"id": id})
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotFound("event")
		}
		return apperr.CapacityExceeded("not enough tickets available")
	}
	return nil
}
