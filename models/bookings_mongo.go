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

type mongoBookingRepo struct {
	client   *mongo.Client
	payments *mongo.Collection
	events   *mongoEventRepo
}

func NewMongoBookingRepository(client *mongo.Client, payments, events *mongo.Collection) BookingRepository {
	return &mongoBookingRepo{
		client:   client,
		payments: payments,
		events:   &mongoEventRepo{col: events},
	}
}

// EnsureBookingIndexes creates the unique sparse indexes that back
// idempotency: one per gateway payment reference, one per client-supplied
// token. Sparse so free bookings without a token are unconstrained.
func EnsureBookingIndexes(ctx context.Context, payments *mongo.Collection) error {
	_, err := payments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "paymentRef", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "idempotencyKey", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "eventId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
		},
	})
	return err
}

// CreateWithDecrement commits the conditional seat decrement and the record
// insert as one transaction. Either both land or neither does, so the
// invariant availableTickets = totalTickets - sum(seatsBooked) holds after
// every commit.
func (r *mongoBookingRepo) CreateWithDecrement(ctx context.Context, rec *BookingRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		if err := r.events.decrementAvailable(sc, rec.EventID, rec.SeatsBooked); err != nil {
			return nil, err
		}
		if _, err := r.payments.InsertOne(sc, rec); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Wrap(apperr.KindDuplicate, "booking already recorded", err)
		}
		return err
	}
	return nil
}

func (r *mongoBookingRepo) findOne(ctx context.Context, q bson.M) (BookingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var rec BookingRecord
	if err := r.payments.FindOne(ctx, q).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return BookingRecord{}, apperr.NotFound("booking")
		}
		return BookingRecord{}, err
	}
	return rec, nil
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (BookingRecord, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoBookingRepo) FindByPaymentRef(ctx context.Context, ref string) (BookingRecord, error) {
	return r.findOne(ctx, bson.M{"paymentRef": ref})
}

func (r *mongoBookingRepo) FindByIdempotencyKey(ctx context.Context, key string) (BookingRecord, error) {
	return r.findOne(ctx, bson.M{"idempotencyKey": key})
}

func (r *mongoBookingRepo) list(ctx context.Context, q bson.M) ([]BookingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.payments.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []BookingRecord{}
	for cur.Next(ctx) {
		var rec BookingRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, cur.Err()
}

func (r *mongoBookingRepo) ListByUser(ctx context.Context, userID int64) ([]BookingRecord, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *mongoBookingRepo) ListByEvent(ctx context.Context, eventID string) ([]BookingRecord, error) {
	return r.list(ctx, bson.M{"eventId": eventID})
}

func (r *mongoBookingRepo) ListAll(ctx context.Context) ([]BookingRecord, error) {
	return r.list(ctx, bson.M{})
}

func (r *mongoBookingRepo) SumAmountBetween(ctx context.Context, from, to time.Time) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	cur, err := r.payments.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": from, "$lte": to}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var row struct {
		Total float64 `bson:"total"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return 0, err
		}
	}
	return row.Total, cur.Err()
}

func (r *mongoBookingRepo) CountByEvents(ctx context.Context, eventIDs []string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	if len(eventIDs) == 0 {
		return 0, nil
	}
	return r.payments.CountDocuments(ctx, bson.M{"eventId": bson.M{"$in": eventIDs}})
}
