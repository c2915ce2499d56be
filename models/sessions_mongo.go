package models

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Vinay0726/Eventra/apperr"
)

type mongoSessionRepo struct {
	col *mongo.Collection
}

func NewMongoSessionRepository(col *mongo.Collection) SessionRepository {
	return &mongoSessionRepo{col: col}
}

func (r *mongoSessionRepo) Create(ctx context.Context, s *CheckoutSession) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *mongoSessionRepo) GetByID(ctx context.Context, id string) (CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var s CheckoutSession
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return CheckoutSession{}, apperr.NotFound("checkout session")
		}
		return CheckoutSession{}, err
	}
	return s, nil
}
