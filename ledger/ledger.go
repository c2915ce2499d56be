// Package ledger holds the event capacity and booking consistency rules:
// a seat decrement and its booking record are created together or not at
// all, and a retried request never applies a second time.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Vinay0726/Eventra/apperr"
	"github.com/Vinay0726/Eventra/models"
)

type Ledger struct {
	events   models.EventRepository
	bookings models.BookingRepository
}

func New(events models.EventRepository, bookings models.BookingRepository) *Ledger {
	return &Ledger{events: events, bookings: bookings}
}

// ReserveSeats books seats on the free path. The capacity check and the
// decrement are a single conditional write inside the repository, so two
// concurrent calls can never both pass on the same remaining seats.
//
// idempotencyKey is optional; when the caller supplies one, a retry of the
// same key returns the record the first attempt created, with no further
// decrement.
func (l *Ledger) ReserveSeats(ctx context.Context, eventID string, seats int, userID int64, idempotencyKey string) (models.BookingRecord, error) {
	if seats < 1 {
		return models.BookingRecord{}, apperr.Validation("seat count must be a positive integer")
	}

	if idempotencyKey != "" {
		if prior, err := l.bookings.FindByIdempotencyKey(ctx, idempotencyKey); err == nil {
			return prior, nil
		} else if !apperr.IsKind(err, apperr.KindNotFound) {
			return models.BookingRecord{}, err
		}
	}

	// Existence check up front so an unknown event reports NotFound before
	// any write is attempted.
	if _, err := l.events.GetByID(ctx, eventID); err != nil {
		return models.BookingRecord{}, err
	}

	rec := models.BookingRecord{
		ID:             uuid.NewString(),
		UserID:         userID,
		EventID:        eventID,
		SeatsBooked:    seats,
		Amount:         0,
		Status:         models.BookingUnpaid,
		CreatedAt:      time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}

	if err := l.bookings.CreateWithDecrement(ctx, &rec); err != nil {
		if apperr.IsKind(err, apperr.KindDuplicate) && idempotencyKey != "" {
			// Lost the race against a concurrent retry of the same key;
			// the committed record is the result.
			return l.bookings.FindByIdempotencyKey(ctx, idempotencyKey)
		}
		return models.BookingRecord{}, err
	}
	return rec, nil
}

// ConfirmPaidBooking records a gateway-confirmed payment. paymentRef is the
// natural idempotency key: duplicate gateway callbacks return the existing
// record unchanged instead of decrementing again.
//
// Capacity is re-checked atomically here because seats are not held between
// session creation and confirmation; a CapacityExceeded at this point means
// the caller must refund out of band.
func (l *Ledger) ConfirmPaidBooking(ctx context.Context, eventID string, seats int, userID int64, paymentRef string, amount float64) (models.BookingRecord, error) {
	if seats < 1 {
		return models.BookingRecord{}, apperr.Validation("seat count must be a positive integer")
	}
	if paymentRef == "" {
		return models.BookingRecord{}, apperr.Validation("payment reference is required")
	}
	if amount < 0 {
		return models.BookingRecord{}, apperr.Validation("amount must not be negative")
	}

	if prior, err := l.bookings.FindByPaymentRef(ctx, paymentRef); err == nil {
		return prior, nil
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return models.BookingRecord{}, err
	}

	if _, err := l.events.GetByID(ctx, eventID); err != nil {
		return models.BookingRecord{}, err
	}

	rec := models.BookingRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		EventID:     eventID,
		SeatsBooked: seats,
		Amount:      amount,
		Status:      models.BookingPaid,
		CreatedAt:   time.Now().UTC(),
		PaymentRef:  paymentRef,
	}

	if err := l.bookings.CreateWithDecrement(ctx, &rec); err != nil {
		if apperr.IsKind(err, apperr.KindDuplicate) {
			return l.bookings.FindByPaymentRef(ctx, paymentRef)
		}
		return models.BookingRecord{}, err
	}
	return rec, nil
}
