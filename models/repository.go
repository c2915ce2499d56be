package models

import (
	"context"
	"time"
)

// ===== Events =====

// EventFilter narrows listing queries; zero value means everything.
type EventFilter struct {
	Status      string
	OrganizerID int64
}

type EventRepository interface {
	List(ctx context.Context, f EventFilter) ([]Event, error)
	GetByID(ctx context.Context, id string) (Event, error)
	Create(ctx context.Context, e *Event) error
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id, status string) (Event, error)
	CountByFilter(ctx context.Context, f EventFilter) (int64, error)
}

// ===== Bookings =====

// BookingRepository owns the payments collection. CreateWithDecrement is the
// ledger's atomic step: the conditional seat decrement and the record insert
// commit together or not at all. It returns ErrCapacity (as an
// apperr.KindCapacityExceeded error) when availableTickets < rec.SeatsBooked
// at the instant of the write, and a duplicate-kind error when the record's
// paymentRef or idempotencyKey already exists.
type BookingRepository interface {
	CreateWithDecrement(ctx context.Context, rec *BookingRecord) error
	GetByID(ctx context.Context, id string) (BookingRecord, error)
	FindByPaymentRef(ctx context.Context, ref string) (BookingRecord, error)
	FindByIdempotencyKey(ctx context.Context, key string) (BookingRecord, error)
	ListByUser(ctx context.Context, userID int64) ([]BookingRecord, error)
	ListByEvent(ctx context.Context, eventID string) ([]BookingRecord, error)
	ListAll(ctx context.Context) ([]BookingRecord, error)
	SumAmountBetween(ctx context.Context, from, to time.Time) (float64, error)
	CountByEvents(ctx context.Context, eventIDs []string) (int64, error)
}

// ===== Notifications =====

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	Exists(ctx context.Context, eventID, message string) (bool, error)
	ListByEvents(ctx context.Context, eventIDs []string) ([]Notification, error)
	Update(ctx context.Context, id, message string) (Notification, error)
	Delete(ctx context.Context, id string) error
}

// ===== Feedback =====

type FeedbackRepository interface {
	Create(ctx context.Context, f *Feedback) error
	ListByEvents(ctx context.Context, eventIDs []string) ([]Feedback, error)
}

// ===== Checkout sessions =====

type SessionRepository interface {
	Create(ctx context.Context, s *CheckoutSession) error
	GetByID(ctx context.Context, id string) (CheckoutSession, error)
}

// ===== Accounts =====

type AccountRepository interface {
	Create(ctx context.Context, a *Account) error
	ValidateCredentials(ctx context.Context, email, plain string) (Account, error)
	GetByID(ctx context.Context, id int64) (Account, error)
	Update(ctx context.Context, a *Account) error
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]Account, error)
	Count(ctx context.Context) (int64, error)
}
