package models

import "time"

// Event status lifecycle: created pending, moved to approved/rejected by an
// admin, never back.
const (
	EventPending  = "pending"
	EventApproved = "approved"
	EventRejected = "rejected"
)

type Event struct {
	ID          string    `json:"id" bson:"id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Category    string    `json:"category" bson:"category"`
	Date        time.Time `json:"date" bson:"date"`
	Time        string    `json:"time" bson:"time"`
	Venue       string    `json:"venue" bson:"venue"`

	IsPaid      bool    `json:"isPaid" bson:"isPaid"`
	TicketPrice float64 `json:"ticketPrice" bson:"ticketPrice"`
	// TotalTickets is fixed at creation; AvailableTickets only ever moves
	// through the booking ledger and stays within [0, TotalTickets].
	TotalTickets     int `json:"totalTickets" bson:"totalTickets"`
	AvailableTickets int `json:"availableTickets" bson:"availableTickets"`

	Status      string `json:"status" bson:"status"`
	OrganizerID int64  `json:"organizerId" bson:"organizerId"`
}

// Booking/payment record statuses. Free-path records are "unpaid" with a
// zero amount; gateway-confirmed records are "paid".
const (
	BookingPaid   = "paid"
	BookingUnpaid = "unpaid"
)

// BookingRecord is an append-only fact that a user reserved seats. It is
// never mutated after creation; PaymentRef and IdempotencyKey exist only so
// retries can find the record they already created.
type BookingRecord struct {
	ID          string    `json:"id" bson:"id"`
	UserID      int64     `json:"userId" bson:"userId"`
	EventID     string    `json:"eventId" bson:"eventId"`
	SeatsBooked int       `json:"seatsBooked" bson:"seatsBooked"`
	Amount      float64   `json:"amount" bson:"amount"`
	Status      string    `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`

	PaymentRef     string `json:"paymentRef,omitempty" bson:"paymentRef,omitempty"`
	IdempotencyKey string `json:"-" bson:"idempotencyKey,omitempty"`
}

type Notification struct {
	ID      string    `json:"id" bson:"id"`
	EventID string    `json:"eventId" bson:"eventId"`
	Message string    `json:"message" bson:"message"`
	SentAt  time.Time `json:"sentAt" bson:"sentAt"`
}

type Feedback struct {
	ID          string    `json:"id" bson:"id"`
	UserID      int64     `json:"userId" bson:"userId"`
	EventID     string    `json:"eventId" bson:"eventId"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email" bson:"email"`
	Message     string    `json:"message" bson:"message"`
	SubmittedAt time.Time `json:"submittedAt" bson:"submittedAt"`
}

// CheckoutSession records what a pending gateway checkout was for. The
// gateway status API does not echo our metadata back, so confirmation reads
// it from here. Creating a session never touches availableTickets.
type CheckoutSession struct {
	ID        string    `json:"sessionId" bson:"id"`
	UserID    int64     `json:"userId" bson:"userId"`
	EventID   string    `json:"eventId" bson:"eventId"`
	Seats     int       `json:"seats" bson:"seats"`
	Amount    float64   `json:"amount" bson:"amount"`
	Token     string    `json:"token" bson:"token"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Account is a row in one of the three identity tables; which table is
// decided by the role, resolved once at the auth boundary.
type Account struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Password string `json:"-"`
}
