package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Vinay0726/Eventra/gateway"
	"github.com/Vinay0726/Eventra/middlewares"
	"github.com/Vinay0726/Eventra/models"
	"github.com/Vinay0726/Eventra/pdf"
	"github.com/Vinay0726/Eventra/qrcode"
)

// POST /payment/register — free path. The optional idempotencyKey lets a
// client retry a timed-out request without risking a second decrement.
func (d *deps) registerFreeBooking(c *gin.Context) {
	var req struct {
		EventID        string `json:"eventId" binding:"required"`
		Seats          int    `json:"seats" binding:"required"`
		IdempotencyKey string `json:"idempotencyKey"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data.", "kind": "validation_error"})
		return
	}

	p, _ := middlewares.PrincipalFrom(c)

	rec, err := d.ledger.ReserveSeats(c.Request.Context(), req.EventID, req.Seats, p.ID, req.IdempotencyKey)
	if err != nil {
		fail(c, err)
		return
	}

	d.purgeEventCaches(c, req.EventID)
	c.JSON(http.StatusCreated, gin.H{"message": "Registered successfully (free event).", "payment": rec})
}

// POST /payment/create-checkout-session — delegates to the gateway and
// records what the checkout is for; availableTickets is untouched here.
// The capacity read below is advisory only: the binding check happens
// atomically at confirmation.
func (d *deps) createCheckoutSession(c *gin.Context) {
	var req struct {
		EventID string `json:"eventId" binding:"required"`
		Seats   int    `json:"seats" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Valid eventId and seats are required.", "kind": "validation_error"})
		return
	}

	event, err := d.Events.GetByID(c.Request.Context(), req.EventID)
	if err != nil {
		fail(c, err)
		return
	}
	if !event.IsPaid {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Event is not a paid event.", "kind": "validation_error"})
		return
	}
	if event.TicketPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid ticket price.", "kind": "validation_error"})
		return
	}
	if event.AvailableTickets < req.Seats {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Not enough tickets available.", "kind": "capacity_exceeded"})
		return
	}

	p, _ := middlewares.PrincipalFrom(c)
	amount := event.TicketPrice * float64(req.Seats)
	orderID := uuid.NewString()

	sess, err := d.Gateway.CreateSession(c.Request.Context(), orderID, amount, gateway.CheckoutItem{
		Name:        event.Name,
		Description: event.Description,
		UnitPrice:   event.TicketPrice,
		Quantity:    req.Seats,
	})
	if err != nil {
		fail(c, err)
		return
	}

	record := models.CheckoutSession{
		ID:        orderID,
		UserID:    p.ID,
		EventID:   event.ID,
		Seats:     req.Seats,
		Amount:    amount,
		Token:     sess.Token,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.Sessions.Create(c.Request.Context(), &record); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"sessionId":   orderID,
		"token":       sess.Token,
		"redirectUrl": sess.RedirectURL,
	})
}

// POST /payment/confirm-checkout — asks the gateway whether the session was
// paid, then runs the paid booking through the ledger. The gateway's
// transaction id is the idempotency key, so a duplicate confirmation
// returns the original record.
func (d *deps) confirmCheckout(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Session ID is required.", "kind": "validation_error"})
		return
	}

	sess, err := d.Sessions.GetByID(c.Request.Context(), req.SessionID)
	if err != nil {
		fail(c, err)
		return
	}

	p, _ := middlewares.PrincipalFrom(c)
	if sess.UserID != p.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden."})
		return
	}

	status, err := d.Gateway.SessionStatus(c.Request.Context(), sess.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if !status.Paid {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payment not completed.", "kind": "upstream_payment_error"})
		return
	}

	ref := status.PaymentRef
	if ref == "" {
		ref = sess.ID
	}

	rec, err := d.ledger.ConfirmPaidBooking(c.Request.Context(), sess.EventID, sess.Seats, sess.UserID, ref, sess.Amount)
	if err != nil {
		fail(c, err)
		return
	}

	d.purgeEventCaches(c, sess.EventID)
	c.JSON(http.StatusOK, gin.H{"message": "Payment confirmed and registration complete.", "payment": rec})
}

/* ---------------- history and listings ---------------- */

func (d *deps) requireSelf(c *gin.Context, param string) (int64, bool) {
	id, ok := parseID(c, param)
	if !ok {
		return 0, false
	}
	p, _ := middlewares.PrincipalFrom(c)
	if p.ID != id {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden."})
		return 0, false
	}
	return id, true
}

type paymentView struct {
	models.BookingRecord
	EventName string `json:"eventName,omitempty"`
	UserName  string `json:"userName,omitempty"`
}

func (d *deps) decorate(c *gin.Context, bookings []models.BookingRecord, withUser bool) []paymentView {
	out := make([]paymentView, 0, len(bookings))
	events := map[string]string{}
	for _, b := range bookings {
		v := paymentView{BookingRecord: b}
		name, ok := events[b.EventID]
		if !ok {
			if e, err := d.Events.GetByID(c.Request.Context(), b.EventID); err == nil {
				name = e.Name
			}
			events[b.EventID] = name
		}
		v.EventName = name
		if withUser {
			if a, err := d.Users.GetByID(c.Request.Context(), b.UserID); err == nil {
				v.UserName = a.Name
			}
		}
		out = append(out, v)
	}
	return out
}

// GET /payment/history/:userId
func (d *deps) paymentHistory(c *gin.Context) {
	userID, ok := d.requireSelf(c, "userId")
	if !ok {
		return
	}
	bookings, err := d.Bookings.ListByUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": d.decorate(c, bookings, false)})
}

// GET /payment/registered/:userId — the events behind the user's bookings.
func (d *deps) registeredEvents(c *gin.Context) {
	userID, ok := d.requireSelf(c, "userId")
	if !ok {
		return
	}
	bookings, err := d.Bookings.ListByUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	seen := map[string]bool{}
	events := []models.Event{}
	for _, b := range bookings {
		if seen[b.EventID] {
			continue
		}
		seen[b.EventID] = true
		if e, err := d.Events.GetByID(c.Request.Context(), b.EventID); err == nil {
			events = append(events, e)
		}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GET /payment/ticket/:paymentId — e-ticket PDF with a check-in QR code.
func (d *deps) downloadTicket(c *gin.Context) {
	rec, err := d.Bookings.GetByID(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		fail(c, err)
		return
	}

	p, _ := middlewares.PrincipalFrom(c)
	if rec.UserID != p.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden."})
		return
	}

	event, err := d.Events.GetByID(c.Request.Context(), rec.EventID)
	if err != nil {
		fail(c, err)
		return
	}

	userName := ""
	if a, err := d.Users.GetByID(c.Request.Context(), rec.UserID); err == nil {
		userName = a.Name
	}

	qr, err := qrcode.TicketPNG(rec.ID, 300)
	if err != nil {
		fail(c, err)
		return
	}

	doc, err := pdf.Ticket(pdf.TicketData{
		BookingID:   rec.ID,
		EventName:   event.Name,
		EventDate:   event.Date,
		EventTime:   event.Time,
		Venue:       event.Venue,
		UserName:    userName,
		SeatsBooked: rec.SeatsBooked,
		Amount:      rec.Amount,
		Status:      rec.Status,
		QRCodePNG:   qr,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ticket-%s.pdf"`, rec.ID))
	c.Data(http.StatusOK, "application/pdf", doc)
}

// GET /payment/organizer/:organizerId — payments against the organizer's
// own events.
func (d *deps) organizerPayments(c *gin.Context) {
	orgID, ok := d.requireSelf(c, "organizerId")
	if !ok {
		return
	}

	events, err := d.Events.List(c.Request.Context(), models.EventFilter{OrganizerID: orgID})
	if err != nil {
		fail(c, err)
		return
	}

	payments := []paymentView{}
	for _, e := range events {
		bookings, err := d.Bookings.ListByEvent(c.Request.Context(), e.ID)
		if err != nil {
			fail(c, err)
			return
		}
		payments = append(payments, d.decorate(c, bookings, true)...)
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// GET /payment/all
func (d *deps) allPayments(c *gin.Context) {
	bookings, err := d.Bookings.ListAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": d.decorate(c, bookings, true)})
}
