package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Vinay0726/Eventra/middlewares"
	"github.com/Vinay0726/Eventra/models"
)

type eventRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Category    string    `json:"category" binding:"required,min=6"`
	Date        time.Time `json:"date" binding:"required"`
	Time        string    `json:"time" binding:"required"`
	Venue       string    `json:"venue" binding:"required"`

	TicketType   string  `json:"ticketType" binding:"required,oneof=free paid"`
	TicketPrice  float64 `json:"ticketPrice"`
	TotalTickets int     `json:"totalTickets" binding:"required,gt=0"`
}

// POST /events — always lands in "pending"; only an admin moves it on.
func (d *deps) createEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data.", "kind": "validation_error"})
		return
	}

	isPaid := req.TicketType == "paid"
	if isPaid && req.TicketPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Paid events must have a ticket price greater than 0.", "kind": "validation_error"})
		return
	}
	if !isPaid {
		req.TicketPrice = 0
	}

	p, _ := middlewares.PrincipalFrom(c)

	event := models.Event{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Description:      req.Description,
		Category:         req.Category,
		Date:             req.Date,
		Time:             req.Time,
		Venue:            req.Venue,
		IsPaid:           isPaid,
		TicketPrice:      req.TicketPrice,
		TotalTickets:     req.TotalTickets,
		AvailableTickets: req.TotalTickets,
		Status:           models.EventPending,
		OrganizerID:      p.ID,
	}

	if err := d.Events.Create(c.Request.Context(), &event); err != nil {
		fail(c, err)
		return
	}

	d.purgeEventCaches(c, event.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "Event submitted for approval.", "event": event})
}

// GET /events/public/approved
func (d *deps) listApprovedEvents(c *gin.Context) {
	events, err := d.Events.List(c.Request.Context(), models.EventFilter{Status: models.EventApproved})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GET /events/:id
func (d *deps) getEvent(c *gin.Context) {
	event, err := d.Events.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// GET /events — every event regardless of status, for the admin console.
func (d *deps) listAllEvents(c *gin.Context) {
	events, err := d.Events.List(c.Request.Context(), models.EventFilter{})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GET /events/organizer/:organizerId
func (d *deps) listOrganizerEvents(c *gin.Context) {
	orgID, ok := parseID(c, "organizerId")
	if !ok {
		return
	}
	p, _ := middlewares.PrincipalFrom(c)
	if p.ID != orgID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden."})
		return
	}

	events, err := d.Events.List(c.Request.Context(), models.EventFilter{OrganizerID: orgID})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// ownedEvent loads the event and enforces that the caller organizes it.
func (d *deps) ownedEvent(c *gin.Context, id string) (models.Event, bool) {
	event, err := d.Events.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return models.Event{}, false
	}
	p, _ := middlewares.PrincipalFrom(c)
	if event.OrganizerID != p.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized for this event."})
		return models.Event{}, false
	}
	return event, true
}

// PUT /events/:id — metadata only. Status and the two counters are owned by
// the approval flow and the booking ledger respectively and never move here.
func (d *deps) updateEvent(c *gin.Context) {
	old, ok := d.ownedEvent(c, c.Param("id"))
	if !ok {
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not parse request data.", "kind": "validation_error"})
		return
	}
	isPaid := req.TicketType == "paid"
	if isPaid && req.TicketPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Paid events must have a ticket price greater than 0.", "kind": "validation_error"})
		return
	}
	if !isPaid {
		req.TicketPrice = 0
	}

	updated := old
	updated.Name = req.Name
	updated.Description = req.Description
	updated.Category = req.Category
	updated.Date = req.Date
	updated.Time = req.Time
	updated.Venue = req.Venue
	updated.IsPaid = isPaid
	updated.TicketPrice = req.TicketPrice

	if err := d.Events.Update(c.Request.Context(), &updated); err != nil {
		fail(c, err)
		return
	}

	d.purgeEventCaches(c, updated.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Event updated.", "event": updated})
}

// DELETE /events/:id
func (d *deps) deleteEvent(c *gin.Context) {
	event, ok := d.ownedEvent(c, c.Param("id"))
	if !ok {
		return
	}

	if err := d.Events.Delete(c.Request.Context(), event.ID); err != nil {
		fail(c, err)
		return
	}

	d.purgeEventCaches(c, event.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted."})
}

// GET /events/admin/pending
func (d *deps) listPendingEvents(c *gin.Context) {
	events, err := d.Events.List(c.Request.Context(), models.EventFilter{Status: models.EventPending})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (d *deps) setEventStatus(c *gin.Context, status, message string) {
	event, err := d.Events.SetStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		fail(c, err)
		return
	}
	d.purgeEventCaches(c, event.ID)
	c.JSON(http.StatusOK, gin.H{"message": message, "event": event})
}

// PUT /events/admin/approve/:id
func (d *deps) approveEvent(c *gin.Context) {
	d.setEventStatus(c, models.EventApproved, "Event approved.")
}

// PUT /events/admin/reject/:id
func (d *deps) rejectEvent(c *gin.Context) {
	d.setEventStatus(c, models.EventRejected, "Event rejected.")
}

// GET /events/:id/registered-users
func (d *deps) listRegisteredUsers(c *gin.Context) {
	event, ok := d.ownedEvent(c, c.Param("id"))
	if !ok {
		return
	}

	bookings, err := d.Bookings.ListByEvent(c.Request.Context(), event.ID)
	if err != nil {
		fail(c, err)
		return
	}

	type registeredUser struct {
		UserID      int64     `json:"userId"`
		Name        string    `json:"name"`
		Email       string    `json:"email"`
		SeatsBooked int       `json:"seatsBooked"`
		Amount      float64   `json:"amount"`
		PaymentDate time.Time `json:"paymentDate"`
	}

	users := []registeredUser{}
	for _, b := range bookings {
		ru := registeredUser{
			UserID:      b.UserID,
			SeatsBooked: b.SeatsBooked,
			Amount:      b.Amount,
			PaymentDate: b.CreatedAt,
		}
		if a, err := d.Users.GetByID(c.Request.Context(), b.UserID); err == nil {
			ru.Name = a.Name
			ru.Email = a.Email
		}
		users = append(users, ru)
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}
