package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Vinay0726/Eventra/models"
)

// POST /events/:id/send-notification — one notification per event and
// message; resending the same text is rejected.
func (d *deps) sendNotification(c *gin.Context) {
	event, ok := d.ownedEvent(c, c.Param("id"))
	if !ok {
		return
	}

	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Notification message is required.", "kind": "validation_error"})
		return
	}

	exists, err := d.Notifications.Exists(c.Request.Context(), event.ID, req.Message)
	if err != nil {
		fail(c, err)
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"message": "This notification has already been sent for this event.", "kind": "duplicate_operation"})
		return
	}

	bookings, err := d.Bookings.ListByEvent(c.Request.Context(), event.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if len(bookings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No users registered for this event.", "kind": "validation_error"})
		return
	}

	n := models.Notification{
		ID:      uuid.NewString(),
		EventID: event.ID,
		Message: req.Message,
		SentAt:  time.Now().UTC(),
	}
	if err := d.Notifications.Create(c.Request.Context(), &n); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification sent.", "count": len(bookings), "notification": n})
}

// GET /notifications/user/:userId — notifications for the events the user
// holds bookings on.
func (d *deps) userNotifications(c *gin.Context) {
	userID, ok := d.requireSelf(c, "userId")
	if !ok {
		return
	}

	bookings, err := d.Bookings.ListByUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}

	eventIDs := []string{}
	seen := map[string]bool{}
	for _, b := range bookings {
		if !seen[b.EventID] {
			seen[b.EventID] = true
			eventIDs = append(eventIDs, b.EventID)
		}
	}

	notifications, err := d.Notifications.ListByEvents(c.Request.Context(), eventIDs)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (d *deps) organizerEventIDs(c *gin.Context, orgID int64) ([]string, map[string]models.Event, bool) {
	events, err := d.Events.List(c.Request.Context(), models.EventFilter{OrganizerID: orgID})
	if err != nil {
		fail(c, err)
		return nil, nil, false
	}
	ids := make([]string, 0, len(events))
	byID := make(map[string]models.Event, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
		byID[e.ID] = e
	}
	return ids, byID, true
}

// GET /notifications/organizer/:organizerId
func (d *deps) organizerNotifications(c *gin.Context) {
	orgID, ok := d.requireSelf(c, "organizerId")
	if !ok {
		return
	}
	ids, _, ok := d.organizerEventIDs(c, orgID)
	if !ok {
		return
	}

	notifications, err := d.Notifications.ListByEvents(c.Request.Context(), ids)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// PUT /notifications/:id
func (d *deps) updateNotification(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message cannot be empty.", "kind": "validation_error"})
		return
	}

	n, err := d.Notifications.Update(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": n})
}

// DELETE /notifications/:id
func (d *deps) deleteNotification(c *gin.Context) {
	if err := d.Notifications.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted."})
}
