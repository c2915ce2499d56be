package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Vinay0726/Eventra/middlewares"
	"github.com/Vinay0726/Eventra/models"
)

// POST /feedback
func (d *deps) submitFeedback(c *gin.Context) {
	var req struct {
		EventID string `json:"eventId" binding:"required"`
		Name    string `json:"name" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name, email, event ID, and message are required.", "kind": "validation_error"})
		return
	}

	if _, err := d.Events.GetByID(c.Request.Context(), req.EventID); err != nil {
		fail(c, err)
		return
	}

	p, _ := middlewares.PrincipalFrom(c)
	fb := models.Feedback{
		ID:          uuid.NewString(),
		UserID:      p.ID,
		EventID:     req.EventID,
		Name:        req.Name,
		Email:       req.Email,
		Message:     req.Message,
		SubmittedAt: time.Now().UTC(),
	}
	if err := d.Feedback.Create(c.Request.Context(), &fb); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Feedback submitted."})
}

// GET /feedback/organizer/:organizerId
func (d *deps) organizerFeedback(c *gin.Context) {
	orgID, ok := d.requireSelf(c, "organizerId")
	if !ok {
		return
	}
	ids, byID, ok := d.organizerEventIDs(c, orgID)
	if !ok {
		return
	}

	feedback, err := d.Feedback.ListByEvents(c.Request.Context(), ids)
	if err != nil {
		fail(c, err)
		return
	}

	type feedbackView struct {
		models.Feedback
		EventName string `json:"eventName"`
	}
	out := make([]feedbackView, 0, len(feedback))
	for _, f := range feedback {
		out = append(out, feedbackView{Feedback: f, EventName: byID[f.EventID].Name})
	}
	c.JSON(http.StatusOK, gin.H{"feedback": out})
}
