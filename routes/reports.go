package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Vinay0726/Eventra/models"
	"github.com/Vinay0726/Eventra/pdf"
)

// GET /dashboard/org/:organizerId
func (d *deps) organizerDashboard(c *gin.Context) {
	orgID, ok := d.requireSelf(c, "organizerId")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	totalEvents, err := d.Events.CountByFilter(ctx, models.EventFilter{OrganizerID: orgID})
	if err != nil {
		fail(c, err)
		return
	}
	approvedEvents, err := d.Events.CountByFilter(ctx, models.EventFilter{OrganizerID: orgID, Status: models.EventApproved})
	if err != nil {
		fail(c, err)
		return
	}

	ids, _, ok := d.organizerEventIDs(c, orgID)
	if !ok {
		return
	}
	registeredUsers, err := d.Bookings.CountByEvents(ctx, ids)
	if err != nil {
		fail(c, err)
		return
	}

	// Events with at least one booking each yield a report.
	reports := 0
	for _, id := range ids {
		n, err := d.Bookings.CountByEvents(ctx, []string{id})
		if err != nil {
			fail(c, err)
			return
		}
		if n > 0 {
			reports++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"totalEvents":     totalEvents,
		"approvedEvents":  approvedEvents,
		"registeredUsers": registeredUsers,
		"reports":         reports,
	})
}

// GET /dashboard/admin
func (d *deps) adminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	totalEvents, err := d.Events.CountByFilter(ctx, models.EventFilter{})
	if err != nil {
		fail(c, err)
		return
	}
	pendingApprovals, err := d.Events.CountByFilter(ctx, models.EventFilter{Status: models.EventPending})
	if err != nil {
		fail(c, err)
		return
	}
	totalUsers, err := d.Users.Count(ctx)
	if err != nil {
		fail(c, err)
		return
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)
	transactionsToday, err := d.Bookings.SumAmountBetween(ctx, dayStart, dayEnd)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalEvents":       totalEvents,
		"pendingApprovals":  pendingApprovals,
		"totalUsers":        totalUsers,
		"transactionsToday": transactionsToday,
	})
}

/* ---------------- organizer report ---------------- */

type reportUser struct {
	PaymentID   string    `json:"paymentId"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	SeatsBooked int       `json:"seatsBooked"`
	Amount      float64   `json:"amount"`
	PaymentDate time.Time `json:"paymentDate"`
}

type eventReport struct {
	EventID          string       `json:"eventId"`
	EventName        string       `json:"eventName"`
	TotalTickets     int          `json:"totalTickets"`
	Users            []reportUser `json:"users"`
	TotalUsers       int          `json:"totalUsers"`
	TotalSeatsBooked int          `json:"totalSeatsBooked"`
	TotalRevenue     float64      `json:"totalRevenue"`
	RemainingTickets int          `json:"remainingTickets"`
}

func (d *deps) buildOrganizerReport(c *gin.Context, orgID int64) ([]eventReport, bool) {
	events, err := d.Events.List(c.Request.Context(), models.EventFilter{OrganizerID: orgID})
	if err != nil {
		fail(c, err)
		return nil, false
	}

	reports := []eventReport{}
	for _, e := range events {
		bookings, err := d.Bookings.ListByEvent(c.Request.Context(), e.ID)
		if err != nil {
			fail(c, err)
			return nil, false
		}

		r := eventReport{
			EventID:      e.ID,
			EventName:    e.Name,
			TotalTickets: e.TotalTickets,
			Users:        []reportUser{},
		}
		for _, b := range bookings {
			u := reportUser{
				PaymentID:   b.ID,
				UserID:      b.UserID,
				Name:        "Unknown",
				Email:       "Unknown",
				SeatsBooked: b.SeatsBooked,
				Amount:      b.Amount,
				PaymentDate: b.CreatedAt,
			}
			if a, err := d.Users.GetByID(c.Request.Context(), b.UserID); err == nil {
				u.Name = a.Name
				u.Email = a.Email
			}
			r.Users = append(r.Users, u)
			r.TotalSeatsBooked += b.SeatsBooked
			r.TotalRevenue += b.Amount
		}
		r.TotalUsers = len(r.Users)
		r.RemainingTickets = e.TotalTickets - r.TotalSeatsBooked
		reports = append(reports, r)
	}
	return reports, true
}

// GET /org-report/:organizerId
func (d *deps) organizerReport(c *gin.Context) {
	orgID, ok := d.requireSelf(c, "organizerId")
	if !ok {
		return
	}
	reports, ok := d.buildOrganizerReport(c, orgID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reports": reports})
}

// GET /org-report/:organizerId/pdf
func (d *deps) organizerReportPDF(c *gin.Context) {
	orgID, ok := d.requireSelf(c, "organizerId")
	if !ok {
		return
	}
	reports, ok := d.buildOrganizerReport(c, orgID)
	if !ok {
		return
	}

	orgName := ""
	if a, err := d.Organizers.GetByID(c.Request.Context(), orgID); err == nil {
		orgName = a.Name
	}

	rows := make([]pdf.ReportRow, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, pdf.ReportRow{
			EventName:        r.EventName,
			TotalTickets:     r.TotalTickets,
			TotalUsers:       r.TotalUsers,
			TotalSeatsBooked: r.TotalSeatsBooked,
			TotalRevenue:     r.TotalRevenue,
			RemainingTickets: r.RemainingTickets,
		})
	}

	doc, err := pdf.OrganizerReport(orgName, rows)
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%d.pdf"`, orgID))
	c.Data(http.StatusOK, "application/pdf", doc)
}
