package routes

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Vinay0726/Eventra/apperr"
	"github.com/Vinay0726/Eventra/gateway"
	"github.com/Vinay0726/Eventra/ledger"
	"github.com/Vinay0726/Eventra/middlewares"
	"github.com/Vinay0726/Eventra/models"
	"github.com/Vinay0726/Eventra/utils"
)

// Deps carries everything the handlers need; main wires the real stores,
// tests wire mocks.
type Deps struct {
	Users      models.AccountRepository
	Organizers models.AccountRepository
	Admins     models.AccountRepository

	Events        models.EventRepository
	Bookings      models.BookingRepository
	Notifications models.NotificationRepository
	Feedback      models.FeedbackRepository
	Sessions      models.SessionRepository

	Gateway gateway.PaymentGateway
	RDB     *redis.Client
	Inv     *utils.CacheInvalidator
}

type deps struct {
	Deps
	ledger *ledger.Ledger
}

func RegisterRoutes(server *gin.Engine, in Deps) {
	d := &deps{Deps: in, ledger: ledger.New(in.Events, in.Bookings)}

	// Global per-IP throttle.
	globalLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     20,
		Burst:   40,
		IdleTTL: 3 * time.Minute,
	})
	server.Use(globalLimiter.Middleware(func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}))

	// Stricter budget for credential endpoints.
	authLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     0.5,
		Burst:   2,
		IdleTTL: 10 * time.Minute,
	})
	authKey := func(prefix string) gin.HandlerFunc {
		return authLimiter.Middleware(func(c *gin.Context) string { return prefix + c.ClientIP() })
	}
	server.POST("/auth/register/user", authKey("signup:"), d.registerUser)
	server.POST("/auth/register/organizer", authKey("signup:"), d.registerOrganizer)
	server.POST("/auth/login", authKey("login:"), d.login)

	// Public event reads; response cache and global limiter only.
	server.GET("/events/public/approved", d.listApprovedEvents)
	server.GET("/events/:id", d.getEvent)

	// Everything else requires a principal, a per-user throttle, and a
	// daily quota.
	auth := server.Group("/")
	auth.Use(middlewares.Authenticate)

	userLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     5,
		Burst:   10,
		IdleTTL: 10 * time.Minute,
	})
	auth.Use(userLimiter.Middleware(func(c *gin.Context) string {
		return "u:" + strconv.FormatInt(c.GetInt64("userId"), 10)
	}))

	auth.Use(middlewares.Quota(d.RDB, middlewares.QuotaRule{
		Limit:  2000,
		Window: 24 * time.Hour,
		KeyFn: func(c *gin.Context) string {
			uid := c.GetInt64("userId")
			if uid == 0 {
				return ""
			}
			return fmt.Sprintf("quota:user:%d:day", uid)
		},
	}))

	asUser := middlewares.RequireRole(utils.RoleUser)
	asOrganizer := middlewares.RequireRole(utils.RoleOrganizer)
	asAdmin := middlewares.RequireRole(utils.RoleAdmin)

	// Profiles (owner or admin).
	auth.GET("/auth/user/:id", d.getUserProfile)
	auth.PUT("/auth/user/:id", d.updateUserProfile)
	auth.GET("/auth/organizer/:id", d.getOrganizerProfile)
	auth.PUT("/auth/organizer/:id", d.updateOrganizerProfile)

	// Admin user management.
	auth.GET("/users", asAdmin, d.listUsers)
	auth.PUT("/users/:id", asAdmin, d.updateUser)
	auth.DELETE("/users/:id", asAdmin, d.deleteUser)

	// Events.
	auth.POST("/events", asOrganizer, d.createEvent)
	auth.GET("/events", asAdmin, d.listAllEvents)
	auth.GET("/events/organizer/:organizerId", asOrganizer, d.listOrganizerEvents)
	auth.PUT("/events/:id", asOrganizer, d.updateEvent)
	auth.DELETE("/events/:id", asOrganizer, d.deleteEvent)
	auth.GET("/events/admin/pending", asAdmin, d.listPendingEvents)
	auth.PUT("/events/admin/approve/:id", asAdmin, d.approveEvent)
	auth.PUT("/events/admin/reject/:id", asAdmin, d.rejectEvent)
	auth.GET("/events/:id/registered-users", asOrganizer, d.listRegisteredUsers)
	auth.POST("/events/:id/send-notification", asOrganizer, d.sendNotification)

	// Booking ledger surface.
	auth.POST("/payment/register", asUser, d.registerFreeBooking)
	auth.POST("/payment/create-checkout-session", asUser, d.createCheckoutSession)
	auth.POST("/payment/confirm-checkout", asUser, d.confirmCheckout)
	auth.GET("/payment/history/:userId", asUser, d.paymentHistory)
	auth.GET("/payment/registered/:userId", asUser, d.registeredEvents)
	auth.GET("/payment/ticket/:paymentId", asUser, d.downloadTicket)
	auth.GET("/payment/organizer/:organizerId", asOrganizer, d.organizerPayments)
	auth.GET("/payment/all", asAdmin, d.allPayments)

	// Notifications.
	auth.GET("/notifications/user/:userId", asUser, d.userNotifications)
	auth.GET("/notifications/organizer/:organizerId", asOrganizer, d.organizerNotifications)
	auth.PUT("/notifications/:id", asOrganizer, d.updateNotification)
	auth.DELETE("/notifications/:id", asOrganizer, d.deleteNotification)

	// Feedback.
	auth.POST("/feedback", asUser, d.submitFeedback)
	auth.GET("/feedback/organizer/:organizerId", asOrganizer, d.organizerFeedback)

	// Reports and dashboards.
	auth.GET("/dashboard/org/:organizerId", asOrganizer, d.organizerDashboard)
	auth.GET("/dashboard/admin", asAdmin, d.adminDashboard)
	auth.GET("/org-report/:organizerId", asOrganizer, d.organizerReport)
	auth.GET("/org-report/:organizerId/pdf", asOrganizer, d.organizerReportPDF)
}

// fail translates a typed error into the wire contract: a machine-readable
// kind plus a human message for 4xx, an opaque 500 otherwise.
func fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"message": "Something went wrong. Try again later."})
		return
	}

	msg := err.Error()
	var ae *apperr.Error
	if errors.As(err, &ae) {
		msg = ae.Message
	}
	c.JSON(status, gin.H{"message": msg, "kind": apperr.KindOf(err)})
}

func (d *deps) purgeEventCaches(c *gin.Context, id string) {
	if d.Inv == nil {
		return
	}
	d.Inv.PurgeEventsList(c)
	if id != "" {
		d.Inv.PurgeEventItem(c, id)
	}
}
