package routes_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Vinay0726/Eventra/apperr"
	"github.com/Vinay0726/Eventra/gateway"
	"github.com/Vinay0726/Eventra/models"
	"github.com/Vinay0726/Eventra/routes"
	"github.com/Vinay0726/Eventra/utils"
)

/* ---------- in-memory repositories ---------- */

type memAccounts struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{nextID: 1, rows: map[int64]models.Account{}}
}

func (m *memAccounts) Create(ctx context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Email == a.Email {
			return apperr.New(apperr.KindConflict, "email already registered")
		}
	}
	a.ID = m.nextID
	m.nextID++
	m.rows[a.ID] = *a
	return nil
}

func (m *memAccounts) ValidateCredentials(ctx context.Context, email, plain string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Email == email && row.Password == plain {
			return row, nil
		}
	}
	return models.Account{}, apperr.New(apperr.KindUnauthorized, "invalid credentials")
}

func (m *memAccounts) GetByID(ctx context.Context, id int64) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return models.Account{}, apperr.NotFound("account")
	}
	return a, nil
}

func (m *memAccounts) Update(ctx context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.rows[a.ID]
	if !ok {
		return apperr.NotFound("account")
	}
	a.Password = old.Password
	m.rows[a.ID] = *a
	return nil
}

func (m *memAccounts) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return apperr.NotFound("account")
	}
	delete(m.rows, id)
	return nil
}

func (m *memAccounts) ListAll(ctx context.Context) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Account{}
	for _, a := range m.rows {
		out = append(out, a)
	}
	return out, nil
}

func (m *memAccounts) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

// memStore backs the event and booking repos with one mutex so the
// check-and-decrement is atomic, same contract as the mongo transaction.
type memStore struct {
	mu       sync.Mutex
	events   map[string]models.Event
	bookings []models.BookingRecord
}

type memEvents struct{ s *memStore }

func (m *memEvents) List(ctx context.Context, f models.EventFilter) ([]models.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []models.Event{}
	for _, e := range m.s.events {
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.OrganizerID != 0 && e.OrganizerID != f.OrganizerID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memEvents) GetByID(ctx context.Context, id string) (models.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	e, ok := m.s.events[id]
	if !ok {
		return models.Event{}, apperr.NotFound("event")
	}
	return e, nil
}

func (m *memEvents) Create(ctx context.Context, e *models.Event) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.events[e.ID] = *e
	return nil
}

func (m *memEvents) Update(ctx context.Context, e *models.Event) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.events[e.ID]; !ok {
		return apperr.NotFound("event")
	}
	m.s.events[e.ID] = *e
	return nil
}

func (m *memEvents) Delete(ctx context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.events[id]; !ok {
		return apperr.NotFound("event")
	}
	delete(m.s.events, id)
	return nil
}

func (m *memEvents) SetStatus(ctx context.Context, id, status string) (models.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	e, ok := m.s.events[id]
	if !ok {
		return models.Event{}, apperr.NotFound("event")
	}
	e.Status = status
	m.s.events[id] = e
	return e, nil
}

func (m *memEvents) CountByFilter(ctx context.Context, f models.EventFilter) (int64, error) {
	list, _ := m.List(ctx, f)
	return int64(len(list)), nil
}

type memBookings struct{ s *memStore }

func (m *memBookings) CreateWithDecrement(ctx context.Context, rec *models.BookingRecord) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, b := range m.s.bookings {
		if rec.PaymentRef != "" && b.PaymentRef == rec.PaymentRef {
			return apperr.New(apperr.KindDuplicate, "booking already recorded")
		}
		if rec.IdempotencyKey != "" && b.IdempotencyKey == rec.IdempotencyKey {
			return apperr.New(apperr.KindDuplicate, "booking already recorded")
		}
	}
	e, ok := m.s.events[rec.EventID]
	if !ok {
		return apperr.NotFound("event")
	}
	if e.AvailableTickets < rec.SeatsBooked {
		return apperr.CapacityExceeded("not enough tickets available")
	}
	e.AvailableTickets -= rec.SeatsBooked
	m.s.events[rec.EventID] = e
	m.s.bookings = append(m.s.bookings, *rec)
	return nil
}

func (m *memBookings) find(match func(models.BookingRecord) bool) (models.BookingRecord, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, b := range m.s.bookings {
		if match(b) {
			return b, nil
		}
	}
	return models.BookingRecord{}, apperr.NotFound("booking")
}

func (m *memBookings) GetByID(ctx context.Context, id string) (models.BookingRecord, error) {
	return m.find(func(b models.BookingRecord) bool { return b.ID == id })
}

func (m *memBookings) FindByPaymentRef(ctx context.Context, ref string) (models.BookingRecord, error) {
	return m.find(func(b models.BookingRecord) bool { return b.PaymentRef == ref })
}

func (m *memBookings) FindByIdempotencyKey(ctx context.Context, key string) (models.BookingRecord, error) {
	return m.find(func(b models.BookingRecord) bool { return b.IdempotencyKey == key })
}

func (m *memBookings) list(match func(models.BookingRecord) bool) []models.BookingRecord {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []models.BookingRecord{}
	for _, b := range m.s.bookings {
		if match(b) {
			out = append(out, b)
		}
	}
	return out
}

func (m *memBookings) ListByUser(ctx context.Context, userID int64) ([]models.BookingRecord, error) {
	return m.list(func(b models.BookingRecord) bool { return b.UserID == userID }), nil
}

func (m *memBookings) ListByEvent(ctx context.Context, eventID string) ([]models.BookingRecord, error) {
	return m.list(func(b models.BookingRecord) bool { return b.EventID == eventID }), nil
}

func (m *memBookings) ListAll(ctx context.Context) ([]models.BookingRecord, error) {
	return m.list(func(models.BookingRecord) bool { return true }), nil
}

func (m *memBookings) SumAmountBetween(ctx context.Context, from, to time.Time) (float64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var sum float64
	for _, b := range m.s.bookings {
		if !b.CreatedAt.Before(from) && b.CreatedAt.Before(to) {
			sum += b.Amount
		}
	}
	return sum, nil
}

func (m *memBookings) CountByEvents(ctx context.Context, eventIDs []string) (int64, error) {
	in := map[string]bool{}
	for _, id := range eventIDs {
		in[id] = true
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for _, b := range m.s.bookings {
		if in[b.EventID] {
			n++
		}
	}
	return n, nil
}

type memNotifications struct {
	mu   sync.Mutex
	rows map[string]models.Notification
}

func (m *memNotifications) Create(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[n.ID] = *n
	return nil
}

func (m *memNotifications) Exists(ctx context.Context, eventID, message string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.rows {
		if n.EventID == eventID && n.Message == message {
			return true, nil
		}
	}
	return false, nil
}

func (m *memNotifications) ListByEvents(ctx context.Context, eventIDs []string) ([]models.Notification, error) {
	in := map[string]bool{}
	for _, id := range eventIDs {
		in[id] = true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Notification{}
	for _, n := range m.rows {
		if in[n.EventID] {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotifications) Update(ctx context.Context, id, message string) (models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.rows[id]
	if !ok {
		return models.Notification{}, apperr.NotFound("notification")
	}
	n.Message = message
	m.rows[id] = n
	return n, nil
}

func (m *memNotifications) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return apperr.NotFound("notification")
	}
	delete(m.rows, id)
	return nil
}

type memFeedback struct {
	mu   sync.Mutex
	rows []models.Feedback
}

func (m *memFeedback) Create(ctx context.Context, f *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *f)
	return nil
}

func (m *memFeedback) ListByEvents(ctx context.Context, eventIDs []string) ([]models.Feedback, error) {
	in := map[string]bool{}
	for _, id := range eventIDs {
		in[id] = true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Feedback{}
	for _, f := range m.rows {
		if in[f.EventID] {
			out = append(out, f)
		}
	}
	return out, nil
}

type memSessions struct {
	mu   sync.Mutex
	rows map[string]models.CheckoutSession
}

func (m *memSessions) Create(ctx context.Context, s *models.CheckoutSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.ID] = *s
	return nil
}

func (m *memSessions) GetByID(ctx context.Context, id string) (models.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return models.CheckoutSession{}, apperr.NotFound("checkout session")
	}
	return s, nil
}

/* ---------- fake payment gateway ---------- */

// fakeGateway marks every created session with the configured outcome.
type fakeGateway struct {
	mu         sync.Mutex
	paid       bool
	refPrefix  string
	created    int
	statusErr  error
	createErr  error
	lastAmount float64
}

func (g *fakeGateway) CreateSession(ctx context.Context, orderID string, amount float64, item gateway.CheckoutItem) (gateway.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return gateway.Session{}, g.createErr
	}
	g.created++
	g.lastAmount = amount
	return gateway.Session{Token: "tok-" + orderID, RedirectURL: "https://pay.example/" + orderID}, nil
}

func (g *fakeGateway) SessionStatus(ctx context.Context, orderID string) (gateway.SessionStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.statusErr != nil {
		return gateway.SessionStatus{}, g.statusErr
	}
	return gateway.SessionStatus{Paid: g.paid, PaymentRef: g.refPrefix + orderID}, nil
}

/* ---------- server harness ---------- */

type env struct {
	s   *gin.Engine
	rdb *redis.Client

	users, organizers, admins *memAccounts

	store    *memStore
	events   *memEvents
	bookings *memBookings
	notifs   *memNotifications
	feedback *memFeedback
	sessions *memSessions
	gw       *fakeGateway
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := &memStore{events: map[string]models.Event{}}
	e := &env{
		rdb:        rdb,
		users:      newMemAccounts(),
		organizers: newMemAccounts(),
		admins:     newMemAccounts(),
		store:      store,
		events:     &memEvents{s: store},
		bookings:   &memBookings{s: store},
		notifs:     &memNotifications{rows: map[string]models.Notification{}},
		feedback:   &memFeedback{},
		sessions:   &memSessions{rows: map[string]models.CheckoutSession{}},
		gw:         &fakeGateway{paid: true, refPrefix: "txn-"},
	}

	s := gin.New()
	routes.RegisterRoutes(s, routes.Deps{
		Users:         e.users,
		Organizers:    e.organizers,
		Admins:        e.admins,
		Events:        e.events,
		Bookings:      e.bookings,
		Notifications: e.notifs,
		Feedback:      e.feedback,
		Sessions:      e.sessions,
		Gateway:       e.gw,
		RDB:           rdb,
		Inv:           utils.NewCacheInvalidator(rdb),
	})
	e.s = s
	return e
}

// seedAccount inserts directly so tests do not burn the auth rate limiter.
func seedAccount(t *testing.T, repo *memAccounts, name, email string) models.Account {
	t.Helper()
	a := models.Account{Name: name, Email: email, Mobile: "5550100", Password: "secret123"}
	if err := repo.Create(context.Background(), &a); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return a
}

func tokenFor(t *testing.T, a models.Account, role utils.Role) string {
	t.Helper()
	tok, err := utils.GenerateToken(a.Email, a.ID, role)
	if err != nil {
		t.Fatalf("gen token: %v", err)
	}
	return tok
}

func (e *env) seedEvent(ev models.Event) models.Event {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.events[ev.ID] = ev
	return ev
}

func approvedEvent(id string, organizerID int64, total int, price float64) models.Event {
	return models.Event{
		ID:               id,
		Name:             "Cloud Summit",
		Description:      "A two day cloud engineering summit.",
		Category:         "technology",
		Date:             time.Now().Add(72 * time.Hour).UTC(),
		Time:             "10:00",
		Venue:            "Hall B",
		IsPaid:           price > 0,
		TicketPrice:      price,
		TotalTickets:     total,
		AvailableTickets: total,
		Status:           models.EventApproved,
		OrganizerID:      organizerID,
	}
}

func doReq(s *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	s.ServeHTTP(w, req)
	return w
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("want %d, got %d, body=%s", want, w.Code, w.Body.String())
	}
}
