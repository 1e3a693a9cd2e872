package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
	"github.com/Promise30/Event-Management-System-sub000/internal/gateway"
)

// In-memory repository fakes with the same guard semantics as the
// Postgres implementations, so service flows can be tested without a
// database.

// txSnapshotter lets fakes registered on one WithTx roll back together
// the way repositories sharing a database transaction do. Fakes with no
// registered parts keep the plain run-the-func behavior.
type txSnapshotter interface {
	snapshot() (restore func())
}

func runMemTx(ctx context.Context, parts []txSnapshotter, fn func(ctx context.Context) error) error {
	if len(parts) == 0 {
		return fn(ctx)
	}
	restores := make([]func(), 0, len(parts))
	for _, p := range parts {
		restores = append(restores, p.snapshot())
	}
	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

type memVenueRepo struct {
	mu     sync.RWMutex
	venues map[string]*domain.Venue
}

func newMemVenueRepo() *memVenueRepo {
	return &memVenueRepo{venues: make(map[string]*domain.Venue)}
}

func (r *memVenueRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *memVenueRepo) Create(ctx context.Context, venue *domain.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := *venue
	r.venues[venue.ID] = &v
	return nil
}

func (r *memVenueRepo) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.venues[id]
	if !ok {
		return nil, domain.ErrVenueNotFound
	}
	out := *v
	return &out, nil
}

func (r *memVenueRepo) GetForUpdate(ctx context.Context, id string) (*domain.Venue, error) {
	return r.GetByID(ctx, id)
}

func (r *memVenueRepo) List(ctx context.Context, limit, offset int) ([]*domain.Venue, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Venue
	for _, v := range r.venues {
		c := *v
		out = append(out, &c)
	}
	return out, len(out), nil
}

type memEventRepo struct {
	mu     sync.RWMutex
	events map[string]*domain.Event
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{events: make(map[string]*domain.Event)}
}

func (r *memEventRepo) Create(ctx context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := *event
	r.events[event.ID] = &e
	return nil
}

func (r *memEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	out := *e
	return &out, nil
}

type memBookingRepo struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
	txParts  []txSnapshotter
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*domain.Booking)}
}

// joinTx registers the fakes whose state rolls back when a WithTx unit
// of work on this repository fails.
func (r *memBookingRepo) joinTx(parts ...txSnapshotter) {
	r.txParts = parts
}

func (r *memBookingRepo) snapshot() func() {
	r.mu.Lock()
	saved := make(map[string]*domain.Booking, len(r.bookings))
	for id, b := range r.bookings {
		c := *b
		saved[id] = &c
	}
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		r.bookings = saved
		r.mu.Unlock()
	}
}

func (r *memBookingRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return runMemTx(ctx, r.txParts, fn)
}

func (r *memBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := *booking
	r.bookings[booking.ID] = &b
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (r *memBookingRepo) HasConflict(ctx context.Context, venueID string, from, to time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.bookings {
		if b.ConflictsWith(venueID, from, to) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookingRepo) Transition(ctx context.Context, booking *domain.Booking, from domain.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[booking.ID]
	if !ok || stored.Status != from {
		return domain.ErrInvalidTransition
	}
	b := *booking
	r.bookings[booking.ID] = &b
	return nil
}

func (r *memBookingRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.Status == domain.BookingStatusPendingPayment &&
			b.ReservationExpiresAt != nil && b.ReservationExpiresAt.Before(now) {
			c := *b
			out = append(out, &c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListByOrganizer(ctx context.Context, organizerID string, limit, offset int) ([]*domain.Booking, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.OrganizerID == organizerID {
			c := *b
			out = append(out, &c)
		}
	}
	return out, len(out), nil
}

type memTicketTypeRepo struct {
	mu    sync.Mutex
	types map[string]*domain.TicketType
}

func newMemTicketTypeRepo() *memTicketTypeRepo {
	return &memTicketTypeRepo{types: make(map[string]*domain.TicketType)}
}

func (r *memTicketTypeRepo) Create(ctx context.Context, tt *domain.TicketType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := *tt
	r.types[tt.ID] = &t
	return nil
}

func (r *memTicketTypeRepo) GetByID(ctx context.Context, id string) (*domain.TicketType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tt, ok := r.types[id]
	if !ok {
		return nil, domain.ErrTicketTypeNotFound
	}
	out := *tt
	return &out, nil
}

func (r *memTicketTypeRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.TicketType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TicketType
	for _, tt := range r.types {
		if tt.EventID == eventID {
			c := *tt
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memTicketTypeRepo) ReserveUnit(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tt, ok := r.types[id]
	if !ok {
		return domain.ErrTicketTypeNotFound
	}
	if tt.SoldCount >= tt.Capacity {
		return domain.ErrInventoryExhausted
	}
	tt.SoldCount++
	return nil
}

func (r *memTicketTypeRepo) ReleaseUnit(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tt, ok := r.types[id]
	if !ok {
		return nil
	}
	if tt.SoldCount > 0 {
		tt.SoldCount--
	}
	return nil
}

type memTicketRepo struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
	txParts []txSnapshotter
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *memTicketRepo) joinTx(parts ...txSnapshotter) {
	r.txParts = parts
}

func (r *memTicketRepo) snapshot() func() {
	r.mu.Lock()
	saved := make(map[string]*domain.Ticket, len(r.tickets))
	for id, t := range r.tickets {
		c := *t
		saved[id] = &c
	}
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		r.tickets = saved
		r.mu.Unlock()
	}
}

func (r *memTicketRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return runMemTx(ctx, r.txParts, fn)
}

func (r *memTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := *ticket
	r.tickets[ticket.ID] = &t
	return nil
}

func (r *memTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	out := *t
	return &out, nil
}

func (r *memTicketRepo) Transition(ctx context.Context, ticket *domain.Ticket, from domain.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[ticket.ID]
	if !ok || stored.Status != from {
		return domain.ErrInvalidTransition
	}
	t := *ticket
	r.tickets[ticket.ID] = &t
	return nil
}

func (r *memTicketRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Ticket
	for _, t := range r.tickets {
		if t.Status == domain.TicketStatusReserved &&
			t.ReservationExpiresAt != nil && t.ReservationExpiresAt.Before(now) {
			c := *t
			out = append(out, &c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type memPaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*domain.Payment // keyed by reference
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{payments: make(map[string]*domain.Payment)}
}

func (r *memPaymentRepo) snapshot() func() {
	r.mu.Lock()
	saved := make(map[string]*domain.Payment, len(r.payments))
	for ref, p := range r.payments {
		c := *p
		saved[ref] = &c
	}
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		r.payments = saved
		r.mu.Unlock()
	}
}

func (r *memPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.payments[payment.Reference]; exists {
		return domain.ErrPaymentAlreadyExists
	}
	p := *payment
	r.payments[payment.Reference] = &p
	return nil
}

func (r *memPaymentRepo) GetByReference(ctx context.Context, reference string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[reference]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	out := *p
	return &out, nil
}

func (r *memPaymentRepo) UpdateStatus(ctx context.Context, reference string, from, to domain.PaymentStatus, updatedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[reference]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	p.UpdatedAt = updatedAt
	return true, nil
}

// mockGateway is a configurable PaymentGateway fake.
type mockGateway struct {
	mu         sync.Mutex
	FailInit   bool
	initCalls  int
	references []string

	verifyOutcome domain.PaymentOutcome
	verifySettled bool

	webhookResult *gateway.WebhookResult
	webhookErr    error
}

func newMockGateway() *mockGateway {
	return &mockGateway{}
}

func (g *mockGateway) Name() string { return "mock" }

func (g *mockGateway) InitializePayment(ctx context.Context, req *gateway.InitializePaymentRequest) (*gateway.InitializePaymentResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.initCalls++
	if g.FailInit {
		return nil, domain.ErrPaymentInitFailed
	}
	ref := "cs_test_" + uuid.New().String()
	g.references = append(g.references, ref)
	return &gateway.InitializePaymentResponse{
		Reference:   ref,
		RedirectURL: "https://pay.example.com/" + ref,
	}, nil
}

func (g *mockGateway) VerifyPayment(ctx context.Context, reference string) (*gateway.VerifyPaymentResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return &gateway.VerifyPaymentResponse{
		Reference: reference,
		Outcome:   g.verifyOutcome,
		Settled:   g.verifySettled,
	}, nil
}

func (g *mockGateway) VerifyWebhookSignature(payload []byte, signature string) (*gateway.WebhookResult, error) {
	if g.webhookErr != nil {
		return nil, g.webhookErr
	}
	if g.webhookResult != nil {
		return g.webhookResult, nil
	}
	return &gateway.WebhookResult{Relevant: false}, nil
}

func (g *mockGateway) lastReference() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.references) == 0 {
		return ""
	}
	return g.references[len(g.references)-1]
}
