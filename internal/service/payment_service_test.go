package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
	"github.com/Promise30/Event-Management-System-sub000/internal/events"
	"github.com/Promise30/Event-Management-System-sub000/internal/gateway"
	"github.com/Promise30/Event-Management-System-sub000/pkg/clock"
	"github.com/Promise30/Event-Management-System-sub000/pkg/logger"
)

type paymentFixture struct {
	svc         PaymentService
	paymentRepo *memPaymentRepo
	bookingRepo *memBookingRepo
	ticketRepo  *memTicketRepo
	gateway     *mockGateway
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	paymentRepo := newMemPaymentRepo()
	bookingRepo := newMemBookingRepo()
	ticketRepo := newMemTicketRepo()
	gw := newMockGateway()

	svc := NewPaymentService(
		paymentRepo, bookingRepo, ticketRepo, gw,
		events.NopPublisher{}, clock.NewFixed(testNow), logger.Get(),
	)

	return &paymentFixture{
		svc:         svc,
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		ticketRepo:  ticketRepo,
		gateway:     gw,
	}
}

func (f *paymentFixture) seedBookingPayment(t *testing.T, status domain.BookingStatus) (*domain.Booking, *domain.Payment) {
	t.Helper()
	ctx := context.Background()

	deadline := testNow.Add(15 * time.Minute)
	booking := &domain.Booking{
		ID:                   uuid.New().String(),
		VenueID:              uuid.New().String(),
		OrganizerID:          uuid.New().String(),
		BookedFrom:           testNow.Add(24 * time.Hour),
		BookedTo:             testNow.Add(26 * time.Hour),
		Status:               status,
		ReservationExpiresAt: &deadline,
		CreatedAt:            testNow,
		UpdatedAt:            testNow,
	}
	if status != domain.BookingStatusPendingPayment {
		booking.ReservationExpiresAt = nil
	}
	if err := f.bookingRepo.Create(ctx, booking); err != nil {
		t.Fatalf("Failed to seed booking: %v", err)
	}

	reference := "cs_test_" + uuid.New().String()
	ref := reference
	booking.PaymentReference = &ref

	payment, err := domain.NewPayment(reference, 50, "usd", domain.PaymentTypeBooking, booking.ID, testNow)
	if err != nil {
		t.Fatalf("NewPayment failed: %v", err)
	}
	if err := f.paymentRepo.Create(ctx, payment); err != nil {
		t.Fatalf("Failed to seed payment: %v", err)
	}
	return booking, payment
}

func (f *paymentFixture) seedTicketPayment(t *testing.T) (*domain.Ticket, *domain.Payment) {
	t.Helper()
	ctx := context.Background()

	deadline := testNow.Add(15 * time.Minute)
	ticket := &domain.Ticket{
		ID:                   uuid.New().String(),
		TicketTypeID:         uuid.New().String(),
		AttendeeID:           uuid.New().String(),
		Status:               domain.TicketStatusReserved,
		ReservationExpiresAt: &deadline,
		CreatedAt:            testNow,
		UpdatedAt:            testNow,
	}
	if err := f.ticketRepo.Create(ctx, ticket); err != nil {
		t.Fatalf("Failed to seed ticket: %v", err)
	}

	payment, err := domain.NewPayment("cs_test_"+uuid.New().String(), 25, "usd", domain.PaymentTypeTicket, ticket.ID, testNow)
	if err != nil {
		t.Fatalf("NewPayment failed: %v", err)
	}
	if err := f.paymentRepo.Create(ctx, payment); err != nil {
		t.Fatalf("Failed to seed payment: %v", err)
	}
	return ticket, payment
}

func TestPaymentService_HandleWebhook_BookingSuccess(t *testing.T) {
	f := newPaymentFixture(t)
	booking, payment := f.seedBookingPayment(t, domain.BookingStatusPendingPayment)
	ctx := context.Background()

	f.gateway.webhookResult = &gateway.WebhookResult{
		Relevant:  true,
		Reference: payment.Reference,
		Outcome:   domain.PaymentOutcomeSuccess,
	}

	if err := f.svc.HandleWebhook(ctx, []byte(`{}`), "sig"); err != nil {
		t.Fatalf("HandleWebhook failed: %v", err)
	}

	got, _ := f.paymentRepo.GetByReference(ctx, payment.Reference)
	if got.Status != domain.PaymentStatusSuccessful {
		t.Errorf("Expected Successful payment, got %s", got.Status)
	}

	updated, _ := f.bookingRepo.GetByID(ctx, booking.ID)
	if updated.Status != domain.BookingStatusPendingApproval {
		t.Errorf("Expected PendingApproval booking, got %s", updated.Status)
	}
	if updated.ReservationExpiresAt != nil {
		t.Error("Reservation deadline should be cleared after payment")
	}
}

func TestPaymentService_HandleWebhook_Replay(t *testing.T) {
	f := newPaymentFixture(t)
	booking, payment := f.seedBookingPayment(t, domain.BookingStatusPendingPayment)
	ctx := context.Background()

	f.gateway.webhookResult = &gateway.WebhookResult{
		Relevant:  true,
		Reference: payment.Reference,
		Outcome:   domain.PaymentOutcomeSuccess,
	}

	if err := f.svc.HandleWebhook(ctx, []byte(`{}`), "sig"); err != nil {
		t.Fatalf("First delivery failed: %v", err)
	}

	// Approve the booking, then replay the webhook: nothing may move.
	approved, _ := f.bookingRepo.GetByID(ctx, booking.ID)
	if err := approved.Apply(domain.BookingEventApprove, testNow); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := f.bookingRepo.Transition(ctx, approved, domain.BookingStatusPendingApproval); err != nil {
		t.Fatalf("Transition failed: %v", err)
	}

	if err := f.svc.HandleWebhook(ctx, []byte(`{}`), "sig"); err != nil {
		t.Fatalf("Replayed delivery failed: %v", err)
	}

	final, _ := f.bookingRepo.GetByID(ctx, booking.ID)
	if final.Status != domain.BookingStatusConfirmed {
		t.Errorf("Replay must not move the booking, got %s", final.Status)
	}
}

func TestPaymentService_HandleWebhook_Failure_KeepsHold(t *testing.T) {
	f := newPaymentFixture(t)
	booking, payment := f.seedBookingPayment(t, domain.BookingStatusPendingPayment)
	ctx := context.Background()

	f.gateway.webhookResult = &gateway.WebhookResult{
		Relevant:  true,
		Reference: payment.Reference,
		Outcome:   domain.PaymentOutcomeFailure,
	}

	if err := f.svc.HandleWebhook(ctx, []byte(`{}`), "sig"); err != nil {
		t.Fatalf("HandleWebhook failed: %v", err)
	}

	got, _ := f.paymentRepo.GetByReference(ctx, payment.Reference)
	if got.Status != domain.PaymentStatusFailed {
		t.Errorf("Expected Failed payment, got %s", got.Status)
	}

	// The reservation keeps its hold until the deadline passes.
	updated, _ := f.bookingRepo.GetByID(ctx, booking.ID)
	if updated.Status != domain.BookingStatusPendingPayment {
		t.Errorf("Expected booking still PendingPayment, got %s", updated.Status)
	}
	if updated.ReservationExpiresAt == nil {
		t.Error("Reservation deadline must survive a failed payment")
	}
}

func TestPaymentService_HandleWebhook_SuccessAfterExpiry(t *testing.T) {
	f := newPaymentFixture(t)
	booking, payment := f.seedBookingPayment(t, domain.BookingStatusExpired)
	ctx := context.Background()

	f.gateway.webhookResult = &gateway.WebhookResult{
		Relevant:  true,
		Reference: payment.Reference,
		Outcome:   domain.PaymentOutcomeSuccess,
	}

	// The money arrived for a reservation the sweeper already expired.
	// The delivery is acknowledged; the booking stays expired.
	if err := f.svc.HandleWebhook(ctx, []byte(`{}`), "sig"); err != nil {
		t.Fatalf("HandleWebhook failed: %v", err)
	}

	final, _ := f.bookingRepo.GetByID(ctx, booking.ID)
	if final.Status != domain.BookingStatusExpired {
		t.Errorf("Expired booking must stay expired, got %s", final.Status)
	}

	got, _ := f.paymentRepo.GetByReference(ctx, payment.Reference)
	if got.Status != domain.PaymentStatusSuccessful {
		t.Errorf("Payment record still tracks the money, got %s", got.Status)
	}
}

// unreliableBookingRepo drops a configurable number of Transition calls
// with a transient error before behaving normally.
type unreliableBookingRepo struct {
	*memBookingRepo
	mu       sync.Mutex
	failures int
}

func (r *unreliableBookingRepo) Transition(ctx context.Context, booking *domain.Booking, from domain.BookingStatus) error {
	r.mu.Lock()
	if r.failures > 0 {
		r.failures--
		r.mu.Unlock()
		return errors.New("connection reset by peer")
	}
	r.mu.Unlock()
	return r.memBookingRepo.Transition(ctx, booking, from)
}

func TestPaymentService_HandleWebhook_TransientFailureRetried(t *testing.T) {
	ctx := context.Background()

	paymentRepo := newMemPaymentRepo()
	base := newMemBookingRepo()
	base.joinTx(base, paymentRepo)
	bookingRepo := &unreliableBookingRepo{memBookingRepo: base, failures: 1}
	gw := newMockGateway()

	svc := NewPaymentService(
		paymentRepo, bookingRepo, newMemTicketRepo(), gw,
		events.NopPublisher{}, clock.NewFixed(testNow), logger.Get(),
	)

	deadline := testNow.Add(15 * time.Minute)
	booking := &domain.Booking{
		ID:                   uuid.New().String(),
		VenueID:              uuid.New().String(),
		OrganizerID:          uuid.New().String(),
		BookedFrom:           testNow.Add(24 * time.Hour),
		BookedTo:             testNow.Add(26 * time.Hour),
		Status:               domain.BookingStatusPendingPayment,
		ReservationExpiresAt: &deadline,
		CreatedAt:            testNow,
		UpdatedAt:            testNow,
	}
	if err := base.Create(ctx, booking); err != nil {
		t.Fatalf("Failed to seed booking: %v", err)
	}
	payment, err := domain.NewPayment("cs_test_"+uuid.New().String(), 50, "usd", domain.PaymentTypeBooking, booking.ID, testNow)
	if err != nil {
		t.Fatalf("NewPayment failed: %v", err)
	}
	if err := paymentRepo.Create(ctx, payment); err != nil {
		t.Fatalf("Failed to seed payment: %v", err)
	}

	gw.webhookResult = &gateway.WebhookResult{
		Relevant:  true,
		Reference: payment.Reference,
		Outcome:   domain.PaymentOutcomeSuccess,
	}

	// First delivery hits the transient failure. Both writes must roll
	// back; a payment marked Successful here would make the redelivery
	// a no-op and strand the booking.
	if err := svc.HandleWebhook(ctx, []byte(`{}`), "sig"); err == nil {
		t.Fatal("Expected first delivery to fail")
	}
	got, _ := paymentRepo.GetByReference(ctx, payment.Reference)
	if got.Status != domain.PaymentStatusPending {
		t.Fatalf("Payment must stay Pending after rollback, got %s", got.Status)
	}
	stale, _ := base.GetByID(ctx, booking.ID)
	if stale.Status != domain.BookingStatusPendingPayment {
		t.Fatalf("Booking must stay PendingPayment after rollback, got %s", stale.Status)
	}

	// The gateway redelivers and both writes land.
	if err := svc.HandleWebhook(ctx, []byte(`{}`), "sig"); err != nil {
		t.Fatalf("Redelivery failed: %v", err)
	}
	got, _ = paymentRepo.GetByReference(ctx, payment.Reference)
	if got.Status != domain.PaymentStatusSuccessful {
		t.Errorf("Expected Successful payment after redelivery, got %s", got.Status)
	}
	final, _ := base.GetByID(ctx, booking.ID)
	if final.Status != domain.BookingStatusPendingApproval {
		t.Errorf("Expected PendingApproval booking after redelivery, got %s", final.Status)
	}
}

func TestPaymentService_HandleWebhook_UnknownReference(t *testing.T) {
	f := newPaymentFixture(t)

	f.gateway.webhookResult = &gateway.WebhookResult{
		Relevant:  true,
		Reference: "cs_unknown",
		Outcome:   domain.PaymentOutcomeSuccess,
	}

	// Unknown references are acknowledged so the gateway stops retrying.
	if err := f.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Errorf("Expected nil for unknown reference, got %v", err)
	}
}

func TestPaymentService_HandleWebhook_IrrelevantEvent(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.webhookResult = &gateway.WebhookResult{Relevant: false}

	if err := f.svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"); err != nil {
		t.Errorf("Irrelevant events must be acknowledged, got %v", err)
	}
}

func TestPaymentService_HandleWebhook_BadSignature(t *testing.T) {
	f := newPaymentFixture(t)
	f.gateway.webhookErr = errors.New("signature mismatch")

	if err := f.svc.HandleWebhook(context.Background(), []byte(`{}`), "bad"); err == nil {
		t.Error("Expected error for bad signature")
	}
}

func TestPaymentService_HandleWebhook_TicketSuccess(t *testing.T) {
	f := newPaymentFixture(t)
	ticket, payment := f.seedTicketPayment(t)
	ctx := context.Background()

	f.gateway.webhookResult = &gateway.WebhookResult{
		Relevant:  true,
		Reference: payment.Reference,
		Outcome:   domain.PaymentOutcomeSuccess,
	}

	if err := f.svc.HandleWebhook(ctx, []byte(`{}`), "sig"); err != nil {
		t.Fatalf("HandleWebhook failed: %v", err)
	}

	updated, _ := f.ticketRepo.GetByID(ctx, ticket.ID)
	if updated.Status != domain.TicketStatusActive {
		t.Errorf("Expected Active ticket, got %s", updated.Status)
	}
	if updated.ReservationExpiresAt != nil {
		t.Error("Reservation deadline should be cleared after payment")
	}
}

func TestPaymentService_VerifyPayment_AppliesSettledOutcome(t *testing.T) {
	f := newPaymentFixture(t)
	booking, payment := f.seedBookingPayment(t, domain.BookingStatusPendingPayment)
	ctx := context.Background()

	f.gateway.verifyOutcome = domain.PaymentOutcomeSuccess
	f.gateway.verifySettled = true

	got, err := f.svc.VerifyPayment(ctx, payment.Reference)
	if err != nil {
		t.Fatalf("VerifyPayment failed: %v", err)
	}
	if got.Status != domain.PaymentStatusSuccessful {
		t.Errorf("Expected Successful, got %s", got.Status)
	}

	updated, _ := f.bookingRepo.GetByID(ctx, booking.ID)
	if updated.Status != domain.BookingStatusPendingApproval {
		t.Errorf("Expected PendingApproval booking, got %s", updated.Status)
	}
}

func TestPaymentService_VerifyPayment_UnsettledIsReadOnly(t *testing.T) {
	f := newPaymentFixture(t)
	booking, payment := f.seedBookingPayment(t, domain.BookingStatusPendingPayment)
	ctx := context.Background()

	f.gateway.verifyOutcome = domain.PaymentOutcomeFailure
	f.gateway.verifySettled = false

	got, err := f.svc.VerifyPayment(ctx, payment.Reference)
	if err != nil {
		t.Fatalf("VerifyPayment failed: %v", err)
	}
	if got.Status != domain.PaymentStatusPending {
		t.Errorf("Unsettled verify must not move the payment, got %s", got.Status)
	}

	updated, _ := f.bookingRepo.GetByID(ctx, booking.ID)
	if updated.Status != domain.BookingStatusPendingPayment {
		t.Errorf("Expected booking unchanged, got %s", updated.Status)
	}
}
