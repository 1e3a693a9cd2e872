package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
	"github.com/Promise30/Event-Management-System-sub000/internal/events"
	"github.com/Promise30/Event-Management-System-sub000/internal/gateway"
	"github.com/Promise30/Event-Management-System-sub000/internal/repository"
	"github.com/Promise30/Event-Management-System-sub000/pkg/clock"
	"github.com/Promise30/Event-Management-System-sub000/pkg/logger"
)

// paymentService implements the PaymentService interface
type paymentService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	ticketRepo  repository.TicketRepository
	gateway     gateway.PaymentGateway
	publisher   events.Publisher
	clock       clock.Clock
	log         *logger.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	bookingRepo repository.BookingRepository,
	ticketRepo repository.TicketRepository,
	gw gateway.PaymentGateway,
	publisher events.Publisher,
	clk clock.Clock,
	log *logger.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		ticketRepo:  ticketRepo,
		gateway:     gw,
		publisher:   publisher,
		clock:       clk,
		log:         log,
	}
}

// HandleWebhook authenticates the delivery and applies its outcome.
// Anything that is not a signature failure is acknowledged so the
// gateway does not retry forever.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	result, err := s.gateway.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return err
	}
	if !result.Relevant {
		return nil
	}
	return s.applyOutcome(ctx, result.Reference, result.Outcome)
}

// VerifyPayment fetches the payment's state from the gateway and applies
// the outcome if it has settled. Used when a webhook delivery is in doubt.
func (s *paymentService) VerifyPayment(ctx context.Context, reference string) (*domain.Payment, error) {
	verified, err := s.gateway.VerifyPayment(ctx, reference)
	if err != nil {
		return nil, err
	}

	if verified.Settled {
		if err := s.applyOutcome(ctx, reference, verified.Outcome); err != nil {
			return nil, err
		}
	}

	return s.paymentRepo.GetByReference(ctx, reference)
}

// GetPayment retrieves a payment record by gateway reference
func (s *paymentService) GetPayment(ctx context.Context, reference string) (*domain.Payment, error) {
	return s.paymentRepo.GetByReference(ctx, reference)
}

// applyOutcome moves the payment record out of Pending exactly once and
// forwards a success to the reservation it pays for. A reference seen
// before (replayed webhook, verify after webhook) fails the conditional
// update and becomes a no-op.
func (s *paymentService) applyOutcome(ctx context.Context, reference string, outcome domain.PaymentOutcome) error {
	payment, err := s.paymentRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			// Unknown reference: acknowledge so the gateway stops
			// retrying, but keep a trace of it.
			s.log.WarnContext(ctx, "payment outcome for unknown reference",
				zap.String("reference", reference),
			)
			return nil
		}
		return err
	}

	now := s.clock.Now()
	to := domain.PaymentStatusSuccessful
	if outcome == domain.PaymentOutcomeFailure {
		to = domain.PaymentStatusFailed
	}

	// The payment mark and the reservation transition commit or roll
	// back together. A transient failure between the two writes would
	// otherwise strand a paid reservation: the gateway's redelivery
	// hits the idempotency branch and never retries the transition.
	run := s.bookingRepo.WithTx
	if payment.PaymentType == domain.PaymentTypeTicket {
		run = s.ticketRepo.WithTx
	}

	var moved bool
	err = run(ctx, func(ctx context.Context) error {
		var err error
		moved, err = s.paymentRepo.UpdateStatus(ctx, reference, domain.PaymentStatusPending, to, now)
		if err != nil || !moved {
			return err
		}

		// A failed payment does not touch the reservation: the hold
		// stands until the payer retries or the deadline passes.
		if outcome != domain.PaymentOutcomeSuccess {
			return nil
		}

		switch payment.PaymentType {
		case domain.PaymentTypeBooking:
			return s.applyBookingSuccess(ctx, payment.ReferenceID)
		case domain.PaymentTypeTicket:
			return s.applyTicketSuccess(ctx, payment.ReferenceID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !moved {
		s.log.InfoContext(ctx, "payment outcome already applied",
			zap.String("reference", reference),
			zap.String("outcome", string(outcome)),
		)
		return nil
	}

	s.publisher.Publish(ctx, events.TopicPaymentEvents, &events.LifecycleEvent{
		EventType:  "outcome_applied",
		EntityID:   payment.ID,
		FromStatus: string(domain.PaymentStatusPending),
		ToStatus:   string(to),
		OccurredAt: now,
	})
	return nil
}

func (s *paymentService) applyBookingSuccess(ctx context.Context, bookingID string) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	prev := booking.Status
	if err := booking.Apply(domain.BookingEventPaymentSuccess, s.clock.Now()); err != nil {
		// The booking left PendingPayment before the money arrived,
		// e.g. the sweeper expired it. Surface it for reconciliation.
		s.log.WarnContext(ctx, "payment succeeded for booking no longer pending payment",
			zap.String("booking_id", bookingID),
			zap.String("status", string(booking.Status)),
		)
		return nil
	}
	if err := s.bookingRepo.Transition(ctx, booking, prev); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			s.log.WarnContext(ctx, "booking moved concurrently while applying payment",
				zap.String("booking_id", bookingID),
			)
			return nil
		}
		return err
	}

	s.publisher.Publish(ctx, events.TopicBookingEvents, &events.LifecycleEvent{
		EventType:  "status_changed",
		EntityID:   booking.ID,
		FromStatus: string(prev),
		ToStatus:   string(booking.Status),
		OccurredAt: s.clock.Now(),
	})
	return nil
}

func (s *paymentService) applyTicketSuccess(ctx context.Context, ticketID string) error {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}

	prev := ticket.Status
	if err := ticket.Apply(domain.TicketEventPaymentSuccess, s.clock.Now()); err != nil {
		s.log.WarnContext(ctx, "payment succeeded for ticket no longer reserved",
			zap.String("ticket_id", ticketID),
			zap.String("status", string(ticket.Status)),
		)
		return nil
	}
	if err := s.ticketRepo.Transition(ctx, ticket, prev); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			s.log.WarnContext(ctx, "ticket moved concurrently while applying payment",
				zap.String("ticket_id", ticketID),
			)
			return nil
		}
		return err
	}

	s.publisher.Publish(ctx, events.TopicTicketEvents, &events.LifecycleEvent{
		EventType:  "status_changed",
		EntityID:   ticket.ID,
		FromStatus: string(prev),
		ToStatus:   string(ticket.Status),
		OccurredAt: s.clock.Now(),
	})
	return nil
}
