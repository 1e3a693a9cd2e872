package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Promise30/Event-Management-System-sub000/internal/availability"
	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
	"github.com/Promise30/Event-Management-System-sub000/internal/dto"
	"github.com/Promise30/Event-Management-System-sub000/internal/events"
	"github.com/Promise30/Event-Management-System-sub000/internal/gateway"
	"github.com/Promise30/Event-Management-System-sub000/internal/repository"
	"github.com/Promise30/Event-Management-System-sub000/pkg/clock"
	"github.com/Promise30/Event-Management-System-sub000/pkg/config"
	"github.com/Promise30/Event-Management-System-sub000/pkg/logger"
)

// ValidationError reports a request that failed availability or input
// validation. The reason is safe to return to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// bookingService implements the BookingService interface
type bookingService struct {
	bookingRepo repository.BookingRepository
	venueRepo   repository.VenueRepository
	paymentRepo repository.PaymentRepository
	gateway     gateway.PaymentGateway
	publisher   events.Publisher
	clock       clock.Clock
	cfg         *config.ReservationConfig
	currency    string
	log         *logger.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo repository.BookingRepository,
	venueRepo repository.VenueRepository,
	paymentRepo repository.PaymentRepository,
	gw gateway.PaymentGateway,
	publisher events.Publisher,
	clk clock.Clock,
	cfg *config.ReservationConfig,
	currency string,
	log *logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		venueRepo:   venueRepo,
		paymentRepo: paymentRepo,
		gateway:     gw,
		publisher:   publisher,
		clock:       clk,
		cfg:         cfg,
		currency:    currency,
		log:         log,
	}
}

// CreateBooking validates the requested span, serializes the conflict
// check per venue, and creates the booking. The venue row lock makes
// two racing requests for overlapping spans resolve to one winner and
// one ErrVenueConflict.
func (s *bookingService) CreateBooking(ctx context.Context, organizerID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	venue, err := s.venueRepo.GetByID(ctx, req.VenueID)
	if err != nil {
		return nil, err
	}
	if !venue.Active {
		return nil, domain.ErrVenueInactive
	}

	now := s.clock.Now()
	from := req.From.UTC()
	to := req.To.UTC()

	result := availability.Validate(now, venue.Windows, from, to)
	if !result.Valid {
		return nil, &ValidationError{Reason: result.Reason}
	}

	// Cheap pre-check before taking the venue lock.
	conflict, err := s.bookingRepo.HasConflict(ctx, req.VenueID, from, to)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, domain.ErrVenueConflict
	}

	booking := &domain.Booking{
		ID:          uuid.New().String(),
		VenueID:     req.VenueID,
		OrganizerID: organizerID,
		Description: req.Description,
		BookedFrom:  from,
		BookedTo:    to,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	requiresPayment := venue.BookingFee > 0
	if requiresPayment {
		booking.Status = domain.BookingStatusPendingPayment
		deadline := now.Add(s.cfg.HoldDuration)
		booking.ReservationExpiresAt = &deadline
	} else {
		booking.Status = domain.BookingStatusSubmitted
		if err := booking.Apply(domain.BookingEventSubmit, now); err != nil {
			return nil, err
		}
	}

	err = s.bookingRepo.WithTx(ctx, func(ctx context.Context) error {
		// The row lock serializes conflict check + insert per venue.
		if _, err := s.venueRepo.GetForUpdate(ctx, req.VenueID); err != nil {
			return err
		}

		conflict, err := s.bookingRepo.HasConflict(ctx, req.VenueID, from, to)
		if err != nil {
			return err
		}
		if conflict {
			return domain.ErrVenueConflict
		}

		return s.bookingRepo.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.publishTransition(ctx, events.TopicBookingEvents, booking.ID, "", booking.Status)

	resp := dto.FromBooking(booking)
	if requiresPayment {
		paymentURL, err := s.initializePayment(ctx, booking, venue)
		if err != nil {
			return nil, err
		}
		resp.PaymentURL = paymentURL
	}
	return resp, nil
}

// initializePayment starts a hosted payment for the booking fee. If the
// gateway refuses, the booking is cancelled so the span is not held by a
// reservation that can never be paid.
func (s *bookingService) initializePayment(ctx context.Context, booking *domain.Booking, venue *domain.Venue) (string, error) {
	initResp, err := s.gateway.InitializePayment(ctx, &gateway.InitializePaymentRequest{
		Amount:      venue.BookingFee,
		Currency:    s.currency,
		Description: fmt.Sprintf("Booking fee for %s", venue.Name),
		PaymentType: domain.PaymentTypeBooking,
		ReferenceID: booking.ID,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "payment initialization failed, cancelling booking",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
		s.compensateBooking(ctx, booking)
		return "", domain.ErrPaymentInitFailed
	}

	now := s.clock.Now()
	payment, err := domain.NewPayment(initResp.Reference, venue.BookingFee, s.currency, domain.PaymentTypeBooking, booking.ID, now)
	if err != nil {
		s.compensateBooking(ctx, booking)
		return "", err
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		s.compensateBooking(ctx, booking)
		return "", err
	}

	booking.PaymentReference = &initResp.Reference
	booking.UpdatedAt = now
	if err := s.bookingRepo.Transition(ctx, booking, domain.BookingStatusPendingPayment); err != nil {
		return "", err
	}

	return initResp.RedirectURL, nil
}

func (s *bookingService) compensateBooking(ctx context.Context, booking *domain.Booking) {
	prev := booking.Status
	if err := booking.Apply(domain.BookingEventCancel, s.clock.Now()); err != nil {
		return
	}
	if err := s.bookingRepo.Transition(ctx, booking, prev); err != nil {
		s.log.ErrorContext(ctx, "failed to cancel booking after payment init failure",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
		return
	}
	s.publishTransition(ctx, events.TopicBookingEvents, booking.ID, prev, booking.Status)
}

// GetBooking retrieves a booking by ID
func (s *bookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

// ListBookings retrieves an organizer's bookings with pagination
func (s *bookingService) ListBookings(ctx context.Context, organizerID string, limit, offset int) ([]*domain.Booking, int, error) {
	return s.bookingRepo.ListByOrganizer(ctx, organizerID, limit, offset)
}

// ApproveBooking confirms a booking awaiting approval
func (s *bookingService) ApproveBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingEventApprove)
}

// RejectBooking rejects a booking awaiting approval, freeing the span
func (s *bookingService) RejectBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingEventReject)
}

// CancelBooking cancels a non-terminal booking owned by the organizer
func (s *bookingService) CancelBooking(ctx context.Context, id string, organizerID string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.OrganizerID != organizerID {
		return nil, domain.ErrNotOwner
	}

	prev := booking.Status
	if err := booking.Apply(domain.BookingEventCancel, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Transition(ctx, booking, prev); err != nil {
		return nil, err
	}

	s.publishTransition(ctx, events.TopicBookingEvents, booking.ID, prev, booking.Status)
	return booking, nil
}

// ExpireBooking moves a pending-payment booking past its deadline to
// Expired. A booking that was paid or cancelled in the meantime fails
// the status guard and is left alone.
func (s *bookingService) ExpireBooking(ctx context.Context, booking *domain.Booking) error {
	prev := booking.Status
	if err := booking.Apply(domain.BookingEventExpire, s.clock.Now()); err != nil {
		return err
	}
	if err := s.bookingRepo.Transition(ctx, booking, prev); err != nil {
		return err
	}

	s.publishTransition(ctx, events.TopicBookingEvents, booking.ID, prev, booking.Status)
	return nil
}

func (s *bookingService) transition(ctx context.Context, id string, ev domain.BookingEvent) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prev := booking.Status
	if err := booking.Apply(ev, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Transition(ctx, booking, prev); err != nil {
		return nil, err
	}

	s.publishTransition(ctx, events.TopicBookingEvents, booking.ID, prev, booking.Status)
	return booking, nil
}

func (s *bookingService) publishTransition(ctx context.Context, topic, entityID string, from, to domain.BookingStatus) {
	s.publisher.Publish(ctx, topic, &events.LifecycleEvent{
		EventType:  "status_changed",
		EntityID:   entityID,
		FromStatus: string(from),
		ToStatus:   string(to),
		OccurredAt: s.clock.Now(),
	})
}
