package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
	"github.com/Promise30/Event-Management-System-sub000/internal/dto"
	"github.com/Promise30/Event-Management-System-sub000/internal/events"
	"github.com/Promise30/Event-Management-System-sub000/internal/gateway"
	"github.com/Promise30/Event-Management-System-sub000/internal/repository"
	"github.com/Promise30/Event-Management-System-sub000/pkg/clock"
	"github.com/Promise30/Event-Management-System-sub000/pkg/config"
	"github.com/Promise30/Event-Management-System-sub000/pkg/logger"
)

// ticketService implements the TicketService interface
type ticketService struct {
	ticketRepo     repository.TicketRepository
	ticketTypeRepo repository.TicketTypeRepository
	eventRepo      repository.EventRepository
	paymentRepo    repository.PaymentRepository
	gateway        gateway.PaymentGateway
	publisher      events.Publisher
	cache          *AvailabilityCache
	clock          clock.Clock
	cfg            *config.ReservationConfig
	currency       string
	log            *logger.Logger
}

// NewTicketService creates a new TicketService
func NewTicketService(
	ticketRepo repository.TicketRepository,
	ticketTypeRepo repository.TicketTypeRepository,
	eventRepo repository.EventRepository,
	paymentRepo repository.PaymentRepository,
	gw gateway.PaymentGateway,
	publisher events.Publisher,
	cache *AvailabilityCache,
	clk clock.Clock,
	cfg *config.ReservationConfig,
	currency string,
	log *logger.Logger,
) TicketService {
	return &ticketService{
		ticketRepo:     ticketRepo,
		ticketTypeRepo: ticketTypeRepo,
		eventRepo:      eventRepo,
		paymentRepo:    paymentRepo,
		gateway:        gw,
		publisher:      publisher,
		cache:          cache,
		clock:          clk,
		cfg:            cfg,
		currency:       currency,
		log:            log,
	}
}

// PurchaseTicket reserves one unit of capacity and creates the ticket.
// The unit is taken with an atomic conditional update inside the same
// transaction that inserts the ticket, so either both happen or neither.
func (s *ticketService) PurchaseTicket(ctx context.Context, attendeeID string, req *dto.PurchaseTicketRequest) (*dto.TicketResponse, error) {
	tt, err := s.ticketTypeRepo.GetByID(ctx, req.TicketTypeID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, tt.EventID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if event.HasEnded(now) {
		return nil, domain.ErrEventEnded
	}

	ticket := &domain.Ticket{
		ID:           uuid.New().String(),
		TicketTypeID: tt.ID,
		AttendeeID:   attendeeID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if tt.IsFree() {
		ticket.Status = domain.TicketStatusActive
	} else {
		ticket.Status = domain.TicketStatusReserved
		deadline := now.Add(s.cfg.HoldDuration)
		ticket.ReservationExpiresAt = &deadline
	}

	err = s.ticketRepo.WithTx(ctx, func(ctx context.Context) error {
		if err := s.ticketTypeRepo.ReserveUnit(ctx, tt.ID); err != nil {
			return err
		}
		return s.ticketRepo.Create(ctx, ticket)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, tt.ID)
	s.publishTicketTransition(ctx, ticket.ID, "", ticket.Status)

	resp := dto.FromTicket(ticket)
	if !tt.IsFree() {
		paymentURL, err := s.initializePayment(ctx, ticket, tt, event)
		if err != nil {
			return nil, err
		}
		resp.PaymentURL = paymentURL
	}
	return resp, nil
}

// initializePayment starts a hosted payment for the ticket price. If the
// gateway refuses, the reservation is unwound: the ticket is cancelled
// and its unit goes back to the pool.
func (s *ticketService) initializePayment(ctx context.Context, ticket *domain.Ticket, tt *domain.TicketType, event *domain.Event) (string, error) {
	initResp, err := s.gateway.InitializePayment(ctx, &gateway.InitializePaymentRequest{
		Amount:      tt.Price,
		Currency:    s.currency,
		Description: fmt.Sprintf("%s - %s", event.Name, tt.Name),
		PaymentType: domain.PaymentTypeTicket,
		ReferenceID: ticket.ID,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "payment initialization failed, releasing ticket",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err),
		)
		s.compensateTicket(ctx, ticket)
		return "", domain.ErrPaymentInitFailed
	}

	now := s.clock.Now()
	payment, err := domain.NewPayment(initResp.Reference, tt.Price, s.currency, domain.PaymentTypeTicket, ticket.ID, now)
	if err != nil {
		s.compensateTicket(ctx, ticket)
		return "", err
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		s.compensateTicket(ctx, ticket)
		return "", err
	}

	ticket.PaymentReference = &initResp.Reference
	ticket.UpdatedAt = now
	if err := s.ticketRepo.Transition(ctx, ticket, domain.TicketStatusReserved); err != nil {
		return "", err
	}

	return initResp.RedirectURL, nil
}

// compensateTicket unwinds a reservation whose payment could not start:
// cancel the ticket and release its unit in one transaction.
func (s *ticketService) compensateTicket(ctx context.Context, ticket *domain.Ticket) {
	prev := ticket.Status
	if err := ticket.Apply(domain.TicketEventCancel, s.clock.Now()); err != nil {
		return
	}

	err := s.ticketRepo.WithTx(ctx, func(ctx context.Context) error {
		if err := s.ticketRepo.Transition(ctx, ticket, prev); err != nil {
			return err
		}
		return s.ticketTypeRepo.ReleaseUnit(ctx, ticket.TicketTypeID)
	})
	if err != nil {
		s.log.ErrorContext(ctx, "failed to release ticket after payment init failure",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err),
		)
		return
	}

	s.cache.Invalidate(ctx, ticket.TicketTypeID)
	s.publishTicketTransition(ctx, ticket.ID, prev, ticket.Status)
}

// GetTicket retrieves a ticket by ID
func (s *ticketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.ticketRepo.GetByID(ctx, id)
}

// CancelTicket cancels a reserved or active ticket before the event
// ends, returning its unit to the pool.
func (s *ticketService) CancelTicket(ctx context.Context, id string, attendeeID string) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.AttendeeID != attendeeID {
		return nil, domain.ErrNotOwner
	}

	tt, err := s.ticketTypeRepo.GetByID(ctx, ticket.TicketTypeID)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, tt.EventID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if event.HasEnded(now) {
		return nil, domain.ErrEventEnded
	}

	prev := ticket.Status
	heldUnit := prev.HoldsUnit()
	if err := ticket.Apply(domain.TicketEventCancel, now); err != nil {
		return nil, err
	}

	err = s.ticketRepo.WithTx(ctx, func(ctx context.Context) error {
		if err := s.ticketRepo.Transition(ctx, ticket, prev); err != nil {
			return err
		}
		if heldUnit {
			return s.ticketTypeRepo.ReleaseUnit(ctx, ticket.TicketTypeID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, ticket.TicketTypeID)
	s.publishTicketTransition(ctx, ticket.ID, prev, ticket.Status)
	return ticket, nil
}

// CheckIn marks an active ticket as used at the door
func (s *ticketService) CheckIn(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prev := ticket.Status
	if err := ticket.Apply(domain.TicketEventCheckIn, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.Transition(ctx, ticket, prev); err != nil {
		return nil, err
	}

	s.publishTicketTransition(ctx, ticket.ID, prev, ticket.Status)
	return ticket, nil
}

// ExpireTicket releases a reserved ticket whose deadline passed: the
// status guard skips tickets that were paid or cancelled in the
// meantime, and the unit returns to the pool with the same transaction.
func (s *ticketService) ExpireTicket(ctx context.Context, ticket *domain.Ticket) error {
	prev := ticket.Status
	if err := ticket.Apply(domain.TicketEventExpire, s.clock.Now()); err != nil {
		return err
	}

	err := s.ticketRepo.WithTx(ctx, func(ctx context.Context) error {
		if err := s.ticketRepo.Transition(ctx, ticket, prev); err != nil {
			return err
		}
		return s.ticketTypeRepo.ReleaseUnit(ctx, ticket.TicketTypeID)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, ticket.TicketTypeID)
	s.publishTicketTransition(ctx, ticket.ID, prev, ticket.Status)
	return nil
}

func (s *ticketService) publishTicketTransition(ctx context.Context, ticketID string, from, to domain.TicketStatus) {
	s.publisher.Publish(ctx, events.TopicTicketEvents, &events.LifecycleEvent{
		EventType:  "status_changed",
		EntityID:   ticketID,
		FromStatus: string(from),
		ToStatus:   string(to),
		OccurredAt: s.clock.Now(),
	})
}
