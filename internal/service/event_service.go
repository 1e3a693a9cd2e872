package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
	"github.com/Promise30/Event-Management-System-sub000/internal/dto"
	"github.com/Promise30/Event-Management-System-sub000/internal/repository"
	"github.com/Promise30/Event-Management-System-sub000/pkg/clock"
)

// eventService implements the EventService interface
type eventService struct {
	eventRepo      repository.EventRepository
	venueRepo      repository.VenueRepository
	ticketTypeRepo repository.TicketTypeRepository
	cache          *AvailabilityCache
	clock          clock.Clock
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo repository.EventRepository,
	venueRepo repository.VenueRepository,
	ticketTypeRepo repository.TicketTypeRepository,
	cache *AvailabilityCache,
	clk clock.Clock,
) EventService {
	return &eventService{
		eventRepo:      eventRepo,
		venueRepo:      venueRepo,
		ticketTypeRepo: ticketTypeRepo,
		cache:          cache,
		clock:          clk,
	}
}

// CreateEvent creates an event at a venue
func (s *eventService) CreateEvent(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*domain.Event, error) {
	venue, err := s.venueRepo.GetByID(ctx, req.VenueID)
	if err != nil {
		return nil, err
	}
	if !venue.Active {
		return nil, domain.ErrVenueInactive
	}

	if !req.EndsAt.After(req.StartsAt) {
		return nil, domain.ErrInvalidDateRange
	}

	now := s.clock.Now()
	event := &domain.Event{
		ID:          uuid.New().String(),
		VenueID:     req.VenueID,
		OrganizerID: organizerID,
		Name:        req.Name,
		Description: req.Description,
		StartsAt:    req.StartsAt.UTC(),
		EndsAt:      req.EndsAt.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetEvent retrieves an event by ID
func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// CreateTicketType adds a ticket type to an event. Capacity is fixed at
// creation.
func (s *eventService) CreateTicketType(ctx context.Context, eventID string, req *dto.CreateTicketTypeRequest) (*domain.TicketType, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.HasEnded(s.clock.Now()) {
		return nil, domain.ErrEventEnded
	}

	if req.Capacity <= 0 {
		return nil, domain.ErrInvalidCapacity
	}
	if req.Price < 0 {
		return nil, errors.New("price must not be negative")
	}

	now := s.clock.Now()
	tt := &domain.TicketType{
		ID:        uuid.New().String(),
		EventID:   eventID,
		Name:      req.Name,
		Capacity:  req.Capacity,
		Price:     req.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.ticketTypeRepo.Create(ctx, tt); err != nil {
		return nil, err
	}
	return tt, nil
}

// ListTicketTypes retrieves ticket types for an event, serving remaining
// counts from the availability cache when warm.
func (s *eventService) ListTicketTypes(ctx context.Context, eventID string) ([]*domain.TicketType, error) {
	types, err := s.ticketTypeRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	for _, tt := range types {
		if available, ok := s.cache.Get(ctx, tt.ID); ok {
			tt.SoldCount = tt.Capacity - available
		} else {
			s.cache.Set(ctx, tt.ID, tt.Available())
		}
	}
	return types, nil
}
