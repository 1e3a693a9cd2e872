package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Promise30/Event-Management-System-sub000/internal/availability"
	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
	"github.com/Promise30/Event-Management-System-sub000/internal/dto"
	"github.com/Promise30/Event-Management-System-sub000/internal/repository"
	"github.com/Promise30/Event-Management-System-sub000/pkg/clock"
)

// venueService implements the VenueService interface
type venueService struct {
	venueRepo   repository.VenueRepository
	bookingRepo repository.BookingRepository
	clock       clock.Clock
}

// NewVenueService creates a new VenueService
func NewVenueService(venueRepo repository.VenueRepository, bookingRepo repository.BookingRepository, clk clock.Clock) VenueService {
	return &venueService{
		venueRepo:   venueRepo,
		bookingRepo: bookingRepo,
		clock:       clk,
	}
}

// CreateVenue creates a venue with its weekly availability windows
func (s *venueService) CreateVenue(ctx context.Context, req *dto.CreateVenueRequest) (*domain.Venue, error) {
	windows, err := req.ToWindows()
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateWindows(windows); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	venue := &domain.Venue{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Capacity:   req.Capacity,
		BookingFee: req.BookingFee,
		Active:     true,
		Windows:    windows,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

// GetVenue retrieves a venue by ID
func (s *venueService) GetVenue(ctx context.Context, id string) (*domain.Venue, error) {
	return s.venueRepo.GetByID(ctx, id)
}

// ListVenues retrieves venues with pagination
func (s *venueService) ListVenues(ctx context.Context, limit, offset int) ([]*domain.Venue, int, error) {
	return s.venueRepo.List(ctx, limit, offset)
}

// CheckAvailability reports whether the venue could host the span
func (s *venueService) CheckAvailability(ctx context.Context, venueID string, req *dto.CheckAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if !venue.Active {
		return nil, domain.ErrVenueInactive
	}

	from := req.From.UTC()
	to := req.To.UTC()

	result := availability.Validate(s.clock.Now(), venue.Windows, from, to)
	if !result.Valid {
		return &dto.AvailabilityResponse{Available: false, Reason: result.Reason}, nil
	}

	conflict, err := s.bookingRepo.HasConflict(ctx, venueID, from, to)
	if err != nil {
		return nil, err
	}
	if conflict {
		return &dto.AvailabilityResponse{Available: false, Reason: "the venue is already booked for part of this time"}, nil
	}

	return &dto.AvailabilityResponse{Available: true}, nil
}
