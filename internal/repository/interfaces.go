package repository

import (
	"context"
	"time"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
)

// VenueRepository provides access to venues and their availability windows.
type VenueRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, venue *domain.Venue) error
	// GetByID returns the venue with its availability windows, or
	// domain.ErrVenueNotFound.
	GetByID(ctx context.Context, id string) (*domain.Venue, error)
	// GetForUpdate locks the venue row for the remainder of the current
	// transaction, serializing conflict check and booking insert per venue.
	GetForUpdate(ctx context.Context, id string) (*domain.Venue, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Venue, int, error)
}

// EventRepository provides access to events.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
}

// BookingRepository provides access to venue bookings.
type BookingRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	// HasConflict reports whether any non-cancelled, non-rejected booking
	// for the venue overlaps [from, to).
	HasConflict(ctx context.Context, venueID string, from, to time.Time) (bool, error)
	// Transition persists a booking whose status was already advanced in
	// memory, guarded by the expected previous status. Zero rows affected
	// means the row is no longer in that status and the call returns
	// domain.ErrInvalidTransition.
	Transition(ctx context.Context, booking *domain.Booking, from domain.BookingStatus) error
	// ListExpired returns bookings still pending payment whose
	// reservation deadline passed before now.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error)
	ListByOrganizer(ctx context.Context, organizerID string, limit, offset int) ([]*domain.Booking, int, error)
}

// TicketTypeRepository provides atomic capacity accounting for ticket types.
type TicketTypeRepository interface {
	Create(ctx context.Context, tt *domain.TicketType) error
	GetByID(ctx context.Context, id string) (*domain.TicketType, error)
	ListByEvent(ctx context.Context, eventID string) ([]*domain.TicketType, error)
	// ReserveUnit atomically increments sold_count if capacity remains;
	// returns domain.ErrInventoryExhausted otherwise.
	ReserveUnit(ctx context.Context, id string) error
	// ReleaseUnit atomically decrements sold_count, never below zero.
	// Releasing an already-released unit is a no-op.
	ReleaseUnit(ctx context.Context, id string) error
}

// TicketRepository provides access to tickets.
type TicketRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// Transition persists a ticket whose status was already advanced in
	// memory, guarded by the expected previous status.
	Transition(ctx context.Context, ticket *domain.Ticket, from domain.TicketStatus) error
	// ListExpired returns reserved tickets whose reservation deadline
	// passed before now.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*domain.Ticket, error)
}

// PaymentRepository provides access to payment records.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByReference(ctx context.Context, reference string) (*domain.Payment, error)
	// UpdateStatus moves a payment from one status to another with a
	// conditional update; it reports whether a row was changed.
	UpdateStatus(ctx context.Context, reference string, from, to domain.PaymentStatus, updatedAt time.Time) (bool, error)
}
