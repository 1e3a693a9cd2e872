package service

import (
	"context"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
	"github.com/Promise30/Event-Management-System-sub000/internal/dto"
)

// VenueService manages venues and answers availability questions.
type VenueService interface {
	CreateVenue(ctx context.Context, req *dto.CreateVenueRequest) (*domain.Venue, error)
	GetVenue(ctx context.Context, id string) (*domain.Venue, error)
	ListVenues(ctx context.Context, limit, offset int) ([]*domain.Venue, int, error)
	// CheckAvailability reports whether the venue could host the span:
	// the span must fit the weekly windows and not collide with an
	// existing booking. It takes no locks; the answer is advisory.
	CheckAvailability(ctx context.Context, venueID string, req *dto.CheckAvailabilityRequest) (*dto.AvailabilityResponse, error)
}

// EventService manages events and their ticket types.
type EventService interface {
	CreateEvent(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	CreateTicketType(ctx context.Context, eventID string, req *dto.CreateTicketTypeRequest) (*domain.TicketType, error)
	ListTicketTypes(ctx context.Context, eventID string) ([]*domain.TicketType, error)
}

// BookingService runs the venue booking lifecycle.
type BookingService interface {
	// CreateBooking validates the span against the venue's windows,
	// checks for conflicts under a venue-level lock, and creates the
	// booking. Free venues go straight to approval; venues with a fee
	// get a payment hold with a reservation deadline.
	CreateBooking(ctx context.Context, organizerID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	ListBookings(ctx context.Context, organizerID string, limit, offset int) ([]*domain.Booking, int, error)
	ApproveBooking(ctx context.Context, id string) (*domain.Booking, error)
	RejectBooking(ctx context.Context, id string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id string, organizerID string) (*domain.Booking, error)
	// ExpireBooking moves a pending-payment booking whose deadline has
	// passed to Expired. Called by the expiry sweeper.
	ExpireBooking(ctx context.Context, booking *domain.Booking) error
}

// TicketService runs the ticket purchase lifecycle against the
// capacity ledger.
type TicketService interface {
	// PurchaseTicket reserves one unit of the ticket type's capacity and
	// creates the ticket. Free tickets activate immediately; paid tickets
	// hold the unit until payment or expiry.
	PurchaseTicket(ctx context.Context, attendeeID string, req *dto.PurchaseTicketRequest) (*dto.TicketResponse, error)
	GetTicket(ctx context.Context, id string) (*domain.Ticket, error)
	CancelTicket(ctx context.Context, id string, attendeeID string) (*domain.Ticket, error)
	CheckIn(ctx context.Context, id string) (*domain.Ticket, error)
	// ExpireTicket releases a reserved ticket whose payment deadline has
	// passed, returning its unit to the pool. Called by the expiry sweeper.
	ExpireTicket(ctx context.Context, ticket *domain.Ticket) error
}

// PaymentService applies verified gateway outcomes to reservations.
type PaymentService interface {
	// HandleWebhook verifies the delivery signature and applies the
	// decoded outcome. Replayed deliveries are acknowledged without
	// effect.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	// VerifyPayment asks the gateway for the payment's current state and
	// applies the outcome if it is settled.
	VerifyPayment(ctx context.Context, reference string) (*domain.Payment, error)
	GetPayment(ctx context.Context, reference string) (*domain.Payment, error)
}
