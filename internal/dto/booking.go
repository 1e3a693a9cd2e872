package dto

import (
	"time"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
)

// CreateBookingRequest represents a request to book a venue for a span
type CreateBookingRequest struct {
	VenueID     string    `json:"venue_id" binding:"required"`
	Description string    `json:"description"`
	From        time.Time `json:"from" binding:"required"`
	To          time.Time `json:"to" binding:"required"`
}

// BookingResponse represents a booking response
type BookingResponse struct {
	ID                   string               `json:"id"`
	VenueID              string               `json:"venue_id"`
	OrganizerID          string               `json:"organizer_id"`
	Description          string               `json:"description,omitempty"`
	From                 time.Time            `json:"from"`
	To                   time.Time            `json:"to"`
	Status               domain.BookingStatus `json:"status"`
	ReservationExpiresAt *time.Time           `json:"reservation_expires_at,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`

	// PaymentURL is set only when the booking requires payment
	PaymentURL string `json:"payment_url,omitempty"`
}

// FromBooking converts a domain Booking to BookingResponse
func FromBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                   b.ID,
		VenueID:              b.VenueID,
		OrganizerID:          b.OrganizerID,
		Description:          b.Description,
		From:                 b.BookedFrom,
		To:                   b.BookedTo,
		Status:               b.Status,
		ReservationExpiresAt: b.ReservationExpiresAt,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

// BookingListResponse represents a paginated list of bookings
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// RejectBookingRequest carries the admin's rejection reason
type RejectBookingRequest struct {
	Reason string `json:"reason"`
}
