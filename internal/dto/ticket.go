package dto

import (
	"time"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
)

// PurchaseTicketRequest represents a request to purchase one ticket
type PurchaseTicketRequest struct {
	TicketTypeID string `json:"ticket_type_id" binding:"required"`
}

// TicketResponse represents a ticket response
type TicketResponse struct {
	ID                   string              `json:"id"`
	TicketTypeID         string              `json:"ticket_type_id"`
	AttendeeID           string              `json:"attendee_id"`
	Status               domain.TicketStatus `json:"status"`
	ReservationExpiresAt *time.Time          `json:"reservation_expires_at,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`

	// PaymentURL is set only when the ticket requires payment
	PaymentURL string `json:"payment_url,omitempty"`
}

// FromTicket converts a domain Ticket to TicketResponse
func FromTicket(t *domain.Ticket) *TicketResponse {
	return &TicketResponse{
		ID:                   t.ID,
		TicketTypeID:         t.TicketTypeID,
		AttendeeID:           t.AttendeeID,
		Status:               t.Status,
		ReservationExpiresAt: t.ReservationExpiresAt,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}
