package dto

import (
	"time"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
)

// CreateEventRequest represents a request to create an event
type CreateEventRequest struct {
	VenueID     string    `json:"venue_id" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
}

// EventResponse represents an event response
type EventResponse struct {
	ID          string    `json:"id"`
	VenueID     string    `json:"venue_id"`
	OrganizerID string    `json:"organizer_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromEvent converts a domain Event to EventResponse
func FromEvent(e *domain.Event) *EventResponse {
	return &EventResponse{
		ID:          e.ID,
		VenueID:     e.VenueID,
		OrganizerID: e.OrganizerID,
		Name:        e.Name,
		Description: e.Description,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// CreateTicketTypeRequest represents a request to add a ticket type
type CreateTicketTypeRequest struct {
	Name     string  `json:"name" binding:"required"`
	Capacity int     `json:"capacity" binding:"required,gt=0"`
	Price    float64 `json:"price" binding:"gte=0"`
}

// TicketTypeResponse represents a ticket type response
type TicketTypeResponse struct {
	ID        string  `json:"id"`
	EventID   string  `json:"event_id"`
	Name      string  `json:"name"`
	Capacity  int     `json:"capacity"`
	Available int     `json:"available"`
	Price     float64 `json:"price"`
}

// FromTicketType converts a domain TicketType to TicketTypeResponse
func FromTicketType(tt *domain.TicketType) *TicketTypeResponse {
	return &TicketTypeResponse{
		ID:        tt.ID,
		EventID:   tt.EventID,
		Name:      tt.Name,
		Capacity:  tt.Capacity,
		Available: tt.Available(),
		Price:     tt.Price,
	}
}
