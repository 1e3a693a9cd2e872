package dto

import (
	"time"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
)

// AvailabilityWindowRequest is one weekly opening window in a create request
type AvailabilityWindowRequest struct {
	DayOfWeek int    `json:"day_of_week" binding:"min=0,max=6"`
	Open      string `json:"open" binding:"required"`  // "09:00"
	Close     string `json:"close" binding:"required"` // "17:00"
}

// CreateVenueRequest represents a request to create a venue
type CreateVenueRequest struct {
	Name       string                      `json:"name" binding:"required"`
	Capacity   int                         `json:"capacity" binding:"required,gt=0"`
	BookingFee float64                     `json:"booking_fee" binding:"gte=0"`
	Windows    []AvailabilityWindowRequest `json:"availability" binding:"required,dive"`
}

// ToWindows converts the request windows into domain windows
func (r *CreateVenueRequest) ToWindows() ([]domain.AvailabilityWindow, error) {
	windows := make([]domain.AvailabilityWindow, 0, len(r.Windows))
	for _, w := range r.Windows {
		open, err := domain.ParseClockTime(w.Open)
		if err != nil {
			return nil, err
		}
		close, err := domain.ParseClockTime(w.Close)
		if err != nil {
			return nil, err
		}
		windows = append(windows, domain.AvailabilityWindow{
			DayOfWeek: time.Weekday(w.DayOfWeek),
			Open:      open,
			Close:     close,
		})
	}
	return windows, nil
}

// AvailabilityWindowResponse is one weekly opening window in a response
type AvailabilityWindowResponse struct {
	DayOfWeek string `json:"day_of_week"`
	Open      string `json:"open"`
	Close     string `json:"close"`
}

// VenueResponse represents a venue response
type VenueResponse struct {
	ID         string                       `json:"id"`
	Name       string                       `json:"name"`
	Capacity   int                          `json:"capacity"`
	BookingFee float64                      `json:"booking_fee"`
	Active     bool                         `json:"active"`
	Windows    []AvailabilityWindowResponse `json:"availability"`
	CreatedAt  time.Time                    `json:"created_at"`
	UpdatedAt  time.Time                    `json:"updated_at"`
}

// FromVenue converts a domain Venue to VenueResponse
func FromVenue(v *domain.Venue) *VenueResponse {
	windows := make([]AvailabilityWindowResponse, 0, len(v.Windows))
	for _, w := range v.Windows {
		windows = append(windows, AvailabilityWindowResponse{
			DayOfWeek: w.DayOfWeek.String(),
			Open:      w.Open.String(),
			Close:     w.Close.String(),
		})
	}
	return &VenueResponse{
		ID:         v.ID,
		Name:       v.Name,
		Capacity:   v.Capacity,
		BookingFee: v.BookingFee,
		Active:     v.Active,
		Windows:    windows,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

// CheckAvailabilityRequest asks whether a venue can host a span
type CheckAvailabilityRequest struct {
	From time.Time `json:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	To   time.Time `json:"to" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

// AvailabilityResponse reports the result of an availability check
type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}
