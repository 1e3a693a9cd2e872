package domain

import "time"

// Event is a scheduled happening at a venue for which tickets are sold.
type Event struct {
	ID          string
	VenueID     string
	OrganizerID string
	Name        string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasEnded reports whether the event is over at the given instant.
func (e *Event) HasEnded(now time.Time) bool {
	return !now.Before(e.EndsAt)
}
