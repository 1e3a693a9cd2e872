package domain

import (
	"time"
)

// TicketStatus is the lifecycle status of a ticket.
type TicketStatus string

const (
	TicketStatusReserved  TicketStatus = "Reserved"
	TicketStatusActive    TicketStatus = "Active"
	TicketStatusCancelled TicketStatus = "Cancelled"
	TicketStatusExpired   TicketStatus = "Expired"
	TicketStatusUsed      TicketStatus = "Used"
)

// IsTerminal reports whether no further transitions are accepted.
func (s TicketStatus) IsTerminal() bool {
	switch s {
	case TicketStatusCancelled, TicketStatusExpired, TicketStatusUsed:
		return true
	}
	return false
}

// HoldsUnit reports whether a ticket in this status holds one unit of
// its ticket type's capacity.
func (s TicketStatus) HoldsUnit() bool {
	return s == TicketStatusReserved || s == TicketStatusActive
}

// TicketEvent drives ticket status transitions.
type TicketEvent string

const (
	TicketEventPaymentSuccess TicketEvent = "payment_success"
	TicketEventExpire         TicketEvent = "expire"
	TicketEventCancel         TicketEvent = "cancel"
	TicketEventCheckIn        TicketEvent = "check_in"
)

// NextTicketStatus is the single transition function for tickets.
func NextTicketStatus(current TicketStatus, ev TicketEvent) (TicketStatus, error) {
	if current.IsTerminal() {
		return current, ErrInvalidTransition
	}

	switch ev {
	case TicketEventPaymentSuccess:
		if current == TicketStatusReserved {
			return TicketStatusActive, nil
		}
	case TicketEventExpire:
		if current == TicketStatusReserved {
			return TicketStatusExpired, nil
		}
	case TicketEventCancel:
		if current == TicketStatusReserved || current == TicketStatusActive {
			return TicketStatusCancelled, nil
		}
	case TicketEventCheckIn:
		if current == TicketStatusActive {
			return TicketStatusUsed, nil
		}
	}

	return current, ErrInvalidTransition
}

// TicketType is a sellable ticket category with fixed capacity.
type TicketType struct {
	ID        string
	EventID   string
	Name      string
	Capacity  int
	SoldCount int
	Price     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Available returns the number of unsold units.
func (t *TicketType) Available() int {
	return t.Capacity - t.SoldCount
}

// IsFree reports whether tickets of this type require no payment.
func (t *TicketType) IsFree() bool {
	return t.Price == 0
}

// Ticket holds one unit of its ticket type's capacity while Reserved or
// Active; the unit returns to the pool on Cancelled or Expired.
type Ticket struct {
	ID                   string
	TicketTypeID         string
	AttendeeID           string
	Status               TicketStatus
	ReservationExpiresAt *time.Time
	PaymentReference     *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Apply runs a transition event against the ticket, updating its status
// and clearing the reservation deadline once the hold no longer applies.
func (t *Ticket) Apply(ev TicketEvent, now time.Time) error {
	next, err := NextTicketStatus(t.Status, ev)
	if err != nil {
		return err
	}

	t.Status = next
	if next != TicketStatusReserved {
		t.ReservationExpiresAt = nil
	}
	t.UpdatedAt = now
	return nil
}
