package domain

import (
	"time"
)

// BookingStatus is the lifecycle status of a venue booking.
type BookingStatus string

const (
	BookingStatusSubmitted       BookingStatus = "Submitted"
	BookingStatusPendingPayment  BookingStatus = "PendingPayment"
	BookingStatusPendingApproval BookingStatus = "PendingApproval"
	BookingStatusConfirmed       BookingStatus = "Confirmed"
	BookingStatusRejected        BookingStatus = "Rejected"
	BookingStatusCancelled       BookingStatus = "Cancelled"
	BookingStatusExpired         BookingStatus = "Expired"
)

// IsTerminal reports whether no further transitions are accepted.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusRejected, BookingStatusCancelled, BookingStatusExpired:
		return true
	}
	return false
}

// BookingEvent drives booking status transitions.
type BookingEvent string

const (
	BookingEventSubmit         BookingEvent = "submit"
	BookingEventPaymentSuccess BookingEvent = "payment_success"
	BookingEventApprove        BookingEvent = "approve"
	BookingEventReject         BookingEvent = "reject"
	BookingEventCancel         BookingEvent = "cancel"
	BookingEventExpire         BookingEvent = "expire"
)

// NextBookingStatus is the single transition function for bookings. It
// returns ErrInvalidTransition for any (status, event) pair outside the
// transition table; terminal states accept no events.
func NextBookingStatus(current BookingStatus, ev BookingEvent) (BookingStatus, error) {
	if current.IsTerminal() {
		return current, ErrInvalidTransition
	}

	switch ev {
	case BookingEventSubmit:
		if current == BookingStatusSubmitted {
			return BookingStatusPendingApproval, nil
		}
	case BookingEventPaymentSuccess:
		if current == BookingStatusPendingPayment {
			return BookingStatusPendingApproval, nil
		}
	case BookingEventApprove:
		if current == BookingStatusPendingApproval {
			return BookingStatusConfirmed, nil
		}
	case BookingEventReject:
		// Admin rejection is only valid while awaiting approval.
		if current == BookingStatusPendingApproval {
			return BookingStatusRejected, nil
		}
	case BookingEventCancel:
		return BookingStatusCancelled, nil
	case BookingEventExpire:
		if current == BookingStatusPendingPayment {
			return BookingStatusExpired, nil
		}
	}

	return current, ErrInvalidTransition
}

// Booking is a reservation of a venue for a time span.
type Booking struct {
	ID                   string
	VenueID              string
	OrganizerID          string
	Description          string
	BookedFrom           time.Time
	BookedTo             time.Time
	Status               BookingStatus
	ReservationExpiresAt *time.Time
	PaymentReference     *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Apply runs a transition event against the booking, updating its status
// and clearing the reservation deadline once payment is no longer pending.
func (b *Booking) Apply(ev BookingEvent, now time.Time) error {
	next, err := NextBookingStatus(b.Status, ev)
	if err != nil {
		return err
	}

	b.Status = next
	if next != BookingStatusPendingPayment {
		b.ReservationExpiresAt = nil
	}
	b.UpdatedAt = now
	return nil
}

// Overlaps reports whether two half-open spans [aFrom, aTo) and
// [bFrom, bTo) intersect.
func Overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
	return aFrom.Before(bTo) && aTo.After(bFrom)
}

// ConflictsWith reports whether the booking blocks the requested span.
// Cancelled and rejected bookings never conflict.
func (b *Booking) ConflictsWith(venueID string, from, to time.Time) bool {
	if b.VenueID != venueID {
		return false
	}
	if b.Status == BookingStatusCancelled || b.Status == BookingStatusRejected {
		return false
	}
	return Overlaps(b.BookedFrom, b.BookedTo, from, to)
}

// HasConflict reports whether any booking in the list blocks the
// requested span for the venue.
func HasConflict(existing []*Booking, venueID string, from, to time.Time) bool {
	for _, b := range existing {
		if b.ConflictsWith(venueID, from, to) {
			return true
		}
	}
	return false
}
