package domain

import "errors"

var (
	ErrVenueNotFound      = errors.New("venue not found")
	ErrVenueInactive      = errors.New("venue is not active")
	ErrEventNotFound      = errors.New("event not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrPaymentNotFound    = errors.New("payment not found")

	// ErrVenueConflict is returned when a requested span overlaps an
	// existing non-cancelled booking for the same venue.
	ErrVenueConflict = errors.New("venue already booked for the requested period")

	// ErrInventoryExhausted is returned when a ticket type has no
	// remaining capacity.
	ErrInventoryExhausted = errors.New("no ticket capacity left")

	// ErrInvalidTransition is returned when a state machine precondition
	// is not met, e.g. confirming an already-rejected booking.
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrPaymentAlreadyExists = errors.New("payment already exists for this reference")
	ErrEventEnded           = errors.New("event has already ended")
	ErrInvalidDateRange     = errors.New("invalid date range")
	ErrInvalidCapacity      = errors.New("capacity must be positive")

	// ErrPaymentInitFailed is returned when the gateway could not start a
	// payment; the reservation it would have paid for is rolled back.
	ErrPaymentInitFailed = errors.New("failed to initialize payment")

	// ErrNotOwner is returned when a caller operates on a reservation they
	// do not own.
	ErrNotOwner = errors.New("not the owner of this reservation")
)
