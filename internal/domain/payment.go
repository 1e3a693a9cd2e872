package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the status of a payment record.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "Pending"
	PaymentStatusSuccessful PaymentStatus = "Successful"
	PaymentStatusFailed     PaymentStatus = "Failed"
)

// PaymentType discriminates what a payment record pays for.
type PaymentType string

const (
	PaymentTypeBooking PaymentType = "booking"
	PaymentTypeTicket  PaymentType = "ticket"
)

// PaymentOutcome is a verified result from the payment gateway.
type PaymentOutcome string

const (
	PaymentOutcomeSuccess PaymentOutcome = "success"
	PaymentOutcomeFailure PaymentOutcome = "failure"
)

// Payment maps one gateway payment to exactly one reservation (a
// booking or a ticket, selected by PaymentType + ReferenceID).
type Payment struct {
	ID          string
	Reference   string
	Amount      float64
	Currency    string
	Status      PaymentStatus
	PaymentType PaymentType
	ReferenceID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPayment creates a pending payment record.
func NewPayment(reference string, amount float64, currency string, paymentType PaymentType, referenceID string, now time.Time) (*Payment, error) {
	if reference == "" {
		return nil, errors.New("payment reference is required")
	}
	if referenceID == "" {
		return nil, errors.New("payment reference_id is required")
	}
	if amount <= 0 {
		return nil, errors.New("payment amount must be positive")
	}
	if paymentType != PaymentTypeBooking && paymentType != PaymentTypeTicket {
		return nil, errors.New("invalid payment type")
	}
	if currency == "" {
		currency = "usd"
	}

	return &Payment{
		ID:          uuid.New().String(),
		Reference:   reference,
		Amount:      amount,
		Currency:    currency,
		Status:      PaymentStatusPending,
		PaymentType: paymentType,
		ReferenceID: referenceID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
