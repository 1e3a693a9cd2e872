package dto

import (
	"time"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
)

// PaymentResponse represents a payment record response
type PaymentResponse struct {
	ID          string               `json:"id"`
	Reference   string               `json:"reference"`
	Amount      float64              `json:"amount"`
	Currency    string               `json:"currency"`
	Status      domain.PaymentStatus `json:"status"`
	PaymentType domain.PaymentType   `json:"payment_type"`
	ReferenceID string               `json:"reference_id"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// FromPayment converts a domain Payment to PaymentResponse
func FromPayment(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:          p.ID,
		Reference:   p.Reference,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Status:      p.Status,
		PaymentType: p.PaymentType,
		ReferenceID: p.ReferenceID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// VerifyPaymentResponse reports the settled state of a payment after a
// manual verification against the gateway
type VerifyPaymentResponse struct {
	Reference string               `json:"reference"`
	Status    domain.PaymentStatus `json:"status"`
}
