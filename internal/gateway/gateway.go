package gateway

import (
	"context"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
)

// PaymentGateway defines the interface for payment processing
type PaymentGateway interface {
	// InitializePayment starts a hosted payment and returns the gateway
	// reference plus the URL the payer is redirected to
	InitializePayment(ctx context.Context, req *InitializePaymentRequest) (*InitializePaymentResponse, error)

	// VerifyPayment fetches the current outcome of a payment by reference
	VerifyPayment(ctx context.Context, reference string) (*VerifyPaymentResponse, error)

	// VerifyWebhookSignature authenticates a webhook delivery and decodes
	// it into a payment outcome. Deliveries that fail signature
	// verification are rejected; unrelated event types return ok=false.
	VerifyWebhookSignature(payload []byte, signature string) (*WebhookResult, error)

	// Name returns the gateway name
	Name() string
}

// InitializePaymentRequest represents a request to start a payment
type InitializePaymentRequest struct {
	Amount        float64
	Currency      string
	Description   string
	PaymentType   domain.PaymentType
	ReferenceID   string
	CustomerEmail string
	Metadata      map[string]string
}

// InitializePaymentResponse carries the gateway reference and redirect URL
type InitializePaymentResponse struct {
	Reference   string
	RedirectURL string
}

// VerifyPaymentResponse represents the gateway's view of a payment
type VerifyPaymentResponse struct {
	Reference string
	Outcome   domain.PaymentOutcome
	Settled   bool
	Amount    float64
	Currency  string
}

// WebhookResult is a decoded, signature-verified webhook delivery.
// Relevant is false for event types the engine does not act on.
type WebhookResult struct {
	Relevant  bool
	Reference string
	Outcome   domain.PaymentOutcome
}

// Config holds gateway configuration
type Config struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}
