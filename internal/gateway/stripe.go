package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
	"github.com/Promise30/Event-Management-System-sub000/pkg/logger"
)

// StripeGateway implements PaymentGateway using Stripe Checkout Sessions.
// The session ID doubles as the payment reference on our side.
type StripeGateway struct {
	webhookSecret string
	successURL    string
	cancelURL     string
	log           *logger.Logger
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(cfg *Config, log *logger.Logger) *StripeGateway {
	stripe.Key = cfg.SecretKey
	return &StripeGateway{
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		log:           log,
	}
}

// Name returns the gateway name
func (g *StripeGateway) Name() string {
	return "stripe"
}

// InitializePayment creates a Checkout Session for the amount and returns
// the session ID as the payment reference plus the hosted payment URL.
func (g *StripeGateway) InitializePayment(ctx context.Context, req *InitializePaymentRequest) (*InitializePaymentResponse, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
					// Stripe amounts are in the smallest currency unit.
					UnitAmount: stripe.Int64(int64(req.Amount * 100)),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	params.AddMetadata("payment_type", string(req.PaymentType))
	params.AddMetadata("reference_id", req.ReferenceID)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	g.log.InfoContext(ctx, "stripe checkout session created",
		zap.String("reference", s.ID),
		zap.String("payment_type", string(req.PaymentType)),
	)

	return &InitializePaymentResponse{
		Reference:   s.ID,
		RedirectURL: s.URL,
	}, nil
}

// VerifyPayment fetches the Checkout Session and maps its payment status
// to an outcome. Used by the manual verification endpoint when a webhook
// delivery is in doubt.
func (g *StripeGateway) VerifyPayment(ctx context.Context, reference string) (*VerifyPaymentResponse, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(reference, params)
	if err != nil {
		return nil, fmt.Errorf("get checkout session: %w", err)
	}

	resp := &VerifyPaymentResponse{
		Reference: s.ID,
		Amount:    float64(s.AmountTotal) / 100,
		Currency:  string(s.Currency),
	}

	switch s.PaymentStatus {
	case stripe.CheckoutSessionPaymentStatusPaid:
		resp.Outcome = domain.PaymentOutcomeSuccess
		resp.Settled = true
	default:
		resp.Outcome = domain.PaymentOutcomeFailure
		resp.Settled = s.Status == stripe.CheckoutSessionStatusExpired
	}

	return resp, nil
}

// VerifyWebhookSignature checks the Stripe-Signature HMAC against the raw
// payload, then maps the event type to an outcome.
func (g *StripeGateway) VerifyWebhookSignature(payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("verify webhook signature: %w", err)
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.expired":
	default:
		return &WebhookResult{Relevant: false}, nil
	}

	var s stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}

	result := &WebhookResult{
		Relevant:  true,
		Reference: s.ID,
		Outcome:   domain.PaymentOutcomeFailure,
	}
	if event.Type == "checkout.session.completed" && s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
		result.Outcome = domain.PaymentOutcomeSuccess
	}
	return result, nil
}
