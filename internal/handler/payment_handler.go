package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Promise30/Event-Management-System-sub000/internal/dto"
	"github.com/Promise30/Event-Management-System-sub000/internal/service"
	"github.com/Promise30/Event-Management-System-sub000/pkg/response"
	"github.com/Promise30/Event-Management-System-sub000/pkg/telemetry"
)

// PaymentHandler handles payment webhook and verification requests
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Webhook handles POST /payments/webhook - gateway outcome deliveries.
// The raw body is needed for signature verification, so it is read
// before any JSON decoding.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "payment.webhook")
	defer span.End()

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 65536))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest("Failed to read request body"))
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Missing signature header"))
		return
	}

	if err := h.paymentService.HandleWebhook(ctx, payload, signature); err != nil {
		// Signature failures are the only webhook errors worth a retry.
		c.JSON(http.StatusUnauthorized, response.Unauthorized("Webhook verification failed"))
		return
	}

	c.JSON(http.StatusOK, response.Success(gin.H{"received": true}))
}

// Verify handles POST /payments/:reference/verify - asks the gateway
// for the payment's current state and applies it if settled
func (h *PaymentHandler) Verify(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "payment.verify")
	defer span.End()

	payment, err := h.paymentService.VerifyPayment(ctx, c.Param("reference"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(&dto.VerifyPaymentResponse{
		Reference: payment.Reference,
		Status:    payment.Status,
	}))
}

// Get handles GET /payments/:reference
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("reference"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(dto.FromPayment(payment)))
}
