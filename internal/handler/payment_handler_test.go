package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Promise30/Event-Management-System-sub000/internal/domain"
)

type stubPaymentService struct {
	webhookErr error
	calls      int
}

func (s *stubPaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	s.calls++
	return s.webhookErr
}

func (s *stubPaymentService) VerifyPayment(ctx context.Context, reference string) (*domain.Payment, error) {
	return nil, domain.ErrPaymentNotFound
}

func (s *stubPaymentService) GetPayment(ctx context.Context, reference string) (*domain.Payment, error) {
	return nil, domain.ErrPaymentNotFound
}

func webhookRouter(svc *stubPaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/payments/webhook", NewPaymentHandler(svc).Webhook)
	return r
}

func TestPaymentHandler_Webhook_OK(t *testing.T) {
	svc := &stubPaymentService{}
	r := webhookRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewBufferString(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.calls)
}

func TestPaymentHandler_Webhook_MissingSignature(t *testing.T) {
	svc := &stubPaymentService{}
	r := webhookRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewBufferString(`{}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, svc.calls, "delivery must not reach the service without a signature")
}

func TestPaymentHandler_Webhook_BadSignature(t *testing.T) {
	svc := &stubPaymentService{webhookErr: errors.New("signature mismatch")}
	r := webhookRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewBufferString(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=forged")
	r.ServeHTTP(w, req)

	// 401 tells the gateway the delivery was rejected, not malformed.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
