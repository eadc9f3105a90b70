package handlers_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"watch-storefront-backend/internal/models"
)

func signature(payload []byte) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write([]byte(fmt.Sprintf("%d.", ts)))
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestCreateIntent(t *testing.T) {
	s := newTestServer(t)
	_, _ = s.store.Create(context.Background(), models.CollectionPayments, map[string]interface{}{"id": "p1", "status": "pending"})

	w := s.do(http.MethodPost, "/api/v1/payments/intent", models.PaymentIntentRequest{
		Amount:    1250000,
		WatchID:   "a",
		PaymentID: "p1",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res models.PaymentIntentResponse
	decode(t, w, &res)
	assert.Equal(t, "pi_test_secret_123", res.ClientSecret)

	doc, _ := s.store.Get(context.Background(), models.CollectionPayments, "p1")
	assert.Equal(t, "pi_test", doc.String("paymentIntentId"))
}

func TestCreateIntent_Validation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/payments/intent", map[string]interface{}{"amount": 0, "watchId": "a"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/payments/intent", map[string]interface{}{"amount": 100}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// A signed success event completes the payment, and the resulting status
// change drives the notification pipeline exactly once.
func TestWebhook_SucceededCompletesPayment(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)
	_, _ = s.store.Create(ctx, models.CollectionWatches, map[string]interface{}{"id": "a", "brand": "Rolex", "model": "Submariner", "price": 12000.0})
	_, _ = s.store.Create(ctx, models.CollectionPayments, map[string]interface{}{"id": "p1", "status": "pending", "watchId": "a", "amount": 1200000})

	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","metadata":{"paymentId":"p1"}}}}`)
	w := s.do(http.MethodPost, "/api/v1/webhooks/payments", payload, map[string]string{"Stripe-Signature": signature(payload)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	doc, _ := s.store.Get(ctx, models.CollectionPayments, "p1")
	assert.Equal(t, models.PaymentCompleted, doc.String("status"))
	assert.Equal(t, "pi_1", doc.String("paymentIntentId"))
}

func TestWebhook_Rejections(t *testing.T) {
	s := newTestServer(t)
	payload := []byte(`{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_1"}}}`)

	w := s.do(http.MethodPost, "/api/v1/webhooks/payments", payload, map[string]string{"Stripe-Signature": "t=1,v1=deadbeef"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/webhooks/payments", payload, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad := []byte(`{"id":"evt"}`)
	w = s.do(http.MethodPost, "/api/v1/webhooks/payments", bad, map[string]string{"Stripe-Signature": signature(bad)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_OversizedBody(t *testing.T) {
	s := newTestServer(t)
	payload := []byte(`{"type":"payment_intent.succeeded","pad":"` + strings.Repeat("x", 64<<10) + `"}`)

	w := s.do(http.MethodPost, "/api/v1/webhooks/payments", payload, map[string]string{"Stripe-Signature": signature(payload)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestWebhook_IgnoredEventIsAcknowledged(t *testing.T) {
	s := newTestServer(t)
	payload := []byte(`{"id":"evt_2","type":"charge.refunded","data":{"object":{"id":"ch_1"}}}`)

	w := s.do(http.MethodPost, "/api/v1/webhooks/payments", payload, map[string]string{"Stripe-Signature": signature(payload)})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received":true}`, w.Body.String())
}
