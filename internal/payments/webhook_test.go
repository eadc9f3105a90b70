package payments_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"watch-storefront-backend/internal/payments"
)

const succeededPayload = `{
  "id": "evt_1",
  "type": "payment_intent.succeeded",
  "data": {"object": {
    "id": "pi_123",
    "amount": 1250000,
    "metadata": {"paymentId": "p1", "watchId": "w1"}
  }}
}`

func sign(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.", ts.Unix())))
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyWebhook_ValidSignature(t *testing.T) {
	payload := []byte(succeededPayload)
	header := sign(payload, "whsec_test", time.Now())

	assert.NoError(t, payments.VerifyWebhook(payload, header, "whsec_test", false))
}

func TestVerifyWebhook_WrongSecret(t *testing.T) {
	payload := []byte(succeededPayload)
	header := sign(payload, "whsec_other", time.Now())

	err := payments.VerifyWebhook(payload, header, "whsec_test", false)
	assert.ErrorIs(t, err, payments.ErrSignature)
}

func TestVerifyWebhook_TamperedBody(t *testing.T) {
	payload := []byte(succeededPayload)
	header := sign(payload, "whsec_test", time.Now())

	err := payments.VerifyWebhook([]byte(`{"type":"payment_intent.succeeded"}`), header, "whsec_test", false)
	assert.ErrorIs(t, err, payments.ErrSignature)
}

func TestVerifyWebhook_UnsignedRequiresOptIn(t *testing.T) {
	payload := []byte(succeededPayload)

	assert.ErrorIs(t, payments.VerifyWebhook(payload, "", "", false), payments.ErrUnsignedRejected)
	assert.NoError(t, payments.VerifyWebhook(payload, "", "", true))
}

func TestParseEvent(t *testing.T) {
	ev, err := payments.ParseEvent([]byte(succeededPayload))
	require.NoError(t, err)

	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, payments.EventIntentSucceeded, ev.Type)
	assert.Equal(t, "pi_123", ev.IntentID)
	assert.Equal(t, "p1", ev.PaymentID)
	assert.Equal(t, "w1", ev.WatchID)
	assert.Equal(t, int64(1250000), ev.Amount)
}

func TestParseEvent_FailureMessage(t *testing.T) {
	ev, err := payments.ParseEvent([]byte(`{"type":"payment_intent.payment_failed","data":{"object":{"id":"pi_9","last_payment_error":{"message":"Your card was declined."}}}}`))
	require.NoError(t, err)
	assert.Equal(t, "Your card was declined.", ev.FailureMessage)
}

func TestParseEvent_Malformed(t *testing.T) {
	_, err := payments.ParseEvent([]byte(`{"type":`))
	assert.ErrorIs(t, err, payments.ErrMalformedEvent)

	_, err = payments.ParseEvent([]byte(`{"id":"evt"}`))
	assert.ErrorIs(t, err, payments.ErrMalformedEvent)
}
