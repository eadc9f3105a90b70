package payments

import (
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/tidwall/gjson"
)

var (
	ErrSignature        = errors.New("invalid webhook signature")
	ErrUnsignedRejected = errors.New("webhook secret not configured and unsigned payloads are not allowed")
	ErrMalformedEvent   = errors.New("malformed webhook event")
)

// Provider event types the service acts on.
const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
)

// VerifyWebhook checks the provider signature header. Without a secret the
// payload is only accepted when allowUnsigned is set.
func VerifyWebhook(payload []byte, header, secret string, allowUnsigned bool) error {
	if secret == "" {
		if allowUnsigned {
			return nil
		}
		return ErrUnsignedRejected
	}
	if err := webhook.ValidatePayload(payload, header, secret); err != nil {
		return fmt.Errorf("%w: %v", ErrSignature, err)
	}
	return nil
}

// Event is the subset of a provider event the service needs.
type Event struct {
	ID             string
	Type           string
	IntentID       string
	PaymentID      string
	WatchID        string
	Amount         int64
	FailureMessage string
}

func ParseEvent(payload []byte) (Event, error) {
	if !gjson.ValidBytes(payload) {
		return Event{}, ErrMalformedEvent
	}
	root := gjson.ParseBytes(payload)
	ev := Event{
		ID:   root.Get("id").String(),
		Type: root.Get("type").String(),
	}
	if ev.Type == "" {
		return Event{}, fmt.Errorf("%w: missing type", ErrMalformedEvent)
	}

	obj := root.Get("data.object")
	ev.IntentID = obj.Get("id").String()
	ev.PaymentID = obj.Get("metadata.paymentId").String()
	ev.WatchID = obj.Get("metadata.watchId").String()
	ev.Amount = obj.Get("amount").Int()
	ev.FailureMessage = obj.Get("last_payment_error.message").String()
	return ev, nil
}
