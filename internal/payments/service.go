package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"watch-storefront-backend/internal/docstore"
	"watch-storefront-backend/internal/models"
)

// ErrNoGateway is returned by CreateIntent when no provider key is configured.
var ErrNoGateway = errors.New("payment provider not configured")

type Service struct {
	store    docstore.Store
	gateway  IntentCreator
	currency string
	log      *logrus.Entry
}

func NewService(store docstore.Store, gateway IntentCreator, currency string, log *logrus.Entry) *Service {
	return &Service{
		store:    store,
		gateway:  gateway,
		currency: currency,
		log:      log,
	}
}

// CreateIntent asks the provider for an intent and, when the caller already
// wrote a pending payment document, links the intent to it.
func (s *Service) CreateIntent(ctx context.Context, body models.PaymentIntentRequest) (*Intent, error) {
	if s.gateway == nil {
		return nil, ErrNoGateway
	}
	req, err := NewIntentRequest(body, s.currency)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.PaymentID != "" {
		patch := map[string]interface{}{"paymentIntentId": intent.ID}
		if err := s.store.Update(ctx, models.CollectionPayments, req.PaymentID, patch); err != nil {
			// The intent is still usable; the webhook finds the document through metadata.
			s.log.WithError(err).WithField("payment_id", req.PaymentID).Warn("Failed to link payment intent")
		}
	}

	s.log.WithFields(logrus.Fields{
		"intent_id": intent.ID,
		"watch_id":  req.WatchID,
		"amount":    req.Amount,
	}).Info("Created payment intent")
	return intent, nil
}

// HandleEvent applies a verified provider event. It reports whether the event
// changed a payment document.
func (s *Service) HandleEvent(ctx context.Context, ev Event) (bool, error) {
	var patch map[string]interface{}
	switch ev.Type {
	case EventIntentSucceeded:
		patch = map[string]interface{}{
			"status":          models.PaymentCompleted,
			"paymentIntentId": ev.IntentID,
		}
	case EventIntentFailed:
		patch = map[string]interface{}{
			"status":          models.PaymentFailed,
			"paymentIntentId": ev.IntentID,
			"failureReason":   ev.FailureMessage,
		}
	default:
		s.log.WithField("type", ev.Type).Debug("Ignoring webhook event")
		return false, nil
	}

	if ev.PaymentID == "" {
		s.log.WithFields(logrus.Fields{
			"type":      ev.Type,
			"intent_id": ev.IntentID,
		}).Warn("Webhook event has no paymentId metadata")
		return false, nil
	}

	err := s.store.Update(ctx, models.CollectionPayments, ev.PaymentID, patch)
	if errors.Is(err, docstore.ErrNotFound) {
		s.log.WithField("payment_id", ev.PaymentID).Warn("Webhook references unknown payment")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to update payment %s: %w", ev.PaymentID, err)
	}

	s.log.WithFields(logrus.Fields{
		"type":       ev.Type,
		"payment_id": ev.PaymentID,
		"status":     patch["status"],
	}).Info("Applied webhook event")
	return true, nil
}
