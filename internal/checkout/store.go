package checkout

import (
	"context"
	"time"

	"watch-storefront-backend/internal/docstore"
	"watch-storefront-backend/internal/models"
)

// StoreOrders writes checkout documents directly to the document store.
type StoreOrders struct {
	Store docstore.Store
	Now   func() time.Time
}

func (s StoreOrders) now() string {
	if s.Now != nil {
		return s.Now().UTC().Format(time.RFC3339Nano)
	}
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func (s StoreOrders) WriteShipping(ctx context.Context, info models.ShippingInfoRequest) (string, error) {
	doc, err := s.Store.Create(ctx, models.CollectionShippingInfo, map[string]interface{}{
		"name":      info.Name,
		"email":     info.Email,
		"phone":     info.Phone,
		"address":   info.Address,
		"city":      info.City,
		"state":     info.State,
		"zip":       info.Zip,
		"country":   info.Country,
		"createdAt": s.now(),
	})
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

func (s StoreOrders) WritePendingPayment(ctx context.Context, p PendingPayment) (string, error) {
	doc, err := s.Store.Create(ctx, models.CollectionPayments, map[string]interface{}{
		"amount":         p.Amount,
		"currency":       p.Currency,
		"status":         models.PaymentPending,
		"watchId":        p.WatchID,
		"shippingInfoId": p.ShippingInfoID,
		"createdAt":      s.now(),
	})
	if err != nil {
		return "", err
	}

	_, err = s.Store.Create(ctx, models.CollectionOrders, map[string]interface{}{
		"id":        doc.ID,
		"watchId":   p.WatchID,
		"paymentId": doc.ID,
		"status":    models.PaymentPending,
		"createdAt": s.now(),
	})
	if err != nil {
		return doc.ID, err
	}
	return doc.ID, nil
}

func (s StoreOrders) MarkPaid(ctx context.Context, paymentID string) error {
	patch := map[string]interface{}{"status": models.PaymentCompleted}
	if err := s.Store.Update(ctx, models.CollectionPayments, paymentID, patch); err != nil {
		return err
	}
	return s.Store.Update(ctx, models.CollectionOrders, paymentID, patch)
}

// StoreInventory sets the hold flag on catalog documents.
type StoreInventory struct {
	Store docstore.Store
}

func (s StoreInventory) Hold(ctx context.Context, watchID string) error {
	return s.Store.Update(ctx, models.CollectionWatches, watchID, map[string]interface{}{"hold": true})
}

// IntentFunc adapts a function to IntentRequester.
type IntentFunc func(ctx context.Context, req models.PaymentIntentRequest) (string, error)

func (f IntentFunc) RequestIntent(ctx context.Context, req models.PaymentIntentRequest) (string, error) {
	return f(ctx, req)
}

// SheetFunc adapts a function to PaymentSheet.
type SheetFunc func(ctx context.Context, clientSecret string) error

func (f SheetFunc) Present(ctx context.Context, clientSecret string) error {
	return f(ctx, clientSecret)
}
