package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"watch-storefront-backend/internal/checkout"
	"watch-storefront-backend/internal/docstore"
	"watch-storefront-backend/internal/models"
)

type fixture struct {
	store     *docstore.Memory
	machine   *checkout.Machine
	requests  []models.PaymentIntentRequest
	sheetErr  error
	intentErr error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: docstore.NewMemory()}
	_, err := f.store.Create(context.Background(), models.CollectionWatches, map[string]interface{}{
		"id": "w1", "brand": "Rolex", "model": "Submariner", "price": 12500.0,
	})
	require.NoError(t, err)

	intents := checkout.IntentFunc(func(ctx context.Context, req models.PaymentIntentRequest) (string, error) {
		f.requests = append(f.requests, req)
		if f.intentErr != nil {
			return "", f.intentErr
		}
		return "pi_1_secret_x", nil
	})
	sheet := checkout.SheetFunc(func(ctx context.Context, secret string) error {
		return f.sheetErr
	})

	f.machine = checkout.NewMachine(
		checkout.StoreOrders{Store: f.store},
		intents,
		sheet,
		checkout.StoreInventory{Store: f.store},
	)
	return f
}

func order() checkout.Order {
	return checkout.Order{
		Watch:    models.WatchSnapshot{ID: "w1", Brand: "Rolex", Model: "Submariner", Price: 12500},
		Amount:   1250000,
		Currency: "usd",
		Shipping: validShipping(),
	}
}

func states(history []checkout.Transition) []checkout.State {
	out := make([]checkout.State, len(history))
	for i, t := range history {
		out[i] = t.To
	}
	return out
}

func TestMachine_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.machine.Begin())
	receipt, err := f.machine.Submit(ctx, order())
	require.NoError(t, err)

	assert.Equal(t, checkout.StateSucceeded, f.machine.State())
	assert.Equal(t, []checkout.State{
		checkout.StateCollectingShipping,
		checkout.StateSubmittingIntent,
		checkout.StatePresentingSheet,
		checkout.StateSucceeded,
	}, states(f.machine.History()))

	require.Len(t, f.requests, 1)
	assert.Equal(t, receipt.PaymentID, f.requests[0].PaymentID)
	assert.Equal(t, "cara@example.com", f.requests[0].CustomerEmail)

	payment, err := f.store.Get(ctx, models.CollectionPayments, receipt.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, payment.String("status"))
	assert.Equal(t, receipt.ShippingInfoID, payment.String("shippingInfoId"))

	orderDoc, err := f.store.Get(ctx, models.CollectionOrders, receipt.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, orderDoc.String("status"))

	watch, _ := f.store.Get(ctx, models.CollectionWatches, "w1")
	assert.True(t, watch.Bool("hold"))
}

func TestMachine_InvalidShippingStaysCollecting(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.machine.Begin())

	o := order()
	o.Shipping.Email = "not-an-email"
	_, err := f.machine.Submit(context.Background(), o)

	var verr checkout.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, checkout.StateCollectingShipping, f.machine.State())
	assert.Empty(t, f.requests)

	payments, _ := f.store.List(context.Background(), models.CollectionPayments)
	assert.Empty(t, payments)
}

func TestMachine_CancelLeavesPendingPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.sheetErr = checkout.ErrCanceled

	require.NoError(t, f.machine.Begin())
	receipt, err := f.machine.Submit(ctx, order())
	assert.ErrorIs(t, err, checkout.ErrCanceled)
	assert.Equal(t, checkout.StateIdle, f.machine.State())

	history := states(f.machine.History())
	assert.Equal(t, checkout.StateCanceled, history[len(history)-2])

	payment, err := f.store.Get(ctx, models.CollectionPayments, receipt.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, payment.String("status"))

	watch, _ := f.store.Get(ctx, models.CollectionWatches, "w1")
	assert.False(t, watch.Bool("hold"))
}

func TestMachine_SheetFailure(t *testing.T) {
	f := newFixture(t)
	f.sheetErr = errors.New("card declined")

	require.NoError(t, f.machine.Begin())
	_, err := f.machine.Submit(context.Background(), order())
	require.Error(t, err)
	assert.NotErrorIs(t, err, checkout.ErrCanceled)
	assert.Equal(t, checkout.StateFailed, f.machine.State())

	history := f.machine.History()
	assert.Contains(t, history[len(history)-1].Err, "card declined")
}

func TestMachine_IntentFailure(t *testing.T) {
	f := newFixture(t)
	f.intentErr = errors.New("backend unavailable")

	require.NoError(t, f.machine.Begin())
	receipt, err := f.machine.Submit(context.Background(), order())
	require.Error(t, err)
	assert.Equal(t, checkout.StateFailed, f.machine.State())
	assert.NotEmpty(t, receipt.PaymentID)
}

func TestMachine_HoldFailureAfterPayment(t *testing.T) {
	f := newFixture(t)
	o := order()
	o.Watch.ID = "missing"

	require.NoError(t, f.machine.Begin())
	receipt, err := f.machine.Submit(context.Background(), o)
	require.Error(t, err)
	assert.Equal(t, checkout.StateFailed, f.machine.State())

	// Payment stays completed; there is no compensation.
	payment, _ := f.store.Get(context.Background(), models.CollectionPayments, receipt.PaymentID)
	assert.Equal(t, models.PaymentCompleted, payment.String("status"))
}

func TestMachine_Guards(t *testing.T) {
	f := newFixture(t)

	_, err := f.machine.Submit(context.Background(), order())
	assert.Error(t, err)

	require.NoError(t, f.machine.Begin())
	assert.ErrorIs(t, f.machine.Begin(), checkout.ErrBusy)
}
