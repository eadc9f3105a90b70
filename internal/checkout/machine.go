// Package checkout drives the customer-side purchase flow: shipping details,
// payment intent, payment sheet and the post-payment inventory hold.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"watch-storefront-backend/internal/models"
)

type State string

const (
	StateIdle               State = "idle"
	StateCollectingShipping State = "collecting-shipping"
	StateSubmittingIntent   State = "submitting-intent"
	StatePresentingSheet    State = "presenting-sheet"
	StateSucceeded          State = "succeeded"
	StateCanceled           State = "canceled"
	StateFailed             State = "failed"
)

var (
	// ErrCanceled is returned by a PaymentSheet when the customer dismisses it.
	ErrCanceled = errors.New("payment canceled")
	ErrBusy     = errors.New("checkout already in progress")
)

// OrderWriter persists the documents checkout creates.
type OrderWriter interface {
	WriteShipping(ctx context.Context, info models.ShippingInfoRequest) (string, error)
	WritePendingPayment(ctx context.Context, p PendingPayment) (string, error)
	MarkPaid(ctx context.Context, paymentID string) error
}

type IntentRequester interface {
	RequestIntent(ctx context.Context, req models.PaymentIntentRequest) (clientSecret string, err error)
}

type PaymentSheet interface {
	Present(ctx context.Context, clientSecret string) error
}

type InventoryHolder interface {
	Hold(ctx context.Context, watchID string) error
}

type PendingPayment struct {
	WatchID        string
	ShippingInfoID string
	Amount         int64
	Currency       string
}

type Order struct {
	Watch       models.WatchSnapshot
	Amount      int64
	Currency    string
	Description string
	Shipping    models.ShippingInfoRequest
}

type Receipt struct {
	PaymentID      string
	ShippingInfoID string
	ClientSecret   string
}

type Transition struct {
	From State
	To   State
	At   time.Time
	Err  string
}

type Machine struct {
	orders    OrderWriter
	intents   IntentRequester
	sheet     PaymentSheet
	inventory InventoryHolder
	now       func() time.Time

	mu      sync.Mutex
	state   State
	history []Transition
}

func NewMachine(orders OrderWriter, intents IntentRequester, sheet PaymentSheet, inventory InventoryHolder) *Machine {
	return &Machine{
		orders:    orders,
		intents:   intents,
		sheet:     sheet,
		inventory: inventory,
		now:       time.Now,
		state:     StateIdle,
	}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) History() []Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Transition(nil), m.history...)
}

func (m *Machine) move(to State, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := Transition{From: m.state, To: to, At: m.now()}
	if err != nil {
		t.Err = err.Error()
	}
	m.history = append(m.history, t)
	m.state = to
}

// Begin opens the shipping form. A finished flow may be restarted.
func (m *Machine) Begin() error {
	switch m.State() {
	case StateIdle, StateSucceeded, StateCanceled, StateFailed:
		m.move(StateCollectingShipping, nil)
		return nil
	}
	return ErrBusy
}

// Submit runs the purchase from the shipping form onwards. Validation
// failures keep the machine collecting shipping details; a customer cancel
// returns it to idle and leaves the pending payment in place. The steps
// are not transactional.
func (m *Machine) Submit(ctx context.Context, order Order) (*Receipt, error) {
	if s := m.State(); s != StateCollectingShipping {
		return nil, fmt.Errorf("cannot submit from state %s", s)
	}
	if err := ValidateShipping(order.Shipping); err != nil {
		return nil, err
	}

	m.move(StateSubmittingIntent, nil)
	receipt := &Receipt{}

	shippingID, err := m.orders.WriteShipping(ctx, order.Shipping)
	if err != nil {
		return nil, m.fail(fmt.Errorf("save shipping info: %w", err))
	}
	receipt.ShippingInfoID = shippingID

	paymentID, err := m.orders.WritePendingPayment(ctx, PendingPayment{
		WatchID:        order.Watch.ID,
		ShippingInfoID: shippingID,
		Amount:         order.Amount,
		Currency:       order.Currency,
	})
	if err != nil {
		return receipt, m.fail(fmt.Errorf("save pending payment: %w", err))
	}
	receipt.PaymentID = paymentID

	shipping := order.Shipping
	secret, err := m.intents.RequestIntent(ctx, models.PaymentIntentRequest{
		Amount:        order.Amount,
		Currency:      order.Currency,
		WatchID:       order.Watch.ID,
		Description:   order.Description,
		Shipping:      &shipping,
		CustomerEmail: order.Shipping.Email,
		PaymentID:     paymentID,
	})
	if err != nil {
		return receipt, m.fail(fmt.Errorf("request payment intent: %w", err))
	}
	receipt.ClientSecret = secret

	m.move(StatePresentingSheet, nil)
	if err := m.sheet.Present(ctx, secret); err != nil {
		if errors.Is(err, ErrCanceled) {
			m.move(StateCanceled, err)
			m.move(StateIdle, nil)
			return receipt, ErrCanceled
		}
		return receipt, m.fail(fmt.Errorf("present payment sheet: %w", err))
	}

	if err := m.orders.MarkPaid(ctx, paymentID); err != nil {
		return receipt, m.fail(fmt.Errorf("mark payment completed: %w", err))
	}
	if err := m.inventory.Hold(ctx, order.Watch.ID); err != nil {
		return receipt, m.fail(fmt.Errorf("hold watch: %w", err))
	}

	m.move(StateSucceeded, nil)
	return receipt, nil
}

func (m *Machine) fail(err error) error {
	m.move(StateFailed, err)
	return err
}
