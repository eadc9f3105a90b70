// Package payments creates payment intents with the provider and applies
// its webhook events to payment documents.
package payments

import (
	"context"
	"errors"
	"strings"

	"watch-storefront-backend/internal/models"
)

var (
	ErrInvalidAmount = errors.New("amount must be a positive number of minor units")
	ErrMissingWatch  = errors.New("watchId is required")
)

type Address struct {
	Name    string
	Phone   string
	Line1   string
	City    string
	State   string
	Zip     string
	Country string
}

type IntentRequest struct {
	Amount        int64
	Currency      string
	WatchID       string
	PaymentID     string
	Description   string
	CustomerEmail string
	Shipping      *Address
}

type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// IntentCreator is the provider side of checkout.
type IntentCreator interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

// NewIntentRequest validates an HTTP body and fills defaults.
func NewIntentRequest(body models.PaymentIntentRequest, defaultCurrency string) (IntentRequest, error) {
	if body.Amount <= 0 {
		return IntentRequest{}, ErrInvalidAmount
	}
	if strings.TrimSpace(body.WatchID) == "" {
		return IntentRequest{}, ErrMissingWatch
	}

	currency := strings.ToLower(strings.TrimSpace(body.Currency))
	if currency == "" {
		currency = strings.ToLower(defaultCurrency)
	}
	if currency == "" {
		currency = "usd"
	}

	req := IntentRequest{
		Amount:        body.Amount,
		Currency:      currency,
		WatchID:       strings.TrimSpace(body.WatchID),
		PaymentID:     strings.TrimSpace(body.PaymentID),
		Description:   body.Description,
		CustomerEmail: strings.TrimSpace(body.CustomerEmail),
	}
	if s := body.Shipping; s != nil {
		req.Shipping = &Address{
			Name:    s.Name,
			Phone:   s.Phone,
			Line1:   s.Address,
			City:    s.City,
			State:   s.State,
			Zip:     s.Zip,
			Country: s.Country,
		}
		if req.CustomerEmail == "" {
			req.CustomerEmail = strings.TrimSpace(s.Email)
		}
	}
	return req, nil
}
