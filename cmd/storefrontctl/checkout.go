package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"watch-storefront-backend/internal/app"
	"watch-storefront-backend/internal/catalog"
	"watch-storefront-backend/internal/checkout"
	"watch-storefront-backend/internal/models"
)

type checkoutOptions struct {
	watchID       string
	paymentMethod string
	shipping      models.ShippingInfoRequest
}

// newCheckoutCmd buys a watch end to end, confirming the intent server-side
// in place of the mobile payment sheet. Meant for provider test mode.
func newCheckoutCmd() *cobra.Command {
	opts := &checkoutOptions{}
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Run a test purchase through the checkout flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				return runCheckout(cmd, a, opts)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.watchID, "watch", "", "watch id to buy")
	f.StringVar(&opts.paymentMethod, "payment-method", "pm_card_visa", "provider payment method used to confirm")
	f.StringVar(&opts.shipping.Name, "name", "", "customer name")
	f.StringVar(&opts.shipping.Email, "email", "", "customer email")
	f.StringVar(&opts.shipping.Phone, "phone", "", "customer phone")
	f.StringVar(&opts.shipping.Address, "address", "", "street address")
	f.StringVar(&opts.shipping.City, "city", "", "city")
	f.StringVar(&opts.shipping.State, "state", "", "state")
	f.StringVar(&opts.shipping.Zip, "zip", "", "ZIP code")
	f.StringVar(&opts.shipping.Country, "country", "US", "country")
	_ = cmd.MarkFlagRequired("watch")
	return cmd
}

func runCheckout(cmd *cobra.Command, a *app.App, opts *checkoutOptions) error {
	ctx := cmd.Context()
	if a.Gateway == nil {
		return fmt.Errorf("PAYMENT_SECRET_KEY is required")
	}

	doc, err := a.Store.Get(ctx, models.CollectionWatches, opts.watchID)
	if err != nil {
		return fmt.Errorf("load watch %s: %w", opts.watchID, err)
	}
	item := catalog.Normalize(catalog.RawRecord{ID: doc.ID, Data: doc.Data}, time.Now())
	if item.Price <= 0 {
		return fmt.Errorf("watch %s has no usable price", opts.watchID)
	}
	price := decimal.NewFromFloat(item.Price)
	watch := models.WatchSnapshot{ID: item.ID, Brand: item.Brand, Model: item.Model, Price: item.Price}

	intents := checkout.IntentFunc(func(ctx context.Context, req models.PaymentIntentRequest) (string, error) {
		intent, err := a.Payments.CreateIntent(ctx, req)
		if err != nil {
			return "", err
		}
		return intent.ClientSecret, nil
	})
	sheet := checkout.SheetFunc(func(ctx context.Context, clientSecret string) error {
		intentID, _, ok := strings.Cut(clientSecret, "_secret_")
		if !ok {
			return fmt.Errorf("unexpected client secret format")
		}
		intent, err := a.Gateway.ConfirmIntent(ctx, intentID, opts.paymentMethod)
		if err != nil {
			return err
		}
		if intent.Status != "succeeded" {
			return fmt.Errorf("payment intent %s is %s", intent.ID, intent.Status)
		}
		return nil
	})

	machine := checkout.NewMachine(checkout.StoreOrders{Store: a.Store}, intents, sheet, checkout.StoreInventory{Store: a.Store})
	if err := machine.Begin(); err != nil {
		return err
	}

	receipt, err := machine.Submit(ctx, checkout.Order{
		Watch:       watch,
		Amount:      price.Shift(2).Round(0).IntPart(),
		Currency:    a.Config.Payments.Currency,
		Description: strings.TrimSpace(watch.Brand + " " + watch.Model),
		Shipping:    opts.shipping,
	})
	for _, t := range machine.History() {
		line := fmt.Sprintf("%s -> %s", t.From, t.To)
		if t.Err != "" {
			line += " (" + t.Err + ")"
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "payment %s completed, shipping %s\n", receipt.PaymentID, receipt.ShippingInfoID)
	return nil
}
