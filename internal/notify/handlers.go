package notify

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/sirupsen/logrus"
	"watch-storefront-backend/internal/mailer"
	"watch-storefront-backend/internal/models"
)

// Submission modes carried by the request family.
const (
	ModeTrade   = "trade"
	ModeSell    = "sell"
	ModeRequest = "request"
)

func (r *Router) handlePayment(ctx context.Context, doc *models.Document) Result {
	if doc.String("status") != models.PaymentCompleted {
		return Result{Kind: KindPayment, Outcome: OutcomeSkipped, Reason: "payment not completed"}
	}

	watchID := doc.String("watchId")
	watch := r.lookup(ctx, models.CollectionWatches, watchID)
	shipping := r.lookup(ctx, models.CollectionShippingInfo, doc.String("shippingInfoId"))

	if watch != nil {
		patch := map[string]interface{}{"hold": true, "sold": true}
		if err := r.store.Update(ctx, models.CollectionWatches, watch.ID, patch); err != nil {
			r.log.WithError(err).WithField("watch_id", watch.ID).Error("Failed to mark watch as sold")
		}
	}

	currency := doc.String("currency")
	amount := formatMinor(doc.Int64("amount"), currency)

	rows := []row{
		{"Payment ID", doc.ID},
		{"Amount", amount},
		{"Payment Intent", orNA(doc.String("paymentIntentId"))},
		{"Watch ID", orNA(watchID)},
		{"Customer", orNA(shipping.String("name"))},
		{"Email", orNA(shipping.String("email"))},
		{"Phone", orNA(shipping.String("phone"))},
		{"Address", orNA(shipping.String("address"))},
		{"City", orNA(shipping.String("city"))},
		{"State", orNA(shipping.String("state"))},
		{"Zip", orNA(shipping.String("zip"))},
		{"Country", orNA(shipping.String("country"))},
	}

	view := watchDocView(watch)
	subject := "Watch Sold: " + amount
	if view != nil {
		subject = "Watch Sold: " + view.Brand + " " + view.Model + " (" + amount + ")"
	}

	html, err := render("admin.html", adminEmail{
		Title:  "Payment received",
		Intro:  "A customer completed checkout. The watch has been marked on hold and sold.",
		Rows:   rows,
		Watch:  view,
		Footer: r.footer(),
	})
	if err != nil {
		return Result{Kind: KindPayment, Outcome: OutcomeFailed, Err: err}
	}

	// The admin summary is recorded separately so a replay after a failed
	// customer confirmation does not repeat it.
	customerAddr := r.replyTo(doc, shipping.String("email"))
	if !doc.Bool(models.FieldAdminEmailSent) {
		err := r.send(ctx, mailer.Message{
			To:      []string{r.cfg.AdminEmail},
			ReplyTo: customerAddr,
			Subject: subject,
			HTML:    html,
		})
		if err != nil {
			r.markFailed(ctx, doc, err)
			return Result{Kind: KindPayment, Outcome: OutcomeFailed, Err: fmt.Errorf("send %q: %w", subject, err)}
		}
		patch := map[string]interface{}{models.FieldAdminEmailSent: true}
		if err := r.store.Update(ctx, doc.Collection, doc.ID, patch); err != nil {
			r.log.WithError(err).WithField("payment_id", doc.ID).Error("Failed to record admin email")
		}
	}

	var msgs []mailer.Message
	if customerAddr != "" {
		confirmation, err := render("customer.html", customerEmail{
			Name:      shipping.String("name"),
			Amount:    amount,
			Watch:     view,
			Address:   shipping.String("address"),
			City:      shipping.String("city"),
			State:     shipping.String("state"),
			Zip:       shipping.String("zip"),
			Country:   shipping.String("country"),
			StoreName: r.cfg.StoreName,
			PaymentID: doc.ID,
		})
		if err != nil {
			return Result{Kind: KindPayment, Outcome: OutcomeFailed, Err: err}
		}
		msgs = append(msgs, mailer.Message{
			To:      []string{customerAddr},
			ReplyTo: r.cfg.AdminEmail,
			Subject: "Your order from " + r.cfg.StoreName,
			HTML:    confirmation,
		})
	}

	return r.deliver(ctx, KindPayment, doc, msgs...)
}

func (r *Router) handleShipping(ctx context.Context, doc *models.Document) Result {
	html, err := render("admin.html", adminEmail{
		Title: "Shipping information submitted",
		Rows: []row{
			{"Name", orNA(doc.String("name"))},
			{"Email", orNA(doc.String("email"))},
			{"Phone", orNA(doc.String("phone"))},
			{"Address", orNA(doc.String("address"))},
			{"City", orNA(doc.String("city"))},
			{"State", orNA(doc.String("state"))},
			{"Zip", orNA(doc.String("zip"))},
			{"Country", orNA(doc.String("country"))},
		},
		Footer: r.footer(),
	})
	if err != nil {
		return Result{Kind: KindShipping, Outcome: OutcomeFailed, Err: err}
	}

	return r.deliver(ctx, KindShipping, doc, mailer.Message{
		To:      []string{r.cfg.AdminEmail},
		ReplyTo: r.replyTo(doc, doc.String("email")),
		Subject: "New Shipping Information: " + orNA(doc.String("name")),
		HTML:    html,
	})
}

// replyTo returns addr when it parses as a mailbox. A mistyped customer
// address must not keep the operator from hearing about the submission.
func (r *Router) replyTo(doc *models.Document, addr string) string {
	if addr == "" {
		return ""
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{
			"collection": doc.Collection,
			"id":         doc.ID,
		}).Warn("Ignoring malformed customer email")
		return ""
	}
	return addr
}

func contactPhone(doc *models.Document) string {
	if phone := doc.String("phoneNumber"); phone != "" {
		return phone
	}
	return doc.String("phone")
}

func modeFor(doc *models.Document) string {
	if mode := strings.ToLower(doc.String("mode")); mode != "" {
		return mode
	}
	switch doc.Collection {
	case models.CollectionTradeRequests:
		return ModeTrade
	case models.CollectionSellRequests:
		return ModeSell
	}
	return ModeRequest
}

func (r *Router) handleRequest(ctx context.Context, doc *models.Document) Result {
	email := doc.String("email")
	phone := contactPhone(doc)
	if email == "" && phone == "" {
		r.log.WithFields(logrus.Fields{
			"collection": doc.Collection,
			"id":         doc.ID,
		}).Warn("Submission has no contact details, not notifying")
		return Result{Kind: KindRequest, Outcome: OutcomeSkipped, Reason: "no contact details"}
	}

	mode := modeFor(doc)
	rows := []row{
		{"Name", orNA(doc.String("name"))},
		{"Email", orNA(email)},
		{"Phone", orNA(phone)},
	}

	var title, subject string
	switch mode {
	case ModeTrade, ModeSell:
		if mode == ModeTrade {
			title, subject = "Trade-in request", "New Trade-In Request"
		} else {
			title, subject = "Sell request", "New Sell Request"
		}
		rows = append(rows,
			row{"Brand", orNA(doc.String("brand"))},
			row{"Model", orNA(doc.String("model"))},
			row{"Reference", orNA(doc.String("referenceNumber"))},
			row{"Year", orNA(doc.String("year"))},
			row{"Condition", orNA(doc.String("condition"))},
			row{"Box", yesNo(doc.Bool("box"))},
			row{"Papers", yesNo(doc.Bool("papers"))},
		)
		if mode == ModeSell {
			rows = append(rows, row{"Asking Price", orNA(doc.String("askingPrice"))})
		}
	default:
		title, subject = "Watch inquiry", "New Watch Inquiry"
	}

	watch := snapshotView(doc.Map("watch"))
	if watch != nil {
		subject += ": " + watch.Brand + " " + watch.Model
	}

	html, err := render("admin.html", adminEmail{
		Title:    title,
		Rows:     rows,
		Watch:    watch,
		Message:  doc.String("message"),
		PhotoURL: doc.String("photoUrl"),
		Footer:   r.footer(),
	})
	if err != nil {
		return Result{Kind: KindRequest, Outcome: OutcomeFailed, Err: err}
	}

	return r.deliver(ctx, KindRequest, doc, mailer.Message{
		To:      []string{r.cfg.AdminEmail},
		ReplyTo: r.replyTo(doc, email),
		Subject: subject,
		HTML:    html,
	})
}

func (r *Router) handleMessage(ctx context.Context, doc *models.Document) Result {
	name := doc.String("name")
	if name == "" {
		name = "Unknown"
	}

	html, err := render("admin.html", adminEmail{
		Title: "Contact message",
		Rows: []row{
			{"Name", name},
			{"Email", orNA(doc.String("email"))},
			{"Phone", orNA(contactPhone(doc))},
		},
		Message: doc.String("message"),
		Footer:  r.footer(),
	})
	if err != nil {
		return Result{Kind: KindMessage, Outcome: OutcomeFailed, Err: err}
	}

	return r.deliver(ctx, KindMessage, doc, mailer.Message{
		To:      []string{r.cfg.AdminEmail},
		ReplyTo: r.replyTo(doc, doc.String("email")),
		Subject: "New Contact Message from " + name,
		HTML:    html,
	})
}
