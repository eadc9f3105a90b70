// Package notify turns newly created submissions and completed payments into
// operator email and records the delivery outcome on the source document.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"watch-storefront-backend/internal/docstore"
	"watch-storefront-backend/internal/mailer"
	"watch-storefront-backend/internal/metrics"
	"watch-storefront-backend/internal/models"
)

type Kind string

const (
	KindNone     Kind = ""
	KindPayment  Kind = "payment"
	KindShipping Kind = "shipping"
	KindRequest  Kind = "request"
	KindMessage  Kind = "message"
)

// KindFor maps a collection to its notification handler.
func KindFor(collection string) Kind {
	switch collection {
	case models.CollectionPayments:
		return KindPayment
	case models.CollectionShippingInfo:
		return KindShipping
	case models.CollectionTradeRequests, models.CollectionSellRequests, models.CollectionRequests:
		return KindRequest
	case models.CollectionMessages:
		return KindMessage
	}
	return KindNone
}

type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomeSkipped Outcome = "skipped"
	OutcomeIgnored Outcome = "ignored"
	OutcomeFailed  Outcome = "failed"
)

// Result describes what happened to one change event.
type Result struct {
	Kind       Kind
	Collection string
	DocumentID string
	Outcome    Outcome
	Reason     string
	Err        error
}

type Config struct {
	AdminEmail string
	StoreName  string
}

type Router struct {
	store  docstore.Store
	mailer mailer.Mailer
	cfg    Config
	log    *logrus.Entry
	now    func() time.Time
}

func NewRouter(store docstore.Store, m mailer.Mailer, cfg Config, log *logrus.Entry) *Router {
	if cfg.StoreName == "" {
		cfg.StoreName = "The Watch Store"
	}
	return &Router{
		store:  store,
		mailer: m,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// WithClock overrides the timestamp source used for emailSentAt and emailErrorAt.
func (r *Router) WithClock(now func() time.Time) *Router {
	r.now = now
	return r
}

// Route handles a single change event. It never returns an error; failures are
// reported in the Result and, where possible, written onto the document.
func (r *Router) Route(ctx context.Context, ev models.ChangeEvent) Result {
	res := r.route(ctx, ev)
	res.Collection = ev.Collection
	res.DocumentID = ev.DocumentID

	kind := string(res.Kind)
	if kind == "" {
		kind = "none"
	}
	metrics.RecordNotification(kind, string(res.Outcome))
	return res
}

func (r *Router) route(ctx context.Context, ev models.ChangeEvent) Result {
	kind := KindFor(ev.Collection)
	if kind == KindNone {
		return Result{Outcome: OutcomeIgnored, Reason: "unrouted collection"}
	}
	// Only payments are re-examined on update.
	if ev.Operation != models.OperationInsert && kind != KindPayment {
		return Result{Kind: kind, Outcome: OutcomeIgnored, Reason: "not an insert"}
	}

	doc, err := r.store.Get(ctx, ev.Collection, ev.DocumentID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return Result{Kind: kind, Outcome: OutcomeIgnored, Reason: "document no longer exists"}
		}
		return Result{Kind: kind, Outcome: OutcomeFailed, Err: fmt.Errorf("load document: %w", err)}
	}

	if doc.Bool(models.FieldEmailSent) {
		return Result{Kind: kind, Outcome: OutcomeSkipped, Reason: "email already sent"}
	}

	switch kind {
	case KindPayment:
		return r.handlePayment(ctx, doc)
	case KindShipping:
		return r.handleShipping(ctx, doc)
	case KindRequest:
		return r.handleRequest(ctx, doc)
	default:
		return r.handleMessage(ctx, doc)
	}
}

func (r *Router) send(ctx context.Context, msg mailer.Message) error {
	start := time.Now()
	err := r.mailer.Send(ctx, msg)
	metrics.RecordEmail(time.Since(start), err)
	return err
}

// deliver sends msg and records the outcome on doc.
func (r *Router) deliver(ctx context.Context, kind Kind, doc *models.Document, msgs ...mailer.Message) Result {
	for _, msg := range msgs {
		if err := r.send(ctx, msg); err != nil {
			r.markFailed(ctx, doc, err)
			return Result{Kind: kind, Outcome: OutcomeFailed, Err: fmt.Errorf("send %q: %w", msg.Subject, err)}
		}
	}
	r.markSent(ctx, doc)
	return Result{Kind: kind, Outcome: OutcomeSent}
}

func (r *Router) markSent(ctx context.Context, doc *models.Document) {
	patch := map[string]interface{}{
		models.FieldEmailSent:   true,
		models.FieldEmailSentAt: r.now().UTC().Format(time.RFC3339Nano),
	}
	if err := r.store.Update(ctx, doc.Collection, doc.ID, patch); err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{
			"collection": doc.Collection,
			"id":         doc.ID,
		}).Error("Failed to mark document as emailed")
	}
}

func (r *Router) markFailed(ctx context.Context, doc *models.Document, cause error) {
	patch := map[string]interface{}{
		models.FieldEmailError:   cause.Error(),
		models.FieldEmailErrorAt: r.now().UTC().Format(time.RFC3339Nano),
	}
	if err := r.store.Update(ctx, doc.Collection, doc.ID, patch); err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{
			"collection": doc.Collection,
			"id":         doc.ID,
		}).Error("Failed to record email error")
	}
}

func (r *Router) footer() string {
	return "Sent automatically by " + r.cfg.StoreName + "."
}

// lookup loads an optional referenced document; missing references are logged and tolerated.
func (r *Router) lookup(ctx context.Context, collection, id string) *models.Document {
	if id == "" {
		return nil
	}
	doc, err := r.store.Get(ctx, collection, id)
	if err != nil {
		r.log.WithError(err).WithFields(logrus.Fields{
			"collection": collection,
			"id":         id,
		}).Warn("Referenced document unavailable")
		return nil
	}
	return doc
}
