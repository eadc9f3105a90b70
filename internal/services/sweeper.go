package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"watch-storefront-backend/internal/docstore"
	"watch-storefront-backend/internal/metrics"
	"watch-storefront-backend/internal/models"
)

// Sweeper reports pending payments left behind by abandoned checkouts. It never
// changes documents.
type Sweeper struct {
	store    docstore.Store
	staleAge time.Duration
	log      *logrus.Entry
	now      func() time.Time
}

func NewSweeper(store docstore.Store, staleAge time.Duration, log *logrus.Entry) *Sweeper {
	return &Sweeper{store: store, staleAge: staleAge, log: log, now: time.Now}
}

func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

func (s *Sweeper) Sweep(ctx context.Context) ([]models.Document, error) {
	cutoff := s.now().Add(-s.staleAge)
	stale, err := s.store.ListByStatus(ctx, models.CollectionPayments, models.PaymentPending, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending payments: %w", err)
	}

	metrics.SetStalePayments(len(stale))
	for _, doc := range stale {
		s.log.WithFields(logrus.Fields{
			"payment_id": doc.ID,
			"watch_id":   doc.String("watchId"),
			"created_at": doc.CreatedAt,
		}).Warn("Pending payment never completed")
	}
	return stale, nil
}

// Start runs Sweep on schedule until the returned cron is stopped.
func (s *Sweeper) Start(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.Sweep(ctx); err != nil {
			s.log.WithError(err).Error("Payment sweep failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
