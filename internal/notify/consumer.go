package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const routeTimeout = 2 * time.Minute

// Consumer drains a change feed into a Router with bounded concurrency.
type Consumer struct {
	feed    ChangeFeed
	router  *Router
	workers int
	log     *logrus.Entry
}

func NewConsumer(feed ChangeFeed, router *Router, workers int, log *logrus.Entry) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{
		feed:    feed,
		router:  router,
		workers: workers,
		log:     log,
	}
}

// Run blocks until ctx is cancelled or the feed closes, then waits for
// in-flight events to finish.
func (c *Consumer) Run(ctx context.Context) error {
	events, err := c.feed.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to change feed: %w", err)
	}

	sem := make(chan struct{}, c.workers)
	var wg sync.WaitGroup
	defer wg.Wait()

	c.log.WithField("workers", c.workers).Info("Notification consumer started")

	for {
		select {
		case <-ctx.Done():
			c.log.Info("Notification consumer stopping")
			return nil
		case ev, ok := <-events:
			if !ok {
				c.log.Warn("Change feed closed")
				return nil
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return nil
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-sem }()

				// In-flight sends finish even when shutdown begins.
				routeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), routeTimeout)
				defer cancel()

				c.logResult(c.router.Route(routeCtx, ev))
			}()
		}
	}
}

func (c *Consumer) logResult(res Result) {
	entry := c.log.WithFields(logrus.Fields{
		"kind":       string(res.Kind),
		"collection": res.Collection,
		"id":         res.DocumentID,
		"outcome":    string(res.Outcome),
	})
	if res.Reason != "" {
		entry = entry.WithField("reason", res.Reason)
	}

	switch res.Outcome {
	case OutcomeFailed:
		entry.WithError(res.Err).Error("Notification failed")
	case OutcomeSent:
		entry.Info("Notification sent")
	case OutcomeSkipped:
		entry.Info("Notification skipped")
	default:
		entry.Debug("Notification not sent")
	}
}
