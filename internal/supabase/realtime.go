package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"watch-storefront-backend/internal/models"
)

// ChangeChannel is the NOTIFY channel written by the documents trigger.
const ChangeChannel = "document_changes"

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	listenerPingInterval = 90 * time.Second
)

// ChangeFeed streams document change events over Postgres LISTEN/NOTIFY.
type ChangeFeed struct {
	connString string
	log        *logrus.Entry
}

func NewChangeFeed(connString string, log *logrus.Entry) *ChangeFeed {
	return &ChangeFeed{connString: connString, log: log}
}

func (f *ChangeFeed) Subscribe(ctx context.Context) (<-chan models.ChangeEvent, error) {
	listener := pq.NewListener(f.connString, minReconnectInterval, maxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				f.log.WithError(err).WithField("event", int(ev)).Warn("Change feed listener event")
			}
		})

	if err := listener.Listen(ChangeChannel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", ChangeChannel, err)
	}

	out := make(chan models.ChangeEvent, 64)
	go f.pump(ctx, listener, out)
	return out, nil
}

func (f *ChangeFeed) pump(ctx context.Context, listener *pq.Listener, out chan<- models.ChangeEvent) {
	defer close(out)
	defer listener.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-listener.Notify:
			if n == nil {
				// Reconnected; anything sent while disconnected is gone.
				f.log.Warn("Change feed reconnected, notifications may have been missed")
				continue
			}
			ev, err := ParseChangePayload(n.Extra)
			if err != nil {
				f.log.WithError(err).WithField("payload", n.Extra).Warn("Dropping malformed change notification")
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		case <-time.After(listenerPingInterval):
			go func() {
				if err := listener.Ping(); err != nil {
					f.log.WithError(err).Warn("Change feed ping failed")
				}
			}()
		}
	}
}

// ParseChangePayload decodes the JSON payload emitted by notify_document_change().
func ParseChangePayload(payload string) (models.ChangeEvent, error) {
	var ev models.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ev, fmt.Errorf("decode change payload: %w", err)
	}
	if ev.Collection == "" || ev.DocumentID == "" {
		return ev, fmt.Errorf("change payload missing collection or id")
	}
	if ev.Operation == "" {
		ev.Operation = models.OperationInsert
	}
	return ev, nil
}
