package notify

import (
	"context"

	"watch-storefront-backend/internal/models"
)

// ChangeFeed delivers document change events until ctx is cancelled.
type ChangeFeed interface {
	Subscribe(ctx context.Context) (<-chan models.ChangeEvent, error)
}
