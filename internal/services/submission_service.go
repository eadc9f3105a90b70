package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"watch-storefront-backend/internal/docstore"
	"watch-storefront-backend/internal/models"
)

var ErrInvalidSubmission = errors.New("invalid submission")

// SubmissionService writes customer submissions. Writing is all it does; the
// notification pipeline picks the documents up from the change feed.
type SubmissionService struct {
	store docstore.Store
	now   func() time.Time
}

func NewSubmissionService(store docstore.Store) *SubmissionService {
	return &SubmissionService{store: store, now: time.Now}
}

func (s *SubmissionService) SubmitRequest(ctx context.Context, collection string, req models.SubmissionRequest) (*models.Document, error) {
	switch collection {
	case models.CollectionTradeRequests:
		req.Mode = "trade"
	case models.CollectionSellRequests:
		req.Mode = "sell"
	case models.CollectionRequests:
		if req.Mode == "" {
			req.Mode = "request"
		}
	default:
		return nil, fmt.Errorf("%w: collection %q does not accept requests", ErrInvalidSubmission, collection)
	}
	req.Email = strings.TrimSpace(req.Email)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	return s.create(ctx, collection, req)
}

func (s *SubmissionService) SubmitMessage(ctx context.Context, req models.MessageRequest) (*models.Document, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidSubmission)
	}
	return s.create(ctx, models.CollectionMessages, req)
}

func (s *SubmissionService) SubmitShipping(ctx context.Context, req models.ShippingInfoRequest) (*models.Document, error) {
	return s.create(ctx, models.CollectionShippingInfo, req)
}

func (s *SubmissionService) create(ctx context.Context, collection string, body interface{}) (*models.Document, error) {
	data, err := toFields(body)
	if err != nil {
		return nil, err
	}
	data["createdAt"] = s.now().UTC().Format(time.RFC3339Nano)

	doc, err := s.store.Create(ctx, collection, data)
	if err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", collection, err)
	}
	return doc, nil
}

// toFields converts a request DTO into document fields using its JSON names.
func toFields(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}
	return fields, nil
}
