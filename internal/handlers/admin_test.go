package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"watch-storefront-backend/internal/models"
)

func TestFailedNotifications(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)
	_, _ = s.store.Create(ctx, models.CollectionMessages, map[string]interface{}{"id": "m1", "emailError": "dial tcp: refused"})
	_, _ = s.store.Create(ctx, models.CollectionMessages, map[string]interface{}{"id": "m2", "emailError": "old", "emailSent": true})
	_, _ = s.store.Create(ctx, models.CollectionMessages, map[string]interface{}{"id": "m3"})

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/admin/notifications/failed", nil, nil).Code)

	w := s.do(http.MethodGet, "/api/v1/admin/notifications/failed", nil, map[string]string{"Authorization": adminToken(t)})
	require.Equal(t, http.StatusOK, w.Code)

	var res models.FailedNotificationsResponse
	decode(t, w, &res)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "m1", res.Documents[0].ID)
	assert.Equal(t, "dial tcp: refused", res.Documents[0].EmailError)
}

func TestReplayNotification(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)
	_, _ = s.store.Create(ctx, models.CollectionMessages, map[string]interface{}{"id": "m1", "name": "Dee", "message": "hi", "emailError": "timeout"})

	w := s.do(http.MethodPost, "/api/v1/admin/notifications/Messages/m1/replay", nil, map[string]string{"Authorization": adminToken(t)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res models.ReplayResponse
	decode(t, w, &res)
	assert.Equal(t, "sent", res.Outcome)
	assert.Len(t, s.mailer.sent, 1)

	doc, _ := s.store.Get(ctx, models.CollectionMessages, "m1")
	assert.True(t, doc.Bool(models.FieldEmailSent))
}
