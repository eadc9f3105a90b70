package supabase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"watch-storefront-backend/internal/models"
	"watch-storefront-backend/internal/supabase"
)

func TestParseChangePayload(t *testing.T) {
	ev, err := supabase.ParseChangePayload(`{"collection":"payments","id":"p1","op":"update"}`)
	require.NoError(t, err)
	assert.Equal(t, models.ChangeEvent{
		Collection: models.CollectionPayments,
		DocumentID: "p1",
		Operation:  models.OperationUpdate,
	}, ev)

	ev, err = supabase.ParseChangePayload(`{"collection":"Messages","id":"m1"}`)
	require.NoError(t, err)
	assert.Equal(t, models.OperationInsert, ev.Operation)

	_, err = supabase.ParseChangePayload(`{"collection":"Messages"}`)
	assert.Error(t, err)

	_, err = supabase.ParseChangePayload(`not json`)
	assert.Error(t, err)
}

func TestStorageClient_PublicURL(t *testing.T) {
	s := supabase.NewStorageClient("https://project.supabase.co/", "key", "submission-photos")
	assert.Equal(t,
		"https://project.supabase.co/storage/v1/object/public/submission-photos/trade/a.jpg",
		s.PublicURL("trade/a.jpg"))
}
