package catalog_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"watch-storefront-backend/internal/catalog"
)

func TestNormalizeTimestamp(t *testing.T) {
	iso := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	cases := []struct {
		name string
		raw  interface{}
		want int64
	}{
		{"epoch millis number", float64(1700000000000), 1700000000000},
		{"int", 1700000000000, 1700000000000},
		{"json number", json.Number("1700000000123"), 1700000000123},
		{"numeric string", "1700000000000", 1700000000000},
		{"rfc3339 string", iso.Format(time.RFC3339), iso.UnixMilli()},
		{"date only string", "2025-03-04", time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC).UnixMilli()},
		{"seconds pair", map[string]interface{}{"seconds": float64(1700000000), "nanoseconds": float64(250000000)}, 1700000000250},
		{"underscored seconds pair", map[string]interface{}{"_seconds": float64(1700000000), "_nanoseconds": float64(0)}, 1700000000000},
		{"time value", iso, iso.UnixMilli()},
		{"garbage string", "yesterday-ish", 0},
		{"empty string", "", 0},
		{"object without seconds", map[string]interface{}{"foo": "bar"}, 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, catalog.NormalizeTimestamp(catalog.TimestampFromRaw(tc.raw)))
		})
	}
}

func TestTimestampFromRaw_Kinds(t *testing.T) {
	assert.Equal(t, catalog.TimestampString, catalog.TimestampFromRaw("2025-01-01").Kind)
	assert.Equal(t, catalog.TimestampNumber, catalog.TimestampFromRaw(float64(1)).Kind)
	assert.Equal(t, catalog.TimestampSeconds, catalog.TimestampFromRaw(map[string]interface{}{"seconds": float64(1)}).Kind)
	assert.Equal(t, catalog.TimestampNone, catalog.TimestampFromRaw(nil).Kind)
}
