package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimestampKind tags which representation a source timestamp used.
type TimestampKind int

const (
	TimestampNone TimestampKind = iota
	TimestampString
	TimestampNumber
	TimestampSeconds
)

// Timestamp is the tagged union of every creation-time encoding found in
// catalog records: text, epoch milliseconds, or a seconds/nanoseconds pair.
type Timestamp struct {
	Kind    TimestampKind
	Text    string
	Millis  float64
	Seconds int64
	Nanos   int64
}

// TimestampFromRaw classifies a decoded JSON value.
func TimestampFromRaw(v interface{}) Timestamp {
	switch t := v.(type) {
	case string:
		return Timestamp{Kind: TimestampString, Text: t}
	case float64:
		return Timestamp{Kind: TimestampNumber, Millis: t}
	case int:
		return Timestamp{Kind: TimestampNumber, Millis: float64(t)}
	case int64:
		return Timestamp{Kind: TimestampNumber, Millis: float64(t)}
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Timestamp{}
		}
		return Timestamp{Kind: TimestampNumber, Millis: f}
	case time.Time:
		return Timestamp{Kind: TimestampNumber, Millis: float64(t.UnixMilli())}
	case map[string]interface{}:
		secs, okS := firstNumber(t, "seconds", "_seconds")
		if !okS {
			return Timestamp{}
		}
		nanos, _ := firstNumber(t, "nanoseconds", "_nanoseconds")
		return Timestamp{Kind: TimestampSeconds, Seconds: int64(secs), Nanos: int64(nanos)}
	}
	return Timestamp{}
}

// NormalizeTimestamp converts any Timestamp to epoch milliseconds; 0 when unknown.
func NormalizeTimestamp(ts Timestamp) int64 {
	switch ts.Kind {
	case TimestampNumber:
		if math.IsNaN(ts.Millis) || math.IsInf(ts.Millis, 0) {
			return 0
		}
		return int64(ts.Millis)
	case TimestampSeconds:
		return ts.Seconds*1000 + ts.Nanos/int64(time.Millisecond)
	case TimestampString:
		return parseTimestampText(ts.Text)
	}
	return 0
}

var textLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

func parseTimestampText(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}

func firstNumber(m map[string]interface{}, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
