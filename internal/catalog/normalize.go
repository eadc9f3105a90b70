package catalog

import (
	"strconv"
	"strings"
	"time"

	"watch-storefront-backend/internal/models"
)

// NewArrivalWindow is how long after dateAdded an item counts as a new arrival.
const NewArrivalWindow = 14 * 24 * time.Hour

// RawRecord is a catalog document as read from a Source.
type RawRecord struct {
	ID   string
	Data map[string]interface{}
}

// Normalize maps a raw record onto the Watch shape. newArrival is derived
// from dateAdded relative to now and is never read from the record.
func Normalize(rec RawRecord, now time.Time) models.Watch {
	d := rec.Data
	w := models.Watch{
		ID:                 rec.ID,
		Brand:              str(d, "brand"),
		Model:              str(d, "model"),
		Price:              num(d, "price"),
		Images:             strList(d, "images"),
		Hold:               flag(d, "hold"),
		Sold:               flag(d, "sold"),
		Box:                flag(d, "box"),
		Papers:             flag(d, "papers"),
		ExhibitionCaseback: flag(d, "exhibitionCaseback"),
		Movement:           str(d, "movement"),
		Dial:               str(d, "dial"),
		Strap:              str(d, "strap"),
		CaseMaterial:       str(d, "caseMaterial"),
		CaseDiameter:       str(d, "caseDiameter"),
		PowerReserve:       str(d, "powerReserve"),
		Warranty:           str(d, "warranty"),
		Description:        str(d, "description"),
		ReferenceNumber:    str(d, "referenceNumber"),
		SKU:                str(d, "sku"),
		Year:               str(d, "year"),
		Complications:      strList(d, "complications"),
		DateAdded:          NormalizeTimestamp(TimestampFromRaw(d["dateAdded"])),
	}
	if w.ID == "" {
		w.ID = str(d, "id")
	}
	if _, ok := d["msrp"]; ok {
		msrp := num(d, "msrp")
		w.MSRP = &msrp
	}
	if likes := int(num(d, "likes")); likes > 0 {
		w.Likes = likes
	}
	w.NewArrival = IsNewArrival(w.DateAdded, now)
	return w
}

// IsNewArrival reports whether dateAdded (epoch ms) falls inside the window ending at now.
func IsNewArrival(dateAdded int64, now time.Time) bool {
	if dateAdded <= 0 {
		return false
	}
	return now.UnixMilli()-dateAdded < NewArrivalWindow.Milliseconds()
}

func str(d map[string]interface{}, key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func num(d map[string]interface{}, key string) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(v, ",", "")), 64)
		if err == nil {
			return f
		}
	}
	return 0
}

func flag(d map[string]interface{}, key string) bool {
	b, _ := d[key].(bool)
	return b
}

func strList(d map[string]interface{}, key string) []string {
	out := []string{}
	switch v := d[key].(type) {
	case []interface{}:
		for _, e := range v {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range v {
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
