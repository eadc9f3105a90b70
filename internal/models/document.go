package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Logical collections shared by the app and the notification pipeline.
const (
	CollectionWatches       = "Watches"
	CollectionTradeRequests = "TradeRequests"
	CollectionSellRequests  = "SellRequests"
	CollectionRequests      = "Requests"
	CollectionMessages      = "Messages"
	CollectionPayments      = "payments"
	CollectionShippingInfo  = "shippingInfo"
	CollectionOrders        = "orders"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Fields written back onto submission documents by the notification pipeline.
const (
	FieldEmailSent    = "emailSent"
	FieldEmailSentAt  = "emailSentAt"
	FieldEmailError   = "emailError"
	FieldEmailErrorAt = "emailErrorAt"

	// FieldAdminEmailSent marks a payment whose operator summary went out even
	// if the customer confirmation has not.
	FieldAdminEmailSent = "adminEmailSent"
)

// Document is a schemaless record in one logical collection.
type Document struct {
	Collection string                 `json:"collection"`
	ID         string                 `json:"id"`
	Data       map[string]interface{} `json:"data"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// String returns the field as text; numbers are formatted, anything else is "".
func (d *Document) String(key string) string {
	if d == nil {
		return ""
	}
	switch v := d.Data[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	}
	return ""
}

func (d *Document) Bool(key string) bool {
	if d == nil {
		return false
	}
	switch v := d.Data[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

// Int64 reads an integral number stored as a JSON number or a numeric string.
func (d *Document) Int64(key string) int64 {
	if d == nil {
		return 0
	}
	switch v := d.Data[key].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err == nil {
			return n
		}
	}
	return 0
}

// Map returns a nested object field, or nil.
func (d *Document) Map(key string) map[string]interface{} {
	if d == nil {
		return nil
	}
	m, _ := d.Data[key].(map[string]interface{})
	return m
}

// Operations carried by change events.
const (
	OperationInsert = "insert"
	OperationUpdate = "update"
)

// ChangeEvent announces that a document was created, or that a payment changed status.
type ChangeEvent struct {
	Collection string `json:"collection"`
	DocumentID string `json:"id"`
	Operation  string `json:"op"`
}
