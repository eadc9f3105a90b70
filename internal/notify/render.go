package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
	"watch-storefront-backend/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const notAvailable = "N/A"

type row struct {
	Label string
	Value string
}

type watchView struct {
	ID    string
	Brand string
	Model string
	Price string
}

type adminEmail struct {
	Title    string
	Intro    string
	Rows     []row
	Watch    *watchView
	Message  string
	PhotoURL string
	Footer   string
}

type customerEmail struct {
	Name      string
	Amount    string
	Watch     *watchView
	Address   string
	City      string
	State     string
	Zip       string
	Country   string
	StoreName string
	PaymentID string
}

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// formatMinor renders an amount in minor units, e.g. 150000 usd -> "$1,500.00".
func formatMinor(amount int64, currency string) string {
	return formatMoney(decimal.New(amount, -2), currency)
}

// formatMajor renders an amount in currency units.
func formatMajor(amount float64, currency string) string {
	return formatMoney(decimal.NewFromFloat(amount), currency)
}

func formatMoney(d decimal.Decimal, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, ch := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(ch)
	}

	if currency == "USD" {
		return sign + "$" + grouped.String() + "." + frac
	}
	return sign + grouped.String() + "." + frac + " " + currency
}

// snapshotView reads a denormalized watch snapshot embedded in a submission.
func snapshotView(m map[string]interface{}) *watchView {
	if len(m) == 0 {
		return nil
	}
	doc := &models.Document{Data: m}
	v := &watchView{
		ID:    orNA(doc.String("id")),
		Brand: orNA(doc.String("brand")),
		Model: orNA(doc.String("model")),
		Price: notAvailable,
	}
	if price, ok := m["price"].(float64); ok {
		v.Price = formatMajor(price, "usd")
	}
	return v
}

// watchDocView reads a catalog document.
func watchDocView(doc *models.Document) *watchView {
	if doc == nil {
		return nil
	}
	v := snapshotView(doc.Data)
	if v == nil {
		v = &watchView{Brand: notAvailable, Model: notAvailable, Price: notAvailable}
	}
	v.ID = doc.ID
	return v
}
