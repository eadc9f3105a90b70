package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMinor(t *testing.T) {
	assert.Equal(t, "$1,500.00", formatMinor(150000, "usd"))
	assert.Equal(t, "$0.99", formatMinor(99, ""))
	assert.Equal(t, "1,234,567.89 EUR", formatMinor(123456789, "eur"))
	assert.Equal(t, "-$5.00", formatMinor(-500, "usd"))
}

func TestFormatMajor(t *testing.T) {
	assert.Equal(t, "$12,500.00", formatMajor(12500, "usd"))
}

func TestRender_EscapesAndLinks(t *testing.T) {
	html, err := render("admin.html", adminEmail{
		Title:    "Inquiry",
		Rows:     []row{{"Name", "<b>Ann</b>"}},
		Message:  "Is it still available?",
		PhotoURL: "https://cdn.example.com/p.jpg",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "&lt;b&gt;Ann&lt;/b&gt;")
	assert.Contains(t, html, `href="https://cdn.example.com/p.jpg"`)
	assert.Contains(t, html, "Is it still available?")
}

func TestSnapshotView(t *testing.T) {
	assert.Nil(t, snapshotView(nil))

	v := snapshotView(map[string]interface{}{"id": "w1", "brand": "Omega", "price": 4200.0})
	require.NotNil(t, v)
	assert.Equal(t, "Omega", v.Brand)
	assert.Equal(t, notAvailable, v.Model)
	assert.Equal(t, "$4,200.00", v.Price)
}
