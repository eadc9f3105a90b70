package models

// Watch is a normalized catalog item. Every field is populated; absent source
// fields become zero values and empty lists.
type Watch struct {
	ID                 string   `json:"id"`
	Brand              string   `json:"brand"`
	Model              string   `json:"model"`
	Price              float64  `json:"price"`
	MSRP               *float64 `json:"msrp,omitempty"`
	Images             []string `json:"images"`
	NewArrival         bool     `json:"newArrival"`
	Hold               bool     `json:"hold"`
	Sold               bool     `json:"sold"`
	Box                bool     `json:"box"`
	Papers             bool     `json:"papers"`
	ExhibitionCaseback bool     `json:"exhibitionCaseback"`
	Movement           string   `json:"movement"`
	Dial               string   `json:"dial"`
	Strap              string   `json:"strap"`
	CaseMaterial       string   `json:"caseMaterial"`
	CaseDiameter       string   `json:"caseDiameter"`
	PowerReserve       string   `json:"powerReserve"`
	Warranty           string   `json:"warranty"`
	Description        string   `json:"description"`
	ReferenceNumber    string   `json:"referenceNumber"`
	SKU                string   `json:"sku"`
	Year               string   `json:"year"`
	Complications      []string `json:"complications"`
	Likes              int      `json:"likes"`
	DateAdded          int64    `json:"dateAdded"`
}

// WatchSnapshot is the denormalized copy of a watch embedded in submissions.
type WatchSnapshot struct {
	ID    string  `json:"id"`
	Brand string  `json:"brand"`
	Model string  `json:"model"`
	Price float64 `json:"price"`
}
