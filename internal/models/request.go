package models

// SubmissionRequest is the body shared by trade, sell and general watch requests.
type SubmissionRequest struct {
	Mode            string         `json:"mode"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	PhoneNumber     string         `json:"phoneNumber"`
	Message         string         `json:"message"`
	PhotoURL        string         `json:"photoUrl,omitempty"`
	Brand           string         `json:"brand,omitempty"`
	Model           string         `json:"model,omitempty"`
	ReferenceNumber string         `json:"referenceNumber,omitempty"`
	Year            string         `json:"year,omitempty"`
	Condition       string         `json:"condition,omitempty"`
	Box             bool           `json:"box,omitempty"`
	Papers          bool           `json:"papers,omitempty"`
	AskingPrice     float64        `json:"askingPrice,omitempty"`
	Watch           *WatchSnapshot `json:"watch,omitempty"`
}

type MessageRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message" binding:"required"`
}

type ShippingInfoRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country,omitempty"`
}

// PaymentIntentRequest mirrors the contract the mobile checkout calls.
// Amount is in minor currency units.
type PaymentIntentRequest struct {
	Amount        int64                `json:"amount" binding:"required,gt=0"`
	Currency      string               `json:"currency"`
	WatchID       string               `json:"watchId" binding:"required"`
	Description   string               `json:"description"`
	Shipping      *ShippingInfoRequest `json:"shipping,omitempty"`
	CustomerEmail string               `json:"customerEmail"`
	PaymentID     string               `json:"paymentId,omitempty"`
}
