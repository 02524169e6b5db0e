package model

type PaymentIntentRequest struct {
	Amount   int64  `json:"amount" validate:"required,gt=0"`
	// optional; the payment app falls back to the configured currency
	Currency string `json:"currency" validate:"omitempty,len=3"`
}

// GatewayOrder is the record the payment gateway returns when an intent is
// created. Its ID comes back later as PaymentConfirmation.GatewayOrderID.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}
