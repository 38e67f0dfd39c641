package dto

// PaymentStartResponse returns where to redirect the payer.
type PaymentStartResponse struct {
	PaymentID   string `json:"payment_id"`
	RedirectURL string `json:"redirect_url"`
}
