package model

// PaymentInit carries what the gateway returned for a started payment.
type PaymentInit struct {
	PaymentID   string
	RedirectURL string
}

// PaymentOutcome is the lifecycle effect of a verified gateway callback.
type PaymentOutcome int

const (
	PaymentOutcomeNone PaymentOutcome = iota
	PaymentOutcomeSucceeded
	PaymentOutcomeCanceled
)
