package payments

import "errors"

var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrSignatureInvalid   = errors.New("payment signature invalid")
)

type Order struct {
	ID          string `json:"id"`
	AmountPaise int64  `json:"amount"`
	Currency    string `json:"currency"`
	Receipt     string `json:"receipt"`
	Status      string `json:"status"`
}

type Refund struct {
	ID          string `json:"id"`
	AmountPaise int64  `json:"amount"`
	Status      string `json:"status"`
}

// Gateway is the external payment provider contract. The domain core only
// ever talks to this interface; the Razorpay client is the production
// implementation and tests substitute their own.
type Gateway interface {
	CreateOrder(amountPaise int64, currency, receipt string) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	Refund(paymentID string, amountPaise int64) (*Refund, error)
}
