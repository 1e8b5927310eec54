package apiclient

import (
	"context"
	"net/http"

	"github.com/splitkit/splitkit/pkg/qrcode"
)

// Payment methods accepted by CreatePayment.
const (
	PaymentMethodUPI  = "upi"
	PaymentMethodCash = "cash"
)

// CreatePaymentParams settles one or more expenses towards a payee.
type CreatePaymentParams struct {
	PayeeID    string   `json:"payeeId"`
	ExpenseIDs []string `json:"expenseIds"`
	Note       string   `json:"note,omitempty"`
	Method     string   `json:"method"`
}

// Payment is the recorded settlement. For UPI payments the server returns the
// encodable QR payload and the deep-link intent.
type Payment struct {
	ID        string  `json:"_id"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	QRData    string  `json:"qrData,omitempty"`
	UPIIntent string  `json:"upiIntent,omitempty"`
}

// IntentQR renders the payment's UPI intent as a PNG QR code for scanning.
// Fails with qrcode.ErrEmptyContent for cash payments, which carry no intent.
func (p Payment) IntentQR(size int) ([]byte, error) {
	return qrcode.Generate(p.UPIIntent, size)
}

// CreatePayment records a combined payment covering the given expenses.
func (c *Client) CreatePayment(ctx context.Context, params CreatePaymentParams) (*Payment, error) {
	var data struct {
		Payment Payment `json:"payment"`
	}
	if err := c.do(ctx, http.MethodPost, "/payments/combined", params, &data); err != nil {
		return nil, err
	}
	return &data.Payment, nil
}
