package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"tiflisi/internal/domain"
)

// Payment is the provider's answer to a payment request.
type Payment struct {
	TransactionID string
	RedirectURL   string
}

// PaymentGateway starts a redirect-based payment for an order.
type PaymentGateway interface {
	Start(ctx context.Context, o domain.Order) (Payment, error)
}

// TBCPaySimulator stands in for TBC Pay: it issues a transaction id and
// points the customer at the local confirmation page.
type TBCPaySimulator struct {
	ClientID string
}

func (g TBCPaySimulator) Start(_ context.Context, o domain.Order) (Payment, error) {
	if o.ID == "" || o.TotalAmount <= 0 {
		return Payment{}, fmt.Errorf("tbc pay: invalid order %q amount %.2f", o.ID, o.TotalAmount)
	}
	tx := "tbc-" + uuid.NewString()
	q := url.Values{"order": {o.ID}, "amount": {fmt.Sprintf("%.2f", o.TotalAmount)}, "currency": {"GEL"}}
	return Payment{
		TransactionID: tx,
		RedirectURL:   "/payment/tbc/" + tx + "?" + q.Encode(),
	}, nil
}
