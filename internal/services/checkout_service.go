package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tiflisi/internal/cartstore"
	"tiflisi/internal/domain"
	applog "tiflisi/internal/log"
	"tiflisi/internal/repos"
	"tiflisi/internal/validate"
)

const (
	serviceFeeRate = "0.01"
	orderCountry   = "საქართველო"
)

var (
	ErrEmptyCart                = errors.New("cart is empty")
	ErrPaymentMethodUnavailable = errors.New("payment method unavailable")
	ErrLoginRequired            = errors.New("login required for this payment method")
	ErrPaymentFailed            = errors.New("payment could not be started")
)

// Totals are the checkout amounts, each rounded to 2 decimals.
type Totals struct {
	Subtotal   float64
	Shipping   float64
	ServiceFee float64
	Total      float64
}

// ComputeTotals applies the shipping rules and the 1% service fee.
// An empty cart costs nothing.
func ComputeTotals(subtotal decimal.Decimal, st domain.SiteSettings) Totals {
	if !subtotal.IsPositive() {
		return Totals{}
	}
	shipping := decimal.Zero
	threshold := decimal.NewFromFloat(st.FreeShippingThreshold)
	freeByThreshold := threshold.IsPositive() && subtotal.GreaterThanOrEqual(threshold)
	if st.EnableFlatRateShipping && !freeByThreshold {
		shipping = decimal.NewFromFloat(st.DefaultShippingCost)
	}
	fee := subtotal.Mul(decimal.RequireFromString(serviceFeeRate)).Round(2)
	sub := subtotal.Round(2)
	shipping = shipping.Round(2)
	return Totals{
		Subtotal:   sub.InexactFloat64(),
		Shipping:   shipping.InexactFloat64(),
		ServiceFee: fee.InexactFloat64(),
		Total:      sub.Add(shipping).Add(fee).InexactFloat64(),
	}
}

// PaymentOptions lists the methods a visitor may pick.
func PaymentOptions(st domain.SiteSettings, loggedIn bool) []string {
	var out []string
	if st.CashOnDeliveryEnabled {
		out = append(out, domain.PaymentCashOnDelivery)
	}
	if st.TBCPayEnabled && loggedIn {
		out = append(out, domain.PaymentTBCPay)
	}
	return out
}

type CheckoutService struct {
	Orders   *repos.OrderRepo
	Settings *SettingsService
	Payments PaymentGateway
}

func NewCheckoutService(orders *repos.OrderRepo, settings *SettingsService, payments PaymentGateway) *CheckoutService {
	return &CheckoutService{Orders: orders, Settings: settings, Payments: payments}
}

type PlaceInput struct {
	SessionID string
	User      *domain.User // nil for guests
	Form      validate.CheckoutForm
	Cart      *cartstore.CartStore
}

type PlaceResult struct {
	Order       domain.Order
	RedirectURL string // set for redirect-based payment methods
}

// Place turns the cart into an order. The cart is cleared once the order is
// stored and, for redirect payments, the provider has issued a redirect.
// Stock is neither checked nor decremented.
func (s *CheckoutService) Place(ctx context.Context, in PlaceInput) (PlaceResult, error) {
	if in.Cart == nil || in.Cart.Len() == 0 {
		return PlaceResult{}, ErrEmptyCart
	}
	st := s.Settings.Current()
	method := in.Form.PaymentMethod
	switch method {
	case domain.PaymentCashOnDelivery:
		if !st.CashOnDeliveryEnabled {
			return PlaceResult{}, ErrPaymentMethodUnavailable
		}
	case domain.PaymentTBCPay:
		if in.User == nil {
			return PlaceResult{}, ErrLoginRequired
		}
		if !st.TBCPayEnabled || s.Payments == nil {
			return PlaceResult{}, ErrPaymentMethodUnavailable
		}
	default:
		return PlaceResult{}, ErrPaymentMethodUnavailable
	}

	lines := in.Cart.Lines()
	totals := ComputeTotals(in.Cart.SubtotalDecimal(), st)
	status := domain.StatusPending
	if method == domain.PaymentTBCPay {
		status = domain.StatusPendingPayment
	}

	o := domain.Order{
		ID:            uuid.NewString(),
		SessionID:     in.SessionID,
		CustomerName:  in.Form.FirstName + " " + in.Form.LastName,
		CustomerEmail: in.Form.Email,
		CustomerPhone: in.Form.Phone,
		Status:        status,
		ShippingAddress: domain.ShippingAddress{
			AddressLine1: in.Form.Address,
			City:         in.Form.City,
			PostalCode:   in.Form.PostalCode,
			Country:      orderCountry,
		},
		Subtotal:      totals.Subtotal,
		ShippingCost:  totals.Shipping,
		ServiceFee:    totals.ServiceFee,
		TotalAmount:   totals.Total,
		Notes:         in.Form.Notes,
		PaymentMethod: method,
		Products:      make([]domain.OrderLine, 0, len(lines)),
	}
	if in.User != nil {
		o.UserID = in.User.ID
	}
	for _, l := range lines {
		o.Products = append(o.Products, domain.OrderLine{
			ProductID:     l.ProductID,
			Name:          l.Name,
			Quantity:      l.Quantity,
			Price:         l.Price,
			ImageURL:      l.ImageURL,
			Slug:          l.Slug,
			SelectedSize:  l.SelectedSize,
			SelectedColor: l.SelectedColor,
		})
	}

	if err := s.Orders.Create(&o); err != nil {
		return PlaceResult{}, fmt.Errorf("saving order: %w", err)
	}

	res := PlaceResult{Order: o}
	if method == domain.PaymentTBCPay {
		p, err := s.Payments.Start(ctx, o)
		if err != nil {
			// the order stays in Pending Payment; the cart is kept for a retry
			applog.Error(nil, "payment.start.fail", err, map[string]any{"order_id": o.ID})
			return res, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
		if err := s.Orders.SetTransaction(o.ID, p.TransactionID); err != nil {
			applog.Error(nil, "payment.tx.save.fail", err, map[string]any{"order_id": o.ID})
		}
		res.Order.TransactionID = p.TransactionID
		res.RedirectURL = p.RedirectURL
	}
	in.Cart.Clear()
	return res, nil
}
