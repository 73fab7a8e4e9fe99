package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tiflisi/internal/domain"
	applog "tiflisi/internal/log"
	"tiflisi/internal/services"
	"tiflisi/internal/validate"
)

type OrderHandler struct {
	Cart     *services.CartService
	Checkout *services.CheckoutService
	Orders   *services.OrderService
	Settings *services.SettingsService
}

func (h *OrderHandler) renderCheckout(c *fiber.Ctx, form validate.CheckoutForm, errs validate.FieldErrors, msg string) error {
	cart := h.Cart.Open(c.UserContext(), sessionID(c))
	st := h.Settings.Current()
	return render(c, "checkout", fiber.Map{
		"Lines":   cart.Lines(),
		"Totals":  services.ComputeTotals(cart.SubtotalDecimal(), st),
		"Methods": services.PaymentOptions(st, currentUser(c) != nil),
		"Form":    form,
		"Errors":  errs,
		"Err":     msg,
	})
}

// GET /checkout
func (h *OrderHandler) CheckoutPage(c *fiber.Ctx) error {
	cart := h.Cart.Open(c.UserContext(), sessionID(c))
	if cart.Initialized() && cart.Len() == 0 {
		return c.Redirect("/catalog")
	}
	form := validate.CheckoutForm{PaymentMethod: domain.PaymentCashOnDelivery}
	if u := currentUser(c); u != nil {
		form.FirstName, form.LastName, form.Email = u.FirstName, u.LastName, u.Email
		form.Phone, form.City, form.PostalCode = u.Phone, u.AddressCity, u.PostalCode
	}
	return h.renderCheckout(c, form, nil, "")
}

// POST /orders
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := sessionID(c)
	var form validate.CheckoutForm
	if err := c.BodyParser(&form); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "checkout.body"})
		c.Status(fiber.StatusBadRequest)
		return h.renderCheckout(c, form, nil, "არასწორი მონაცემები")
	}
	if errs := validate.Struct(&form); errs != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "checkout", "fields": len(errs)})
		c.Status(fiber.StatusBadRequest)
		return h.renderCheckout(c, form, errs, "")
	}

	cart := h.Cart.Open(c.UserContext(), sid)
	res, err := h.Checkout.Place(c.UserContext(), services.PlaceInput{
		SessionID: sid,
		User:      currentUser(c),
		Form:      form,
		Cart:      cart,
	})
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		return c.Redirect("/catalog")
	case errors.Is(err, services.ErrLoginRequired):
		c.Status(fiber.StatusBadRequest)
		return h.renderCheckout(c, form, nil, "TBC Pay-ით გადასახდელად გთხოვთ, გაიაროთ ავტორიზაცია")
	case errors.Is(err, services.ErrPaymentMethodUnavailable):
		applog.Security(c, "order.place.fail", map[string]any{"reason": "payment_method", "method": form.PaymentMethod})
		c.Status(fiber.StatusBadRequest)
		return h.renderCheckout(c, form, nil, "არჩეული გადახდის მეთოდი მიუწვდომელია")
	case errors.Is(err, services.ErrPaymentFailed):
		c.Status(fiber.StatusBadGateway)
		return h.renderCheckout(c, form, nil, "გადახდის დაწყება ვერ მოხერხდა. შეკვეთა შენახულია, სცადეთ მოგვიანებით.")
	case err != nil:
		return serverError(c, "order.place.fail", err, nil)
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id": res.Order.ID,
		"total":    res.Order.TotalAmount,
		"method":   res.Order.PaymentMethod,
		"status":   res.Order.Status,
	})
	if res.RedirectURL != "" {
		return c.Redirect(res.RedirectURL)
	}
	setFlash(c, "შეკვეთა წარმატებით განთავსდა")
	return c.Redirect("/order/" + res.Order.ID)
}

// GET /order/:id
func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid := c.Params("id")
	o, err := h.Orders.Get(oid)
	if errors.Is(err, services.ErrOrderNotFound) {
		return notFound(c, "შეკვეთა ვერ მოიძებნა")
	}
	if err != nil {
		return serverError(c, "order.load.fail", err, map[string]any{"order_id": oid})
	}
	if !services.CanView(o, sessionID(c), currentUser(c)) {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return notFound(c, "შეკვეთა ვერ მოიძებნა")
	}
	return render(c, "order", fiber.Map{"Order": o})
}

// GET /orders
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u := currentUser(c)
	orders, err := h.Orders.History(u.ID, sessionID(c))
	if err != nil {
		return serverError(c, "orders.history.fail", err, nil)
	}
	return render(c, "order_history", fiber.Map{"Orders": orders})
}

func (h *OrderHandler) pendingPayment(c *fiber.Ctx) (domain.Order, bool) {
	oid := c.Query("order", c.FormValue("order"))
	o, err := h.Orders.Get(oid)
	if err != nil || o.SessionID != sessionID(c) || o.TransactionID != c.Params("tx") {
		return o, false
	}
	return o, true
}

// GET /payment/tbc/:tx
func (h *OrderHandler) PaymentPage(c *fiber.Ctx) error {
	o, ok := h.pendingPayment(c)
	if !ok {
		applog.Security(c, "payment.page.denied", map[string]any{"tx": c.Params("tx")})
		return notFound(c, "გადახდა ვერ მოიძებნა")
	}
	return render(c, "payment_tbc", fiber.Map{"Order": o, "TxID": o.TransactionID})
}

// POST /payment/tbc/:tx/confirm and /payment/tbc/:tx/cancel
func (h *OrderHandler) ResolvePayment(success bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		o, ok := h.pendingPayment(c)
		if !ok {
			applog.Security(c, "payment.resolve.denied", map[string]any{"tx": c.Params("tx")})
			return notFound(c, "გადახდა ვერ მოიძებნა")
		}
		o, err := h.Orders.ResolvePayment(o.ID, o.TransactionID, sessionID(c), success)
		if errors.Is(err, services.ErrInvalidTransition) {
			setFlash(c, "გადახდა უკვე დამუშავებულია")
			return c.Redirect("/order/" + o.ID)
		}
		if err != nil {
			return serverError(c, "payment.resolve.fail", err, map[string]any{"order_id": o.ID})
		}
		applog.Audit(c, "payment.resolve", map[string]any{"order_id": o.ID, "success": success, "status": o.Status})
		if success {
			setFlash(c, "გადახდა წარმატებით დასრულდა")
		} else {
			setFlash(c, "გადახდა გაუქმდა")
		}
		return c.Redirect("/order/" + o.ID)
	}
}
