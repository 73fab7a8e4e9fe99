package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "tiflisi/internal/log"
	"tiflisi/internal/services"
	"tiflisi/internal/validate"
)

type CartHandler struct {
	Cart     *services.CartService
	Settings *services.SettingsService
}

// POST /cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := sessionID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	size, okSize := validate.Option(c.FormValue("size"))
	color, okColor := validate.Option(c.FormValue("color"))
	if !okSize || !okColor {
		applog.Security(c, "validation.fail", map[string]any{"field": "variant"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid size or color")
	}
	qty := validate.Qty(c.FormValue("qty"))

	line, err := h.Cart.Add(c.UserContext(), sid, productID, qty, size, color)
	switch {
	case errors.Is(err, services.ErrSizeRequired):
		setFlash(c, "გთხოვთ, აირჩიოთ ზომა")
		return back(c, "/catalog")
	case errors.Is(err, services.ErrColorRequired):
		setFlash(c, "გთხოვთ, აირჩიოთ ფერი")
		return back(c, "/catalog")
	case errors.Is(err, services.ErrProductNotFound):
		return notFound(c, "პროდუქტი ვერ მოიძებნა")
	case err != nil:
		return serverError(c, "cart.add.fail", err, map[string]any{"product": productID})
	}
	applog.Info(c, "cart.add", map[string]any{"line": line.ID, "qty": qty})
	setFlash(c, line.Name+" დაემატა კალათაში")
	return c.Redirect("/cart")
}

// GET /cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	cart := h.Cart.Open(c.UserContext(), sessionID(c))
	st := h.Settings.Current()
	return render(c, "cart", fiber.Map{
		"Lines":  cart.Lines(),
		"Count":  cart.TotalItemCount(),
		"Totals": services.ComputeTotals(cart.SubtotalDecimal(), st),
	})
}

// POST /cart/update
func (h *CartHandler) Update(c *fiber.Ctx) error {
	lineID, ok := validate.LineID(c.FormValue("lineId"))
	qty, okQty := validate.SetQty(c.FormValue("qty"))
	if !ok || !okQty {
		applog.Security(c, "validation.fail", map[string]any{"field": "cart.update"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid line or quantity")
	}
	h.Cart.Update(c.UserContext(), sessionID(c), lineID, qty)
	applog.Info(c, "cart.update", map[string]any{"line": lineID, "qty": qty})
	return c.Redirect("/cart")
}

// POST /cart/remove
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	lineID, ok := validate.LineID(c.FormValue("lineId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "lineId"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid line")
	}
	if name, removed := h.Cart.Remove(c.UserContext(), sessionID(c), lineID); removed {
		applog.Info(c, "cart.remove", map[string]any{"line": lineID})
		setFlash(c, name+" წაიშალა კალათიდან")
	}
	return c.Redirect("/cart")
}

// POST /cart/clear
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	h.Cart.Clear(c.UserContext(), sessionID(c))
	applog.Info(c, "cart.clear", nil)
	setFlash(c, "კალათა გასუფთავდა")
	return c.Redirect("/cart")
}
