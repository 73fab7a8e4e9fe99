package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"tiflisi/internal/domain"
	applog "tiflisi/internal/log"
	"tiflisi/internal/repos"
	"tiflisi/internal/services"
	"tiflisi/internal/validate"
)

type AdminHandler struct {
	Orders    *services.OrderService
	Inv       *repos.InventoryRepo
	Users     *services.UserService
	Analytics *services.AnalyticsService
	Contact   *services.ContactService
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Analytics.Dashboard()
	if err != nil {
		return serverError(c, "admin.dashboard.fail", err, nil)
	}
	recent, err := h.Orders.ListLatest(5)
	if err != nil {
		return serverError(c, "admin.dashboard.fail", err, nil)
	}
	msgs, err := h.Contact.Latest(5)
	if err != nil {
		applog.Error(c, "admin.contact.list.fail", err, nil)
	}
	return render(c, "admin_dashboard", fiber.Map{"Stats": d, "Orders": recent, "Messages": msgs})
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.Orders.ListLatest(0)
	if err != nil {
		return serverError(c, "admin.orders.list.fail", err, nil)
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords})
}

// GET /admin/orders/:id
func (h *AdminHandler) OrderDetail(c *fiber.Ctx) error {
	o, err := h.Orders.Get(c.Params("id"))
	if errors.Is(err, services.ErrOrderNotFound) {
		return notFound(c, "შეკვეთა ვერ მოიძებნა")
	}
	if err != nil {
		return serverError(c, "admin.orders.load.fail", err, nil)
	}
	var next []domain.OrderStatus
	for _, s := range domain.OrderStatuses {
		if o.Status.CanTransition(s) {
			next = append(next, s)
		}
	}
	return render(c, "admin_order", fiber.Map{"Order": o, "Next": next})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	status := domain.OrderStatus(c.FormValue("status"))
	if id == "" || !status.Valid() {
		applog.Security(c, "validation.fail", map[string]any{"field": "status"})
		return c.Status(fiber.StatusBadRequest).SendString("missing id or status")
	}
	prev, err := h.Orders.UpdateStatus(id, status)
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		return notFound(c, "შეკვეთა ვერ მოიძებნა")
	case errors.Is(err, services.ErrInvalidTransition):
		applog.Security(c, "admin.orders.update.reject", map[string]any{"order_id": id, "from": prev, "to": status})
		return c.Status(fiber.StatusConflict).SendString("status change not allowed")
	case err != nil:
		return serverError(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "from": prev, "status": status})
	setFlash(c, "სტატუსი განახლდა: "+status.Label())
	return c.Redirect("/admin/orders/" + id)
}

// GET /admin/inventory
func (h *AdminHandler) Inventory(c *fiber.Ctx) error {
	rows, err := h.Inv.ListAll()
	if err != nil {
		return serverError(c, "admin.inventory.list.fail", err, nil)
	}
	return render(c, "admin_inventory", fiber.Map{"Rows": rows})
}

// POST /admin/inventory
func (h *AdminHandler) UpdateInventory(c *fiber.Ctx) error {
	pid := c.FormValue("product_id")
	qty, err := strconv.Atoi(c.FormValue("qty"))
	if _, okID := validate.ID(pid); !okID || err != nil || qty < 0 {
		applog.Security(c, "validation.fail", map[string]any{"field": "inventory"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid input")
	}
	if err := h.Inv.SetQty(pid, qty); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return notFound(c, "პროდუქტი ვერ მოიძებნა")
		}
		return serverError(c, "admin.inventory.save.fail", err, map[string]any{"product": pid, "qty": qty})
	}
	applog.Audit(c, "admin.inventory.save", map[string]any{"product": pid, "qty": qty})
	return c.Redirect("/admin/inventory")
}

// GET /admin/users
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		return serverError(c, "admin.users.list.fail", err, nil)
	}
	return render(c, "admin_users", fiber.Map{"Users": users})
}

// GET /admin/users/:id
func (h *AdminHandler) UserDetail(c *fiber.Ctx) error {
	u, orders, err := h.Users.Detail(c.Params("id"))
	if errors.Is(err, services.ErrUserNotFound) {
		return notFound(c, "მომხმარებელი ვერ მოიძებნა")
	}
	if err != nil {
		return serverError(c, "admin.users.load.fail", err, nil)
	}
	return render(c, "admin_user", fiber.Map{"Account": u, "Orders": orders})
}

// GET /admin/users/:id/edit
func (h *AdminHandler) UserEditForm(c *fiber.Ctx) error {
	u, err := h.Users.Get(c.Params("id"))
	if errors.Is(err, services.ErrUserNotFound) {
		return notFound(c, "მომხმარებელი ვერ მოიძებნა")
	}
	if err != nil {
		return serverError(c, "admin.users.load.fail", err, nil)
	}
	return render(c, "admin_user_edit", fiber.Map{"Account": u, "Form": validate.UserEditForm{
		FirstName: u.FirstName, LastName: u.LastName, Phone: u.Phone,
		City: u.AddressCity, PostalCode: u.PostalCode, Role: u.Role,
	}})
}

// POST /admin/users/:id
func (h *AdminHandler) UserEdit(c *fiber.Ctx) error {
	id := c.Params("id")
	var form validate.UserEditForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid form")
	}
	if errs := validate.Struct(&form); errs != nil {
		u, err := h.Users.Get(id)
		if err != nil {
			return notFound(c, "მომხმარებელი ვერ მოიძებნა")
		}
		c.Status(fiber.StatusBadRequest)
		return render(c, "admin_user_edit", fiber.Map{"Account": u, "Form": form, "Errors": errs})
	}
	if actor := currentUser(c); actor.ID == id && form.Role != domain.RoleAdmin {
		return c.Status(fiber.StatusBadRequest).SendString("cannot demote yourself")
	}
	u, err := h.Users.AdminUpdate(id, form)
	if errors.Is(err, services.ErrUserNotFound) {
		return notFound(c, "მომხმარებელი ვერ მოიძებნა")
	}
	if err != nil {
		return serverError(c, "admin.users.update.fail", err, map[string]any{"user_id": id})
	}
	applog.Audit(c, "admin.users.update", map[string]any{"user_id": id, "role": u.Role})
	setFlash(c, "მომხმარებელი განახლდა")
	return c.Redirect("/admin/users/" + id)
}

// POST /admin/users/:id/delete
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	err := h.Users.Delete(currentUser(c).ID, id)
	switch {
	case errors.Is(err, services.ErrSelfDelete):
		return c.Status(fiber.StatusBadRequest).SendString("cannot delete yourself")
	case errors.Is(err, services.ErrUserNotFound):
		return notFound(c, "მომხმარებელი ვერ მოიძებნა")
	case err != nil:
		return serverError(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	setFlash(c, "მომხმარებელი წაიშალა")
	return c.Redirect("/admin/users")
}

// GET /admin/analytics
func (h *AdminHandler) AnalyticsPage(c *fiber.Ctx) error {
	r, err := h.Analytics.Report(10)
	if err != nil {
		return serverError(c, "admin.analytics.fail", err, nil)
	}
	return render(c, "admin_analytics", fiber.Map{"Report": r})
}
