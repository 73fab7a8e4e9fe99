package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "tiflisi/internal/log"
	"tiflisi/internal/services"
	"tiflisi/internal/validate"
)

type ProfileHandler struct {
	Users  *services.UserService
	Auth   *services.AuthService
	Orders *services.OrderService
}

// GET /profile
func (h *ProfileHandler) View(c *fiber.Ctx) error {
	u := currentUser(c)
	orders, err := h.Orders.History(u.ID, sessionID(c))
	if err != nil {
		return serverError(c, "profile.orders.fail", err, nil)
	}
	return render(c, "profile", fiber.Map{"Profile": u, "Orders": orders})
}

// GET /profile/edit
func (h *ProfileHandler) EditForm(c *fiber.Ctx) error {
	u := currentUser(c)
	return render(c, "profile_edit", fiber.Map{"Form": validate.ProfileForm{
		FirstName: u.FirstName, LastName: u.LastName, Phone: u.Phone, Gender: u.Gender,
		City: u.AddressCity, PostalCode: u.PostalCode, AvatarURL: u.AvatarURL,
	}})
}

// POST /profile/edit
func (h *ProfileHandler) Edit(c *fiber.Ctx) error {
	u := currentUser(c)
	var form validate.ProfileForm
	if err := c.BodyParser(&form); err != nil {
		c.Status(fiber.StatusBadRequest)
		return render(c, "profile_edit", fiber.Map{"Form": form, "Err": "არასწორი მონაცემები"})
	}
	if errs := validate.Struct(&form); errs != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "profile", "fields": len(errs)})
		c.Status(fiber.StatusBadRequest)
		return render(c, "profile_edit", fiber.Map{"Form": form, "Errors": errs})
	}
	if _, err := h.Users.UpdateProfile(u.ID, form); err != nil {
		return serverError(c, "profile.update.fail", err, nil)
	}
	applog.Audit(c, "profile.update", map[string]any{"user_id": u.ID})
	setFlash(c, "პროფილი განახლდა")
	return c.Redirect("/profile")
}

// GET /profile/change-password
func (h *ProfileHandler) PasswordForm(c *fiber.Ctx) error {
	return render(c, "change_password", nil)
}

// POST /profile/change-password
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	u := currentUser(c)
	var form validate.ChangePasswordForm
	if err := c.BodyParser(&form); err != nil {
		c.Status(fiber.StatusBadRequest)
		return render(c, "change_password", fiber.Map{"Err": "არასწორი მონაცემები"})
	}
	if errs := validate.Struct(&form); errs != nil {
		c.Status(fiber.StatusBadRequest)
		return render(c, "change_password", fiber.Map{"Errors": errs})
	}
	err := h.Auth.ChangePassword(u.ID, form.CurrentPassword, form.NewPassword)
	if errors.Is(err, services.ErrWrongCurrent) {
		applog.Security(c, "auth.password.fail", map[string]any{"user_id": u.ID})
		c.Status(fiber.StatusBadRequest)
		return render(c, "change_password", fiber.Map{"Errors": validate.FieldErrors{"currentPassword": "მიმდინარე პაროლი არასწორია"}})
	}
	if err != nil {
		return serverError(c, "auth.password.change.fail", err, nil)
	}
	applog.Audit(c, "auth.password.change", map[string]any{"user_id": u.ID})
	setFlash(c, "პაროლი შეიცვალა")
	return c.Redirect("/profile")
}
