package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tiflisi/internal/log"
	"tiflisi/internal/services"
	"tiflisi/internal/validate"
)

const badLogin = "არასწორი ელ-ფოსტა ან პაროლი"

type AuthHandler struct {
	Auth *services.AuthService
}

// GET /login
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Redirect("/profile")
	}
	return render(c, "login", fiber.Map{"Err": "", "Next": safeNext(c.Query("next"))})
}

// POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := sessionID(c)
	next := safeNext(c.FormValue("next"))
	email, ok := validate.Email(c.FormValue("email"))
	pass := c.FormValue("password")
	fail := func(reason string) error {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": reason})
		c.Status(fiber.StatusUnauthorized)
		return render(c, "login", fiber.Map{"Err": badLogin, "Email": email, "Next": next})
	}
	if !ok {
		return fail("bad_format")
	}
	if !validate.Password(pass) {
		return fail("bad_password_format")
	}
	u, err := h.Auth.Login(sid, email, pass)
	if err != nil {
		return fail("bad_credentials")
	}
	c.Locals("userID", u.ID)
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect(next)
}

// POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := sessionID(c)
	_ = h.Auth.Logout(sid)
	// a fresh sid is issued on the next request; the old cart stays with the old sid
	expireCookie(c, sidCookie)
	log.Audit(c, "auth.logout", nil)
	return c.Redirect("/")
}

// GET /register
func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Redirect("/profile")
	}
	return render(c, "register", fiber.Map{"Form": validate.RegisterForm{}})
}

// POST /register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var form validate.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		c.Status(fiber.StatusBadRequest)
		return render(c, "register", fiber.Map{"Form": form, "Err": "არასწორი მონაცემები"})
	}
	if errs := validate.Struct(&form); errs != nil {
		log.Security(c, "validation.fail", map[string]any{"form": "register", "fields": len(errs)})
		form.Password, form.ConfirmPassword = "", ""
		c.Status(fiber.StatusBadRequest)
		return render(c, "register", fiber.Map{"Form": form, "Errors": errs})
	}
	u, err := h.Auth.Register(sessionID(c), form)
	if errors.Is(err, services.ErrEmailTaken) {
		form.Password, form.ConfirmPassword = "", ""
		c.Status(fiber.StatusConflict)
		return render(c, "register", fiber.Map{"Form": form, "Errors": validate.FieldErrors{"email": "ეს ელ-ფოსტა უკვე დარეგისტრირებულია"}})
	}
	if err != nil {
		return serverError(c, "auth.register.fail", err, nil)
	}
	c.Locals("userID", u.ID)
	log.Audit(c, "auth.register", map[string]any{"user_id": u.ID, "email": u.Email})
	setFlash(c, "რეგისტრაცია წარმატებით დასრულდა")
	return c.Redirect("/profile")
}
