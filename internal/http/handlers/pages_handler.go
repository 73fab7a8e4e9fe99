package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "tiflisi/internal/log"
	"tiflisi/internal/services"
	"tiflisi/internal/validate"
)

type PagesHandler struct {
	Contact *services.ContactService
}

// Static renders a template that needs only the page chrome.
func Static(tmpl string) fiber.Handler {
	return func(c *fiber.Ctx) error { return render(c, tmpl, nil) }
}

// GET /contact
func (h *PagesHandler) ContactForm(c *fiber.Ctx) error {
	return render(c, "contact", fiber.Map{"Form": validate.ContactForm{}})
}

// POST /contact
func (h *PagesHandler) ContactSubmit(c *fiber.Ctx) error {
	var form validate.ContactForm
	if err := c.BodyParser(&form); err != nil {
		c.Status(fiber.StatusBadRequest)
		return render(c, "contact", fiber.Map{"Form": form, "Err": "არასწორი მონაცემები"})
	}
	if errs := validate.Struct(&form); errs != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "contact", "fields": len(errs)})
		c.Status(fiber.StatusBadRequest)
		return render(c, "contact", fiber.Map{"Form": form, "Errors": errs})
	}
	m, err := h.Contact.Submit(form)
	if err != nil {
		return serverError(c, "contact.submit.fail", err, nil)
	}
	applog.Info(c, "contact.submit", map[string]any{"message_id": m.ID})
	setFlash(c, "შეტყობინება გაიგზავნა. მადლობა!")
	return c.Redirect("/contact")
}
