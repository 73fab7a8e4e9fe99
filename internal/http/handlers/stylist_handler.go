package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	applog "tiflisi/internal/log"
	"tiflisi/internal/services"
	"tiflisi/internal/validate"
)

const stylistTimeout = 30 * time.Second

type StylistHandler struct {
	Stylist *services.StylistService
}

// GET /ai-stylist
func (h *StylistHandler) Form(c *fiber.Ctx) error {
	return render(c, "ai_stylist", fiber.Map{"Enabled": h.Stylist.Enabled(), "Form": validate.StylistForm{}})
}

// POST /ai-stylist
func (h *StylistHandler) Advise(c *fiber.Ctx) error {
	data := fiber.Map{"Enabled": h.Stylist.Enabled(), "Form": validate.StylistForm{}}
	var form validate.StylistForm
	if err := c.BodyParser(&form); err != nil {
		c.Status(fiber.StatusBadRequest)
		data["Err"] = "არასწორი მონაცემები"
		return render(c, "ai_stylist", data)
	}
	data["Form"] = form
	if errs := validate.Struct(&form); errs != nil {
		c.Status(fiber.StatusBadRequest)
		data["Errors"] = errs
		return render(c, "ai_stylist", data)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), stylistTimeout)
	defer cancel()
	advice, err := h.Stylist.Advice(ctx, form)
	switch {
	case errors.Is(err, services.ErrStylistUnavailable):
		c.Status(fiber.StatusServiceUnavailable)
		data["Err"] = "AI სტილისტი ამჟამად მიუწვდომელია"
		return render(c, "ai_stylist", data)
	case err != nil:
		applog.Error(c, "stylist.advice.fail", err, nil)
		c.Status(fiber.StatusBadGateway)
		data["Err"] = "რჩევის მიღება ვერ მოხერხდა. გთხოვთ, სცადოთ მოგვიანებით."
		return render(c, "ai_stylist", data)
	}
	applog.Info(c, "stylist.advice", map[string]any{"item": form.ClothingItem, "chars": len([]rune(advice))})
	data["Advice"] = advice
	return render(c, "ai_stylist", data)
}
