package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "tiflisi/internal/log"
	"tiflisi/internal/services"
	"tiflisi/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// GET /api/v1/availability?productId=
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing or invalid productId",
		})
	}
	avail, err := h.Inv.CheckAvailability(productID)
	if err != nil {
		applog.Error(c, "availability.fail", err, map[string]any{"product": productID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "availability unavailable",
		})
	}
	return c.JSON(avail)
}
