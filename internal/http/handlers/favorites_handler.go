package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "tiflisi/internal/log"
	"tiflisi/internal/services"
	"tiflisi/internal/validate"
)

type FavoritesHandler struct {
	Favs *services.FavoritesService
}

// GET /favorites
func (h *FavoritesHandler) List(c *fiber.Ctx) error {
	f := h.Favs.Open(c.UserContext(), sessionID(c))
	return render(c, "favorites", fiber.Map{"Items": f.Items(), "Ready": f.Initialized()})
}

// POST /favorites/toggle
func (h *FavoritesHandler) Toggle(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	fav, name, err := h.Favs.Toggle(c.UserContext(), sessionID(c), pid)
	if errors.Is(err, services.ErrProductNotFound) {
		return notFound(c, "პროდუქტი ვერ მოიძებნა")
	}
	if err != nil {
		return serverError(c, "favorites.toggle.fail", err, map[string]any{"product": pid})
	}
	applog.Info(c, "favorites.toggle", map[string]any{"product": pid, "favorite": fav})
	if fav {
		setFlash(c, name+" დაემატა რჩეულებში")
	} else {
		setFlash(c, name+" წაიშალა რჩეულებიდან")
	}
	return back(c, "/favorites")
}
