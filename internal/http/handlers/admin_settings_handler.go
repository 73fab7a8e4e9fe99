package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "tiflisi/internal/log"
	"tiflisi/internal/services"
	"tiflisi/internal/validate"
)

type AdminSettingsHandler struct {
	Settings *services.SettingsService
	Media    *services.MediaService
}

var settingsSlots = []string{
	services.SlotLogo, services.SlotBanner, services.SlotCraftsmanship,
	services.SlotHomeAd, services.SlotCatalogAd,
}

// GET /admin/settings
func (h *AdminSettingsHandler) Form(c *fiber.Ctx) error {
	return render(c, "admin_settings", fiber.Map{"Current": h.Settings.Current(), "Slots": settingsSlots})
}

// POST /admin/settings
func (h *AdminSettingsHandler) Save(c *fiber.Ctx) error {
	var form validate.SettingsForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid form")
	}
	if errs := validate.Struct(&form); errs != nil {
		applog.Security(c, "validation.fail", map[string]any{"form": "settings", "fields": len(errs)})
		c.Status(fiber.StatusBadRequest)
		return render(c, "admin_settings", fiber.Map{"Current": h.Settings.Current(), "Slots": settingsSlots, "Errors": errs})
	}
	st := services.ApplyForm(h.Settings.Current(), form)
	if err := h.Settings.Save(st); err != nil {
		return serverError(c, "admin.settings.save.fail", err, nil)
	}
	applog.Audit(c, "admin.settings.save", map[string]any{
		"maintenance": st.MaintenanceMode,
		"cod":         st.CashOnDeliveryEnabled,
		"tbc_pay":     st.TBCPayEnabled,
	})
	setFlash(c, "პარამეტრები შენახულია")
	return c.Redirect("/admin/settings")
}

// POST /admin/settings/images/:slot
func (h *AdminSettingsHandler) UploadImage(c *fiber.Ctx) error {
	slot := c.Params("slot")
	up, err := readUpload(c, "image")
	if err != nil {
		setFlash(c, uploadMessage(err))
		return c.Redirect("/admin/settings")
	}
	url, err := h.Media.PutSiteImage(c.UserContext(), slot, up)
	if err == nil {
		err = h.Settings.SetImage(slot, url)
	}
	if err != nil {
		if !clientUploadError(err) {
			applog.Error(c, "admin.settings.image.fail", err, map[string]any{"slot": slot})
		}
		setFlash(c, uploadMessage(err))
		return c.Redirect("/admin/settings")
	}
	applog.Audit(c, "admin.settings.image", map[string]any{"slot": slot, "url": url})
	setFlash(c, "სურათი აიტვირთა")
	return c.Redirect("/admin/settings")
}
