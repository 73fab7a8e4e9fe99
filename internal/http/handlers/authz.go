package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	applog "tiflisi/internal/log"
)

// RequireAdmin only lets ADMIN users through. Session must run first.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			return c.Redirect("/login?next=" + url.QueryEscape(c.OriginalURL()))
		}
		if !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", map[string]any{"user_id": u.ID})
			c.Status(fiber.StatusForbidden)
			return render(c, "notfound", fiber.Map{"Message": "წვდომა აკრძალულია"})
		}
		return c.Next()
	}
}

// RequireUser redirects anonymous visitors to the login page.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) == nil {
			return c.Redirect("/login?next=" + url.QueryEscape(c.OriginalURL()))
		}
		return c.Next()
	}
}
