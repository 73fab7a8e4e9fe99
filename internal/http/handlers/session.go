package handlers

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tiflisi/internal/domain"
	"tiflisi/internal/services"
)

const (
	sidCookie   = "sid"
	flashCookie = "flash"
)

// Session makes sure every visitor carries a sid cookie and attaches the
// logged-in user, if any, to the request.
func Session(auth *services.AuthService, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(sidCookie)
		if sid == "" {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     sidCookie,
				Value:    sid,
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
				Secure:   secure,
				Expires:  time.Now().Add(30 * 24 * time.Hour),
			})
		}
		c.Locals("sid", sid)
		c.Locals("cookieSecure", secure)
		if u, err := auth.CurrentUser(sid); err == nil && u != nil {
			c.Locals("user", u)
			c.Locals("userID", u.ID)
		}
		return c.Next()
	}
}

func sessionID(c *fiber.Ctx) string {
	if sid, ok := c.Locals("sid").(string); ok && sid != "" {
		return sid
	}
	return c.Cookies(sidCookie)
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

func expireCookie(c *fiber.Ctx, name string) {
	secure, _ := c.Locals("cookieSecure").(bool)
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   secure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

// setFlash stores a one-shot message shown by the next rendered page.
func setFlash(c *fiber.Ctx, msg string) {
	secure, _ := c.Locals("cookieSecure").(bool)
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   secure,
	})
}

func popFlash(c *fiber.Ctx) string {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return ""
	}
	expireCookie(c, flashCookie)
	msg, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return msg
}
