package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "tiflisi/internal/log"
	"tiflisi/internal/services"
)

// Chrome supplies the header and footer data every page shows.
type Chrome struct {
	Cart     *services.CartService
	Favs     *services.FavoritesService
	Settings *services.SettingsService
}

func (ch *Chrome) data(c *fiber.Ctx) fiber.Map {
	sid := sessionID(c)
	m := fiber.Map{}
	if ch.Settings != nil {
		m["Settings"] = ch.Settings.Current()
	}
	if sid != "" && ch.Cart != nil {
		m["CartCount"] = ch.Cart.Open(c.UserContext(), sid).TotalItemCount()
	}
	if sid != "" && ch.Favs != nil {
		m["FavCount"] = ch.Favs.Open(c.UserContext(), sid).Count()
	}
	return m
}

// Middleware exposes the chrome to render.
func (ch *Chrome) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("chrome", ch)
		return c.Next()
	}
}

// Maintenance answers 503 for everything but admin, login and assets while
// maintenance mode is on.
func (ch *Chrome) Maintenance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ch.Settings == nil || !ch.Settings.Current().MaintenanceMode {
			return c.Next()
		}
		if u := currentUser(c); u != nil && u.IsAdmin() {
			return c.Next()
		}
		p := c.Path()
		for _, prefix := range []string{"/admin", "/login", "/logout", "/static/", "/media/", "/healthz"} {
			if strings.HasPrefix(p, prefix) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusServiceUnavailable).Render("maintenance", fiber.Map{"Settings": ch.Settings.Current()})
	}
}

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if ch, ok := c.Locals("chrome").(*Chrome); ok {
		for k, v := range ch.data(c) {
			if _, set := data[k]; !set {
				data[k] = v
			}
		}
	}
	if u := currentUser(c); u != nil {
		data["User"] = u
	}
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	if _, set := data["Flash"]; !set {
		if f := popFlash(c); f != "" {
			data["Flash"] = f
		}
	}
	return c.Render(tmpl, data)
}

func notFound(c *fiber.Ctx, msg string) error {
	c.Status(fiber.StatusNotFound)
	return render(c, "notfound", fiber.Map{"Message": msg})
}

// serverError logs err and shows a generic page.
func serverError(c *fiber.Ctx, action string, err error, fields map[string]any) error {
	applog.Error(c, action, err, fields)
	c.Status(fiber.StatusInternalServerError)
	return render(c, "notfound", fiber.Map{"Message": "დაფიქსირდა შეცდომა. გთხოვთ, სცადოთ თავიდან."})
}

// back redirects to the same-site referer, or fallback.
func back(c *fiber.Ctx, fallback string) error {
	if u, err := url.Parse(c.Get(fiber.HeaderReferer)); err == nil && u.Path != "" && (u.Host == "" || u.Host == c.Hostname()) {
		if target := u.RequestURI(); safeNext(target) == target {
			return c.Redirect(target)
		}
	}
	return c.Redirect(fallback)
}

// safeNext accepts only local paths as post-login targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}
