package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "tiflisi/internal/log"
	"tiflisi/internal/validate"
)

// Routes installs the session middleware and every application route.
// Security middleware (requestid, helmet, csrf, global limiter) is the
// caller's job.
func Routes(app *fiber.App, d *Deps) {
	app.Use(Session(d.Auth, d.CookieSecure))
	app.Use(d.Chrome.Middleware())
	app.Use(d.Chrome.Maintenance())

	// Public pages
	app.Get("/", d.Catalog.Home)
	app.Get("/catalog", d.Catalog.List)
	app.Get("/catalog/:slug", d.Catalog.Detail)
	app.Get("/product/:id", d.Catalog.ByID)
	app.Get("/about", Static("about"))
	app.Get("/terms", Static("terms"))
	app.Get("/privacy", Static("privacy"))
	app.Get("/contact", d.Pages.ContactForm)
	app.Post("/contact", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.contact.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).SendString("too many messages, retry later")
		},
	}), d.Pages.ContactSubmit)

	// API
	api := app.Group("/api/v1")
	api.Get("/availability", limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), d.Inv.Check)

	// Cart & favorites
	app.Get("/cart", d.Cart.View)
	app.Post("/cart", d.Cart.Add)
	app.Post("/cart/update", d.Cart.Update)
	app.Post("/cart/remove", d.Cart.Remove)
	app.Post("/cart/clear", d.Cart.Clear)
	app.Get("/favorites", d.Favs.List)
	app.Post("/favorites/toggle", d.Favs.Toggle)

	// Checkout & orders
	app.Get("/checkout", d.Orders.CheckoutPage)
	app.Post("/orders", d.Orders.Place)
	app.Get("/order/:id", d.Orders.View)
	app.Get("/orders", RequireUser(), d.Orders.History)
	app.Get("/payment/tbc/:tx", d.Orders.PaymentPage)
	app.Post("/payment/tbc/:tx/confirm", d.Orders.ResolvePayment(true))
	app.Post("/payment/tbc/:tx/cancel", d.Orders.ResolvePayment(false))

	// AI stylist
	app.Get("/ai-stylist", d.Stylist.Form)
	app.Post("/ai-stylist", limiter.New(limiter.Config{
		Max:        5,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.stylist.hit", nil)
			c.Status(fiber.StatusTooManyRequests)
			return render(c, "ai_stylist", fiber.Map{"Enabled": true, "Form": validate.StylistForm{}, "Err": "ძალიან ბევრი მოთხოვნა. სცადეთ ერთ წუთში."})
		},
	}), d.Stylist.Advise)

	// Accounts (login throttled)
	app.Get("/login", d.AuthH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			c.Status(fiber.StatusTooManyRequests)
			return render(c, "login", fiber.Map{"Err": "ძალიან ბევრი მცდელობა. სცადეთ მოგვიანებით."})
		},
	}), d.AuthH.Login)
	app.Post("/logout", d.AuthH.Logout)
	app.Get("/register", d.AuthH.RegisterForm)
	app.Post("/register", d.AuthH.Register)

	profile := app.Group("/profile", RequireUser())
	profile.Get("/", d.Profile.View)
	profile.Get("/edit", d.Profile.EditForm)
	profile.Post("/edit", d.Profile.Edit)
	profile.Get("/change-password", d.Profile.PasswordForm)
	profile.Post("/change-password", d.Profile.ChangePassword)

	// Admin
	admin := app.Group("/admin", RequireAdmin())
	admin.Get("/", d.Admin.Dashboard)
	admin.Get("/analytics", d.Admin.AnalyticsPage)
	admin.Get("/orders", d.Admin.OrdersPage)
	admin.Get("/orders/:id", d.Admin.OrderDetail)
	admin.Post("/orders/:id/status", d.Admin.UpdateOrderStatus)
	admin.Get("/inventory", d.Admin.Inventory)
	admin.Post("/inventory", d.Admin.UpdateInventory)
	admin.Get("/users", d.Admin.UsersPage)
	admin.Get("/users/:id", d.Admin.UserDetail)
	admin.Get("/users/:id/edit", d.Admin.UserEditForm)
	admin.Post("/users/:id", d.Admin.UserEdit)
	admin.Post("/users/:id/delete", d.Admin.DeleteUser)
	admin.Get("/products", d.Products.List)
	admin.Get("/products/add", d.Products.AddForm)
	admin.Post("/products", d.Products.Create)
	admin.Get("/products/:id/edit", d.Products.EditForm)
	admin.Post("/products/:id", d.Products.Update)
	admin.Post("/products/:id/delete", d.Products.Delete)
	admin.Post("/products/:id/images", d.Products.UploadImage)
	admin.Get("/settings", d.Settings.Form)
	admin.Post("/settings", d.Settings.Save)
	admin.Post("/settings/images/:slot", d.Settings.UploadImage)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return notFound(c, "გვერდი ვერ მოიძებნა")
	})
}
