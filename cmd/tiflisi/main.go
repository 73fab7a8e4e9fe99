package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"tiflisi/internal/config"
	"tiflisi/internal/http/handlers"
	"tiflisi/internal/kvstore"
	applog "tiflisi/internal/log"
	"tiflisi/internal/repos"
	"tiflisi/internal/services"
)

func fatal(action string, err error) {
	applog.Error(nil, action, err, nil)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal("config.load.fail", err)
	}
	closer, err := applog.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		applog.Error(nil, "log.file.fail", err, map[string]any{"path": cfg.LogFile})
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		fatal("db.open.fail", err)
	}
	defer db.Close()

	kv, closeKV, err := kvstore.Open(ctx, cfg, repos.NewKVRepo(db))
	if err != nil {
		fatal("kvstore.open.fail", err)
	}
	defer closeKV()

	backends := handlers.Backends{KV: kv}
	if cfg.MediaBackend == "gcs" {
		gcs, err := services.NewGCSMedia(ctx, cfg.GCSBucket)
		if err != nil {
			fatal("media.gcs.fail", err)
		}
		defer gcs.Close()
		backends.Media = gcs
	}
	if cfg.GeminiAPIKey != "" {
		gen, err := services.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			applog.Error(nil, "stylist.init.fail", err, nil)
		} else {
			backends.Stylist = gen
		}
	}

	// Templates & app
	engine := html.New(cfg.TemplatesDir, ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views:     engine,
		BodyLimit: services.MaxUploadBytes + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// avoid leaking internals; best-effort render
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "დაფიქსირდა შეცდომა. გთხოვთ, სცადოთ თავიდან.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("დაფიქსირდა შეცდომა. გთხოვთ, სცადოთ თავიდან.")
			}
			return nil
		},
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New(helmet.Config{
		// product and site images may live on storage.googleapis.com
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "უსაფრთხოების შემოწმება ვერ გაიარა. განაახლეთ გვერდი და სცადეთ თავიდან."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	applog.Info(nil, "static.mount", map[string]any{"static": "./web/static", "media": mediaDir})

	app.Static("/static", "./web/static")
	// guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(mediaDir, clean), true)
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, backends)
	handlers.Routes(app, deps)

	go func() {
		<-ctx.Done()
		applog.Info(nil, "server.shutdown", nil)
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port})
	if err := app.Listen(":" + cfg.Port); err != nil {
		fatal("server.listen.fail", err)
	}
}
