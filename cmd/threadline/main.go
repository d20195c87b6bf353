package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"threadline/internal/config"
	"threadline/internal/http/handlers"
	applog "threadline/internal/log"
	"threadline/internal/media"
	"threadline/internal/repos"
	"threadline/internal/session"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := repos.SeedAdmin(db, cfg.AdminUser, cfg.AdminPass); err != nil {
		log.Fatal(err)
	}
	if err := repos.SeedDemoProducts(db); err != nil {
		log.Fatal(err)
	}

	mediaStore, err := media.New(cfg.PublicDir)
	if err != nil {
		log.Fatal(err)
	}
	store := session.NewStore()

	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals; best-effort render
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Room for a full product-image upload batch
	app.Server().MaxRequestBodySize = (media.MaxFileCount*media.MaxFileSize + 1<<20)

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/uploads/")
		},
	}))

	// ---------- Uploaded images ----------
	uploadsDir := cfg.UploadsDir()
	if !filepath.IsAbs(uploadsDir) {
		if abs, err := filepath.Abs(uploadsDir); err == nil {
			uploadsDir = abs
		}
	}
	log.Printf("[static] /static  -> %s", filepath.Join(cfg.PublicDir, "static"))
	log.Printf("[static] /uploads -> %s", uploadsDir)

	app.Static("/static", filepath.Join(cfg.PublicDir, "static"))

	// Guarded to avoid traversal
	app.Get("/uploads/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "uploads.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "uploads.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(uploadsDir, clean), true)
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, store, mediaStore)
	requireUser := handlers.RequireUser(store)

	// Auth (login throttled)
	app.Get("/users/login", deps.AuthHandler.LoginPage)
	app.Get("/users/register", deps.AuthHandler.RegisterPage)
	app.Post("/users/register", deps.AuthHandler.Register)
	app.Post("/users/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"errors": []string{"Too many attempts. Please try again later."}})
		},
	}), deps.AuthHandler.Login)
	app.Get("/users/logout", deps.AuthHandler.Logout)
	app.Get("/api/currentUser", deps.AuthHandler.CurrentUser)

	// Pages
	app.Get("/", requireUser, deps.ProductHandler.HomePage)
	app.Get("/home", requireUser, deps.ProductHandler.HomePage)
	app.Get("/product/:id", requireUser, deps.ProductHandler.DetailPage)
	app.Get("/cart", requireUser, deps.CartHandler.CartPage)
	app.Get("/checkout", requireUser, deps.OrderHandler.CheckoutPage)
	app.Get("/orders", requireUser, deps.OrderHandler.HistoryPage)

	// Customer API
	api := app.Group("/api", requireUser)
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/cart", deps.CartHandler.Get)
	api.Post("/cart/add", deps.CartHandler.Add)
	api.Post("/cart/remove", deps.CartHandler.Remove)
	api.Post("/checkout", deps.OrderHandler.Checkout)
	api.Get("/orders", deps.OrderHandler.List)
	api.Get("/orders/:id", deps.OrderHandler.Get)

	// Admin
	admin := app.Group("/admin", handlers.RequireAdmin(store))
	admin.Get("/manageProducts", deps.AdminProducts.ManagePage)
	admin.Get("/addProduct", deps.AdminProducts.AddPage)
	admin.Get("/editProduct", deps.AdminProducts.EditPage)
	admin.Get("/manageOrders", deps.AdminOrders.ManagePage)
	admin.Get("/order/:id", deps.AdminOrders.DetailPage)

	admin.Get("/api/products", deps.AdminProducts.List)
	admin.Post("/api/products", deps.AdminProducts.Create)
	admin.Get("/api/products/:id", deps.AdminProducts.Get)
	admin.Put("/api/products/:id", deps.AdminProducts.Update)
	admin.Delete("/api/products/:id", deps.AdminProducts.Delete)

	admin.Get("/api/orders", deps.AdminOrders.List)
	admin.Get("/api/orders/:id", deps.AdminOrders.Get)
	admin.Put("/api/orders/:id", deps.AdminOrders.Update)
	admin.Delete("/api/orders/:id", deps.AdminOrders.Delete)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
