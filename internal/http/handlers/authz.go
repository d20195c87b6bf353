package handlers

import (
	"github.com/gofiber/fiber/v2"
	fsession "github.com/gofiber/fiber/v2/middleware/session"

	applog "threadline/internal/log"
	"threadline/internal/session"
)

// RequireUser redirects anonymous callers to the login page and stashes the
// identity snapshot in locals for everything downstream.
func RequireUser(store *fsession.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := store.Get(c)
		if err != nil {
			return c.Redirect("/users/login")
		}
		u := session.User(s)
		if u == nil {
			return c.Redirect("/users/login")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireAdmin gates the admin surface. Anonymous callers go to login;
// authenticated non-admins get a plain 403.
func RequireAdmin(store *fsession.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := store.Get(c)
		if err != nil {
			return c.Redirect("/users/login")
		}
		u := session.User(s)
		if u == nil {
			return c.Redirect("/users/login")
		}
		if !u.IsAdmin {
			applog.Security(c, "access.denied.admin", map[string]any{"username": u.Username})
			return c.Status(fiber.StatusForbidden).SendString("Access denied. Admins only.")
		}
		c.Locals("user", u)
		return c.Next()
	}
}
