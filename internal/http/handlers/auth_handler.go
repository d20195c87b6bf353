package handlers

import (
	"github.com/gofiber/fiber/v2"
	fsession "github.com/gofiber/fiber/v2/middleware/session"

	"threadline/internal/apperr"
	"threadline/internal/domain"
	applog "threadline/internal/log"
	"threadline/internal/services"
	"threadline/internal/session"
)

type AuthHandler struct {
	Auth  *services.AuthService
	Store *fsession.Store
}

func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{})
}

func (h *AuthHandler) RegisterPage(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{})
}

type registerRequest struct {
	Username  string `json:"username" form:"username"`
	Password  string `json:"password" form:"password"`
	Password2 string `json:"password2" form:"password2"`
}

// Register creates an account. POST /users/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondAuthErr(c, apperr.Validation("Please enter all fields."))
	}
	u, err := h.Auth.Register(req.Username, req.Password, req.Password2)
	if err != nil {
		applog.Security(c, "auth.register.fail", map[string]any{"username": req.Username})
		return respondAuthErr(c, err)
	}
	applog.Audit(c, "auth.register", map[string]any{"username": u.Username})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Registration successful. You can now log in."})
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login verifies credentials and drops the identity snapshot into the
// session. POST /users/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondAuthErr(c, apperr.Validation("Please enter all fields."))
	}
	u, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"username": req.Username})
		return respondAuthErr(c, err)
	}

	s, err := h.Store.Get(c)
	if err != nil {
		return respondErr(c, apperr.Storage("Login failed.", err))
	}
	session.SetUser(s, domain.SessionUser{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin})
	if err := s.Save(); err != nil {
		return respondErr(c, apperr.Storage("Login failed.", err))
	}
	applog.Audit(c, "auth.login.success", map[string]any{"username": u.Username})
	return c.JSON(fiber.Map{"message": "Login successful."})
}

// Logout destroys the session (identity and cart together); calling it
// while logged out is a no-op. GET /users/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	s, err := h.Store.Get(c)
	if err == nil {
		if derr := s.Destroy(); derr != nil {
			applog.Error(c, "auth.logout.fail", derr, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error logging out."})
		}
	}
	applog.Audit(c, "auth.logout", nil)
	return c.Redirect("/users/login")
}

// CurrentUser reports who the session belongs to, or JSON null for
// anonymous callers. GET /api/currentUser
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	s, err := h.Store.Get(c)
	if err != nil {
		return c.JSON(nil)
	}
	u := session.User(s)
	if u == nil {
		return c.JSON(nil)
	}
	return c.JSON(fiber.Map{"username": u.Username, "isAdmin": u.IsAdmin})
}
