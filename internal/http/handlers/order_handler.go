package handlers

import (
	"github.com/gofiber/fiber/v2"
	fsession "github.com/gofiber/fiber/v2/middleware/session"

	"threadline/internal/apperr"
	"threadline/internal/domain"
	applog "threadline/internal/log"
	"threadline/internal/services"
	"threadline/internal/session"
	"threadline/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
	Store *fsession.Store
}

func (h *OrderHandler) CheckoutPage(c *fiber.Ctx) error {
	return render(c, "checkout", fiber.Map{})
}

func (h *OrderHandler) HistoryPage(c *fiber.Ctx) error {
	return render(c, "orders", fiber.Map{})
}

type checkoutRequest struct {
	CashappUsername string              `json:"cashappUsername" form:"cashappUsername"`
	Shipping        domain.ShippingInfo `json:"shippingInfo"`
	UserNotes       string              `json:"userNotes" form:"userNotes"`
}

// Checkout converts the session cart into an order and clears the cart. The
// clear is only committed once the order is persisted. POST /api/checkout
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.SessionUser)
	if u == nil {
		return respondErr(c, apperr.Unauthorized("Not logged in."))
	}
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, apperr.Validation("Invalid checkout request."))
	}

	s, err := h.Store.Get(c)
	if err != nil {
		return respondErr(c, apperr.Storage("Failed to place order.", err))
	}
	cart := session.Cart(s)

	id, err := h.Order.Checkout(*u, cart, req.CashappUsername, req.Shipping, req.UserNotes)
	if err != nil {
		return respondErr(c, err)
	}

	session.SetCart(s, []domain.CartItem{})
	if err := s.Save(); err != nil {
		// The order exists; a stale cart is the lesser failure.
		applog.Error(c, "checkout.cart.clear.fail", err, map[string]any{"order_id": id})
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": id, "items": len(cart)})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Order placed successfully.", "orderId": id})
}

// List returns the caller's own orders, newest first. GET /api/orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.SessionUser)
	if u == nil {
		return respondErr(c, apperr.Unauthorized("Not logged in."))
	}
	orders, err := h.Order.ListForUser(u.ID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(orders)
}

// Get returns one order, only to its owner. GET /api/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.SessionUser)
	if u == nil {
		return respondErr(c, apperr.Unauthorized("Not logged in."))
	}
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return respondErr(c, apperr.NotFound("Order not found."))
	}
	o, err := h.Order.GetOwned(id, u.ID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(o)
}
