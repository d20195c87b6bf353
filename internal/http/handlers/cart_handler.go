package handlers

import (
	"github.com/gofiber/fiber/v2"
	fsession "github.com/gofiber/fiber/v2/middleware/session"

	"threadline/internal/apperr"
	applog "threadline/internal/log"
	"threadline/internal/services"
	"threadline/internal/session"
)

type CartHandler struct {
	Cart  *services.CartService
	Store *fsession.Store
}

func (h *CartHandler) CartPage(c *fiber.Ctx) error {
	return render(c, "cart", fiber.Map{})
}

// Get returns the session cart; an untouched session reads as empty.
// GET /api/cart
func (h *CartHandler) Get(c *fiber.Ctx) error {
	s, err := h.Store.Get(c)
	if err != nil {
		return respondErr(c, apperr.Storage("Failed to load cart.", err))
	}
	return c.JSON(session.Cart(s))
}

type cartAddRequest struct {
	ProductID   int64 `json:"productId" form:"productId"`
	OptionIndex *int  `json:"optionIndex" form:"optionIndex"`
}

// Add snapshots a product option into the cart. POST /api/cart/add
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req cartAddRequest
	if err := c.BodyParser(&req); err != nil || req.ProductID == 0 || req.OptionIndex == nil {
		return respondErr(c, apperr.Validation("Invalid product or option."))
	}
	item, err := h.Cart.BuildItem(req.ProductID, *req.OptionIndex)
	if err != nil {
		return respondErr(c, err)
	}

	s, err := h.Store.Get(c)
	if err != nil {
		return respondErr(c, apperr.Storage("Failed to update cart.", err))
	}
	items := append(session.Cart(s), item)
	session.SetCart(s, items)
	if err := s.Save(); err != nil {
		return respondErr(c, apperr.Storage("Failed to update cart.", err))
	}
	applog.Info(c, "cart.add", map[string]any{"product_id": item.ProductID, "option": item.Option})
	return c.JSON(fiber.Map{"message": "Product added to cart successfully.", "cart": items})
}

type cartRemoveRequest struct {
	Index *int `json:"index" form:"index"`
}

// Remove drops one cart line by position. POST /api/cart/remove
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	var req cartRemoveRequest
	if err := c.BodyParser(&req); err != nil || req.Index == nil {
		return respondErr(c, apperr.Validation("Invalid cart item index."))
	}

	s, err := h.Store.Get(c)
	if err != nil {
		return respondErr(c, apperr.Storage("Failed to update cart.", err))
	}
	items, err := services.RemoveIndex(session.Cart(s), *req.Index)
	if err != nil {
		return respondErr(c, err)
	}
	session.SetCart(s, items)
	if err := s.Save(); err != nil {
		return respondErr(c, apperr.Storage("Failed to update cart.", err))
	}
	return c.JSON(fiber.Map{"message": "Item removed from cart successfully.", "cart": items})
}
