package handlers

import (
	"github.com/gofiber/fiber/v2"

	"threadline/internal/apperr"
	applog "threadline/internal/log"
	"threadline/internal/services"
	"threadline/internal/validate"
)

type AdminOrderHandler struct {
	Order *services.OrderService
}

func (h *AdminOrderHandler) ManagePage(c *fiber.Ctx) error {
	return render(c, "admin_orders", fiber.Map{})
}

func (h *AdminOrderHandler) DetailPage(c *fiber.Ctx) error {
	return render(c, "admin_order_detail", fiber.Map{})
}

// List returns every order, newest first, with no ownership filter.
// GET /admin/api/orders
func (h *AdminOrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.Order.ListAll()
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(orders)
}

// Get returns any order by id. GET /admin/api/orders/:id
func (h *AdminOrderHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return respondErr(c, apperr.NotFound("Order not found."))
	}
	o, err := h.Order.GetByID(id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(o)
}

type orderUpdateRequest struct {
	Status         *string `json:"status"`
	TrackingNumber *string `json:"trackingNumber"`
	AdminNotes     *string `json:"adminNotes"`
}

// Update applies a partial edit: absent fields stay as they are, an explicit
// empty string clears tracking/notes. PUT /admin/api/orders/:id
func (h *AdminOrderHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return respondErr(c, apperr.NotFound("Order not found."))
	}
	var req orderUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondErr(c, apperr.Validation("Invalid order update."))
	}
	o, err := h.Order.Update(id, services.OrderUpdate{
		Status:         req.Status,
		TrackingNumber: req.TrackingNumber,
		AdminNotes:     req.AdminNotes,
	})
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "admin.order.update", map[string]any{"order_id": id, "status": o.Status})
	return c.JSON(fiber.Map{"message": "Order updated successfully.", "order": o})
}

// Delete removes an order permanently. DELETE /admin/api/orders/:id
func (h *AdminOrderHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return respondErr(c, apperr.NotFound("Order not found."))
	}
	o, err := h.Order.Delete(id)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "admin.order.delete", map[string]any{"order_id": id})
	return c.JSON(fiber.Map{"message": "Order deleted successfully.", "order": o})
}
