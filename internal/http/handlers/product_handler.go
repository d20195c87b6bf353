package handlers

import (
	"github.com/gofiber/fiber/v2"

	"threadline/internal/services"
	"threadline/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func (h *ProductHandler) HomePage(c *fiber.Ctx) error {
	return render(c, "home", fiber.Map{})
}

// DetailPage serves the product page, 404ing for unknown ids so dead links
// do not render an empty shell.
func (h *ProductHandler) DetailPage(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return renderNotFound(c, "This item is no longer available")
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return renderNotFound(c, "This item is no longer available")
	}
	return render(c, "product", fiber.Map{"Product": p})
}

// List returns the full catalog. GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.List()
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(products)
}
