package handlers

import (
	"encoding/json"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"threadline/internal/apperr"
	"threadline/internal/domain"
	applog "threadline/internal/log"
	"threadline/internal/media"
	"threadline/internal/services"
	"threadline/internal/validate"
)

type AdminProductHandler struct {
	Catalog *services.CatalogService
	Media   *media.Store
}

func (h *AdminProductHandler) ManagePage(c *fiber.Ctx) error {
	return render(c, "admin_products", fiber.Map{})
}

func (h *AdminProductHandler) AddPage(c *fiber.Ctx) error {
	return render(c, "admin_product_add", fiber.Map{})
}

func (h *AdminProductHandler) EditPage(c *fiber.Ctx) error {
	return render(c, "admin_product_edit", fiber.Map{})
}

// List returns every product. GET /admin/api/products
func (h *AdminProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.List()
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(products)
}

// Get returns one product for the edit form. GET /admin/api/products/:id
func (h *AdminProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return respondErr(c, apperr.NotFound("Product not found."))
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(p)
}

// parseOptions decodes the multipart "options" field: a JSON array whose
// prices may arrive as numbers or numeric strings.
func parseOptions(raw string) ([]domain.ProductOption, error) {
	var decoded []struct {
		Name  string `json:"name"`
		Price any    `json:"price"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, apperr.Validation("Invalid options format.")
	}
	out := make([]domain.ProductOption, 0, len(decoded))
	for _, d := range decoded {
		price, ok := coercePrice(d.Price)
		if !ok {
			return nil, apperr.Validation("Each option must have a valid name and price.")
		}
		out = append(out, domain.ProductOption{Name: d.Name, Price: price})
	}
	return out, nil
}

func coercePrice(v any) (float64, bool) {
	switch p := v.(type) {
	case float64:
		return p, p >= 0
	case string:
		f, err := strconv.ParseFloat(p, 64)
		return f, err == nil && f >= 0
	default:
		return 0, false
	}
}

// saveUploads stores every "images" file and returns their public paths.
func (h *AdminProductHandler) saveUploads(c *fiber.Ctx) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil // no multipart body; nothing uploaded
	}
	files := form.File["images"]
	if len(files) > media.MaxFileCount {
		return nil, apperr.Validation("Too many images; at most 10 per request.")
	}
	var paths []string
	for _, fh := range files {
		path, err := h.saveOne(fh)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (h *AdminProductHandler) saveOne(fh *multipart.FileHeader) (string, error) {
	path, err := h.Media.Save(fh)
	if err == media.ErrBadImage {
		return "", apperr.Validation("Only JPEG and PNG images are allowed.")
	}
	if err == media.ErrTooLarge {
		return "", apperr.Validation("Each image must be 5 MB or smaller.")
	}
	if err != nil {
		return "", apperr.Storage("Failed to store image.", err)
	}
	return path, nil
}

// Create adds a product from a multipart form: name, description, options
// (JSON), images (files). POST /admin/api/products
func (h *AdminProductHandler) Create(c *fiber.Ctx) error {
	name := c.FormValue("name")
	description := c.FormValue("description")
	options, err := parseOptions(c.FormValue("options"))
	if err != nil {
		return respondErr(c, err)
	}
	images, err := h.saveUploads(c)
	if err != nil {
		return respondErr(c, err)
	}

	p, err := h.Catalog.Create(name, description, options, images)
	if err != nil {
		// The record was rejected; don't keep its uploads around.
		h.discard(images)
		return respondErr(c, err)
	}
	applog.Audit(c, "admin.product.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product added successfully.", "product": p})
}

// Update edits a product: field overwrites, options replacement, image
// delete-set, new uploads and an explicit reorder, all in one request.
// PUT /admin/api/products/:id
func (h *AdminProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return respondErr(c, apperr.NotFound("Product not found."))
	}

	upd := services.ProductUpdate{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
	}
	if raw := c.FormValue("options"); raw != "" {
		options, err := parseOptions(raw)
		if err != nil {
			return respondErr(c, err)
		}
		upd.Options = options
	}
	if raw := c.FormValue("deleteImages"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &upd.DeleteSet); err != nil {
			return respondErr(c, apperr.Validation("Invalid JSON format in options, imageOrder, or deleteImages."))
		}
	}
	if raw := c.FormValue("imageOrder"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &upd.ImageOrder); err != nil {
			return respondErr(c, apperr.Validation("Invalid JSON format in options, imageOrder, or deleteImages."))
		}
	}
	newImages, err := h.saveUploads(c)
	if err != nil {
		return respondErr(c, err)
	}
	upd.NewImages = newImages

	p, err := h.Catalog.Update(id, upd)
	if err != nil {
		h.discard(newImages)
		return respondErr(c, err)
	}
	applog.Audit(c, "admin.product.update", map[string]any{"product_id": p.ID})
	return c.JSON(fiber.Map{"message": "Product updated successfully.", "product": p})
}

// Delete removes a product and its image files. DELETE /admin/api/products/:id
func (h *AdminProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return respondErr(c, apperr.NotFound("Product not found."))
	}
	p, err := h.Catalog.Delete(id)
	if err != nil {
		return respondErr(c, err)
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "Product deleted successfully.", "product": p})
}

func (h *AdminProductHandler) discard(paths []string) {
	for _, p := range paths {
		if err := h.Media.Remove(p); err != nil {
			applog.Error(nil, "media.remove.fail", err, map[string]any{"path": p})
		}
	}
}
