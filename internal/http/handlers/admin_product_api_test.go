package handlers_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"threadline/internal/domain"
)

// productForm builds the multipart body the admin UI submits.
func productForm(t *testing.T, fields map[string]string, images ...string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range images {
		fw, err := w.CreateFormFile("images", name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte("imagedata")); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestAdminProductLifecycle(t *testing.T) {
	app, db := newTestApp(t)
	admin := adminClient(t, app, db)

	body, ctype := productForm(t, map[string]string{
		"name":        "Zip Hoodie",
		"description": "Heavyweight fleece.",
		// string prices arrive from the form layer and must coerce
		"options": `[{"name":"M","price":40},{"name":"XL","price":"45.5"}]`,
	}, "front.png", "back.jpg")
	resp := admin.do("POST", "/admin/api/products", ctype, body)
	wantStatus(t, resp, http.StatusCreated)

	var created struct {
		Product domain.Product `json:"product"`
	}
	decodeBody(t, resp, &created)
	p := created.Product
	if p.ID == 0 || len(p.Images) != 2 || len(p.Options) != 2 {
		t.Fatalf("created product: %+v", p)
	}
	if p.Options[1].Price != 45.5 {
		t.Fatalf("string price not coerced: %+v", p.Options)
	}
	for _, img := range p.Images {
		if !strings.HasPrefix(img, "/uploads/images-") {
			t.Fatalf("stored image path %q", img)
		}
	}

	// Edit: rename, drop the first image, keep the second.
	body, ctype = productForm(t, map[string]string{
		"name":         "Zip Hoodie v2",
		"deleteImages": `["` + p.Images[0] + `"]`,
	})
	resp = admin.do("PUT", "/admin/api/products/"+itoa(p.ID), ctype, body)
	wantStatus(t, resp, http.StatusOK)
	var updated struct {
		Product domain.Product `json:"product"`
	}
	decodeBody(t, resp, &updated)
	if updated.Product.Name != "Zip Hoodie v2" || updated.Product.Description != "Heavyweight fleece." {
		t.Fatalf("partial edit wrong: %+v", updated.Product)
	}
	if len(updated.Product.Images) != 1 || updated.Product.Images[0] != p.Images[1] {
		t.Fatalf("image delete wrong: %v", updated.Product.Images)
	}

	resp = admin.do("DELETE", "/admin/api/products/"+itoa(p.ID), "", nil)
	wantStatus(t, resp, http.StatusOK)
	resp = admin.get("/admin/api/products/" + itoa(p.ID))
	wantStatus(t, resp, http.StatusNotFound)
}

func TestAdminProductCreateRejectsNonImage(t *testing.T) {
	app, db := newTestApp(t)
	admin := adminClient(t, app, db)

	body, ctype := productForm(t, map[string]string{
		"name":        "Sticker",
		"description": "Die cut.",
		"options":     `[{"name":"One size","price":3}]`,
	}, "payload.gif")
	resp := admin.do("POST", "/admin/api/products", ctype, body)
	wantStatus(t, resp, http.StatusBadRequest)
	var got struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &got)
	if got.Message != "Only JPEG and PNG images are allowed." {
		t.Fatalf("unexpected message: %q", got.Message)
	}
}

func TestAdminProductCreateRequiresFields(t *testing.T) {
	app, db := newTestApp(t)
	admin := adminClient(t, app, db)

	body, ctype := productForm(t, map[string]string{
		"name":        "Nameless",
		"description": "",
		"options":     `[{"name":"S","price":10}]`,
	}, "front.png")
	resp := admin.do("POST", "/admin/api/products", ctype, body)
	wantStatus(t, resp, http.StatusBadRequest)
}

func TestAdminProductRejectsBadOptionsJSON(t *testing.T) {
	app, db := newTestApp(t)
	admin := adminClient(t, app, db)

	body, ctype := productForm(t, map[string]string{
		"name":        "Tee",
		"description": "Soft.",
		"options":     `{"not":"an array"}`,
	}, "front.png")
	resp := admin.do("POST", "/admin/api/products", ctype, body)
	wantStatus(t, resp, http.StatusBadRequest)
	var got struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &got)
	if got.Message != "Invalid options format." {
		t.Fatalf("unexpected message: %q", got.Message)
	}
}

func TestAdminOrderDelete(t *testing.T) {
	app, db := newTestApp(t)
	p := seedCatalog(t, db)
	alice := signUpAndIn(t, app, "alice")

	resp := alice.json("POST", "/api/cart/add", map[string]any{"productId": p.ID, "optionIndex": 0})
	wantStatus(t, resp, http.StatusOK)
	resp = alice.json("POST", "/api/checkout", map[string]any{
		"cashappUsername": "$alice",
		"shippingInfo": map[string]any{
			"address": "1 Main St", "city": "College Park",
			"state": "MD", "zip": "20740", "country": "USA",
		},
	})
	wantStatus(t, resp, http.StatusCreated)
	var placed struct {
		OrderID int64 `json:"orderId"`
	}
	decodeBody(t, resp, &placed)

	admin := adminClient(t, app, db)
	resp = admin.do("DELETE", "/admin/api/orders/"+itoa(placed.OrderID), "", nil)
	wantStatus(t, resp, http.StatusOK)

	resp = admin.get("/admin/api/orders/" + itoa(placed.OrderID))
	wantStatus(t, resp, http.StatusNotFound)
}
