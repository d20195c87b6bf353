package services_test

import (
	"os"
	"path/filepath"
	"testing"

	"threadline/internal/apperr"
	"threadline/internal/domain"
	"threadline/internal/media"
	"threadline/internal/repos"
	"threadline/internal/services"
)

func mediaStore(t *testing.T) *media.Store {
	t.Helper()
	store, err := media.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store
}

// touchImage drops a placeholder file behind a public path so cleanup has
// something real to delete.
func touchImage(t *testing.T, store *media.Store, name string) string {
	t.Helper()
	path := filepath.Join(store.PublicDir, "uploads", name)
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	return "/uploads/" + name
}

func TestCreateRequiresAllFields(t *testing.T) {
	svc := services.NewCatalogService(repos.NewProductRepo(memdb(t)), nil)

	opts := []domain.ProductOption{{Name: "S", Price: 10}}
	imgs := []string{"/uploads/images-x.png"}

	cases := []struct {
		name, desc string
		options    []domain.ProductOption
		images     []string
	}{
		{"", "desc", opts, imgs},
		{"Tee", "  ", opts, imgs},
		{"Tee", "desc", nil, imgs},
		{"Tee", "desc", opts, nil},
	}
	for _, c := range cases {
		_, err := svc.Create(c.name, c.desc, c.options, c.images)
		wantKind(t, err, apperr.KindValidation)
	}
}

func TestCreateRejectsBadOption(t *testing.T) {
	svc := services.NewCatalogService(repos.NewProductRepo(memdb(t)), nil)

	_, err := svc.Create("Tee", "desc",
		[]domain.ProductOption{{Name: "S", Price: -1}},
		[]string{"/uploads/images-x.png"})
	wantKind(t, err, apperr.KindValidation)

	_, err = svc.Create("Tee", "desc",
		[]domain.ProductOption{{Name: "   ", Price: 10}},
		[]string{"/uploads/images-x.png"})
	wantKind(t, err, apperr.KindValidation)
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewProductRepo(db), nil)

	p, err := svc.Create("Zip Hoodie", "Heavyweight fleece.",
		[]domain.ProductOption{{Name: "M", Price: 40}, {Name: "XL", Price: 45}},
		[]string{"/uploads/images-hoodie.png"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID == 0 {
		t.Fatal("insert did not assign an id")
	}

	got, err := svc.Get(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Zip Hoodie" || len(got.Options) != 2 || got.Options[1].Price != 45 {
		t.Fatalf("round trip lost data: %+v", got)
	}
}

func TestUpdatePartialLeavesOtherFields(t *testing.T) {
	db := memdb(t)
	p := seedTee(t, db)
	svc := services.NewCatalogService(repos.NewProductRepo(db), nil)

	got, err := svc.Update(p.ID, services.ProductUpdate{Name: "Renamed Tee"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Renamed Tee" {
		t.Fatalf("name not updated: %+v", got)
	}
	if got.Description != p.Description || len(got.Options) != 2 || len(got.Images) != 2 {
		t.Fatalf("partial update clobbered other fields: %+v", got)
	}
}

func TestUpdateImagePipeline(t *testing.T) {
	db := memdb(t)
	store := mediaStore(t)
	front := touchImage(t, store, "images-front.png")
	back := touchImage(t, store, "images-back.png")

	prods := repos.NewProductRepo(db)
	p, err := prods.Insert(domain.Product{
		Name:        "Graphic Tee",
		Description: "Soft cotton tee.",
		Options:     []domain.ProductOption{{Name: "S", Price: 10}},
		Images:      []string{front, back},
	})
	if err != nil {
		t.Fatal(err)
	}

	svc := services.NewCatalogService(prods, store)
	got, err := svc.Update(p.ID, services.ProductUpdate{
		DeleteSet: []string{front},
		NewImages: []string{"/uploads/images-new.png"},
		// back, new -> new, back
		ImageOrder: []int{1, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"/uploads/images-new.png", back}
	if len(got.Images) != 2 || got.Images[0] != want[0] || got.Images[1] != want[1] {
		t.Fatalf("image pipeline produced %v, want %v", got.Images, want)
	}

	if _, err := os.Stat(filepath.Join(store.PublicDir, "uploads", "images-front.png")); !os.IsNotExist(err) {
		t.Fatal("deleted image file still on disk")
	}
	if _, err := os.Stat(filepath.Join(store.PublicDir, "uploads", "images-back.png")); err != nil {
		t.Fatal("kept image file was removed")
	}
}

func TestUpdateRejectsBadImageOrder(t *testing.T) {
	db := memdb(t)
	p := seedTee(t, db)
	svc := services.NewCatalogService(repos.NewProductRepo(db), nil)

	_, err := svc.Update(p.ID, services.ProductUpdate{ImageOrder: []int{0, 5}})
	wantKind(t, err, apperr.KindValidation)

	// The rejected update must not leave partial changes behind.
	got, err := svc.Get(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Images) != 2 || got.Images[0] != p.Images[0] {
		t.Fatalf("rejected update still mutated the product: %+v", got)
	}
}

func TestUpdateUnknownProduct(t *testing.T) {
	svc := services.NewCatalogService(repos.NewProductRepo(memdb(t)), nil)
	_, err := svc.Update(4242, services.ProductUpdate{Name: "ghost"})
	wantKind(t, err, apperr.KindNotFound)
}

func TestDeleteRemovesRecordAndFiles(t *testing.T) {
	db := memdb(t)
	store := mediaStore(t)
	img := touchImage(t, store, "images-gone.png")

	prods := repos.NewProductRepo(db)
	p, err := prods.Insert(domain.Product{
		Name:        "Graphic Tee",
		Description: "Soft cotton tee.",
		Options:     []domain.ProductOption{{Name: "S", Price: 10}},
		Images:      []string{img},
	})
	if err != nil {
		t.Fatal(err)
	}

	svc := services.NewCatalogService(prods, store)
	if _, err := svc.Delete(p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(p.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("product still present after delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.PublicDir, "uploads", "images-gone.png")); !os.IsNotExist(err) {
		t.Fatal("image file survived product delete")
	}
}
