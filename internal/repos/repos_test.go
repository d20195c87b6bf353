package repos_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"threadline/internal/domain"
	"threadline/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Two registrations in the same millisecond land on the same timestamp id;
// the second insert must slide forward instead of failing.
func TestUserInsertBumpsCollidingIDs(t *testing.T) {
	users := repos.NewUserRepo(memdb(t))

	first, err := users.Insert(1700000000000, "alice", "hash-a", false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := users.Insert(1700000000000, "bob", "hash-b", false)
	if err != nil {
		t.Fatal(err)
	}
	if first != 1700000000000 || second != 1700000000001 {
		t.Fatalf("ids %d, %d", first, second)
	}
}

func TestUserInsertStillRejectsDuplicateUsername(t *testing.T) {
	users := repos.NewUserRepo(memdb(t))

	if _, err := users.Insert(1700000000000, "alice", "hash-a", false); err != nil {
		t.Fatal(err)
	}
	if _, err := users.Insert(1700000000500, "alice", "hash-b", false); err == nil {
		t.Fatal("duplicate username accepted")
	}
}

func TestOrderInsertBumpsCollidingIDs(t *testing.T) {
	orders := repos.NewOrderRepo(memdb(t))

	base := domain.Order{
		ID: 1700000000000, UserID: 1, Username: "alice",
		Items:  []domain.CartItem{{ProductID: 1, Name: "Tee", Option: "S", Price: 10}},
		Status: domain.StatusPending, CreatedAt: "2026-08-31T12:00:00Z",
	}
	first, err := orders.Insert(base)
	if err != nil {
		t.Fatal(err)
	}
	second, err := orders.Insert(base)
	if err != nil {
		t.Fatal(err)
	}
	if second != first+1 {
		t.Fatalf("colliding order ids %d, %d", first, second)
	}
}

func TestOrderRoundTripKeepsNestedDocuments(t *testing.T) {
	orders := repos.NewOrderRepo(memdb(t))

	in := domain.Order{
		ID: 1700000000000, UserID: 42, Username: "alice",
		Items: []domain.CartItem{
			{ProductID: 1, Name: "Tee", Option: "S", Price: 10, Image: "/uploads/images-a.png"},
			{ProductID: 2, Name: "Hoodie", Option: "XL", Price: 48},
		},
		CashappUsername: "$alice",
		Shipping: domain.ShippingInfo{
			Address: "1 Main St", City: "College Park", State: "MD", Zip: "20740", Country: "USA",
		},
		UserNotes: "gift wrap",
		Status:    domain.StatusPending,
		CreatedAt: "2026-08-31T12:00:00Z",
	}
	id, err := orders.Insert(in)
	if err != nil {
		t.Fatal(err)
	}

	out, err := orders.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Items) != 2 || out.Items[1].Option != "XL" || out.Items[0].Image != "/uploads/images-a.png" {
		t.Fatalf("items mangled: %+v", out.Items)
	}
	if out.Shipping != in.Shipping || out.UserNotes != "gift wrap" || out.CreatedAt != in.CreatedAt {
		t.Fatalf("round trip lost fields: %+v", out)
	}
}

func TestProductRoundTrip(t *testing.T) {
	prods := repos.NewProductRepo(memdb(t))

	p, err := prods.Insert(domain.Product{
		Name:        "Classic Tee",
		Description: "Heavyweight cotton tee",
		Options:     []domain.ProductOption{{Name: "S", Price: 18}, {Name: "L", Price: 20}},
		Images:      []string{"/uploads/images-a.png", "/uploads/images-b.png"},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := prods.Get(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Options[1].Price != 20 || len(got.Images) != 2 {
		t.Fatalf("round trip lost data: %+v", got)
	}

	got.Name = "Renamed"
	if err := prods.Update(got); err != nil {
		t.Fatal(err)
	}
	again, err := prods.Get(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Name != "Renamed" {
		t.Fatalf("update lost: %+v", again)
	}

	if err := prods.Delete(p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := prods.Get(p.ID); err == nil {
		t.Fatal("product still readable after delete")
	}
}

func TestSeedAdminIsIdempotentAndHashed(t *testing.T) {
	db := memdb(t)
	if err := repos.SeedAdmin(db, "admin", "admin-secret"); err != nil {
		t.Fatal(err)
	}
	if err := repos.SeedAdmin(db, "admin", "different-pass"); err != nil {
		t.Fatal(err)
	}

	all, err := repos.NewUserRepo(db).ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("want one admin row, got %d", len(all))
	}
	if !all[0].IsAdmin {
		t.Fatal("seeded user is not admin")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(all[0].Hash), []byte("admin-secret")); err != nil {
		t.Fatalf("seed hash does not validate the original password: %v", err)
	}
}

func TestSeedDemoProductsOnlyOnEmptyCatalog(t *testing.T) {
	db := memdb(t)
	if err := repos.SeedDemoProducts(db); err != nil {
		t.Fatal(err)
	}
	prods := repos.NewProductRepo(db)
	first, err := prods.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(first) == 0 {
		t.Fatal("nothing seeded")
	}

	if err := repos.SeedDemoProducts(db); err != nil {
		t.Fatal(err)
	}
	second, err := prods.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != len(first) {
		t.Fatalf("reseed duplicated the catalog: %d -> %d", len(first), len(second))
	}
}
