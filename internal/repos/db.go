package repos

import (
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single pooled connection also keeps
	// :memory: databases shared across the process.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users: id is the registration timestamp (unix millis)
CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  is_admin INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Products: options/images kept as JSON documents, mirroring the wire shape
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  options_json TEXT NOT NULL DEFAULT '[]',
  images_json TEXT NOT NULL DEFAULT '[]',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

-- Orders: id is the checkout timestamp (unix millis); items are an immutable
-- JSON snapshot of the cart at checkout
CREATE TABLE IF NOT EXISTS orders(
  id INTEGER PRIMARY KEY,
  user_id INTEGER NOT NULL,
  username TEXT NOT NULL,
  items_json TEXT NOT NULL,
  cashapp_username TEXT NOT NULL,
  ship_address TEXT NOT NULL DEFAULT '',
  ship_city TEXT NOT NULL DEFAULT '',
  ship_state TEXT NOT NULL DEFAULT '',
  ship_zip TEXT NOT NULL DEFAULT '',
  ship_country TEXT NOT NULL DEFAULT '',
  user_notes TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'Pending',
  tracking_number TEXT NOT NULL DEFAULT '',
  admin_notes TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);
`
	_, err := db.Exec(schema)
	return err
}

// SeedAdmin ensures an admin account exists (idempotent; safe on every
// start). The original flipped isAdmin by hand in the data file, which a
// database makes impractical.
func SeedAdmin(db *sqlx.DB, username, password string) error {
	if password == "" {
		password = "changeme-admin"
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users WHERE username=?`, username); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}
	log.Printf("[seed] creating admin user %q", username)
	_, err = db.Exec(`INSERT INTO users(id,username,password_hash,is_admin) VALUES(?,?,?,1)`,
		time.Now().UnixMilli(), username, string(h))
	return err
}

// SeedDemoProducts inserts a couple of products if the catalog is empty so a
// fresh install has something to sell (idempotent).
func SeedDemoProducts(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	log.Println("[seed] inserting demo products")
	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(name,description,options_json,images_json) VALUES
	  ('Classic Tee','Heavyweight cotton tee',
	   '[{"name":"S","price":18},{"name":"M","price":18},{"name":"L","price":20}]',
	   '["/uploads/demo-classic-tee.jpg"]'),
	  ('Zip Hoodie','Fleece-lined zip hoodie',
	   '[{"name":"M","price":45},{"name":"L","price":45},{"name":"XL","price":48}]',
	   '["/uploads/demo-zip-hoodie.jpg"]')`)
	return tx.Commit()
}
