package repos

import (
	"encoding/json"
	"strings"

	"github.com/jmoiron/sqlx"

	"threadline/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type orderRow struct {
	ID              int64  `db:"id"`
	UserID          int64  `db:"user_id"`
	Username        string `db:"username"`
	ItemsJSON       string `db:"items_json"`
	CashappUsername string `db:"cashapp_username"`
	ShipAddress     string `db:"ship_address"`
	ShipCity        string `db:"ship_city"`
	ShipState       string `db:"ship_state"`
	ShipZip         string `db:"ship_zip"`
	ShipCountry     string `db:"ship_country"`
	UserNotes       string `db:"user_notes"`
	Status          string `db:"status"`
	TrackingNumber  string `db:"tracking_number"`
	AdminNotes      string `db:"admin_notes"`
	CreatedAt       string `db:"created_at"`
}

const orderCols = `id,user_id,username,items_json,cashapp_username,
  ship_address,ship_city,ship_state,ship_zip,ship_country,
  user_notes,status,tracking_number,admin_notes,created_at`

func (row orderRow) toDomain() (domain.Order, error) {
	o := domain.Order{
		ID:              row.ID,
		UserID:          row.UserID,
		Username:        row.Username,
		Items:           []domain.CartItem{},
		CashappUsername: row.CashappUsername,
		Shipping: domain.ShippingInfo{Address: row.ShipAddress, City: row.ShipCity,
			State: row.ShipState, Zip: row.ShipZip, Country: row.ShipCountry},
		UserNotes:      row.UserNotes,
		Status:         row.Status,
		TrackingNumber: row.TrackingNumber,
		AdminNotes:     row.AdminNotes,
		CreatedAt:      row.CreatedAt,
	}
	if err := json.Unmarshal([]byte(row.ItemsJSON), &o.Items); err != nil {
		return domain.Order{}, err
	}
	if o.Items == nil {
		o.Items = []domain.CartItem{}
	}
	return o, nil
}

// Insert stores a new order. The id is the checkout timestamp; a collision
// inside the same millisecond bumps it forward until it fits.
func (r *OrderRepo) Insert(o domain.Order) (int64, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return 0, err
	}
	id := o.ID
	for tries := 0; ; tries++ {
		_, err := r.db.Exec(`INSERT INTO orders(`+orderCols+`) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			id, o.UserID, o.Username, string(itemsJSON), o.CashappUsername,
			o.Shipping.Address, o.Shipping.City, o.Shipping.State, o.Shipping.Zip, o.Shipping.Country,
			o.UserNotes, o.Status, o.TrackingNumber, o.AdminNotes, o.CreatedAt)
		if err == nil {
			return id, nil
		}
		if tries < 8 && strings.Contains(err.Error(), "orders.id") {
			id++
			continue
		}
		return 0, err
	}
}

func (r *OrderRepo) Get(id int64) (domain.Order, error) {
	var row orderRow
	if err := r.db.Get(&row, `SELECT `+orderCols+` FROM orders WHERE id=?`, id); err != nil {
		return domain.Order{}, err
	}
	return row.toDomain()
}

// ListAll returns every order, most recent first.
func (r *OrderRepo) ListAll() ([]domain.Order, error) {
	return r.list(`SELECT `+orderCols+` FROM orders ORDER BY id DESC`)
}

// ListByUser returns one user's orders, most recent first.
func (r *OrderRepo) ListByUser(userID int64) ([]domain.Order, error) {
	return r.list(`SELECT `+orderCols+` FROM orders WHERE user_id=? ORDER BY id DESC`, userID)
}

func (r *OrderRepo) list(query string, args ...any) ([]domain.Order, error) {
	var rows []orderRow
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		o, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// UpdateAdminFields overwrites the three admin-mutable columns. Items,
// shipping and the price snapshots are never touched after creation.
func (r *OrderRepo) UpdateAdminFields(id int64, status, trackingNumber, adminNotes string) error {
	_, err := r.db.Exec(`UPDATE orders SET status=?,tracking_number=?,admin_notes=? WHERE id=?`,
		status, trackingNumber, adminNotes, id)
	return err
}

func (r *OrderRepo) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM orders WHERE id=?`, id)
	return err
}
