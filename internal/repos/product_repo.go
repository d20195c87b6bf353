package repos

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"threadline/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	OptionsJSON string `db:"options_json"`
	ImagesJSON  string `db:"images_json"`
}

func (row productRow) toDomain() (domain.Product, error) {
	p := domain.Product{ID: row.ID, Name: row.Name, Description: row.Description,
		Options: []domain.ProductOption{}, Images: []string{}}
	if err := json.Unmarshal([]byte(row.OptionsJSON), &p.Options); err != nil {
		return domain.Product{}, err
	}
	if err := json.Unmarshal([]byte(row.ImagesJSON), &p.Images); err != nil {
		return domain.Product{}, err
	}
	if p.Options == nil {
		p.Options = []domain.ProductOption{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}

func encode(p domain.Product) (optionsJSON, imagesJSON string, err error) {
	ob, err := json.Marshal(p.Options)
	if err != nil {
		return "", "", err
	}
	ib, err := json.Marshal(p.Images)
	if err != nil {
		return "", "", err
	}
	return string(ob), string(ib), nil
}

func (r *ProductRepo) List() ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.Select(&rows, `SELECT id,name,description,options_json,images_json FROM products ORDER BY id`); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var row productRow
	if err := r.db.Get(&row, `SELECT id,name,description,options_json,images_json FROM products WHERE id=?`, id); err != nil {
		return domain.Product{}, err
	}
	return row.toDomain()
}

// Insert stores a new product and returns it with the assigned id.
func (r *ProductRepo) Insert(p domain.Product) (domain.Product, error) {
	optionsJSON, imagesJSON, err := encode(p)
	if err != nil {
		return domain.Product{}, err
	}
	res, err := r.db.Exec(`INSERT INTO products(name,description,options_json,images_json) VALUES(?,?,?,?)`,
		p.Name, p.Description, optionsJSON, imagesJSON)
	if err != nil {
		return domain.Product{}, err
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) Update(p domain.Product) error {
	optionsJSON, imagesJSON, err := encode(p)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`UPDATE products SET name=?,description=?,options_json=?,images_json=?,updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		p.Name, p.Description, optionsJSON, imagesJSON, p.ID)
	return err
}

func (r *ProductRepo) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	return err
}
