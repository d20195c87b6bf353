package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"threadline/internal/domain"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) ByUsername(username string) (*domain.User, error) {
	var u domain.User
	if err := r.db.Get(&u, `SELECT id,username,password_hash,is_admin FROM users WHERE username=?`, username); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.Get(&u, `SELECT id,username,password_hash,is_admin FROM users WHERE id=?`, id); err != nil {
		return nil, err
	}
	return &u, nil
}

// Insert stores a new user under a timestamp id. Two registrations inside
// the same millisecond would collide on the primary key, so the id is bumped
// until it fits.
func (r *UserRepo) Insert(id int64, username, hash string, isAdmin bool) (int64, error) {
	for tries := 0; ; tries++ {
		_, err := r.db.Exec(`INSERT INTO users(id,username,password_hash,is_admin) VALUES(?,?,?,?)`,
			id, username, hash, isAdmin)
		if err == nil {
			return id, nil
		}
		if tries < 8 && strings.Contains(err.Error(), "users.id") {
			id++
			continue
		}
		return 0, err
	}
}

func (r *UserRepo) ListAll() ([]domain.User, error) {
	var out []domain.User
	err := r.db.Select(&out, `SELECT id,username,password_hash,is_admin FROM users ORDER BY id`)
	return out, err
}
