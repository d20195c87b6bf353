package domain

type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Hash     string `db:"password_hash" json:"-"`
	IsAdmin  bool   `db:"is_admin" json:"isAdmin"`
}

// SessionUser is the identity snapshot carried inside a session. It is
// captured at login and not refreshed until the next login.
type SessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}
