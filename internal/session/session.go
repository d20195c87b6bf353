// Package session gives typed access to the two things threadline keeps in
// a session: the identity snapshot set at login and the shopping cart. Both
// are JSON-encoded to []byte before storage so any fiber session backend
// can hold them without type registration.
package session

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"threadline/internal/domain"
)

const (
	userKey = "user"
	cartKey = "cart"
)

// NewStore builds the shared session store. Sessions live in process memory,
// so carts do not survive a restart; that matches the cart contract.
func NewStore() *session.Store {
	return session.New(session.Config{
		KeyLookup:      "cookie:sid",
		Expiration:     24 * time.Hour,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
}

// User returns the identity snapshot, or nil when the session is anonymous.
func User(s *session.Session) *domain.SessionUser {
	raw, ok := s.Get(userKey).([]byte)
	if !ok {
		return nil
	}
	var u domain.SessionUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil
	}
	return &u
}

func SetUser(s *session.Session, u domain.SessionUser) {
	b, _ := json.Marshal(u)
	s.Set(userKey, b)
}

// Cart returns the session cart, lazily treating an absent cart as empty.
// Reading before any add is never an error.
func Cart(s *session.Session) []domain.CartItem {
	raw, ok := s.Get(cartKey).([]byte)
	if !ok {
		return []domain.CartItem{}
	}
	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return []domain.CartItem{}
	}
	return items
}

func SetCart(s *session.Session, items []domain.CartItem) {
	b, _ := json.Marshal(items)
	s.Set(cartKey, b)
}
