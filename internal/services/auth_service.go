package services

import (
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"threadline/internal/apperr"
	"threadline/internal/domain"
	"threadline/internal/repos"
	"threadline/internal/validate"
)

type AuthService struct {
	Users *repos.UserRepo
}

func NewAuthService(users *repos.UserRepo) *AuthService { return &AuthService{Users: users} }

// Register validates all fields at once so the caller gets the full list of
// problems in one round trip.
func (s *AuthService) Register(username, password, confirm string) (*domain.User, error) {
	var errs []string
	uname, okName := validate.Username(username)
	if !okName || password == "" || confirm == "" {
		errs = append(errs, "Please enter all fields.")
	}
	if password != confirm {
		errs = append(errs, "Passwords do not match.")
	}
	if !validate.Password(password) {
		errs = append(errs, "Password must be at least 6 characters.")
	}
	if len(errs) > 0 {
		return nil, apperr.Validation(errs...)
	}

	if _, err := s.Users.ByUsername(uname); err == nil {
		return nil, apperr.Conflict("Username already exists.")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Storage("Registration failed.", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, apperr.Storage("Registration failed.", err)
	}
	id, err := s.Users.Insert(time.Now().UnixMilli(), uname, string(hash), false)
	if err != nil {
		return nil, apperr.Storage("Registration failed.", err)
	}
	return &domain.User{ID: id, Username: uname, Hash: string(hash), IsAdmin: false}, nil
}

// Login deliberately answers the same way for an unknown username and a
// wrong password so usernames cannot be probed.
func (s *AuthService) Login(username, password string) (*domain.User, error) {
	if !validate.NotBlank(username) || password == "" {
		return nil, apperr.Validation("Please enter all fields.")
	}
	u, err := s.Users.ByUsername(username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Unauthorized("Invalid credentials.")
		}
		return nil, apperr.Storage("Login failed.", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, apperr.Unauthorized("Invalid credentials.")
	}
	return u, nil
}
