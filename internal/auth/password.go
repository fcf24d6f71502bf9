package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/levibo0306/mentora/internal/validation"
)

var ErrInvalidPassword = errors.New("invalid password")

const (
	DefaultBcryptCost = 12
	minPasswordLength = 6
	// bcrypt silently ignores input past 72 bytes. Accented characters take
	// two bytes, so the rune limit on RegisterRequest is not enough.
	maxPasswordBytes = 72
)

// PasswordHasher hashes and checks account passwords with bcrypt.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher returns a hasher using cost, or DefaultBcryptCost when cost is 0.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("mentora-placeholder"), cost)
	if err != nil {
		panic(fmt.Sprintf("bcrypt cost %d: %v", cost, err))
	}
	return &PasswordHasher{cost: cost, dummy: dummy}
}

// Hash returns the bcrypt hash of password. Length violations come back as
// *validation.Error on the "password" field.
func (h *PasswordHasher) Hash(password string) (string, error) {
	switch {
	case len([]rune(password)) < minPasswordLength:
		return "", validation.Field("password", fmt.Sprintf("must have at least %d characters", minPasswordLength))
	case len(password) > maxPasswordBytes:
		return "", validation.Field("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify returns ErrInvalidPassword unless password matches hash.
func (h *PasswordHasher) Verify(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// VerifyMissing spends one comparison so logins for unknown or OAuth-only
// accounts take as long as a wrong password.
func (h *PasswordHasher) VerifyMissing(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
