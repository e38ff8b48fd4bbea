package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is about 250ms per hash on current hardware.
const defaultCost = 12

// maxPasswordBytes is where bcrypt stops reading input.
const maxPasswordBytes = 72

// ErrInvalidPassword is returned by Verify when the password does not match
// the stored hash, or when the account has no password at all.
var ErrInvalidPassword = errors.New("auth: invalid password")

// PasswordService hashes and checks account passwords with bcrypt. Hashes
// carry their own salt and cost ("$2a$12$..."), so changing the cost only
// affects new accounts.
type PasswordService struct {
	cost int
}

// NewPasswordService uses the production cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest lets tests in other packages use a cheap cost
// (bcrypt.MinCost is 4).
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash returns the bcrypt hash of plaintext. Input longer than 72 bytes is
// refused rather than silently truncated.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify returns nil when plaintext matches hash. Accounts created through
// GitHub have an empty hash and never match.
func (p *PasswordService) Verify(hash, plaintext string) error {
	if hash == "" {
		return ErrInvalidPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrInvalidPassword
	default:
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
}
