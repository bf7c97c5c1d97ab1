package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	minLength = 6
	// bcrypt silently ignores input past 72 bytes
	maxLength = 72
)

var (
	ErrTooShort = errors.New("password too short")
	ErrTooLong  = errors.New("password too long")
)

// Validate reports whether plain can be stored as a password.
func Validate(plain string) error {
	switch {
	case len(plain) < minLength:
		return ErrTooShort
	case len(plain) > maxLength:
		return ErrTooLong
	}
	return nil
}

func Hash(plain string) (string, error) {
	if err := Validate(plain); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func Matches(hash, plain string) bool {
	if len(plain) > maxLength {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
