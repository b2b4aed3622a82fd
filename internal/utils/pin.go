package utils

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var pinPattern = regexp.MustCompile(`^[0-9]{4}$`)

// IsValidPin reports whether s is exactly four numeric digits. Listing access
// codes follow the same shape as PINs.
func IsValidPin(s string) bool {
	return pinPattern.MatchString(s)
}

// HashPin salts and hashes a PIN or access code for storage.
func HashPin(pin string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPin compares a candidate against a stored hash in constant effort.
func CheckPin(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
