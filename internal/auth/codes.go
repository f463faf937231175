package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// CodeLength is the number of digits in a one-time verification code.
const CodeLength = 6

// CodeTTL is how long a one-time code stays valid.
const CodeTTL = 15 * time.Minute

// NewCode generates a random numeric one-time code and its bcrypt hash.
// Only the hash is persisted; the plain code goes out to the user.
func NewCode() (code, hash string, err error) {
	digits := make([]byte, CodeLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", "", fmt.Errorf("generating code: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	code = string(digits)

	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("hashing code: %w", err)
	}

	return code, string(hashed), nil
}

// CheckCode reports whether code matches the stored hash.
func CheckCode(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
