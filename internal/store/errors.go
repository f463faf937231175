package store

import (
	"errors"
	"strings"
)

// Domain sentinel errors surfaced by store operations. Callers match with
// errors.Is and translate to user-facing messages at the API boundary.
var (
	ErrNotFound          = errors.New("not found")
	ErrSlotTaken         = errors.New("slot already booked")
	ErrWardExists        = errors.New("ward already exists")
	ErrInsufficientStock = errors.New("not enough quantity available")
	ErrEmailInUse        = errors.New("email already in use")
	ErrInvalidCode       = errors.New("invalid or expired verification code")
)

// isUniqueViolation detects SQLite unique/primary-key constraint failures.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
