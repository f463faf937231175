package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Verification channels.
const (
	ChannelEmail  = "email"
	ChannelMobile = "mobile"
	ChannelReset  = "reset"
)

// SaveVerificationCode stores a code hash for a user and channel, replacing
// any outstanding code on the same channel.
func SaveVerificationCode(ctx context.Context, db *sql.DB, uid, channel, codeHash string, expiresAt time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO verification_codes (user_uid, channel, code_hash, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_uid, channel) DO UPDATE SET code_hash = excluded.code_hash, expires_at = excluded.expires_at`,
		uid, channel, codeHash, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("saving verification code: %w", err)
	}

	// Opportunistically clean up expired codes.
	_, _ = db.ExecContext(ctx,
		`DELETE FROM verification_codes WHERE expires_at < ?`, time.Now(),
	)

	return nil
}

// GetVerificationCode returns the stored code hash for a user and channel,
// or an empty string if none is outstanding or it has expired.
func GetVerificationCode(ctx context.Context, db *sql.DB, uid, channel string) (string, error) {
	var hash string
	var expiresAt time.Time
	err := db.QueryRowContext(ctx,
		`SELECT code_hash, expires_at FROM verification_codes
		 WHERE user_uid = ? AND channel = ?`, uid, channel,
	).Scan(&hash, &expiresAt)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting verification code: %w", err)
	}
	if time.Now().After(expiresAt) {
		return "", nil
	}
	return hash, nil
}

// DeleteVerificationCode removes a consumed or superseded code.
func DeleteVerificationCode(ctx context.Context, db *sql.DB, uid, channel string) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM verification_codes WHERE user_uid = ? AND channel = ?`,
		uid, channel,
	)
	if err != nil {
		return fmt.Errorf("deleting verification code: %w", err)
	}
	return nil
}
