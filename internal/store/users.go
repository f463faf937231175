package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/careconnect/server/internal/model"
)

// CreateUser creates a new user with both verification flags unset.
func CreateUser(ctx context.Context, db *sql.DB, uid, name, email, mobile, passwordHash, role string) (*model.User, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (uid, name, email, mobile, password_hash, role)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uid, name, email, mobile, passwordHash, role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return GetUser(ctx, db, uid)
}

// GetUser returns a user by principal identifier.
func GetUser(ctx context.Context, db *sql.DB, uid string) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx,
		`SELECT uid, name, email, mobile, password_hash, role, email_verified, mobile_verified, created_at
		 FROM users WHERE uid = ?`, uid,
	).Scan(&u.UID, &u.Name, &u.Email, &u.Mobile, &u.PasswordHash, &u.Role,
		&u.EmailVerified, &u.MobileVerified, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns a user by email address.
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	u := &model.User{}
	err := db.QueryRowContext(ctx,
		`SELECT uid, name, email, mobile, password_hash, role, email_verified, mobile_verified, created_at
		 FROM users WHERE email = ?`, email,
	).Scan(&u.UID, &u.Name, &u.Email, &u.Mobile, &u.PasswordHash, &u.Role,
		&u.EmailVerified, &u.MobileVerified, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

// CountUsers returns the number of registered users.
func CountUsers(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}

// SetEmailVerified marks a user's email address as verified.
func SetEmailVerified(ctx context.Context, db *sql.DB, uid string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET email_verified = 1 WHERE uid = ?`, uid,
	)
	if err != nil {
		return fmt.Errorf("setting email verified: %w", err)
	}
	return nil
}

// SetMobileVerified marks a user's mobile number as verified.
func SetMobileVerified(ctx context.Context, db *sql.DB, uid string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET mobile_verified = 1 WHERE uid = ?`, uid,
	)
	if err != nil {
		return fmt.Errorf("setting mobile verified: %w", err)
	}
	return nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, uid, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE uid = ?`, passwordHash, uid,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}
