package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    uid             TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    email           TEXT NOT NULL UNIQUE,
    mobile          TEXT NOT NULL,
    password_hash   TEXT NOT NULL,
    role            TEXT NOT NULL DEFAULT 'donor' CHECK (role IN ('admin', 'donor')),
    email_verified  INTEGER NOT NULL DEFAULT 0,
    mobile_verified INTEGER NOT NULL DEFAULT 0,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS verification_codes (
    user_uid   TEXT NOT NULL REFERENCES users(uid),
    channel    TEXT NOT NULL CHECK (channel IN ('email', 'mobile', 'reset')),
    code_hash  TEXT NOT NULL,
    expires_at DATETIME NOT NULL,
    PRIMARY KEY (user_uid, channel)
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS wards (
    id       TEXT PRIMARY KEY,
    name     TEXT NOT NULL,
    capacity INTEGER NOT NULL DEFAULT 50
);

CREATE TABLE IF NOT EXISTS food_requirements (
    ward_id   TEXT NOT NULL,
    meal      TEXT NOT NULL CHECK (meal IN ('breakfast', 'lunch', 'dinner', 'tea')),
    item_name TEXT NOT NULL,
    quantity  TEXT NOT NULL,
    PRIMARY KEY (ward_id, meal, item_name)
);

CREATE TABLE IF NOT EXISTS slot_bookings (
    date       TEXT NOT NULL,
    meal       TEXT NOT NULL CHECK (meal IN ('breakfast', 'lunch', 'dinner', 'tea')),
    ward_id    TEXT NOT NULL,
    booked_by  TEXT NOT NULL REFERENCES users(uid),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (date, meal)
);

CREATE TABLE IF NOT EXISTS donation_items (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    description   TEXT NOT NULL,
    initial_qty   INTEGER NOT NULL CHECK (initial_qty > 0),
    remaining_qty INTEGER NOT NULL CHECK (remaining_qty >= 0 AND remaining_qty <= initial_qty),
    image         BLOB,
    image_mime    TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS donation_bookings (
    id         TEXT PRIMARY KEY,
    item_id    TEXT NOT NULL REFERENCES donation_items(id),
    item_name  TEXT NOT NULL,
    booked_by  TEXT NOT NULL REFERENCES users(uid),
    booked_qty INTEGER NOT NULL CHECK (booked_qty > 0),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_slot_bookings_booked_by
    ON slot_bookings(booked_by);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
