package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at the
// end.
var migrations = []string{
	// Migration 1: index donation bookings by booker and by item so the
	// "my bookings" and item history lookups don't scan the whole table.
	`CREATE INDEX IF NOT EXISTS idx_donation_bookings_booked_by
	     ON donation_bookings(booked_by)`,
	`CREATE INDEX IF NOT EXISTS idx_donation_bookings_item
	     ON donation_bookings(item_id)`,
}

// Migrate runs the database schema migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
