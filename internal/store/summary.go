package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Summary is a one-day activity digest.
type Summary struct {
	Date             string `json:"date"`
	SlotBookings     int    `json:"slotBookings"`
	DonationBookings int    `json:"donationBookings"`
}

// DailySummary counts the slot bookings for a calendar date and the donation
// bookings created on it.
func DailySummary(ctx context.Context, db *sql.DB, date string) (*Summary, error) {
	s := &Summary{Date: date}

	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM slot_bookings WHERE date = ?`, date,
	).Scan(&s.SlotBookings)
	if err != nil {
		return nil, fmt.Errorf("counting slot bookings: %w", err)
	}

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM donation_bookings WHERE date(created_at) = ?`, date,
	).Scan(&s.DonationBookings)
	if err != nil {
		return nil, fmt.Errorf("counting donation bookings: %w", err)
	}

	return s, nil
}
