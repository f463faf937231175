package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/careconnect/server/internal/model"
)

// BookSlot books a ward for a (date, meal) slot. The uniqueness check and the
// write are a single INSERT, so two racing callers cannot both claim the
// slot: the loser's primary-key violation maps to ErrSlotTaken and the
// original record is untouched.
func BookSlot(ctx context.Context, db *sql.DB, date, meal, wardID, bookedBy string) (*model.SlotBooking, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO slot_bookings (date, meal, ward_id, booked_by)
		 VALUES (?, ?, ?, ?)`,
		date, meal, wardID, bookedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("booking slot: %w", err)
	}

	return GetSlotBooking(ctx, db, date, meal)
}

// GetSlotBooking returns the booking for a (date, meal) slot, if any.
func GetSlotBooking(ctx context.Context, db *sql.DB, date, meal string) (*model.SlotBooking, error) {
	b := &model.SlotBooking{}
	err := db.QueryRowContext(ctx,
		`SELECT date, meal, ward_id, booked_by, created_at
		 FROM slot_bookings WHERE date = ? AND meal = ?`,
		date, meal,
	).Scan(&b.Date, &b.Meal, &b.WardID, &b.BookedBy, &b.Timestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting slot booking: %w", err)
	}
	return b, nil
}

// ListSlotBookingsByUser returns a user's slot bookings, newest first.
func ListSlotBookingsByUser(ctx context.Context, db *sql.DB, uid string) ([]model.SlotBooking, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT date, meal, ward_id, booked_by, created_at
		 FROM slot_bookings WHERE booked_by = ?
		 ORDER BY created_at DESC`, uid,
	)
	if err != nil {
		return nil, fmt.Errorf("listing slot bookings by user: %w", err)
	}
	defer rows.Close()

	return scanSlotBookings(rows)
}

// ListSlotBookings returns slot bookings, optionally filtered by date.
func ListSlotBookings(ctx context.Context, db *sql.DB, date string) ([]model.SlotBooking, error) {
	query := `SELECT date, meal, ward_id, booked_by, created_at
	          FROM slot_bookings WHERE 1=1`
	var args []any

	if date != "" {
		query += ` AND date = ?`
		args = append(args, date)
	}

	query += ` ORDER BY date DESC, meal`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing slot bookings: %w", err)
	}
	defer rows.Close()

	return scanSlotBookings(rows)
}

func scanSlotBookings(rows *sql.Rows) ([]model.SlotBooking, error) {
	var bookings []model.SlotBooking
	for rows.Next() {
		var b model.SlotBooking
		if err := rows.Scan(&b.Date, &b.Meal, &b.WardID, &b.BookedBy, &b.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning slot booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
