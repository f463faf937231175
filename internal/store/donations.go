package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/careconnect/server/internal/model"
)

// CreateDonationItem creates a donation item with its full stock available.
func CreateDonationItem(ctx context.Context, db *sql.DB, name, description string, qty int) (*model.DonationItem, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO donation_items (id, name, description, initial_qty, remaining_qty)
		 VALUES (?, ?, ?, ?, ?)`,
		id, name, description, qty, qty,
	)
	if err != nil {
		return nil, fmt.Errorf("creating donation item: %w", err)
	}

	return GetDonationItem(ctx, db, id)
}

// GetDonationItem returns a donation item by ID.
func GetDonationItem(ctx context.Context, db *sql.DB, id string) (*model.DonationItem, error) {
	item := &model.DonationItem{}
	var imageMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, description, initial_qty, remaining_qty, image_mime, created_at, updated_at
		 FROM donation_items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.Description, &item.InitialQty, &item.RemainingQty,
		&imageMime, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting donation item: %w", err)
	}
	item.ImageMime = imageMime.String
	return item, nil
}

// ListDonationItems returns all donation items ordered by name.
func ListDonationItems(ctx context.Context, db *sql.DB) ([]model.DonationItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, initial_qty, remaining_qty, image_mime, created_at, updated_at
		 FROM donation_items ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing donation items: %w", err)
	}
	defer rows.Close()

	var items []model.DonationItem
	for rows.Next() {
		var item model.DonationItem
		var imageMime sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.InitialQty,
			&item.RemainingQty, &imageMime, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning donation item: %w", err)
		}
		item.ImageMime = imageMime.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateDonationItem applies an admin edit. Changing the initial quantity
// shifts the remaining quantity by the same delta, clamped at zero so stock
// never goes negative. All fields are persisted together in one transaction.
func UpdateDonationItem(ctx context.Context, db *sql.DB, id, name, description string, newInitialQty int) (*model.DonationItem, error) {
	if newInitialQty <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var oldInitial, oldRemaining int
	err = tx.QueryRowContext(ctx,
		`SELECT initial_qty, remaining_qty FROM donation_items WHERE id = ?`, id,
	).Scan(&oldInitial, &oldRemaining)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading donation item: %w", err)
	}

	newRemaining := oldRemaining + (newInitialQty - oldInitial)
	if newRemaining < 0 {
		newRemaining = 0
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE donation_items
		 SET name = ?, description = ?, initial_qty = ?, remaining_qty = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		name, description, newInitialQty, newRemaining, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating donation item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item update: %w", err)
	}

	return GetDonationItem(ctx, db, id)
}

// BookDonationItem reserves stock from a donation item and records the
// reservation, in a single transaction. The decrement is guarded
// (remaining_qty >= requested in the UPDATE itself), so concurrent callers
// cannot overcommit: one succeeds, the other fails with
// ErrInsufficientStock and writes nothing.
func BookDonationItem(ctx context.Context, db *sql.DB, bookedBy, itemID string, requestedQty int) (*model.DonationBooking, error) {
	if requestedQty <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemName string
	err = tx.QueryRowContext(ctx,
		`SELECT name FROM donation_items WHERE id = ?`, itemID,
	).Scan(&itemName)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading donation item: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE donation_items
		 SET remaining_qty = remaining_qty - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND remaining_qty >= ?`,
		requestedQty, itemID, requestedQty,
	)
	if err != nil {
		return nil, fmt.Errorf("decrementing stock: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking stock decrement: %w", err)
	}
	if affected == 0 {
		return nil, ErrInsufficientStock
	}

	bookingID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO donation_bookings (id, item_id, item_name, booked_by, booked_qty)
		 VALUES (?, ?, ?, ?, ?)`,
		bookingID, itemID, itemName, bookedBy, requestedQty,
	)
	if err != nil {
		return nil, fmt.Errorf("recording donation booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing donation booking: %w", err)
	}

	return GetDonationBooking(ctx, db, bookingID)
}

// GetDonationBooking returns a donation booking by ID.
func GetDonationBooking(ctx context.Context, db *sql.DB, id string) (*model.DonationBooking, error) {
	b := &model.DonationBooking{}
	err := db.QueryRowContext(ctx,
		`SELECT id, item_id, item_name, booked_by, booked_qty, created_at
		 FROM donation_bookings WHERE id = ?`, id,
	).Scan(&b.ID, &b.ItemID, &b.ItemName, &b.BookedBy, &b.BookedQty, &b.Timestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting donation booking: %w", err)
	}
	return b, nil
}

// ListDonationBookingsByUser returns a user's reservations, newest first.
func ListDonationBookingsByUser(ctx context.Context, db *sql.DB, uid string) ([]model.DonationBooking, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, item_id, item_name, booked_by, booked_qty, created_at
		 FROM donation_bookings WHERE booked_by = ?
		 ORDER BY created_at DESC`, uid,
	)
	if err != nil {
		return nil, fmt.Errorf("listing donation bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.DonationBooking
	for rows.Next() {
		var b model.DonationBooking
		if err := rows.Scan(&b.ID, &b.ItemID, &b.ItemName, &b.BookedBy, &b.BookedQty, &b.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning donation booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// SetDonationItemImage sets an item's photo.
func SetDonationItemImage(ctx context.Context, db *sql.DB, id string, image []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE donation_items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// GetDonationItemImage returns an item's photo data and MIME type.
func GetDonationItemImage(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM donation_items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
