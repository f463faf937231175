package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/careconnect/server/internal/model"
)

// CreateWard creates a ward with the four empty meal buckets. The identifier
// is derived from the display name; a ward whose name normalizes to an
// existing identifier fails with ErrWardExists.
func CreateWard(ctx context.Context, db *sql.DB, name string, capacity int) (*model.Ward, error) {
	if capacity <= 0 {
		capacity = model.DefaultWardCapacity
	}

	id := model.WardID(name)
	_, err := db.ExecContext(ctx,
		`INSERT INTO wards (id, name, capacity) VALUES (?, ?, ?)`,
		id, name, capacity,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrWardExists
		}
		return nil, fmt.Errorf("creating ward: %w", err)
	}

	return GetWard(ctx, db, id)
}

// GetWard returns a ward by identifier, including its food requirements.
func GetWard(ctx context.Context, db *sql.DB, id string) (*model.Ward, error) {
	w := &model.Ward{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, capacity FROM wards WHERE id = ?`, id,
	).Scan(&w.ID, &w.Name, &w.Capacity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting ward: %w", err)
	}

	reqs, err := loadFoodRequirements(ctx, db, id)
	if err != nil {
		return nil, err
	}
	w.FoodRequirements = reqs
	return w, nil
}

// ListWards returns all wards with their food requirements, ordered by name.
func ListWards(ctx context.Context, db *sql.DB) ([]model.Ward, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, capacity FROM wards ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing wards: %w", err)
	}
	defer rows.Close()

	var wards []model.Ward
	for rows.Next() {
		var w model.Ward
		if err := rows.Scan(&w.ID, &w.Name, &w.Capacity); err != nil {
			return nil, fmt.Errorf("scanning ward: %w", err)
		}
		wards = append(wards, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range wards {
		reqs, err := loadFoodRequirements(ctx, db, wards[i].ID)
		if err != nil {
			return nil, err
		}
		wards[i].FoodRequirements = reqs
	}
	return wards, nil
}

// DeleteWard removes a ward and its food requirements. The removal is
// unconditional: bookings that reference the ward are left in place.
func DeleteWard(ctx context.Context, db *sql.DB, id string) error {
	if _, err := db.ExecContext(ctx,
		`DELETE FROM food_requirements WHERE ward_id = ?`, id,
	); err != nil {
		return fmt.Errorf("deleting ward requirements: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`DELETE FROM wards WHERE id = ?`, id,
	); err != nil {
		return fmt.Errorf("deleting ward: %w", err)
	}
	return nil
}

// SetFoodRequirement upserts a single item requirement for a ward's meal
// bucket. No existence check is made on the ward identifier.
func SetFoodRequirement(ctx context.Context, db *sql.DB, wardID, meal, itemName, quantity string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO food_requirements (ward_id, meal, item_name, quantity)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (ward_id, meal, item_name) DO UPDATE SET quantity = excluded.quantity`,
		wardID, meal, itemName, quantity,
	)
	if err != nil {
		return fmt.Errorf("setting food requirement: %w", err)
	}
	return nil
}

// DeleteFoodRequirement removes a single item requirement. Unconditional.
func DeleteFoodRequirement(ctx context.Context, db *sql.DB, wardID, meal, itemName string) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM food_requirements WHERE ward_id = ? AND meal = ? AND item_name = ?`,
		wardID, meal, itemName,
	)
	if err != nil {
		return fmt.Errorf("deleting food requirement: %w", err)
	}
	return nil
}

// GetFoodRequirements returns the item requirements for one ward meal bucket.
func GetFoodRequirements(ctx context.Context, db *sql.DB, wardID, meal string) (map[string]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT item_name, quantity FROM food_requirements
		 WHERE ward_id = ? AND meal = ? ORDER BY item_name`,
		wardID, meal,
	)
	if err != nil {
		return nil, fmt.Errorf("getting food requirements: %w", err)
	}
	defer rows.Close()

	reqs := map[string]string{}
	for rows.Next() {
		var name, qty string
		if err := rows.Scan(&name, &qty); err != nil {
			return nil, fmt.Errorf("scanning food requirement: %w", err)
		}
		reqs[name] = qty
	}
	return reqs, rows.Err()
}

// ListAvailableWards returns the wards still bookable for a (date, meal)
// slot. At most one booking exists per slot, so this is all wards minus the
// one referenced by the slot's booking; once any ward is booked the whole
// slot is locked by BookSlot.
func ListAvailableWards(ctx context.Context, db *sql.DB, date, meal string) ([]model.Ward, error) {
	booking, err := GetSlotBooking(ctx, db, date, meal)
	if err != nil {
		return nil, err
	}

	wards, err := ListWards(ctx, db)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return wards, nil
	}

	available := wards[:0]
	for _, w := range wards {
		if w.ID != booking.WardID {
			available = append(available, w)
		}
	}
	return available, nil
}

// loadFoodRequirements assembles a ward's requirement map, always
// materializing the four meal buckets.
func loadFoodRequirements(ctx context.Context, db *sql.DB, wardID string) (model.FoodRequirements, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT meal, item_name, quantity FROM food_requirements WHERE ward_id = ?`,
		wardID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading food requirements: %w", err)
	}
	defer rows.Close()

	reqs := model.NewFoodRequirements()
	for rows.Next() {
		var meal, name, qty string
		if err := rows.Scan(&meal, &name, &qty); err != nil {
			return nil, fmt.Errorf("scanning food requirement: %w", err)
		}
		if reqs[meal] == nil {
			reqs[meal] = map[string]string{}
		}
		reqs[meal][name] = qty
	}
	return reqs, rows.Err()
}
