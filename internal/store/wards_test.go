package store

import (
	"context"
	"testing"

	"github.com/careconnect/server/internal/db"
	"github.com/careconnect/server/internal/model"
)

func TestCreateAndGetWard(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	ward, err := CreateWard(ctx, database, "General Ward", 30)
	if err != nil {
		t.Fatalf("CreateWard: %v", err)
	}
	if ward.ID != "general_ward" {
		t.Errorf("expected id 'general_ward', got %q", ward.ID)
	}
	if ward.Capacity != 30 {
		t.Errorf("expected capacity 30, got %d", ward.Capacity)
	}

	// Every ward carries the four meal buckets, even when empty.
	for _, m := range model.Meals {
		if ward.FoodRequirements[m] == nil {
			t.Errorf("missing %q bucket", m)
		}
	}
}

func TestCreateWardDefaultCapacity(t *testing.T) {
	database := db.NewTestDB(t)

	ward, err := CreateWard(context.Background(), database, "ICU", 0)
	if err != nil {
		t.Fatalf("CreateWard: %v", err)
	}
	if ward.Capacity != model.DefaultWardCapacity {
		t.Errorf("expected default capacity %d, got %d", model.DefaultWardCapacity, ward.Capacity)
	}
}

func TestCreateWardConflictingNames(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateWard(ctx, database, "Ward One", 0); err != nil {
		t.Fatalf("CreateWard: %v", err)
	}

	// A different display name that normalizes to the same identifier.
	_, err := CreateWard(ctx, database, "ward   ONE", 0)
	if err != ErrWardExists {
		t.Errorf("expected ErrWardExists, got %v", err)
	}
}

func TestFoodRequirementUpsert(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	ward, _ := CreateWard(ctx, database, "ICU", 0)

	SetFoodRequirement(ctx, database, ward.ID, model.MealLunch, "Rice", "2 kg")
	SetFoodRequirement(ctx, database, ward.ID, model.MealLunch, "Rice", "3 kg")
	SetFoodRequirement(ctx, database, ward.ID, model.MealTea, "Biscuits", "40 packets")

	got, err := GetWard(ctx, database, ward.ID)
	if err != nil {
		t.Fatalf("GetWard: %v", err)
	}
	if got.FoodRequirements[model.MealLunch]["Rice"] != "3 kg" {
		t.Errorf("expected upserted quantity '3 kg', got %q", got.FoodRequirements[model.MealLunch]["Rice"])
	}
	if got.FoodRequirements[model.MealTea]["Biscuits"] != "40 packets" {
		t.Errorf("unexpected tea bucket: %v", got.FoodRequirements[model.MealTea])
	}
	if len(got.FoodRequirements[model.MealBreakfast]) != 0 {
		t.Errorf("expected empty breakfast bucket, got %v", got.FoodRequirements[model.MealBreakfast])
	}
}

func TestDeleteFoodRequirement(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	ward, _ := CreateWard(ctx, database, "ICU", 0)
	SetFoodRequirement(ctx, database, ward.ID, model.MealLunch, "Rice", "2 kg")

	if err := DeleteFoodRequirement(ctx, database, ward.ID, model.MealLunch, "Rice"); err != nil {
		t.Fatalf("DeleteFoodRequirement: %v", err)
	}

	reqs, _ := GetFoodRequirements(ctx, database, ward.ID, model.MealLunch)
	if len(reqs) != 0 {
		t.Errorf("expected empty requirements, got %v", reqs)
	}

	// Deleting an absent requirement is not an error.
	if err := DeleteFoodRequirement(ctx, database, ward.ID, model.MealLunch, "Rice"); err != nil {
		t.Errorf("expected no error on repeat delete, got %v", err)
	}
}

func TestDeleteWard(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	ward, _ := CreateWard(ctx, database, "ICU", 0)
	SetFoodRequirement(ctx, database, ward.ID, model.MealLunch, "Rice", "2 kg")

	if err := DeleteWard(ctx, database, ward.ID); err != nil {
		t.Fatalf("DeleteWard: %v", err)
	}

	got, _ := GetWard(ctx, database, ward.ID)
	if got != nil {
		t.Errorf("expected ward to be gone, got %+v", got)
	}

	// Removal is unconditional.
	if err := DeleteWard(ctx, database, "no_such_ward"); err != nil {
		t.Errorf("expected no error deleting absent ward, got %v", err)
	}
}

func TestListAvailableWards(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	testUser(t, database, "donor-1")
	icu, _ := CreateWard(ctx, database, "ICU", 0)
	CreateWard(ctx, database, "General Ward", 0)

	available, err := ListAvailableWards(ctx, database, "2026-09-01", model.MealLunch)
	if err != nil {
		t.Fatalf("ListAvailableWards: %v", err)
	}
	if len(available) != 2 {
		t.Fatalf("expected 2 available wards, got %d", len(available))
	}

	if _, err := BookSlot(ctx, database, "2026-09-01", model.MealLunch, icu.ID, "donor-1"); err != nil {
		t.Fatalf("BookSlot: %v", err)
	}

	available, _ = ListAvailableWards(ctx, database, "2026-09-01", model.MealLunch)
	if len(available) != 1 {
		t.Fatalf("expected 1 available ward after booking, got %d", len(available))
	}
	if available[0].ID == icu.ID {
		t.Error("booked ward must not be listed as available")
	}

	// A different slot is unaffected.
	available, _ = ListAvailableWards(ctx, database, "2026-09-01", model.MealDinner)
	if len(available) != 2 {
		t.Errorf("expected 2 available wards for dinner, got %d", len(available))
	}
}
