package model

import (
	"regexp"
	"strings"
)

// Meal slot names, in serving order.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealTea       = "tea"
)

// Meals lists every meal slot a ward serves.
var Meals = []string{MealBreakfast, MealLunch, MealDinner, MealTea}

// ValidMeal reports whether name is a known meal slot.
func ValidMeal(name string) bool {
	for _, m := range Meals {
		if m == name {
			return true
		}
	}
	return false
}

// FoodRequirements maps meal slot name to item name to quantity.
// Quantities are free-form strings ("2 kg", "40 packets").
type FoodRequirements map[string]map[string]string

// NewFoodRequirements returns the four empty meal buckets.
func NewFoodRequirements() FoodRequirements {
	fr := make(FoodRequirements, len(Meals))
	for _, m := range Meals {
		fr[m] = map[string]string{}
	}
	return fr
}

// Ward is a hospital unit that can receive a donated meal.
type Ward struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Capacity         int              `json:"capacity"`
	FoodRequirements FoodRequirements `json:"foodRequirements"`
}

// DefaultWardCapacity is used when a ward is created without an explicit
// capacity.
const DefaultWardCapacity = 50

var whitespaceRun = regexp.MustCompile(`\s+`)

// WardID derives a ward's identifier from its display name: lowercased, with
// each run of whitespace collapsed to a single underscore. Distinct names can
// normalize to the same identifier; creation treats that as a conflict.
func WardID(name string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(strings.TrimSpace(name), "_"))
}
