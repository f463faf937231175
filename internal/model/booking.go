package model

import "time"

// SlotBooking records the single meal delivery booked for a (date, meal)
// slot. The slot is locked system-wide once booked: the hospital accepts one
// delivery event per calendar slot, not one per ward.
type SlotBooking struct {
	Date      string    `json:"date"`
	Meal      string    `json:"meal"`
	WardID    string    `json:"ward"`
	BookedBy  string    `json:"bookedBy"`
	Timestamp time.Time `json:"timestamp"`
}
