package model

import "time"

// DonationItem is a miscellaneous relief item donors can reserve from.
// InitialQty is fixed at creation and only moves on an admin edit;
// RemainingQty is decremented by reservations and never goes negative.
type DonationItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	InitialQty   int       `json:"initialQty"`
	RemainingQty int       `json:"remainingQty"`
	ImageMime    string    `json:"imageMime,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DonationBooking is a reservation against a donation item. Bookings are
// append-only: never updated or deleted once created.
type DonationBooking struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"itemId"`
	ItemName  string    `json:"itemName"`
	BookedBy  string    `json:"bookedBy"`
	BookedQty int       `json:"bookedQty"`
	Timestamp time.Time `json:"timestamp"`
}
