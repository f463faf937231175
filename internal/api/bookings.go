package api

import (
	"database/sql"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/careconnect/server/internal/model"
	"github.com/careconnect/server/internal/store"
	"github.com/careconnect/server/internal/watch"
)

// BookingsHandler handles ward slot booking endpoints.
type BookingsHandler struct {
	DB  *sql.DB
	Hub *watch.Hub
}

type bookSlotRequest struct {
	Date string `json:"date"`
	Meal string `json:"meal"`
	Ward string `json:"ward"`
}

// Create handles POST /api/bookings. At most one booking exists per
// (date, meal); a taken slot answers 409 and the original record stands.
func (h *BookingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req bookSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !validDate(req.Date) {
		jsonError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if !model.ValidMeal(req.Meal) {
		jsonError(w, http.StatusBadRequest, "meal must be one of breakfast, lunch, dinner, tea")
		return
	}
	if req.Ward == "" {
		jsonError(w, http.StatusBadRequest, "ward required")
		return
	}

	booking, err := store.BookSlot(r.Context(), h.DB, req.Date, req.Meal, req.Ward, claims.UID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.Hub.Publish("bookings/"+booking.Date+"/"+booking.Meal, booking)
	zap.L().Info("slot booked",
		zap.String("date", booking.Date),
		zap.String("meal", booking.Meal),
		zap.String("ward", booking.WardID),
		zap.String("uid", claims.UID))
	jsonResponse(w, http.StatusCreated, booking)
}

// Mine handles GET /api/bookings/mine.
func (h *BookingsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	bookings, err := store.ListSlotBookingsByUser(r.Context(), h.DB, claims.UID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if bookings == nil {
		bookings = []model.SlotBooking{}
	}
	jsonResponse(w, http.StatusOK, bookings)
}

// List handles GET /api/bookings?date=YYYY-MM-DD (admin).
func (h *BookingsHandler) List(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" && !validDate(date) {
		jsonError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	bookings, err := store.ListSlotBookings(r.Context(), h.DB, date)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if bookings == nil {
		bookings = []model.SlotBooking{}
	}
	jsonResponse(w, http.StatusOK, bookings)
}

// validDate reports whether s is a calendar date in YYYY-MM-DD form.
func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
