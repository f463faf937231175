package api

import (
	"database/sql"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/careconnect/server/internal/imaging"
	"github.com/careconnect/server/internal/model"
	"github.com/careconnect/server/internal/store"
	"github.com/careconnect/server/internal/watch"
)

// DonationsHandler handles donation item and reservation endpoints.
type DonationsHandler struct {
	DB  *sql.DB
	Hub *watch.Hub
}

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Qty         int    `json:"qty"`
}

type updateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InitialQty  int    `json:"initialQty"`
}

type bookItemRequest struct {
	Qty int `json:"qty"`
}

// List handles GET /api/donations.
func (h *DonationsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListDonationItems(r.Context(), h.DB)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if items == nil {
		items = []model.DonationItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/donations/{id}.
func (h *DonationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetDonationItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if item == nil {
		writeDomainError(w, store.ErrNotFound)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/donations (admin).
func (h *DonationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" || req.Description == "" || req.Qty <= 0 {
		jsonError(w, http.StatusBadRequest, "Invalid item name, quantity, or description.")
		return
	}

	item, err := store.CreateDonationItem(r.Context(), h.DB, req.Name, req.Description, req.Qty)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.Hub.Publish("otherdonations/"+item.ID, item)
	zap.L().Info("donation item created", zap.String("item", item.ID), zap.String("name", item.Name))
	jsonResponse(w, http.StatusCreated, item)
}

// Update handles PUT /api/donations/{id} (admin). Changing the initial
// quantity shifts the remaining quantity by the same delta, clamped at zero.
func (h *DonationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" || req.Description == "" || req.InitialQty <= 0 {
		jsonError(w, http.StatusBadRequest, "Invalid item name, quantity, or description.")
		return
	}

	item, err := store.UpdateDonationItem(r.Context(), h.DB, r.PathValue("id"),
		req.Name, req.Description, req.InitialQty)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.Hub.Publish("otherdonations/"+item.ID, item)
	zap.L().Info("donation item updated", zap.String("item", item.ID))
	jsonResponse(w, http.StatusOK, item)
}

// Book handles POST /api/donations/{id}/book. The decrement and the
// reservation record commit together; overdrawn requests answer 422 with no
// write.
func (h *DonationsHandler) Book(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req bookItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Qty <= 0 {
		jsonError(w, http.StatusBadRequest, "quantity must be a positive integer")
		return
	}

	itemID := r.PathValue("id")
	booking, err := store.BookDonationItem(r.Context(), h.DB, claims.UID, itemID, req.Qty)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.Hub.Publish("donationBookings/"+booking.ID, booking)
	if item, err := store.GetDonationItem(r.Context(), h.DB, itemID); err == nil && item != nil {
		h.Hub.Publish("otherdonations/"+item.ID, item)
	}

	zap.L().Info("donation item booked",
		zap.String("item", itemID),
		zap.String("uid", claims.UID),
		zap.Int("qty", req.Qty))
	jsonResponse(w, http.StatusCreated, booking)
}

// MyBookings handles GET /api/donations/bookings/mine.
func (h *DonationsHandler) MyBookings(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	bookings, err := store.ListDonationBookingsByUser(r.Context(), h.DB, claims.UID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if bookings == nil {
		bookings = []model.DonationBooking{}
	}
	jsonResponse(w, http.StatusOK, bookings)
}

// UploadImage handles PUT /api/donations/{id}/image (admin).
func (h *DonationsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	item, err := store.GetDonationItem(r.Context(), h.DB, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if item == nil {
		writeDomainError(w, store.ErrNotFound)
		return
	}

	result, err := imaging.Process(r.Body)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetDonationItemImage(r.Context(), h.DB, id, result.Data, result.MIME); err != nil {
		writeDomainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image saved"})
}

// GetImage handles GET /api/donations/{id}/image.
func (h *DonationsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetDonationItemImage(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(data) == 0 {
		jsonError(w, http.StatusNotFound, "no image for this item")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
