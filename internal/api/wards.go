package api

import (
	"database/sql"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/careconnect/server/internal/model"
	"github.com/careconnect/server/internal/store"
	"github.com/careconnect/server/internal/watch"
)

// WardsHandler handles ward and food-requirement endpoints.
type WardsHandler struct {
	DB  *sql.DB
	Hub *watch.Hub
}

type createWardRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type setRequirementRequest struct {
	Quantity string `json:"quantity"`
}

// List handles GET /api/wards.
func (h *WardsHandler) List(w http.ResponseWriter, r *http.Request) {
	wards, err := store.ListWards(r.Context(), h.DB)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if wards == nil {
		wards = []model.Ward{}
	}
	jsonResponse(w, http.StatusOK, wards)
}

// Get handles GET /api/wards/{id}.
func (h *WardsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ward, err := store.GetWard(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if ward == nil {
		writeDomainError(w, store.ErrNotFound)
		return
	}
	jsonResponse(w, http.StatusOK, ward)
}

// Available handles GET /api/wards/available?date=YYYY-MM-DD&meal=lunch.
// Until a slot's booking exists every ward is reported available; the first
// booking locks the whole slot.
func (h *WardsHandler) Available(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	meal := r.URL.Query().Get("meal")
	if !validDate(date) {
		jsonError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if !model.ValidMeal(meal) {
		jsonError(w, http.StatusBadRequest, "meal must be one of breakfast, lunch, dinner, tea")
		return
	}

	wards, err := store.ListAvailableWards(r.Context(), h.DB, date, meal)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if wards == nil {
		wards = []model.Ward{}
	}
	jsonResponse(w, http.StatusOK, wards)
}

// Create handles POST /api/wards (admin).
func (h *WardsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWardRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "ward name required")
		return
	}

	ward, err := store.CreateWard(r.Context(), h.DB, req.Name, req.Capacity)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.Hub.Publish("wards/"+ward.ID, ward)
	zap.L().Info("ward created", zap.String("ward", ward.ID))
	jsonResponse(w, http.StatusCreated, ward)
}

// Delete handles DELETE /api/wards/{id} (admin). Unconditional: bookings
// referencing the ward are left untouched.
func (h *WardsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := store.DeleteWard(r.Context(), h.DB, id); err != nil {
		writeDomainError(w, err)
		return
	}

	h.Hub.Publish("wards/"+id, nil)
	zap.L().Info("ward deleted", zap.String("ward", id))
	jsonResponse(w, http.StatusOK, map[string]string{"message": "ward deleted"})
}

// Requirements handles GET /api/wards/{id}/requirements/{meal}.
func (h *WardsHandler) Requirements(w http.ResponseWriter, r *http.Request) {
	meal := r.PathValue("meal")
	if !model.ValidMeal(meal) {
		jsonError(w, http.StatusBadRequest, "meal must be one of breakfast, lunch, dinner, tea")
		return
	}

	reqs, err := store.GetFoodRequirements(r.Context(), h.DB, r.PathValue("id"), meal)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, reqs)
}

// SetRequirement handles PUT /api/wards/{id}/requirements/{meal}/{item}
// (admin). An upsert with no existence check on the ward.
func (h *WardsHandler) SetRequirement(w http.ResponseWriter, r *http.Request) {
	wardID := r.PathValue("id")
	meal := r.PathValue("meal")
	item := r.PathValue("item")

	if !model.ValidMeal(meal) {
		jsonError(w, http.StatusBadRequest, "meal must be one of breakfast, lunch, dinner, tea")
		return
	}

	var req setRequirementRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Quantity) == "" {
		jsonError(w, http.StatusBadRequest, "quantity required")
		return
	}

	if err := store.SetFoodRequirement(r.Context(), h.DB, wardID, meal, item, req.Quantity); err != nil {
		writeDomainError(w, err)
		return
	}

	h.Hub.Publish("wards/"+wardID+"/foodRequirements/"+meal+"/"+item, req.Quantity)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "requirement saved"})
}

// DeleteRequirement handles DELETE /api/wards/{id}/requirements/{meal}/{item}
// (admin). Unconditional removal.
func (h *WardsHandler) DeleteRequirement(w http.ResponseWriter, r *http.Request) {
	wardID := r.PathValue("id")
	meal := r.PathValue("meal")
	item := r.PathValue("item")

	if !model.ValidMeal(meal) {
		jsonError(w, http.StatusBadRequest, "meal must be one of breakfast, lunch, dinner, tea")
		return
	}

	if err := store.DeleteFoodRequirement(r.Context(), h.DB, wardID, meal, item); err != nil {
		writeDomainError(w, err)
		return
	}

	h.Hub.Publish("wards/"+wardID+"/foodRequirements/"+meal+"/"+item, nil)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "requirement removed"})
}
