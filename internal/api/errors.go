package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/careconnect/server/internal/store"
)

// errorMessages maps domain errors to the user-facing text the client
// displays. Anything unmapped falls back to a generic message.
var errorMessages = map[error]string{
	store.ErrNotFound:          "The requested record was not found.",
	store.ErrSlotTaken:         "This ward has already been booked for the selected date and meal.",
	store.ErrWardExists:        "Ward already exists.",
	store.ErrInsufficientStock: "Not enough quantity available.",
	store.ErrEmailInUse:        "This email is already in use.",
	store.ErrInvalidCode:       "Invalid or expired verification code.",
}

const genericErrorMessage = "An unknown error occurred."

// statusFor maps a domain error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrSlotTaken),
		errors.Is(err, store.ErrWardExists),
		errors.Is(err, store.ErrEmailInUse):
		return http.StatusConflict
	case errors.Is(err, store.ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrInvalidCode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the user-facing message for a domain error.
func messageFor(err error) string {
	for sentinel, msg := range errorMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return genericErrorMessage
}

// writeDomainError translates a store error into a JSON error response.
// Unmapped errors are logged and surface as a 500 with the generic message.
func writeDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("internal error", zap.Error(err))
	}
	jsonError(w, status, messageFor(err))
}
