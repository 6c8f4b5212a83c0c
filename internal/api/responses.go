package api

import (
	"encoding/json"
	"net/http"

	"cheesecode/internal/models"
)

// successResponse mirrors the {success, ...} envelopes the front end expects.
type successResponse struct {
	Success   bool            `json:"success"`
	BookingID string          `json:"bookingId,omitempty"`
	Booking   *models.Booking `json:"booking,omitempty"`
	User      *models.User    `json:"user,omitempty"`
}

type deleteResponse struct {
	Success      bool  `json:"success"`
	DeletedCount int64 `json:"deletedCount"`
}

// softError is a handled failure answered with HTTP 200 so the client can
// read the message from the body.
type softError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeSoftError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, softError{Error: message})
}
