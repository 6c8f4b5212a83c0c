package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cheesecode/internal/database"
	"cheesecode/internal/metrics"
	"cheesecode/internal/models"

	"github.com/gorilla/mux"
)

// parseDate accepts the YYYY-MM-DD wire format, falling back to RFC 3339 for
// clients that send full timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(models.DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.rooms.ListRooms(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) handleSearchRooms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	checkin, err := parseDate(q.Get("checkin"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid checkin date; expected YYYY-MM-DD")
		return
	}
	checkout, err := parseDate(q.Get("checkout"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid checkout date; expected YYYY-MM-DD")
		return
	}
	adults, err := strconv.Atoi(q.Get("adults"))
	if err != nil || adults <= 0 {
		writeError(w, http.StatusBadRequest, "adults must be a positive integer")
		return
	}

	rooms, err := s.rooms.SearchAvailableRooms(r.Context(), checkin, checkout, adults)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// bookingRequest is the POST /api/bookings body; dates arrive as strings.
type bookingRequest struct {
	RoomType   string `json:"roomType"`
	Checkin    string `json:"checkin"`
	Checkout   string `json:"checkout"`
	Adults     int    `json:"adults"`
	GuestName  string `json:"guestName"`
	GuestEmail string `json:"guestEmail"`
	GuestPhone string `json:"guestPhone"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSoftError(w, "invalid JSON body")
		return
	}

	if req.RoomType == "" || req.GuestName == "" || req.GuestEmail == "" {
		writeSoftError(w, "roomType, guestName and guestEmail are required")
		return
	}

	checkin, err := parseDate(req.Checkin)
	if err != nil {
		writeSoftError(w, "invalid checkin date; expected YYYY-MM-DD")
		return
	}
	checkout, err := parseDate(req.Checkout)
	if err != nil {
		writeSoftError(w, "invalid checkout date; expected YYYY-MM-DD")
		return
	}

	booking, err := s.bookings.CreateBooking(r.Context(), models.BookingInput{
		RoomType:   req.RoomType,
		Checkin:    checkin,
		Checkout:   checkout,
		Adults:     req.Adults,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		GuestPhone: req.GuestPhone,
	})
	if errors.Is(err, database.ErrRoomNotFound) {
		writeSoftError(w, err.Error())
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, softError{Error: err.Error()})
		return
	}

	metrics.BookingCreated(booking.TotalPrice)
	writeJSON(w, http.StatusOK, successResponse{Success: true, BookingID: booking.ID, Booking: booking})
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bookings.ListAllBookings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	booking, err := s.bookings.GetBooking(r.Context(), id)
	if errors.Is(err, database.ErrBookingNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	count, err := s.bookings.DeleteBooking(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if count > 0 {
		metrics.BookingDeleted()
	}
	writeJSON(w, http.StatusOK, deleteResponse{Success: true, DeletedCount: count})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.bookings.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSoftError(w, "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeSoftError(w, "email and password are required")
		return
	}

	user, err := s.users.Register(r.Context(), req.Name, req.Email, req.Phone, req.Password)
	if errors.Is(err, database.ErrEmailTaken) {
		writeSoftError(w, err.Error())
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, softError{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true, User: user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSoftError(w, "invalid JSON body")
		return
	}

	user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, database.ErrInvalidCredentials) {
		writeSoftError(w, err.Error())
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, softError{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Success: true, User: user})
}

func (s *Server) handleUserBookings(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	bookings, err := s.bookings.ListBookingsForUser(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}
