package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cheesecode/internal/config"
	"cheesecode/internal/domain"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Server exposes the booking REST surface over HTTP.
type Server struct {
	cfg      config.ServerConfig
	bookings domain.BookingService
	rooms    domain.RoomService
	users    domain.UserService
	server   *http.Server
	log      zerolog.Logger
}

func NewServer(cfg config.ServerConfig, bookings domain.BookingService, rooms domain.RoomService, users domain.UserService, logger *zerolog.Logger) *Server {
	srv := &Server{
		cfg:      cfg,
		bookings: bookings,
		rooms:    rooms,
		users:    users,
		log:      logger.With().Str("component", "http").Logger(),
	}

	router := mux.NewRouter()
	router.Use(recoveryMiddleware(&srv.log))
	router.Use(loggingMiddleware(&srv.log))
	router.Use(metricsMiddleware)
	router.Use(newRateLimiter(cfg.RateLimit).middleware)

	// Search is registered before the id-less collection route so mux does
	// not shadow it.
	router.HandleFunc("/api/rooms/search", srv.handleSearchRooms).Methods(http.MethodGet).Name("search_rooms")
	router.HandleFunc("/api/rooms", srv.handleListRooms).Methods(http.MethodGet).Name("list_rooms")

	router.HandleFunc("/api/bookings", srv.handleCreateBooking).Methods(http.MethodPost).Name("create_booking")
	router.HandleFunc("/api/bookings", srv.handleListBookings).Methods(http.MethodGet).Name("list_bookings")
	router.HandleFunc("/api/bookings/{id}", srv.handleGetBooking).Methods(http.MethodGet).Name("get_booking")
	router.HandleFunc("/api/bookings/{id}", srv.handleDeleteBooking).Methods(http.MethodDelete).Name("delete_booking")

	router.HandleFunc("/api/stats", srv.handleStats).Methods(http.MethodGet).Name("stats")

	router.HandleFunc("/api/users/register", srv.handleRegister).Methods(http.MethodPost).Name("register")
	router.HandleFunc("/api/users/login", srv.handleLogin).Methods(http.MethodPost).Name("login")
	router.HandleFunc("/api/users/{email}/bookings", srv.handleUserBookings).Methods(http.MethodGet).Name("user_bookings")

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Handler returns the routed handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
