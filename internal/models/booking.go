package models

import "time"

type Booking struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"roomId"`
	RoomName   string    `json:"roomName"`
	RoomType   string    `json:"roomType"`
	Checkin    time.Time `json:"checkin"`
	Checkout   time.Time `json:"checkout"`
	Nights     int       `json:"nights"`
	Adults     int       `json:"adults"`
	GuestName  string    `json:"guestName"`
	GuestEmail string    `json:"guestEmail"`
	GuestPhone string    `json:"guestPhone"`
	TotalPrice float64   `json:"totalPrice"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BookingInput is what a client submits to create a booking. The room is
// picked by type; nights and total price are computed server-side.
type BookingInput struct {
	RoomType   string    `json:"roomType"`
	Checkin    time.Time `json:"checkin"`
	Checkout   time.Time `json:"checkout"`
	Adults     int       `json:"adults"`
	GuestName  string    `json:"guestName"`
	GuestEmail string    `json:"guestEmail"`
	GuestPhone string    `json:"guestPhone"`
}

// RoomTypeStats is one bucket of the stats aggregation.
type RoomTypeStats struct {
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// Stats is the aggregate over all bookings, keyed by room type.
type Stats struct {
	TotalBookings int64                    `json:"totalBookings"`
	TotalRevenue  float64                  `json:"totalRevenue"`
	RoomStats     map[string]RoomTypeStats `json:"roomStats"`
}
