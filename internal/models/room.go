package models

// Room is a bookable room template. Rooms are seeded from configs/rooms.yaml
// at startup and are read-only afterwards.
type Room struct {
	ID          string  `json:"id" yaml:"-"`
	Name        string  `json:"name" yaml:"name"`
	Type        string  `json:"type" yaml:"type"`
	Description string  `json:"description" yaml:"description"`
	Price       float64 `json:"price" yaml:"price"`
	MaxGuests   int     `json:"maxGuests" yaml:"max_guests"`
	Available   bool    `json:"available" yaml:"available"`
}
