package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cheesecode/internal/models"

	"github.com/google/uuid"
)

// SeedRooms inserts catalog rooms that do not exist yet, keyed by type.
// Re-running at startup is a no-op for types already present.
func (db *DB) SeedRooms(ctx context.Context, rooms []models.Room) error {
	for _, room := range rooms {
		var existing int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM rooms WHERE type = ?`, room.Type).Scan(&existing)
		if err != nil {
			return fmt.Errorf("check room type %s: %w", room.Type, err)
		}
		if existing > 0 {
			continue
		}

		id := room.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO rooms (id, name, type, description, price, max_guests, available)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, room.Name, room.Type, room.Description, room.Price, room.MaxGuests, room.Available,
		)
		if err != nil {
			return fmt.Errorf("seed room %s: %w", room.Type, err)
		}
		db.log.Info().Str("type", room.Type).Str("name", room.Name).Msg("room seeded")
	}
	return nil
}

const roomColumns = `id, name, type, description, price, max_guests, available`

func scanRoom(row interface{ Scan(...interface{}) error }) (*models.Room, error) {
	var room models.Room
	err := row.Scan(
		&room.ID, &room.Name, &room.Type, &room.Description,
		&room.Price, &room.MaxGuests, &room.Available,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetAllRooms returns the full room dump, unordered per the API contract
// (rowid order in practice).
func (db *DB) GetAllRooms(ctx context.Context) ([]models.Room, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms`)
	if err != nil {
		return nil, fmt.Errorf("get all rooms: %w", err)
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, *room)
	}
	return rooms, rows.Err()
}

func (db *DB) GetRoomByID(ctx context.Context, id string) (*models.Room, error) {
	row := db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id)
	room, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get room by id: %w", err)
	}
	return room, nil
}

// GetRoomByType resolves a room template by its type tag, first match in
// insertion order. Availability is not considered here.
func (db *DB) GetRoomByType(ctx context.Context, roomType string) (*models.Room, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE type = ? ORDER BY rowid LIMIT 1`, roomType)
	room, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get room by type: %w", err)
	}
	return room, nil
}

// SearchAvailableRooms returns rooms that fit the party size, are flagged
// available and have no booking overlapping [checkin, checkout]. Bounds are
// inclusive on both ends: a booking that merely touches the requested range
// counts as a conflict.
func (db *DB) SearchAvailableRooms(ctx context.Context, checkin, checkout time.Time, minGuests int) ([]models.Room, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE max_guests >= ? AND available = 1`, minGuests)
	if err != nil {
		return nil, fmt.Errorf("search candidate rooms: %w", err)
	}
	defer rows.Close()

	var candidates []models.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		candidates = append(candidates, *room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	available := make([]models.Room, 0, len(candidates))
	for _, room := range candidates {
		conflicts, err := db.CountOverlappingBookings(ctx, room.ID, checkin, checkout)
		if err != nil {
			return nil, err
		}
		if conflicts == 0 {
			available = append(available, room)
		}
	}
	return available, nil
}
