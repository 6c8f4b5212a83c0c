package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cheesecode/internal/models"

	"github.com/google/uuid"
)

// CreateUser persists a new user. The email must be unused; the password is
// stored exactly as given, matching the original service's plaintext
// handling.
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	var existing int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, user.Email).Scan(&existing)
	if err != nil {
		return fmt.Errorf("check user email: %w", err)
	}
	if existing > 0 {
		return ErrEmailTaken
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()

	_, err = db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, phone, password, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.Phone, user.Password, now,
	)
	if err != nil {
		// The UNIQUE index closes the check-then-insert window.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	user.CreatedAt = now
	return nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, password, created_at FROM users WHERE email = ?`, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.Password, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

// GetAllUsers returns every registered user, oldest first. The users sheet
// sync rewrites the whole sheet from this list.
func (db *DB) GetAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, email, phone, password, created_at FROM users ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.Password, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
