package database

import (
	"context"
	"testing"

	"cheesecode/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := &models.User{
		Name:     "Alice",
		Email:    "alice@example.com",
		Phone:    "+3312345678",
		Password: "secret",
	}
	require.NoError(t, db.CreateUser(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestCreateUser_EmailTaken(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := &models.User{Name: "Alice", Email: "alice@example.com", Password: "secret"}
	require.NoError(t, db.CreateUser(ctx, first))

	second := &models.User{Name: "Other Alice", Email: "alice@example.com", Password: "different"}
	err := db.CreateUser(ctx, second)
	assert.ErrorIs(t, err, ErrEmailTaken)

	// No second document was created.
	var count int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, "alice@example.com").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestGetUserByEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := &models.User{Name: "Bob", Email: "bob@example.com", Phone: "+1", Password: "pw"}
	require.NoError(t, db.CreateUser(ctx, user))

	got, err := db.GetUserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	// Stored as given, no hashing.
	assert.Equal(t, "pw", got.Password)

	_, err = db.GetUserByEmail(ctx, "unknown@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetAllUsers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	users, err := db.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, db.CreateUser(ctx, &models.User{Name: "Alice", Email: "alice@example.com", Password: "a"}))
	require.NoError(t, db.CreateUser(ctx, &models.User{Name: "Bob", Email: "bob@example.com", Password: "b"}))

	users, err = db.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	// Oldest first.
	assert.Equal(t, "alice@example.com", users[0].Email)
	assert.Equal(t, "bob@example.com", users[1].Email)
}
