package config

import (
	"os"
	"path/filepath"
	"testing"

	"cheesecode/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: cheesecode-test
database:
  path: /tmp/test.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cheesecode-test", cfg.App.Name)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "configs/rooms.yaml", cfg.Database.RoomsPath)
	assert.Equal(t, models.RateLimitMessages, cfg.Bot.RateLimitMessages)
}

func TestLoad_MissingDatabasePath(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 3000
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PATH", "/tmp/env.db")
	path := writeConfig(t, `
database:
  path: ${TEST_DB_PATH}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.Database.Path)
}

func TestValidateRooms(t *testing.T) {
	valid := []models.Room{
		{Name: "Standard Room", Type: "standard", Price: 89, MaxGuests: 2},
		{Name: "Premium Room", Type: "premium", Price: 149, MaxGuests: 3},
	}
	assert.NoError(t, ValidateRooms(valid))

	dup := append(valid, models.Room{Name: "Other", Type: "standard", Price: 10, MaxGuests: 1})
	assert.Error(t, ValidateRooms(dup))

	badPrice := []models.Room{{Name: "Free", Type: "standard", Price: 0, MaxGuests: 2}}
	assert.Error(t, ValidateRooms(badPrice))

	badGuests := []models.Room{{Name: "NoGuests", Type: "standard", Price: 89, MaxGuests: 0}}
	assert.Error(t, ValidateRooms(badGuests))
}
