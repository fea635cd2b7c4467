package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/db"
)

func openMemory(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestOpen_AppliesMigrations(t *testing.T) {
	database := openMemory(t)

	var tables int
	err := database.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'decks', 'cards', 'study_sessions')`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 4, tables)
}

func TestMigrate_Idempotent(t *testing.T) {
	database := openMemory(t)
	ctx := context.Background()

	require.NoError(t, db.Migrate(ctx, database.DB))
	require.NoError(t, db.Migrate(ctx, database.DB))

	var applied int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestSeedDemo(t *testing.T) {
	database := openMemory(t)
	ctx := context.Background()

	require.NoError(t, database.SeedDemo(ctx))
	require.NoError(t, database.SeedDemo(ctx), "second seed is a no-op")

	var users, decks, cards int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&users))
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM decks`).Scan(&decks))
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&cards))
	assert.Equal(t, 3, users)
	assert.Equal(t, 2, decks)
	assert.Equal(t, 5, cards)

	var role string
	require.NoError(t, database.QueryRow(`SELECT role FROM users WHERE id = 1`).Scan(&role))
	assert.Equal(t, "admin", role)
}

func TestPing(t *testing.T) {
	database := openMemory(t)
	assert.NoError(t, database.Ping(context.Background()))
}
