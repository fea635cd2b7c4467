package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The pool is pinned to one connection so every query sees the same database.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB), "failed to apply migrations")
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// InsertUser adds a user row and returns its id.
func InsertUser(t *testing.T, sqlDB *sql.DB, username, role string) int64 {
	t.Helper()
	res, err := sqlDB.Exec(`INSERT INTO users (username, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
		username, username+"@example.com", "x", role, time.Now().UTC().Truncate(time.Second))
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// InsertDeck adds a deck row and returns its id.
func InsertDeck(t *testing.T, sqlDB *sql.DB, userID int64, name string, public bool, status string) int64 {
	t.Helper()
	res, err := sqlDB.Exec(`INSERT INTO decks (user_id, name, is_public, is_published, status, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, name, public, public && status == "approved", status, time.Now().UTC().Truncate(time.Second))
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// InsertCard adds a card row and returns its id.
func InsertCard(t *testing.T, sqlDB *sql.DB, deckID, userID int64, question string) int64 {
	t.Helper()
	res, err := sqlDB.Exec(`INSERT INTO cards (deck_id, user_id, question, answer, created_at) VALUES (?, ?, ?, ?, ?)`,
		deckID, userID, question, "answer to "+question, time.Now().UTC().Truncate(time.Second))
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
