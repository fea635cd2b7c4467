package db

import (
	"context"
	"database/sql"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	username, email, password, role string
}

type seedDeck struct {
	owner                 string
	name, description     string
	isPublic, isPublished bool
	status                string
	cards                 [][3]string // question, answer, tags
}

var demoUsers = []seedUser{
	{"admin", "admin@flashdeck.local", "admin123", "admin"},
	{"teacher", "teacher@flashdeck.local", "teacher123", "teacher"},
	{"student", "student@flashdeck.local", "student123", "student"},
}

var demoDecks = []seedDeck{
	{
		owner:       "teacher",
		name:        "Biology: core concepts",
		description: "Basic biology terms for beginners",
		isPublic:    true,
		isPublished: true,
		status:      "approved",
		cards: [][3]string{
			{"What is photosynthesis?", "The conversion of light into chemical energy by plants", "#biology #plants"},
			{"What is DNA?", "Deoxyribonucleic acid, the carrier of genetic information", "#biology #genetics"},
			{"Which kinds of cells exist?", "Prokaryotic (no nucleus) and eukaryotic (with nucleus)", "#biology #cell"},
		},
	},
	{
		owner:       "student",
		name:        "My chemistry notes",
		description: "Personal deck for chemistry",
		status:      "draft",
		cards: [][3]string{
			{"What is pH?", "A measure of how acidic or basic a solution is", "#chemistry #acidity"},
			{"What is a mole?", "The unit for amount of substance", "#chemistry #units"},
		},
	},
}

// SeedDemo inserts the demo accounts and decks into an empty database. It is a
// no-op when any user already exists, so the first account stays the root admin.
func (db *DB) SeedDemo(ctx context.Context) error {
	var users int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
		return err
	}
	if users > 0 {
		db.log.Debug("database already has %d users, skipping demo seed", users)
		return nil
	}

	now := time.Now().UTC().Truncate(time.Second)
	return tx(ctx, db, func(tx *sql.Tx) error {
		ids := make(map[string]int64, len(demoUsers))
		for _, u := range demoUsers {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx, `INSERT INTO users (username, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`,
				u.username, u.email, string(hash), u.role, now)
			if err != nil {
				return err
			}
			if ids[u.username], err = res.LastInsertId(); err != nil {
				return err
			}
			db.log.Info("seeded user %s (%s / %s)", u.username, u.email, u.password)
		}

		for _, d := range demoDecks {
			owner := ids[d.owner]
			res, err := tx.ExecContext(ctx, `INSERT INTO decks (user_id, name, description, is_public, is_published, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				owner, d.name, d.description, d.isPublic, d.isPublished, d.status, now)
			if err != nil {
				return err
			}
			deckID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for _, c := range d.cards {
				if _, err := tx.ExecContext(ctx, `INSERT INTO cards (deck_id, user_id, question, answer, tags, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
					deckID, owner, c[0], c[1], c[2], now); err != nil {
					return err
				}
			}
			db.log.Info("seeded deck %q with %d cards", d.name, len(d.cards))
		}
		return nil
	})
}

func tx(ctx context.Context, db *DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		db.log.Error("failed to begin transaction: %v", err)
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		db.log.Debug("transaction rolled back due to error: %v", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		db.log.Error("failed to commit transaction: %v", err)
		return err
	}
	return nil
}
