package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Get(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%d", id)

	var d models.Deck
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, name, description, is_public, is_published, status, created_at
FROM decks
WHERE id = ?
`, id).Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &d.IsPublic, &d.IsPublished, &d.Status, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found: id=%d", id)
			return nil, nil
		}
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return &d, nil
}

func libraryVisible(prefix string) squirrel.Eq {
	return squirrel.Eq{
		prefix + "is_public":    true,
		prefix + "is_published": true,
		prefix + "status":       models.DeckStatusApproved,
	}
}

func (r *deckRepository) List(ctx context.Context, filter models.DeckFilter) ([]models.DeckSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks with filter: user_id=%d, status=%s, library=%t, q=%q",
		filter.UserID, filter.Status, filter.LibraryOnly, filter.Query)

	query := sqlBuilder.Select(
		"d.id", "d.user_id", "d.name", "d.description", "d.is_public", "d.is_published", "d.status", "d.created_at",
		"u.username",
		"(SELECT COUNT(*) FROM cards c WHERE c.deck_id = d.id)",
		"(SELECT COUNT(*) FROM study_sessions s WHERE s.deck_id = d.id)",
	).From("decks d").Join("users u ON u.id = d.user_id")

	if filter.UserID != 0 {
		query = query.Where(squirrel.Eq{"d.user_id": filter.UserID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"d.status": filter.Status})
	}
	if filter.LibraryOnly {
		query = query.Where(libraryVisible("d."))
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"d.name": pattern},
			squirrel.Like{"d.description": pattern},
		})
	}

	query = query.OrderBy("d.created_at DESC", "d.id DESC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	decks := []models.DeckSummary{}
	for rows.Next() {
		var d models.DeckSummary
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &d.IsPublic, &d.IsPublished, &d.Status, &d.CreatedAt,
			&d.Username, &d.CardsCount, &d.SessionsCount); err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		decks = append(decks, d)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) Insert(ctx context.Context, deck models.Deck) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: user_id=%d, name=%s", deck.UserID, deck.Name)

	query, args, err := insertDeck(deck).ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func insertDeck(deck models.Deck) squirrel.InsertBuilder {
	return sqlBuilder.Insert("decks").
		Columns("user_id", "name", "description", "is_public", "is_published", "status", "created_at").
		Values(deck.UserID, deck.Name, deck.Description, deck.IsPublic, deck.IsPublished, deck.Status, dbTime(deck.CreatedAt))
}

func (r *deckRepository) Update(ctx context.Context, deck models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("updating deck: id=%d", deck.ID)

	n, err := exec(ctx, r.db, sqlBuilder.Update("decks").SetMap(map[string]any{
		"name":         deck.Name,
		"description":  deck.Description,
		"is_public":    deck.IsPublic,
		"is_published": deck.IsPublished,
		"status":       deck.Status,
	}).Where(squirrel.Eq{"id": deck.ID}))
	if err != nil {
		log.Error("failed to update deck: %v", err)
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *deckRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%d", id)

	n, err := exec(ctx, r.db, sqlBuilder.Delete("decks").Where(squirrel.Eq{"id": id}))
	if err != nil {
		log.Error("failed to delete deck: %v", err)
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *deckRepository) SetModeration(ctx context.Context, id int64, status string, published bool) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("moderating deck: id=%d, status=%s, published=%t", id, status, published)

	n, err := exec(ctx, r.db, sqlBuilder.Update("decks").
		Set("status", status).
		Set("is_published", published).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		log.Error("failed to moderate deck: %v", err)
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *deckRepository) Copy(ctx context.Context, src models.Deck, dst models.Deck) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("copying deck: src=%d, new_owner=%d", src.ID, dst.UserID)

	var newID int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		query, args, err := insertDeck(dst).ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		if newID, err = res.LastInsertId(); err != nil {
			return err
		}
		res, err = tx.ExecContext(ctx, `
INSERT INTO cards (deck_id, user_id, question, answer, image_url, tags, created_at)
SELECT ?, ?, question, answer, image_url, tags, ?
FROM cards
WHERE deck_id = ?
ORDER BY id
`, newID, dst.UserID, dbTime(dst.CreatedAt), src.ID)
		if err != nil {
			return err
		}
		copied, _ := res.RowsAffected()
		log.Debug("copied %d cards into deck %d", copied, newID)
		return nil
	})
	if err != nil {
		log.Error("failed to copy deck: %v", err)
		return 0, err
	}
	return newID, nil
}
