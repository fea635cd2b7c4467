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

var cardColumns = []string{"id", "deck_id", "user_id", "question", "answer", "image_url", "tags", "created_at"}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func scanCard(row interface{ Scan(...any) error }, c *models.Card) error {
	return row.Scan(&c.ID, &c.DeckID, &c.UserID, &c.Question, &c.Answer, &c.ImageURL, &c.Tags, &c.CreatedAt)
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d", id)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	var c models.Card
	if err := scanCard(r.db.QueryRowContext(ctx, query, args...), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found: id=%d", id)
			return nil, nil
		}
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: deck_id=%d", deckID)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards").
		Where(squirrel.Eq{"deck_id": deckID}).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		var c models.Card
		if err := scanCard(rows, &c); err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *cardRepository) Insert(ctx context.Context, card models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: deck_id=%d", card.DeckID)

	query, args, err := sqlBuilder.Insert("cards").
		Columns("deck_id", "user_id", "question", "answer", "image_url", "tags", "created_at").
		Values(card.DeckID, card.UserID, card.Question, card.Answer, card.ImageURL, card.Tags, dbTime(card.CreatedAt)).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *cardRepository) Update(ctx context.Context, card models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card: id=%d", card.ID)

	n, err := exec(ctx, r.db, sqlBuilder.Update("cards").SetMap(map[string]any{
		"deck_id":   card.DeckID,
		"question":  card.Question,
		"answer":    card.Answer,
		"image_url": card.ImageURL,
		"tags":      card.Tags,
	}).Where(squirrel.Eq{"id": card.ID}))
	if err != nil {
		log.Error("failed to update card: %v", err)
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *cardRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%d", id)

	n, err := exec(ctx, r.db, sqlBuilder.Delete("cards").Where(squirrel.Eq{"id": id}))
	if err != nil {
		log.Error("failed to delete card: %v", err)
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
