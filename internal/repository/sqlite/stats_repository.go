package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) SessionTotals(ctx context.Context, userID int64, from, to *time.Time) (models.SessionTotals, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("aggregating sessions: user_id=%d, from=%v, to=%v", userID, from, to)

	query := sqlBuilder.Select(
		"COUNT(*)",
		"COALESCE(SUM(total_cards), 0)",
		"COALESCE(SUM(correct_answers), 0)",
		"COALESCE(SUM(time_spent), 0)",
		"COALESCE(SUM(score), 0)",
	).From("study_sessions").Where(squirrel.Eq{"user_id": userID})
	if from != nil {
		query = query.Where(squirrel.GtOrEq{"created_at": dbTime(*from)})
	}
	if to != nil {
		query = query.Where(squirrel.Lt{"created_at": dbTime(*to)})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return models.SessionTotals{}, err
	}

	var t models.SessionTotals
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&t.Sessions, &t.TotalCards, &t.TotalCorrect, &t.TotalTime, &t.ScoreSum); err != nil {
		log.Error("failed to aggregate sessions: %v", err)
		return models.SessionTotals{}, err
	}
	return t, nil
}

func (r *statsRepository) UserDeckCounts(ctx context.Context, userID int64) (int, int, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	var decks, cards int
	err := r.db.QueryRowContext(ctx, `
SELECT
    (SELECT COUNT(*) FROM decks WHERE user_id = ?),
    (SELECT COUNT(*) FROM cards c JOIN decks d ON d.id = c.deck_id WHERE d.user_id = ?)
`, userID, userID).Scan(&decks, &cards)
	if err != nil {
		log.Error("failed to count user decks: %v", err)
		return 0, 0, err
	}
	return decks, cards, nil
}

func (r *statsRepository) PlatformCounts(ctx context.Context) (models.PlatformStats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")

	var s models.PlatformStats
	err := r.db.QueryRowContext(ctx, `
SELECT
    (SELECT COUNT(*) FROM users),
    (SELECT COUNT(*) FROM decks),
    (SELECT COUNT(*) FROM cards),
    (SELECT COUNT(*) FROM decks WHERE is_public = 1 AND is_published = 1 AND status = ?),
    (SELECT COUNT(*) FROM study_sessions)
`, models.DeckStatusApproved).Scan(&s.UsersCount, &s.DecksCount, &s.CardsCount, &s.PublicDecksCount, &s.SessionsCount)
	if err != nil {
		log.Error("failed to count platform totals: %v", err)
		return models.PlatformStats{}, err
	}
	return s, nil
}
