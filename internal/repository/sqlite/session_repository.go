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

var sessionColumns = []string{
	"id", "user_id", "deck_id", "mode", "total_cards", "correct_answers", "wrong_answers",
	"time_spent", "accuracy", "score", "created_at",
}

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func scanSession(row interface{ Scan(...any) error }, s *models.StudySession) error {
	return row.Scan(&s.ID, &s.UserID, &s.DeckID, &s.Mode, &s.TotalCards, &s.CorrectAnswers, &s.WrongAnswers,
		&s.TimeSpent, &s.Accuracy, &s.Score, &s.CreatedAt)
}

func (r *sessionRepository) Insert(ctx context.Context, session models.StudySession) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting study session: user_id=%d, deck_id=%d, mode=%s", session.UserID, session.DeckID, session.Mode)

	query, args, err := sqlBuilder.Insert("study_sessions").
		Columns(sessionColumns[1:]...).
		Values(session.UserID, session.DeckID, session.Mode, session.TotalCards, session.CorrectAnswers,
			session.WrongAnswers, session.TimeSpent, session.Accuracy, session.Score, dbTime(session.CreatedAt)).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert study session: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *sessionRepository) Get(ctx context.Context, id int64) (*models.StudySession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")

	query, args, err := sqlBuilder.Select(sessionColumns...).From("study_sessions").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	var s models.StudySession
	if err := scanSession(r.db.QueryRowContext(ctx, query, args...), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("study session not found: id=%d", id)
			return nil, nil
		}
		log.Error("failed to get study session: %v", err)
		return nil, err
	}
	return &s, nil
}

// UpdateResult rewrites the counts and the derived percentages of a session.
func (r *sessionRepository) UpdateResult(ctx context.Context, session models.StudySession) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("updating study session result: id=%d", session.ID)

	n, err := exec(ctx, r.db, sqlBuilder.Update("study_sessions").SetMap(map[string]any{
		"total_cards":     session.TotalCards,
		"correct_answers": session.CorrectAnswers,
		"wrong_answers":   session.WrongAnswers,
		"time_spent":      session.TimeSpent,
		"accuracy":        session.Accuracy,
		"score":           session.Score,
	}).Where(squirrel.Eq{"id": session.ID}))
	if err != nil {
		log.Error("failed to update study session: %v", err)
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.StudySession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing study sessions: user_id=%d, limit=%d", userID, limit)

	query := sqlBuilder.Select(sessionColumns...).From("study_sessions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list study sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	sessions := []models.StudySession{}
	for rows.Next() {
		var s models.StudySession
		if err := scanSession(rows, &s); err != nil {
			log.Error("failed to scan study session row: %v", err)
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
