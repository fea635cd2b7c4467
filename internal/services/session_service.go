package services

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/auth"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/metrics"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/scoring"
)

// SessionCorrection replaces the counts of a recorded session.
type SessionCorrection struct {
	CorrectAnswers int  `json:"correctAnswers" validate:"gte=0"`
	WrongAnswers   int  `json:"wrongAnswers" validate:"gte=0"`
	TotalCards     int  `json:"totalCards" validate:"gte=0"`
	TimeSpent      *int `json:"timeSpent" validate:"omitempty,gte=0"`
	Score          *int `json:"score" validate:"omitempty,gte=0,lte=100"`
}

// SessionService records finished study sessions
type SessionService interface {
	RecordSession(ctx context.Context, actor auth.Identity, raw scoring.RawSession) (int64, error)
	CorrectSession(ctx context.Context, actor auth.Identity, id int64, in SessionCorrection) (*models.StudySession, error)
}

type sessionService struct {
	sessions repository.SessionRepository
	decks    repository.DeckRepository
	now      func() time.Time
}

// NewSessionService creates a new SessionService
func NewSessionService(sessions repository.SessionRepository, decks repository.DeckRepository, now func() time.Time) SessionService {
	if now == nil {
		now = time.Now
	}
	return &sessionService{sessions: sessions, decks: decks, now: now}
}

// RecordSession normalizes a client submission, derives accuracy and score,
// and persists it as one row.
func (s *sessionService) RecordSession(ctx context.Context, actor auth.Identity, raw scoring.RawSession) (int64, error) {
	log := logger.FromContext(ctx)
	if err := requireActor(actor); err != nil {
		log.Warn("rejected study session without an authenticated user")
		return 0, err
	}

	n := scoring.Normalize(raw)
	log.Debug("recording study session: user_id=%d, deck_id=%d, mode=%s, correct=%d, wrong=%d, total=%d",
		actor.UserID, n.DeckID, n.Mode, n.Correct, n.Wrong, n.Total)

	if n.DeckID <= 0 {
		return 0, errors.NewValidationError("deckId", "must be a positive integer")
	}
	if !models.ValidMode(n.Mode) {
		return 0, errors.NewValidationError("mode", "must be 'swipe' or 'speed_challenge'")
	}
	if _, err := loadViewableDeck(ctx, s.decks, actor, n.DeckID); err != nil {
		return 0, err
	}
	if !n.Consistent() {
		log.Warn("inconsistent session counts accepted: correct=%d, wrong=%d, total=%d", n.Correct, n.Wrong, n.Total)
	}

	session := models.StudySession{
		UserID:         actor.UserID,
		DeckID:         n.DeckID,
		Mode:           n.Mode,
		TotalCards:     n.Total,
		CorrectAnswers: n.Correct,
		WrongAnswers:   n.Wrong,
		TimeSpent:      n.TimeSpent,
		Accuracy:       n.Accuracy(),
		Score:          n.FinalScore(),
		CreatedAt:      s.now().UTC().Truncate(time.Second),
	}

	id, err := s.sessions.Insert(ctx, session)
	if err != nil {
		log.Error("failed to persist study session: %v", err)
		return 0, errors.NewStorageError("save study session", err)
	}
	metrics.SessionRecorded(session.Mode)
	log.Info("study session recorded: id=%d, user_id=%d, accuracy=%d, score=%d", id, actor.UserID, session.Accuracy, session.Score)
	return id, nil
}

// CorrectSession lets an administrator fix the counts of a recorded session.
// Accuracy and score are derived again from the new counts.
func (s *sessionService) CorrectSession(ctx context.Context, actor auth.Identity, id int64, in SessionCorrection) (*models.StudySession, error) {
	log := logger.FromContext(ctx)
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, errors.NewStorageError("load study session", err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("study session", id)
	}

	session.CorrectAnswers = in.CorrectAnswers
	session.WrongAnswers = in.WrongAnswers
	session.TotalCards = in.TotalCards
	if in.TimeSpent != nil {
		session.TimeSpent = *in.TimeSpent
	}
	session.Accuracy = scoring.Accuracy(session.CorrectAnswers, session.TotalCards)
	session.Score = scoring.Score(session.CorrectAnswers, session.TotalCards, in.Score)

	if err := s.sessions.UpdateResult(ctx, *session); err != nil {
		log.Error("failed to update study session: %v", err)
		return nil, errors.NewStorageError("update study session", err)
	}
	log.Info("study session corrected: id=%d, by admin=%d, accuracy=%d", id, actor.UserID, session.Accuracy)
	return session, nil
}
