package services

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/scoring"
)

const defaultHistoryLimit = 50

// StatsService handles statistics-related business logic
type StatsService interface {
	UserStats(ctx context.Context, userID int64) (models.UserStats, error)
	TodayStats(ctx context.Context, userID int64) (models.TodayStats, error)
	DashboardStats(ctx context.Context, userID int64) (models.DashboardStats, error)
	PlatformStats(ctx context.Context) (models.PlatformStats, error)
	RecentSessions(ctx context.Context, userID int64, limit int) ([]models.StudySession, error)
}

type statsService struct {
	statsRepo   repository.StatsRepository
	sessionRepo repository.SessionRepository
	loc         *time.Location
	now         func() time.Time
}

// NewStatsService creates a new StatsService. Day boundaries are taken in
// loc; nil means time.Local.
func NewStatsService(statsRepo repository.StatsRepository, sessionRepo repository.SessionRepository, loc *time.Location, now func() time.Time) StatsService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &statsService{statsRepo: statsRepo, sessionRepo: sessionRepo, loc: loc, now: now}
}

// DayWindow returns [midnight, next midnight) of the day containing t in loc.
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func (s *statsService) today(ctx context.Context, userID int64) (models.SessionTotals, error) {
	start, end := DayWindow(s.now(), s.loc)
	return s.statsRepo.SessionTotals(ctx, userID, &start, &end)
}

func (s *statsService) UserStats(ctx context.Context, userID int64) (models.UserStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting user stats: user_id=%d", userID)

	all, err := s.statsRepo.SessionTotals(ctx, userID, nil, nil)
	if err != nil {
		log.Error("failed to aggregate sessions: %v", err)
		return models.UserStats{}, errors.NewStorageError("load statistics", err)
	}
	today, err := s.today(ctx, userID)
	if err != nil {
		log.Error("failed to aggregate today's sessions: %v", err)
		return models.UserStats{}, errors.NewStorageError("load statistics", err)
	}

	return models.UserStats{
		TotalSessions:       all.Sessions,
		SessionsToday:       today.Sessions,
		TotalCardsStudied:   all.TotalCards,
		TotalCorrectAnswers: all.TotalCorrect,
		TotalTimeSpent:      all.TotalTime,
		AverageAccuracy:     scoring.Percent(all.TotalCorrect, all.TotalCards),
	}, nil
}

func (s *statsService) TodayStats(ctx context.Context, userID int64) (models.TodayStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting today stats: user_id=%d", userID)

	t, err := s.today(ctx, userID)
	if err != nil {
		log.Error("failed to aggregate today's sessions: %v", err)
		return models.TodayStats{}, errors.NewStorageError("load statistics", err)
	}
	return models.TodayStats{
		Sessions:     t.Sessions,
		TotalCards:   t.TotalCards,
		TotalCorrect: t.TotalCorrect,
		TotalTime:    t.TotalTime,
		AverageScore: scoring.Mean(t.ScoreSum, t.Sessions),
	}, nil
}

func (s *statsService) DashboardStats(ctx context.Context, userID int64) (models.DashboardStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting dashboard stats: user_id=%d", userID)

	decks, cards, err := s.statsRepo.UserDeckCounts(ctx, userID)
	if err != nil {
		log.Error("failed to count user decks: %v", err)
		return models.DashboardStats{}, errors.NewStorageError("load statistics", err)
	}
	all, err := s.statsRepo.SessionTotals(ctx, userID, nil, nil)
	if err != nil {
		log.Error("failed to aggregate sessions: %v", err)
		return models.DashboardStats{}, errors.NewStorageError("load statistics", err)
	}
	today, err := s.today(ctx, userID)
	if err != nil {
		log.Error("failed to aggregate today's sessions: %v", err)
		return models.DashboardStats{}, errors.NewStorageError("load statistics", err)
	}

	return models.DashboardStats{
		StudiedToday:    today.TotalCorrect,
		SessionsToday:   today.Sessions,
		TotalSessions:   all.Sessions,
		UserDecksCount:  decks,
		TotalCardsCount: cards,
	}, nil
}

// PlatformStats recomputes the platform-wide counters. Callers on hot paths
// go through statscache instead.
func (s *statsService) PlatformStats(ctx context.Context) (models.PlatformStats, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	stats, err := s.statsRepo.PlatformCounts(ctx)
	if err != nil {
		return models.PlatformStats{}, errors.NewStorageError("load platform statistics", err)
	}
	stats.LastUpdated = s.now()
	log.Since(start, "platform stats computed: users=%d, decks=%d, sessions=%d", stats.UsersCount, stats.DecksCount, stats.SessionsCount)
	return stats, nil
}

func (s *statsService) RecentSessions(ctx context.Context, userID int64, limit int) ([]models.StudySession, error) {
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}
	sessions, err := s.sessionRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, errors.NewStorageError("load study sessions", err)
	}
	return sessions, nil
}
