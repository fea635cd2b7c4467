package services_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
)

var noBound = (*time.Time)(nil)

func bound(want time.Time) any {
	return mock.MatchedBy(func(t *time.Time) bool {
		return t != nil && t.Equal(want)
	})
}

func newStatsService(loc *time.Location, now time.Time) (services.StatsService, *mocks.MockStatsRepository, *mocks.MockSessionRepository) {
	stats := new(mocks.MockStatsRepository)
	sessions := new(mocks.MockSessionRepository)
	svc := services.NewStatsService(stats, sessions, loc, func() time.Time { return now })
	return svc, stats, sessions
}

func TestDayWindow(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)

	tests := []struct {
		name      string
		now       time.Time
		loc       *time.Location
		wantStart time.Time
	}{
		{
			name:      "utc midday",
			now:       time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC),
			loc:       time.UTC,
			wantStart: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "utc instant still yesterday in local zone",
			now:       time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC),
			loc:       est,
			wantStart: time.Date(2024, 3, 9, 0, 0, 0, 0, est),
		},
		{
			name:      "exact midnight belongs to the new day",
			now:       time.Date(2024, 3, 10, 0, 0, 0, 0, est),
			loc:       est,
			wantStart: time.Date(2024, 3, 10, 0, 0, 0, 0, est),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := services.DayWindow(tt.now, tt.loc)
			assert.True(t, start.Equal(tt.wantStart), "start = %s", start)
			assert.True(t, end.Equal(tt.wantStart.Add(24*time.Hour)), "end = %s", end)
			assert.False(t, tt.now.Before(start))
			assert.True(t, tt.now.Before(end))
		})
	}
}

func TestUserStats_AverageAccuracyIsWeighted(t *testing.T) {
	now := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)
	svc, stats, _ := newStatsService(time.UTC, now)
	ctx := context.Background()
	start, end := services.DayWindow(now, time.UTC)

	// Two sessions: 7/10 and 6/10.
	stats.On("SessionTotals", ctx, int64(7), noBound, noBound).
		Return(models.SessionTotals{Sessions: 2, TotalCards: 20, TotalCorrect: 13, TotalTime: 300, ScoreSum: 130}, nil)
	stats.On("SessionTotals", ctx, int64(7), bound(start), bound(end)).
		Return(models.SessionTotals{Sessions: 1, TotalCards: 10, TotalCorrect: 6, TotalTime: 100, ScoreSum: 60}, nil)

	got, err := svc.UserStats(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, models.UserStats{
		TotalSessions:       2,
		SessionsToday:       1,
		TotalCardsStudied:   20,
		TotalCorrectAnswers: 13,
		TotalTimeSpent:      300,
		AverageAccuracy:     65,
	}, got)
	stats.AssertExpectations(t)
}

func TestUserStats_NoSessionsIsAllZeros(t *testing.T) {
	svc, stats, _ := newStatsService(time.UTC, time.Now())
	ctx := context.Background()
	stats.On("SessionTotals", ctx, int64(3), mock.Anything, mock.Anything).Return(models.SessionTotals{}, nil)

	got, err := svc.UserStats(ctx, 3)

	require.NoError(t, err)
	assert.Equal(t, models.UserStats{}, got)
}

func TestUserStats_StorageFailure(t *testing.T) {
	svc, stats, _ := newStatsService(time.UTC, time.Now())
	ctx := context.Background()
	stats.On("SessionTotals", ctx, int64(3), mock.Anything, mock.Anything).Return(models.SessionTotals{}, stderrors.New("locked"))

	_, err := svc.UserStats(ctx, 3)

	assert.True(t, errors.HasCode(err, errors.ErrCodeStorage))
}

func TestTodayStats_AverageScore(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	now := time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC)
	svc, stats, _ := newStatsService(est, now)
	ctx := context.Background()
	start := time.Date(2024, 3, 9, 0, 0, 0, 0, est)

	stats.On("SessionTotals", ctx, int64(7), bound(start), bound(start.Add(24*time.Hour))).
		Return(models.SessionTotals{Sessions: 3, TotalCards: 30, TotalCorrect: 20, TotalTime: 90, ScoreSum: 200}, nil)

	got, err := svc.TodayStats(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, models.TodayStats{Sessions: 3, TotalCards: 30, TotalCorrect: 20, TotalTime: 90, AverageScore: 67}, got)
	stats.AssertExpectations(t)
}

func TestDashboardStats(t *testing.T) {
	svc, stats, _ := newStatsService(time.UTC, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	stats.On("UserDeckCounts", ctx, int64(7)).Return(2, 15, nil)
	stats.On("SessionTotals", ctx, int64(7), noBound, noBound).
		Return(models.SessionTotals{Sessions: 9, TotalCards: 90, TotalCorrect: 70}, nil)
	stats.On("SessionTotals", ctx, int64(7), mock.AnythingOfType("*time.Time"), mock.AnythingOfType("*time.Time")).
		Return(models.SessionTotals{Sessions: 2, TotalCards: 12, TotalCorrect: 8}, nil)

	got, err := svc.DashboardStats(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, models.DashboardStats{
		StudiedToday:    8,
		SessionsToday:   2,
		TotalSessions:   9,
		UserDecksCount:  2,
		TotalCardsCount: 15,
	}, got)
}

func TestDashboardStats_NewUserIsAllZeros(t *testing.T) {
	svc, stats, _ := newStatsService(time.UTC, time.Now())
	ctx := context.Background()
	stats.On("UserDeckCounts", ctx, int64(3)).Return(0, 0, nil)
	stats.On("SessionTotals", ctx, int64(3), mock.Anything, mock.Anything).Return(models.SessionTotals{}, nil)

	got, err := svc.DashboardStats(ctx, 3)

	require.NoError(t, err)
	assert.Equal(t, models.DashboardStats{}, got)
}

func TestPlatformStats_StampsLastUpdated(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, stats, _ := newStatsService(time.UTC, now)
	ctx := context.Background()
	stats.On("PlatformCounts", ctx).Return(models.PlatformStats{UsersCount: 3, DecksCount: 2, CardsCount: 5, PublicDecksCount: 1, SessionsCount: 4}, nil)

	got, err := svc.PlatformStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, got.UsersCount)
	assert.Equal(t, 4, got.SessionsCount)
	assert.True(t, got.LastUpdated.Equal(now))
}

func TestRecentSessions_ClampsLimit(t *testing.T) {
	svc, _, sessions := newStatsService(time.UTC, time.Now())
	ctx := context.Background()
	sessions.On("ListByUser", ctx, int64(7), 50).Return([]models.StudySession{{ID: 1}}, nil).Twice()

	for _, limit := range []int{0, 500} {
		got, err := svc.RecentSessions(ctx, 7, limit)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	sessions.AssertExpectations(t)
}
