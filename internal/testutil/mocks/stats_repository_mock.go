package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashdeck/internal/models"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) SessionTotals(ctx context.Context, userID int64, from, to *time.Time) (models.SessionTotals, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(models.SessionTotals), args.Error(1)
}

func (m *MockStatsRepository) UserDeckCounts(ctx context.Context, userID int64) (int, int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockStatsRepository) PlatformCounts(ctx context.Context) (models.PlatformStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.PlatformStats), args.Error(1)
}
