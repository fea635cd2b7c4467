package services_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/auth"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/scoring"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
)

var fixedNow = time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func rawSession(t *testing.T, body string) scoring.RawSession {
	t.Helper()
	var raw scoring.RawSession
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func newSessionService() (services.SessionService, *mocks.MockSessionRepository, *mocks.MockDeckRepository) {
	sessions := new(mocks.MockSessionRepository)
	decks := new(mocks.MockDeckRepository)
	return services.NewSessionService(sessions, decks, clock), sessions, decks
}

func TestRecordSession_DerivesAccuracyAndScore(t *testing.T) {
	svc, sessions, decks := newSessionService()
	ctx := context.Background()
	student := auth.Identity{UserID: 7, Role: models.RoleStudent}

	decks.On("Get", ctx, int64(5)).Return(&models.Deck{ID: 5, UserID: 2, IsPublic: true}, nil)
	sessions.On("Insert", ctx, models.StudySession{
		UserID:         7,
		DeckID:         5,
		Mode:           models.ModeSwipe,
		TotalCards:     3,
		CorrectAnswers: 2,
		WrongAnswers:   1,
		TimeSpent:      45,
		Accuracy:       67,
		Score:          67,
		CreatedAt:      fixedNow,
	}).Return(int64(11), nil)

	id, err := svc.RecordSession(ctx, student, rawSession(t,
		`{"deckId":5,"correctCount":2,"wrongCount":1,"totalCards":3,"studyMode":"swipe","timeSpent":45}`))

	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	sessions.AssertExpectations(t)
}

func TestRecordSession_ExplicitScoreAndAliases(t *testing.T) {
	svc, sessions, decks := newSessionService()
	ctx := context.Background()
	owner := auth.Identity{UserID: 3, Role: models.RoleTeacher}

	decks.On("Get", ctx, int64(9)).Return(&models.Deck{ID: 9, UserID: 3}, nil)
	sessions.On("Insert", ctx, mock.MatchedBy(func(s models.StudySession) bool {
		return s.Mode == models.ModeSpeedChallenge &&
			s.CorrectAnswers == 8 && s.WrongAnswers == 2 && s.TotalCards == 10 &&
			s.Accuracy == 80 && s.Score == 95
	})).Return(int64(1), nil)

	_, err := svc.RecordSession(ctx, owner, rawSession(t,
		`{"deckId":"9","correctAnswers":8,"wrongCount":2,"mode":"Speed_Challenge","score":95}`))

	require.NoError(t, err)
	sessions.AssertExpectations(t)
}

func TestRecordSession_InconsistentCountsAreAccepted(t *testing.T) {
	svc, sessions, decks := newSessionService()
	ctx := context.Background()
	actor := auth.Identity{UserID: 3, Role: models.RoleStudent}

	decks.On("Get", ctx, int64(1)).Return(&models.Deck{ID: 1, UserID: 3}, nil)
	sessions.On("Insert", ctx, mock.MatchedBy(func(s models.StudySession) bool {
		return s.TotalCards == 2 && s.CorrectAnswers == 5 && s.Accuracy == 100
	})).Return(int64(2), nil)

	_, err := svc.RecordSession(ctx, actor, rawSession(t,
		`{"deckId":1,"correctCount":5,"wrongCount":1,"totalCards":2}`))

	require.NoError(t, err)
	sessions.AssertExpectations(t)
}

func TestRecordSession_UnauthenticatedPersistsNothing(t *testing.T) {
	svc, sessions, decks := newSessionService()

	_, err := svc.RecordSession(context.Background(), auth.Identity{}, rawSession(t,
		`{"deckId":5,"correctCount":2,"wrongCount":1,"totalCards":3}`))

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnauthenticated))
	sessions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	decks.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestRecordSession_ValidationFailures(t *testing.T) {
	actor := auth.Identity{UserID: 3, Role: models.RoleStudent}

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing deck", `{"correctCount":1}`, "deckId"},
		{"non numeric deck", `{"deckId":"abc"}`, "deckId"},
		{"zero deck", `{"deckId":0}`, "deckId"},
		{"unknown mode", `{"deckId":1,"mode":"marathon"}`, "mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, sessions, _ := newSessionService()
			_, err := svc.RecordSession(context.Background(), actor, rawSession(t, tt.body))

			appErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
			assert.Contains(t, appErr.Message, tt.field)
			sessions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestRecordSession_PrivateDeckOfAnotherUser(t *testing.T) {
	svc, sessions, decks := newSessionService()
	ctx := context.Background()

	decks.On("Get", ctx, int64(4)).Return(&models.Deck{ID: 4, UserID: 99}, nil)

	_, err := svc.RecordSession(ctx, auth.Identity{UserID: 3, Role: models.RoleStudent}, rawSession(t, `{"deckId":4}`))

	assert.True(t, errors.HasCode(err, errors.ErrCodeForbidden))
	sessions.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRecordSession_StorageFailure(t *testing.T) {
	svc, sessions, decks := newSessionService()
	ctx := context.Background()

	decks.On("Get", ctx, int64(1)).Return(&models.Deck{ID: 1, UserID: 3}, nil)
	sessions.On("Insert", ctx, mock.Anything).Return(int64(0), stderrors.New("disk full"))

	_, err := svc.RecordSession(ctx, auth.Identity{UserID: 3}, rawSession(t, `{"deckId":1,"correctCount":1,"totalCards":1}`))

	assert.True(t, errors.HasCode(err, errors.ErrCodeStorage))
}

func TestCorrectSession_RecomputesDerivedFields(t *testing.T) {
	svc, sessions, _ := newSessionService()
	ctx := context.Background()
	admin := auth.Identity{UserID: 1, Role: models.RoleAdmin}

	stored := &models.StudySession{ID: 4, UserID: 7, DeckID: 5, Mode: models.ModeSwipe, TotalCards: 3, CorrectAnswers: 2, WrongAnswers: 1, Accuracy: 67, Score: 67}
	sessions.On("Get", ctx, int64(4)).Return(stored, nil)
	sessions.On("UpdateResult", ctx, mock.MatchedBy(func(s models.StudySession) bool {
		return s.ID == 4 && s.CorrectAnswers == 3 && s.WrongAnswers == 1 && s.TotalCards == 4 && s.Accuracy == 75 && s.Score == 75
	})).Return(nil)

	updated, err := svc.CorrectSession(ctx, admin, 4, services.SessionCorrection{CorrectAnswers: 3, WrongAnswers: 1, TotalCards: 4})

	require.NoError(t, err)
	assert.Equal(t, 75, updated.Accuracy)
	sessions.AssertExpectations(t)
}

func TestCorrectSession_RequiresAdmin(t *testing.T) {
	svc, sessions, _ := newSessionService()

	_, err := svc.CorrectSession(context.Background(), auth.Identity{UserID: 7, Role: models.RoleTeacher}, 4, services.SessionCorrection{})

	assert.True(t, errors.HasCode(err, errors.ErrCodeForbidden))
	sessions.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCorrectSession_NotFound(t *testing.T) {
	svc, sessions, _ := newSessionService()
	ctx := context.Background()
	sessions.On("Get", ctx, int64(4)).Return(nil, nil)

	_, err := svc.CorrectSession(ctx, auth.Identity{UserID: 1, Role: models.RoleAdmin}, 4, services.SessionCorrection{TotalCards: 1})

	assert.True(t, errors.HasCode(err, errors.ErrCodeNotFound))
}
