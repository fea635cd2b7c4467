package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/testutil"
)

type UserRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.UserRepository
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewUserRepository(s.db)
}

func (s *UserRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *UserRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	id, err := s.repo.Insert(ctx, models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         models.RoleStudent,
		CreatedAt:    time.Now(),
	})
	s.Require().NoError(err)
	s.Greater(id, int64(0))

	u, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(u)
	s.Equal("alice", u.Username)
	s.Equal("hash", u.PasswordHash)
	s.Equal(models.RoleStudent, u.Role)

	byEmail, err := s.repo.GetByEmail(ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Require().NotNil(byEmail)
	s.Equal(id, byEmail.ID)

	byName, err := s.repo.GetByUsername(ctx, "alice")
	s.Require().NoError(err)
	s.Require().NotNil(byName)
	s.Equal(id, byName.ID)
}

func (s *UserRepositorySuite) TestGetMissingReturnsNil() {
	u, err := s.repo.Get(context.Background(), 404)
	s.NoError(err)
	s.Nil(u)
}

func (s *UserRepositorySuite) TestDuplicateEmailRejected() {
	ctx := context.Background()
	u := models.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x", Role: models.RoleStudent}
	_, err := s.repo.Insert(ctx, u)
	s.Require().NoError(err)

	u.Username = "bob2"
	_, err = s.repo.Insert(ctx, u)
	s.Error(err)
}

func (s *UserRepositorySuite) TestUpdateRole() {
	ctx := context.Background()
	id := testutil.InsertUser(s.T(), s.db, "carol", models.RoleStudent)

	s.Require().NoError(s.repo.UpdateRole(ctx, id, models.RoleTeacher))
	u, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal(models.RoleTeacher, u.Role)

	s.ErrorIs(s.repo.UpdateRole(ctx, 999, models.RoleTeacher), sql.ErrNoRows)
}

func (s *UserRepositorySuite) TestDeleteRemovesOwnedContent() {
	ctx := context.Background()
	userID := testutil.InsertUser(s.T(), s.db, "dave", models.RoleTeacher)
	other := testutil.InsertUser(s.T(), s.db, "erin", models.RoleStudent)
	deckID := testutil.InsertDeck(s.T(), s.db, userID, "deck", true, models.DeckStatusApproved)
	testutil.InsertCard(s.T(), s.db, deckID, userID, "q1")
	testutil.InsertCard(s.T(), s.db, deckID, userID, "q2")
	_, err := s.db.Exec(`INSERT INTO study_sessions (user_id, deck_id, total_cards) VALUES (?, ?, 2)`, userID, deckID)
	s.Require().NoError(err)
	_, err = s.db.Exec(`INSERT INTO study_sessions (user_id, deck_id, total_cards) VALUES (?, ?, 2)`, other, deckID)
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Delete(ctx, userID))

	var decks, cards, sessions int
	s.Require().NoError(s.db.QueryRow(`SELECT COUNT(*) FROM decks`).Scan(&decks))
	s.Require().NoError(s.db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&cards))
	s.Require().NoError(s.db.QueryRow(`SELECT COUNT(*) FROM study_sessions`).Scan(&sessions))
	s.Zero(decks)
	s.Zero(cards)
	s.Equal(1, sessions, "other users' sessions survive")

	s.ErrorIs(s.repo.Delete(ctx, userID), sql.ErrNoRows)
}

func (s *UserRepositorySuite) TestListWithDeckCounts() {
	ctx := context.Background()
	a := testutil.InsertUser(s.T(), s.db, "a", models.RoleTeacher)
	testutil.InsertUser(s.T(), s.db, "b", models.RoleStudent)
	testutil.InsertDeck(s.T(), s.db, a, "one", false, models.DeckStatusDraft)
	testutil.InsertDeck(s.T(), s.db, a, "two", false, models.DeckStatusDraft)

	users, err := s.repo.ListWithDeckCounts(ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 2)

	counts := map[string]int{}
	for _, u := range users {
		counts[u.Username] = u.DeckCount
	}
	s.Equal(2, counts["a"])
	s.Equal(0, counts["b"])
}

func (s *UserRepositorySuite) TestRecentNewestFirst() {
	ctx := context.Background()
	for i, name := range []string{"old", "mid", "new"} {
		_, err := s.repo.Insert(ctx, models.User{
			Username:  name,
			Email:     name + "@example.com",
			Role:      models.RoleStudent,
			CreatedAt: time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC),
		})
		s.Require().NoError(err)
	}

	users, err := s.repo.Recent(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Equal("new", users[0].Username)
	s.Equal("mid", users[1].Username)
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}
