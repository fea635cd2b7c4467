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

type DeckRepositorySuite struct {
	suite.Suite
	db      *sql.DB
	repo    repository.DeckRepository
	cards   repository.CardRepository
	ownerID int64
}

func (s *DeckRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewDeckRepository(s.db)
	s.cards = sqlite.NewCardRepository(s.db)
	s.ownerID = testutil.InsertUser(s.T(), s.db, "teacher", models.RoleTeacher)
}

func (s *DeckRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *DeckRepositorySuite) TestInsertGetUpdateDelete() {
	ctx := context.Background()

	id, err := s.repo.Insert(ctx, models.Deck{
		UserID:      s.ownerID,
		Name:        "Biology",
		Description: "cells",
		Status:      models.DeckStatusDraft,
		CreatedAt:   time.Now(),
	})
	s.Require().NoError(err)

	d, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(d)
	s.Equal("Biology", d.Name)
	s.False(d.IsPublic)
	s.Equal(models.DeckStatusDraft, d.Status)

	d.Name = "Biology II"
	d.IsPublic = true
	d.Status = models.DeckStatusPending
	s.Require().NoError(s.repo.Update(ctx, *d))

	d, err = s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal("Biology II", d.Name)
	s.True(d.IsPublic)
	s.Equal(models.DeckStatusPending, d.Status)

	s.Require().NoError(s.repo.Delete(ctx, id))
	d, err = s.repo.Get(ctx, id)
	s.NoError(err)
	s.Nil(d)
	s.ErrorIs(s.repo.Delete(ctx, id), sql.ErrNoRows)
}

func (s *DeckRepositorySuite) TestDeleteCascadesCards() {
	ctx := context.Background()
	deckID := testutil.InsertDeck(s.T(), s.db, s.ownerID, "d", false, models.DeckStatusDraft)
	testutil.InsertCard(s.T(), s.db, deckID, s.ownerID, "q")

	s.Require().NoError(s.repo.Delete(ctx, deckID))

	cards, err := s.cards.ListByDeck(ctx, deckID)
	s.Require().NoError(err)
	s.Empty(cards)
}

func (s *DeckRepositorySuite) TestListLibraryOnly() {
	ctx := context.Background()
	approved := testutil.InsertDeck(s.T(), s.db, s.ownerID, "approved", true, models.DeckStatusApproved)
	testutil.InsertDeck(s.T(), s.db, s.ownerID, "pending", true, models.DeckStatusPending)
	testutil.InsertDeck(s.T(), s.db, s.ownerID, "private", false, models.DeckStatusDraft)
	testutil.InsertCard(s.T(), s.db, approved, s.ownerID, "q1")
	_, err := s.db.Exec(`INSERT INTO study_sessions (user_id, deck_id) VALUES (?, ?)`, s.ownerID, approved)
	s.Require().NoError(err)

	decks, err := s.repo.List(ctx, models.DeckFilter{LibraryOnly: true})
	s.Require().NoError(err)
	s.Require().Len(decks, 1)
	s.Equal("approved", decks[0].Name)
	s.Equal("teacher", decks[0].Username)
	s.Equal(1, decks[0].CardsCount)
	s.Equal(1, decks[0].SessionsCount)
}

func (s *DeckRepositorySuite) TestListByOwnerAndStatus() {
	ctx := context.Background()
	other := testutil.InsertUser(s.T(), s.db, "other", models.RoleStudent)
	testutil.InsertDeck(s.T(), s.db, s.ownerID, "mine", true, models.DeckStatusPending)
	testutil.InsertDeck(s.T(), s.db, other, "theirs", true, models.DeckStatusPending)

	mine, err := s.repo.List(ctx, models.DeckFilter{UserID: s.ownerID})
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal("mine", mine[0].Name)

	pending, err := s.repo.List(ctx, models.DeckFilter{Status: models.DeckStatusPending})
	s.Require().NoError(err)
	s.Len(pending, 2)
}

func (s *DeckRepositorySuite) TestListSearch() {
	ctx := context.Background()
	testutil.InsertDeck(s.T(), s.db, s.ownerID, "Photosynthesis basics", true, models.DeckStatusApproved)
	testutil.InsertDeck(s.T(), s.db, s.ownerID, "Algebra", true, models.DeckStatusApproved)
	testutil.InsertDeck(s.T(), s.db, s.ownerID, "photo private", false, models.DeckStatusDraft)

	found, err := s.repo.List(ctx, models.DeckFilter{LibraryOnly: true, Query: "photo", Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("Photosynthesis basics", found[0].Name)
}

func (s *DeckRepositorySuite) TestSetModeration() {
	ctx := context.Background()
	id := testutil.InsertDeck(s.T(), s.db, s.ownerID, "d", true, models.DeckStatusPending)

	s.Require().NoError(s.repo.SetModeration(ctx, id, models.DeckStatusApproved, true))
	d, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.True(d.InLibrary())

	s.ErrorIs(s.repo.SetModeration(ctx, 999, models.DeckStatusApproved, true), sql.ErrNoRows)
}

func (s *DeckRepositorySuite) TestCopyDuplicatesCards() {
	ctx := context.Background()
	srcID := testutil.InsertDeck(s.T(), s.db, s.ownerID, "Source", true, models.DeckStatusApproved)
	testutil.InsertCard(s.T(), s.db, srcID, s.ownerID, "q1")
	testutil.InsertCard(s.T(), s.db, srcID, s.ownerID, "q2")
	importer := testutil.InsertUser(s.T(), s.db, "student", models.RoleStudent)

	src, err := s.repo.Get(ctx, srcID)
	s.Require().NoError(err)

	newID, err := s.repo.Copy(ctx, *src, models.Deck{
		UserID: importer,
		Name:   "Source (import)",
		Status: models.DeckStatusDraft,
	})
	s.Require().NoError(err)
	s.NotEqual(srcID, newID)

	copied, err := s.cards.ListByDeck(ctx, newID)
	s.Require().NoError(err)
	s.Require().Len(copied, 2)
	s.Equal("q1", copied[0].Question)
	s.Equal(importer, copied[0].UserID)

	original, err := s.cards.ListByDeck(ctx, srcID)
	s.Require().NoError(err)
	s.Len(original, 2)
}

func TestDeckRepositorySuite(t *testing.T) {
	suite.Run(t, new(DeckRepositorySuite))
}
