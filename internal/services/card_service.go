package services

import (
	"context"
	"strings"
	"time"

	"github.com/vytor/flashdeck/internal/auth"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type CardInput struct {
	DeckID   int64  `json:"deckId" validate:"required,gt=0"`
	Question string `json:"question" validate:"required,max=2000"`
	Answer   string `json:"answer" validate:"required,max=2000"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url,max=500"`
	Tags     string `json:"tags" validate:"max=200"`
}

func (in *CardInput) trim() {
	in.Question = strings.TrimSpace(in.Question)
	in.Answer = strings.TrimSpace(in.Answer)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.Tags = strings.TrimSpace(in.Tags)
}

// CardService handles card-related business logic
type CardService interface {
	Create(ctx context.Context, actor auth.Identity, in CardInput) (*models.Card, error)
	Get(ctx context.Context, actor auth.Identity, id int64) (*models.Card, error)
	Update(ctx context.Context, actor auth.Identity, id int64, in CardInput) (*models.Card, error)
	Delete(ctx context.Context, actor auth.Identity, id int64) error
}

type cardService struct {
	cards repository.CardRepository
	decks repository.DeckRepository
	now   func() time.Time
}

// NewCardService creates a new CardService
func NewCardService(cards repository.CardRepository, decks repository.DeckRepository) CardService {
	return &cardService{cards: cards, decks: decks, now: time.Now}
}

func (s *cardService) loadCard(ctx context.Context, id int64) (*models.Card, error) {
	card, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, errors.NewStorageError("load card", err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", id)
	}
	return card, nil
}

func (s *cardService) Create(ctx context.Context, actor auth.Identity, in CardInput) (*models.Card, error) {
	log := logger.FromContext(ctx)
	if err := requireAuthor(actor); err != nil {
		return nil, err
	}
	in.trim()
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	deck, err := loadDeck(ctx, s.decks, in.DeckID)
	if err != nil {
		return nil, err
	}
	if deck.UserID != actor.UserID {
		return nil, errors.NewForbiddenError("you cannot add cards to this deck")
	}

	card := models.Card{
		DeckID:    in.DeckID,
		UserID:    actor.UserID,
		Question:  in.Question,
		Answer:    in.Answer,
		ImageURL:  in.ImageURL,
		Tags:      in.Tags,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	id, err := s.cards.Insert(ctx, card)
	if err != nil {
		log.Error("failed to create card: %v", err)
		return nil, errors.NewStorageError("create card", err)
	}
	card.ID = id
	log.Info("card created: id=%d, deck_id=%d", id, in.DeckID)
	return &card, nil
}

func (s *cardService) Get(ctx context.Context, actor auth.Identity, id int64) (*models.Card, error) {
	card, err := s.loadCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := loadViewableDeck(ctx, s.decks, actor, card.DeckID); err != nil {
		return nil, err
	}
	return card, nil
}

// Update edits a card. Moving it to another deck requires modify rights on
// both decks.
func (s *cardService) Update(ctx context.Context, actor auth.Identity, id int64, in CardInput) (*models.Card, error) {
	log := logger.FromContext(ctx)
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	card, err := s.loadCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.DeckID == 0 {
		in.DeckID = card.DeckID
	}
	in.trim()
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if _, err := loadModifiableDeck(ctx, s.decks, actor, card.DeckID); err != nil {
		return nil, err
	}
	if in.DeckID != card.DeckID {
		if _, err := loadModifiableDeck(ctx, s.decks, actor, in.DeckID); err != nil {
			return nil, err
		}
	}

	card.DeckID = in.DeckID
	card.Question = in.Question
	card.Answer = in.Answer
	card.ImageURL = in.ImageURL
	card.Tags = in.Tags
	if err := s.cards.Update(ctx, *card); err != nil {
		log.Error("failed to update card: %v", err)
		return nil, errors.NewStorageError("update card", err)
	}
	return card, nil
}

func (s *cardService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	log := logger.FromContext(ctx)
	if err := requireActor(actor); err != nil {
		return err
	}
	card, err := s.loadCard(ctx, id)
	if err != nil {
		return err
	}
	if _, err := loadModifiableDeck(ctx, s.decks, actor, card.DeckID); err != nil {
		return err
	}
	if err := s.cards.Delete(ctx, id); err != nil {
		log.Error("failed to delete card: %v", err)
		return errors.NewStorageError("delete card", err)
	}
	log.Info("card deleted: id=%d", id)
	return nil
}
