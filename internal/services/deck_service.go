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

const (
	searchLimit  = 10
	importSuffix = " (import)"
)

type DeckInput struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
	IsPublic    bool   `json:"isPublic"`
}

// StudySet is a deck prepared for one study run.
type StudySet struct {
	Deck    models.Deck   `json:"deck"`
	Mode    string        `json:"mode"`
	Cards   []models.Card `json:"cards"`
	Message string        `json:"message,omitempty"`
}

// DeckService handles deck-related business logic
type DeckService interface {
	Create(ctx context.Context, actor auth.Identity, in DeckInput) (*models.Deck, error)
	Get(ctx context.Context, actor auth.Identity, id int64) (*models.DeckWithCards, error)
	ListMine(ctx context.Context, actor auth.Identity) ([]models.DeckSummary, error)
	Update(ctx context.Context, actor auth.Identity, id int64, in DeckInput) (*models.Deck, error)
	Delete(ctx context.Context, actor auth.Identity, id int64) error
	StudySet(ctx context.Context, actor auth.Identity, id int64, mode string) (*StudySet, error)
	Library(ctx context.Context) ([]models.DeckSummary, error)
	Search(ctx context.Context, query string) ([]models.DeckSummary, error)
	Import(ctx context.Context, actor auth.Identity, id int64) (*models.Deck, error)
}

type deckService struct {
	decks repository.DeckRepository
	cards repository.CardRepository
	users repository.UserRepository
	now   func() time.Time
}

// NewDeckService creates a new DeckService
func NewDeckService(decks repository.DeckRepository, cards repository.CardRepository, users repository.UserRepository) DeckService {
	return &deckService{decks: decks, cards: cards, users: users, now: time.Now}
}

func (s *deckService) Create(ctx context.Context, actor auth.Identity, in DeckInput) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	if err := requireAuthor(actor); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	deck := models.Deck{
		UserID:      actor.UserID,
		Name:        in.Name,
		Description: in.Description,
		IsPublic:    in.IsPublic,
		Status:      models.DeckStatusDraft,
		CreatedAt:   s.now().UTC().Truncate(time.Second),
	}
	if deck.IsPublic {
		deck.Status = models.DeckStatusPending
	}

	id, err := s.decks.Insert(ctx, deck)
	if err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, errors.NewStorageError("create deck", err)
	}
	deck.ID = id
	log.Info("deck created: id=%d, user_id=%d, status=%s", id, actor.UserID, deck.Status)
	return &deck, nil
}

func (s *deckService) Get(ctx context.Context, actor auth.Identity, id int64) (*models.DeckWithCards, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting deck: id=%d, user_id=%d", id, actor.UserID)

	deck, err := loadViewableDeck(ctx, s.decks, actor, id)
	if err != nil {
		return nil, err
	}
	cards, err := s.cards.ListByDeck(ctx, id)
	if err != nil {
		return nil, errors.NewStorageError("load cards", err)
	}

	out := &models.DeckWithCards{Deck: *deck, Cards: cards}
	owner, err := s.users.Get(ctx, deck.UserID)
	if err != nil {
		log.Warn("failed to load deck owner: %v", err)
	} else if owner != nil {
		out.Username = owner.Username
	}
	return out, nil
}

func (s *deckService) ListMine(ctx context.Context, actor auth.Identity) ([]models.DeckSummary, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	decks, err := s.decks.List(ctx, models.DeckFilter{UserID: actor.UserID})
	if err != nil {
		return nil, errors.NewStorageError("list decks", err)
	}
	return decks, nil
}

func (s *deckService) Update(ctx context.Context, actor auth.Identity, id int64, in DeckInput) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	deck, err := loadModifiableDeck(ctx, s.decks, actor, id)
	if err != nil {
		return nil, err
	}

	deck.Name = in.Name
	deck.Description = in.Description
	deck.IsPublic = in.IsPublic
	if in.IsPublic {
		// Every public edit goes back through moderation.
		deck.Status = models.DeckStatusPending
		deck.IsPublished = false
	}

	if err := s.decks.Update(ctx, *deck); err != nil {
		log.Error("failed to update deck: %v", err)
		return nil, errors.NewStorageError("update deck", err)
	}
	log.Info("deck updated: id=%d, status=%s", id, deck.Status)
	return deck, nil
}

func (s *deckService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	log := logger.FromContext(ctx)
	if err := requireActor(actor); err != nil {
		return err
	}
	if _, err := loadModifiableDeck(ctx, s.decks, actor, id); err != nil {
		return err
	}
	if err := s.decks.Delete(ctx, id); err != nil {
		log.Error("failed to delete deck: %v", err)
		return errors.NewStorageError("delete deck", err)
	}
	log.Info("deck deleted: id=%d, by user_id=%d", id, actor.UserID)
	return nil
}

func (s *deckService) StudySet(ctx context.Context, actor auth.Identity, id int64, mode string) (*StudySet, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if mode == "" {
		mode = models.ModeSwipe
	}
	if !models.ValidMode(mode) {
		return nil, errors.NewValidationError("mode", "must be 'swipe' or 'speed_challenge'")
	}

	deck, err := loadViewableDeck(ctx, s.decks, actor, id)
	if err != nil {
		return nil, err
	}
	cards, err := s.cards.ListByDeck(ctx, id)
	if err != nil {
		return nil, errors.NewStorageError("load cards", err)
	}

	set := &StudySet{Deck: *deck, Mode: mode, Cards: cards}
	if len(cards) == 0 {
		set.Cards = []models.Card{}
		set.Message = "this deck has no cards to study"
	}
	return set, nil
}

func (s *deckService) Library(ctx context.Context) ([]models.DeckSummary, error) {
	decks, err := s.decks.List(ctx, models.DeckFilter{LibraryOnly: true})
	if err != nil {
		return nil, errors.NewStorageError("list library", err)
	}
	return decks, nil
}

func (s *deckService) Search(ctx context.Context, query string) ([]models.DeckSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.DeckSummary{}, nil
	}
	decks, err := s.decks.List(ctx, models.DeckFilter{LibraryOnly: true, Query: query, Limit: searchLimit})
	if err != nil {
		return nil, errors.NewStorageError("search decks", err)
	}
	return decks, nil
}

func (s *deckService) Import(ctx context.Context, actor auth.Identity, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	src, err := loadDeck(ctx, s.decks, id)
	if err != nil {
		return nil, err
	}
	if !src.IsPublic {
		return nil, errors.NewForbiddenError("private decks cannot be imported")
	}
	if src.UserID == actor.UserID {
		return nil, errors.NewBadRequestError("you cannot import your own deck")
	}

	dst := models.Deck{
		UserID:      actor.UserID,
		Name:        src.Name + importSuffix,
		Description: src.Description,
		Status:      models.DeckStatusDraft,
		CreatedAt:   s.now().UTC().Truncate(time.Second),
	}
	newID, err := s.decks.Copy(ctx, *src, dst)
	if err != nil {
		log.Error("failed to import deck: %v", err)
		return nil, errors.NewStorageError("import deck", err)
	}
	dst.ID = newID
	log.Info("deck imported: src=%d, new=%d, user_id=%d", id, newID, actor.UserID)
	return &dst, nil
}
