package services

import (
	"context"

	"github.com/vytor/flashdeck/internal/auth"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// CanView reports whether actor may read deck: owners, admins, and anyone
// once the deck is public.
func CanView(actor auth.Identity, deck *models.Deck) bool {
	if deck == nil {
		return false
	}
	return deck.IsPublic || deck.UserID == actor.UserID || actor.IsAdmin()
}

// CanModify reports whether actor may change or delete deck and its cards.
func CanModify(actor auth.Identity, deck *models.Deck) bool {
	if deck == nil || actor.UserID <= 0 {
		return false
	}
	return deck.UserID == actor.UserID || actor.IsAdmin()
}

func requireActor(actor auth.Identity) error {
	if actor.UserID <= 0 {
		return errors.NewUnauthenticatedError()
	}
	return nil
}

// requireAuthor rejects actors who may not author content. Admins moderate
// and do not own decks.
func requireAuthor(actor auth.Identity) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if actor.IsAdmin() {
		return errors.NewForbiddenError("administrators cannot create decks or cards")
	}
	return nil
}

func requireAdmin(actor auth.Identity) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return errors.NewForbiddenError("administrator role required")
	}
	return nil
}

// loadDeck fetches a deck or fails with NOT_FOUND.
func loadDeck(ctx context.Context, decks repository.DeckRepository, id int64) (*models.Deck, error) {
	deck, err := decks.Get(ctx, id)
	if err != nil {
		return nil, errors.NewStorageError("load deck", err)
	}
	if deck == nil {
		return nil, errors.NewNotFoundError("deck", id)
	}
	return deck, nil
}

func loadViewableDeck(ctx context.Context, decks repository.DeckRepository, actor auth.Identity, id int64) (*models.Deck, error) {
	deck, err := loadDeck(ctx, decks, id)
	if err != nil {
		return nil, err
	}
	if !CanView(actor, deck) {
		return nil, errors.NewForbiddenError("access to this deck is denied")
	}
	return deck, nil
}

func loadModifiableDeck(ctx context.Context, decks repository.DeckRepository, actor auth.Identity, id int64) (*models.Deck, error) {
	deck, err := loadDeck(ctx, decks, id)
	if err != nil {
		return nil, err
	}
	if !CanModify(actor, deck) {
		return nil, errors.NewForbiddenError("you cannot modify this deck")
	}
	return deck, nil
}
