package models

import "time"

const (
	DeckStatusDraft    = "draft"
	DeckStatusPending  = "pending"
	DeckStatusApproved = "approved"
	DeckStatusRejected = "rejected"
)

type Deck struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"isPublic"`
	IsPublished bool      `json:"isPublished"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// InLibrary reports whether the deck is listed in the public library:
// public, published and approved by a moderator.
func (d *Deck) InLibrary() bool {
	return d.IsPublic && d.IsPublished && d.Status == DeckStatusApproved
}

// DeckSummary is a deck with its author and aggregate counters, used by
// listings that do not need the cards themselves.
type DeckSummary struct {
	Deck
	Username      string `json:"username"`
	CardsCount    int    `json:"cardsCount"`
	SessionsCount int    `json:"sessionsCount"`
}

// DeckWithCards is a deck together with all of its cards.
type DeckWithCards struct {
	Deck
	Username string `json:"username"`
	Cards    []Card `json:"cards"`
}

// DeckFilter narrows deck listings. Zero values mean "no constraint".
type DeckFilter struct {
	UserID      int64
	Status      string
	LibraryOnly bool
	Query       string
	Limit       int
	Offset      int
}
