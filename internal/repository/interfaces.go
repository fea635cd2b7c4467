package repository

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/models"
)

// UserRepository handles user data access
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Insert(ctx context.Context, user models.User) (int64, error)
	UpdateRole(ctx context.Context, id int64, role string) error
	Delete(ctx context.Context, id int64) error
	ListWithDeckCounts(ctx context.Context) ([]models.UserWithDeckCount, error)
	Recent(ctx context.Context, limit int) ([]models.User, error)
}

// DeckRepository handles deck data access
type DeckRepository interface {
	Get(ctx context.Context, id int64) (*models.Deck, error)
	List(ctx context.Context, filter models.DeckFilter) ([]models.DeckSummary, error)
	Insert(ctx context.Context, deck models.Deck) (int64, error)
	Update(ctx context.Context, deck models.Deck) error
	Delete(ctx context.Context, id int64) error
	SetModeration(ctx context.Context, id int64, status string, published bool) error
	// Copy duplicates src and all of its cards for a new owner in one transaction.
	Copy(ctx context.Context, src models.Deck, dst models.Deck) (int64, error)
}

// CardRepository handles card data access
type CardRepository interface {
	Get(ctx context.Context, id int64) (*models.Card, error)
	ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error)
	Insert(ctx context.Context, card models.Card) (int64, error)
	Update(ctx context.Context, card models.Card) error
	Delete(ctx context.Context, id int64) error
}

// SessionRepository handles study session data access
type SessionRepository interface {
	Insert(ctx context.Context, session models.StudySession) (int64, error)
	Get(ctx context.Context, id int64) (*models.StudySession, error)
	UpdateResult(ctx context.Context, session models.StudySession) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.StudySession, error)
}

// StatsRepository handles aggregate queries
type StatsRepository interface {
	// SessionTotals aggregates a user's sessions created in [from, to). Nil
	// bounds are open.
	SessionTotals(ctx context.Context, userID int64, from, to *time.Time) (models.SessionTotals, error)
	UserDeckCounts(ctx context.Context, userID int64) (decks int, cards int, err error)
	PlatformCounts(ctx context.Context) (models.PlatformStats, error)
}
