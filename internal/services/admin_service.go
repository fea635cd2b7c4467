package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vytor/flashdeck/internal/auth"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

const (
	activityPerSource = 5
	activityLimit     = 10
)

// RoleChange is the body of a role update.
type RoleChange struct {
	Role string `json:"role" validate:"required,oneof=student teacher admin"`
}

// Rejection is the body of a deck rejection.
type Rejection struct {
	Reason string `json:"reason" validate:"max=500"`
}

// AdminService handles moderation and user management
type AdminService interface {
	Overview(ctx context.Context, actor auth.Identity) (*models.AdminOverview, error)
	ApproveDeck(ctx context.Context, actor auth.Identity, deckID int64) error
	RejectDeck(ctx context.Context, actor auth.Identity, deckID int64, in Rejection) (string, error)
	ChangeRole(ctx context.Context, actor auth.Identity, userID int64, in RoleChange) error
	DeleteUser(ctx context.Context, actor auth.Identity, userID int64) error
	Activity(ctx context.Context, actor auth.Identity) ([]models.Activity, error)
}

type adminService struct {
	users repository.UserRepository
	decks repository.DeckRepository
	stats repository.StatsRepository
	now   func() time.Time
}

// NewAdminService creates a new AdminService
func NewAdminService(users repository.UserRepository, decks repository.DeckRepository, stats repository.StatsRepository) AdminService {
	return &adminService{users: users, decks: decks, stats: stats, now: time.Now}
}

func (s *adminService) Overview(ctx context.Context, actor auth.Identity) (*models.AdminOverview, error) {
	log := logger.FromContext(ctx)
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	pending, err := s.decks.List(ctx, models.DeckFilter{Status: models.DeckStatusPending})
	if err != nil {
		log.Error("failed to list pending decks: %v", err)
		return nil, errors.NewStorageError("load pending decks", err)
	}
	users, err := s.users.ListWithDeckCounts(ctx)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, errors.NewStorageError("load users", err)
	}
	counts, err := s.stats.PlatformCounts(ctx)
	if err != nil {
		log.Error("failed to count platform totals: %v", err)
		return nil, errors.NewStorageError("load platform statistics", err)
	}
	counts.LastUpdated = s.now()

	return &models.AdminOverview{PendingDecks: pending, Users: users, Stats: counts}, nil
}

func (s *adminService) ApproveDeck(ctx context.Context, actor auth.Identity, deckID int64) error {
	log := logger.FromContext(ctx)
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := loadDeck(ctx, s.decks, deckID); err != nil {
		return err
	}
	if err := s.decks.SetModeration(ctx, deckID, models.DeckStatusApproved, true); err != nil {
		log.Error("failed to approve deck: %v", err)
		return errors.NewStorageError("approve deck", err)
	}
	log.Info("deck approved: id=%d, by admin=%d", deckID, actor.UserID)
	return nil
}

// RejectDeck unpublishes a deck and returns the reason that was recorded in
// the log. The reason is not persisted.
func (s *adminService) RejectDeck(ctx context.Context, actor auth.Identity, deckID int64, in Rejection) (string, error) {
	log := logger.FromContext(ctx)
	if err := requireAdmin(actor); err != nil {
		return "", err
	}
	in.Reason = strings.TrimSpace(in.Reason)
	if err := validateStruct(in); err != nil {
		return "", err
	}
	if _, err := loadDeck(ctx, s.decks, deckID); err != nil {
		return "", err
	}
	if err := s.decks.SetModeration(ctx, deckID, models.DeckStatusRejected, false); err != nil {
		log.Error("failed to reject deck: %v", err)
		return "", errors.NewStorageError("reject deck", err)
	}
	log.Info("deck rejected: id=%d, by admin=%d, reason=%q", deckID, actor.UserID, in.Reason)
	return in.Reason, nil
}

func (s *adminService) loadUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, errors.NewStorageError("load user", err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", id)
	}
	return user, nil
}

// ChangeRole applies the root-admin rules: the root account is immutable,
// nobody changes their own role, and only the root admin may touch admins
// or grant the admin role.
func (s *adminService) ChangeRole(ctx context.Context, actor auth.Identity, userID int64, in RoleChange) error {
	log := logger.FromContext(ctx)
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := validateStruct(in); err != nil {
		return err
	}
	if userID == models.RootAdminID {
		return errors.NewForbiddenError("the root administrator's role cannot be changed")
	}
	if userID == actor.UserID {
		return errors.NewForbiddenError("you cannot change your own role")
	}

	target, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if actor.UserID != models.RootAdminID && (target.IsAdmin() || in.Role == models.RoleAdmin) {
		return errors.NewForbiddenError("only the root administrator can manage administrators")
	}
	if target.Role == in.Role {
		return nil
	}

	if err := s.users.UpdateRole(ctx, userID, in.Role); err != nil {
		log.Error("failed to update role: %v", err)
		return errors.NewStorageError("update role", err)
	}
	log.Info("role changed: user_id=%d, %s -> %s, by admin=%d", userID, target.Role, in.Role, actor.UserID)
	return nil
}

// DeleteUser removes a user along with their decks, cards and sessions.
func (s *adminService) DeleteUser(ctx context.Context, actor auth.Identity, userID int64) error {
	log := logger.FromContext(ctx)
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if userID == actor.UserID {
		return errors.NewForbiddenError("you cannot delete your own account")
	}
	if userID == models.RootAdminID {
		return errors.NewForbiddenError("the root administrator cannot be deleted")
	}

	target, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if target.IsAdmin() && actor.UserID != models.RootAdminID {
		return errors.NewForbiddenError("only the root administrator can delete administrators")
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		log.Error("failed to delete user: %v", err)
		return errors.NewStorageError("delete user", err)
	}
	log.Info("user deleted: id=%d, username=%s, by admin=%d", userID, target.Username, actor.UserID)
	return nil
}

// Activity merges the newest sign-ups and decks into one feed. Storage
// failures degrade to a single placeholder entry.
func (s *adminService) Activity(ctx context.Context, actor auth.Identity) ([]models.Activity, error) {
	log := logger.FromContext(ctx)
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	users, err := s.users.Recent(ctx, activityPerSource)
	if err != nil {
		log.Warn("activity feed degraded, users unavailable: %v", err)
		return s.fallbackActivity(), nil
	}
	decks, err := s.decks.List(ctx, models.DeckFilter{Limit: activityPerSource})
	if err != nil {
		log.Warn("activity feed degraded, decks unavailable: %v", err)
		return s.fallbackActivity(), nil
	}

	feed := make([]models.Activity, 0, len(users)+len(decks))
	for _, u := range users {
		feed = append(feed, models.Activity{
			Icon:      "user-plus",
			Message:   fmt.Sprintf("New user registered: %s", u.Username),
			Timestamp: u.CreatedAt,
		})
	}
	for _, d := range decks {
		feed = append(feed, models.Activity{
			Icon:      "layer-group",
			Message:   fmt.Sprintf("New deck created: %s by %s", d.Name, d.Username),
			Timestamp: d.CreatedAt,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Timestamp.After(feed[j].Timestamp)
	})
	if len(feed) > activityLimit {
		feed = feed[:activityLimit]
	}
	if len(feed) == 0 {
		return s.fallbackActivity(), nil
	}
	return feed, nil
}

func (s *adminService) fallbackActivity() []models.Activity {
	return []models.Activity{{
		Icon:      "info-circle",
		Message:   "System running",
		Timestamp: s.now(),
	}}
}
