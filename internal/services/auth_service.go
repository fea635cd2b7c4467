package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=30"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthService handles account registration and credential checks
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req LoginRequest) (*models.User, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
}

type authService struct {
	users repository.UserRepository
	cost  int
}

// NewAuthService creates a new AuthService. cost is the bcrypt cost;
// values outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewAuthService(users repository.UserRepository, cost int) AuthService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &authService{users: users, cost: cost}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	log := logger.FromContext(ctx)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	log.Debug("registering user: username=%s", req.Username)

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewStorageError("check email", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("a user with this email already exists")
	}
	existing, err = s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.NewStorageError("check username", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("this username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		log.Error("failed to hash password: %v", err)
		return nil, errors.NewInternalError(err)
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	id, err := s.users.Insert(ctx, user)
	if err != nil {
		log.Error("failed to insert user: %v", err)
		return nil, errors.NewStorageError("create user", err)
	}
	user.ID = id
	log.Info("user registered: id=%d, username=%s", id, user.Username)
	return &user, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*models.User, error) {
	log := logger.FromContext(ctx)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewStorageError("load user", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		log.Debug("login rejected for %s", req.Email)
		return nil, invalidCredentials()
	}

	log.Info("user logged in: id=%d", user.ID)
	return user, nil
}

func invalidCredentials() *errors.AppError {
	return &errors.AppError{
		Code:    errors.ErrCodeUnauthenticated,
		Message: "invalid email or password",
		Status:  http.StatusUnauthorized,
	}
}

func (s *authService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, errors.NewStorageError("load user", err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}
	return user, nil
}
