package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
	"golang.org/x/crypto/bcrypt"
)

func validRegistration() services.RegisterRequest {
	return services.RegisterRequest{
		Username:        "alice",
		Email:           "Alice@Example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegister_CreatesStudent(t *testing.T) {
	users := new(mocks.MockUserRepository)
	svc := services.NewAuthService(users, bcrypt.MinCost)
	ctx := context.Background()

	users.On("GetByEmail", ctx, "alice@example.com").Return(nil, nil)
	users.On("GetByUsername", ctx, "alice").Return(nil, nil)
	users.On("Insert", ctx, mock.MatchedBy(func(u models.User) bool {
		return u.Role == models.RoleStudent && u.Email == "alice@example.com" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
	})).Return(int64(4), nil)

	user, err := svc.Register(ctx, validRegistration())

	require.NoError(t, err)
	assert.Equal(t, int64(4), user.ID)
	users.AssertExpectations(t)
}

func TestRegister_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("password mismatch", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		req := validRegistration()
		req.ConfirmPassword = "other"
		_, err := services.NewAuthService(users, bcrypt.MinCost).Register(ctx, req)
		assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
	})

	t.Run("short password", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		req := validRegistration()
		req.Password, req.ConfirmPassword = "abc", "abc"
		_, err := services.NewAuthService(users, bcrypt.MinCost).Register(ctx, req)
		assert.True(t, errors.HasCode(err, errors.ErrCodeValidation))
	})

	t.Run("email taken", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		users.On("GetByEmail", ctx, "alice@example.com").Return(&models.User{ID: 2}, nil)
		_, err := services.NewAuthService(users, bcrypt.MinCost).Register(ctx, validRegistration())
		assert.True(t, errors.HasCode(err, errors.ErrCodeConflict))
		users.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("username taken", func(t *testing.T) {
		users := new(mocks.MockUserRepository)
		users.On("GetByEmail", ctx, "alice@example.com").Return(nil, nil)
		users.On("GetByUsername", ctx, "alice").Return(&models.User{ID: 2}, nil)
		_, err := services.NewAuthService(users, bcrypt.MinCost).Register(ctx, validRegistration())
		assert.True(t, errors.HasCode(err, errors.ErrCodeConflict))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(mocks.MockUserRepository)
	users.On("GetByEmail", ctx, "alice@example.com").Return(&models.User{ID: 4, PasswordHash: string(hash)}, nil)
	users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, nil)
	svc := services.NewAuthService(users, bcrypt.MinCost)

	user, err := svc.Login(ctx, services.LoginRequest{Email: " ALICE@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), user.ID)

	_, wrongPassword := svc.Login(ctx, services.LoginRequest{Email: "alice@example.com", Password: "nope"})
	_, unknownEmail := svc.Login(ctx, services.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	for _, err := range []error{wrongPassword, unknownEmail} {
		appErr, ok := errors.As(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeUnauthenticated, appErr.Code)
		assert.Equal(t, "invalid email or password", appErr.Message)
	}
}
