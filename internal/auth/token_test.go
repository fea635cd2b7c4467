package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/auth"
)

const secret = "0123456789abcdef-test-secret"

func TestIssueAndVerify(t *testing.T) {
	tokens := auth.NewTokens(secret, time.Hour)

	raw, exp, err := tokens.Issue(auth.Identity{UserID: 42, Role: "teacher"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	id, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.UserID)
	assert.Equal(t, "teacher", id.Role)
}

func TestVerify_Expired(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens := auth.NewTokens(secret, time.Hour).WithClock(func() time.Time { return issuedAt })

	raw, _, err := tokens.Issue(auth.Identity{UserID: 1, Role: "admin"})
	require.NoError(t, err)

	later := tokens.WithClock(func() time.Time { return issuedAt.Add(2 * time.Hour) })
	_, err = later.Verify(raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	raw, _, err := auth.NewTokens(secret, time.Hour).Issue(auth.Identity{UserID: 1})
	require.NoError(t, err)

	_, err = auth.NewTokens("another-secret-of-16+", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	claims := auth.Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "flashdeck",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = auth.NewTokens(secret, time.Hour).Verify(raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := auth.NewTokens(secret, time.Hour).Verify("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := auth.FromContext(context.Background())
	assert.False(t, ok)

	ctx := auth.NewContext(context.Background(), auth.Identity{UserID: 3, Role: "student"})
	id, ok := auth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(3), id.UserID)

	_, ok = auth.FromContext(auth.NewContext(context.Background(), auth.Identity{}))
	assert.False(t, ok, "zero identity is anonymous")
}
