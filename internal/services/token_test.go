package services_test

import (
	"testing"
	"time"

	"taskflow/backend/internal/services"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := services.NewTokenService("test-secret", time.Hour)
	userID := uuid.Must(uuid.NewV4())

	token, err := svc.Issue(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestVerify_ExpiredToken(t *testing.T) {
	svc := services.NewTokenService("test-secret", -time.Minute)
	userID := uuid.Must(uuid.NewV4())

	token, err := svc.Issue(userID)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, services.ErrExpiredToken)
}

func TestVerify_WrongKey(t *testing.T) {
	issuer := services.NewTokenService("key-one", time.Hour)
	verifier := services.NewTokenService("key-two", time.Hour)

	token, err := issuer.Issue(uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	svc := services.NewTokenService("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, services.ErrInvalidToken, "token %q", token)
	}
}

func TestVerify_RejectsUnsignedAlgorithm(t *testing.T) {
	svc := services.NewTokenService("test-secret", time.Hour)

	claims := jwt.MapClaims{
		"user_id": uuid.Must(uuid.NewV4()).String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestVerify_RejectsNonUUIDSubject(t *testing.T) {
	secret := "test-secret"
	claims := jwt.MapClaims{
		"user_id": "42",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	svc := services.NewTokenService(secret, time.Hour)
	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}
