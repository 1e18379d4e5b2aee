package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenManager() TokenManager {
	return NewTokenManager(Config{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "incident-reporting",
	})
}

func TestGenerateTokenPair_AccessValidates(t *testing.T) {
	manager := newTestTokenManager()
	userID := uuid.New()

	pair, err := manager.GenerateTokenPair(userID, "citizen", "citizen")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := manager.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "citizen", claims.Username)
	assert.Equal(t, "citizen", claims.Role)
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	manager := newTestTokenManager()

	pair, err := manager.GenerateTokenPair(uuid.New(), "citizen", "citizen")
	require.NoError(t, err)

	// Токены подписаны разными секретами, подмена не проходит
	_, err = manager.ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err)
}

func TestValidateRefreshToken_RejectsAccessToken(t *testing.T) {
	manager := newTestTokenManager()

	pair, err := manager.GenerateTokenPair(uuid.New(), "citizen", "citizen")
	require.NoError(t, err)

	_, err = manager.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	manager := newTestTokenManager()

	_, err := manager.ValidateAccessToken("not-a-jwt")
	assert.Error(t, err)
}

func TestValidateAccessToken_WrongIssuer(t *testing.T) {
	other := NewTokenManager(Config{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "another-service",
	})
	manager := newTestTokenManager()

	pair, err := other.GenerateTokenPair(uuid.New(), "citizen", "citizen")
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(pair.AccessToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrongTokenIssuer)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	expired := NewTokenManager(Config{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  -time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "incident-reporting",
	})

	pair, err := expired.GenerateTokenPair(uuid.New(), "citizen", "citizen")
	require.NoError(t, err)

	_, err = expired.ValidateAccessToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestRefreshTokens_IssuesNewPair(t *testing.T) {
	manager := newTestTokenManager()
	userID := uuid.New()

	pair, err := manager.GenerateTokenPair(userID, "citizen", "citizen")
	require.NoError(t, err)

	newPair, err := manager.RefreshTokens(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(newPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestRefreshTokens_RejectsAccessToken(t *testing.T) {
	manager := newTestTokenManager()

	pair, err := manager.GenerateTokenPair(uuid.New(), "citizen", "citizen")
	require.NoError(t, err)

	_, err = manager.RefreshTokens(pair.AccessToken)
	assert.Error(t, err)
}
