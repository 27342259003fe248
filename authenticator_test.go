package accounts_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accounts "github.com/shipnlogic/go-accounts"
)

func TestAuthenticator_Login(t *testing.T) {
	cfg := newTestConfig()

	hash, err := accounts.HashPassword("correct-password")
	require.NoError(t, err)

	principal := func() *accounts.Principal {
		return &accounts.Principal{
			Kind:         accounts.KindUser,
			ID:           42,
			Email:        "pepe@example.com",
			PasswordHash: hash,
			IsActive:     true,
		}
	}

	t.Run("issues both tokens and persists the refresh token", func(t *testing.T) {
		principals := &MockPrincipalStore{}
		principals.On("GetByEmail", mock.Anything, accounts.KindUser, "pepe@example.com").
			Return(principal(), nil)
		principals.On("TrackLogin", mock.Anything, accounts.KindUser, int64(42), mock.Anything).
			Return(nil)

		refreshTokens := &MockRefreshTokenStore{}
		refreshTokens.On("Create", mock.Anything, accounts.KindUser, int64(42), mock.Anything).
			Return(&accounts.RefreshToken{}, nil)

		auther := accounts.NewAuthenticator(cfg, principals, refreshTokens)
		got, pair, err := auther.Login(context.Background(), accounts.KindUser, "pepe@example.com", "correct-password", false)

		require.NoError(t, err)
		require.NotNil(t, pair)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.NotNil(t, got.LastLogin)

		// the stored refresh token is the one handed back
		refreshTokens.AssertCalled(t, "Create", mock.Anything, accounts.KindUser, int64(42), pair.RefreshToken)

		subject, err := auther.TokenService().Decode(pair.AccessToken, accounts.TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, "USER-42", subject)

		principals.AssertExpectations(t)
		refreshTokens.AssertExpectations(t)
	})

	t.Run("unknown email and wrong password yield the same error", func(t *testing.T) {
		principals := &MockPrincipalStore{}
		principals.On("GetByEmail", mock.Anything, accounts.KindUser, "ghost@example.com").
			Return(nil, accounts.ErrPrincipalNotFound)
		principals.On("GetByEmail", mock.Anything, accounts.KindUser, "pepe@example.com").
			Return(principal(), nil)

		auther := accounts.NewAuthenticator(cfg, principals, &MockRefreshTokenStore{})

		_, _, unknownErr := auther.Login(context.Background(), accounts.KindUser, "ghost@example.com", "whatever", false)
		_, _, wrongErr := auther.Login(context.Background(), accounts.KindUser, "pepe@example.com", "wrong-password", false)

		assert.ErrorIs(t, unknownErr, accounts.ErrInvalidCredentials)
		assert.ErrorIs(t, wrongErr, accounts.ErrInvalidCredentials)
	})

	t.Run("rejects inactive accounts", func(t *testing.T) {
		inactive := principal()
		inactive.IsActive = false

		principals := &MockPrincipalStore{}
		principals.On("GetByEmail", mock.Anything, accounts.KindUser, "pepe@example.com").
			Return(inactive, nil)

		auther := accounts.NewAuthenticator(cfg, principals, &MockRefreshTokenStore{})
		_, _, err := auther.Login(context.Background(), accounts.KindUser, "pepe@example.com", "correct-password", false)

		assert.ErrorIs(t, err, accounts.ErrInactivePrincipal)
	})

	t.Run("remember extends the refresh token lifetime", func(t *testing.T) {
		principals := &MockPrincipalStore{}
		principals.On("GetByEmail", mock.Anything, accounts.KindUser, "pepe@example.com").
			Return(principal(), nil)
		principals.On("TrackLogin", mock.Anything, accounts.KindUser, int64(42), mock.Anything).
			Return(nil)

		refreshTokens := &MockRefreshTokenStore{}
		refreshTokens.On("Create", mock.Anything, accounts.KindUser, int64(42), mock.Anything).
			Return(&accounts.RefreshToken{}, nil)

		auther := accounts.NewAuthenticator(cfg, principals, refreshTokens)
		_, pair, err := auther.Login(context.Background(), accounts.KindUser, "pepe@example.com", "correct-password", true)
		require.NoError(t, err)

		expiry := refreshTokenExpiry(t, cfg, pair.RefreshToken)
		assert.WithinDuration(t, time.Now().Add(cfg.extendedTTL), expiry, time.Minute)
	})
}

func TestAuthenticator_RefreshAccessToken(t *testing.T) {
	cfg := newTestConfig()

	t.Run("mints a new access token without rotating the refresh token", func(t *testing.T) {
		principals := &MockPrincipalStore{}
		principals.On("GetByID", mock.Anything, accounts.KindUser, int64(42)).
			Return(&accounts.Principal{Kind: accounts.KindUser, ID: 42, IsActive: true}, nil)
		principals.On("TrackLogin", mock.Anything, accounts.KindUser, int64(42), mock.Anything).
			Return(nil)

		auther := accounts.NewAuthenticator(cfg, principals, stubRefreshStore(t))
		refresh, err := auther.TokenService().Encode(accounts.TokenTypeRefresh, "USER-42", time.Hour)
		require.NoError(t, err)

		access, err := auther.RefreshAccessToken(context.Background(), refresh)
		require.NoError(t, err)

		subject, err := auther.TokenService().Decode(access, accounts.TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, "USER-42", subject)

		// the same refresh token keeps working afterwards
		again, err := auther.RefreshAccessToken(context.Background(), refresh)
		require.NoError(t, err)
		assert.NotEmpty(t, again)
	})

	t.Run("rejects a revoked refresh token", func(t *testing.T) {
		refreshTokens := &MockRefreshTokenStore{}
		refreshTokens.On("FindByValue", mock.Anything, accounts.KindUser, int64(42), mock.Anything).
			Return(nil, accounts.ErrInvalidToken)

		auther := accounts.NewAuthenticator(cfg, &MockPrincipalStore{}, refreshTokens)
		refresh, err := auther.TokenService().Encode(accounts.TokenTypeRefresh, "USER-42", time.Hour)
		require.NoError(t, err)

		_, err = auther.RefreshAccessToken(context.Background(), refresh)
		assert.ErrorIs(t, err, accounts.ErrInvalidToken)
	})

	t.Run("rejects an access token on the refresh path", func(t *testing.T) {
		auther := accounts.NewAuthenticator(cfg, &MockPrincipalStore{}, &MockRefreshTokenStore{})
		access, err := auther.TokenService().Encode(accounts.TokenTypeAccess, "USER-42", time.Hour)
		require.NoError(t, err)

		_, err = auther.RefreshAccessToken(context.Background(), access)
		assert.ErrorIs(t, err, accounts.ErrInvalidToken)
	})

	t.Run("vanished principal surfaces as not found", func(t *testing.T) {
		principals := &MockPrincipalStore{}
		principals.On("GetByID", mock.Anything, accounts.KindUser, int64(42)).
			Return(nil, accounts.ErrPrincipalNotFound)

		auther := accounts.NewAuthenticator(cfg, principals, stubRefreshStore(t))
		refresh, err := auther.TokenService().Encode(accounts.TokenTypeRefresh, "USER-42", time.Hour)
		require.NoError(t, err)

		_, err = auther.RefreshAccessToken(context.Background(), refresh)
		assert.ErrorIs(t, err, accounts.ErrPrincipalNotFound)
	})
}

// TestAuthenticator_SessionLifecycle runs login, refresh, and logout
// against the real stores instead of mocks.
func TestAuthenticator_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	cfg := newTestConfig()

	hash, err := accounts.HashPassword("correct-password")
	require.NoError(t, err)

	repo := accounts.NewRepositoryManager(db)
	user, err := repo.Users().Create(ctx, &accounts.User{
		FullName:     "Pepe Rone",
		Email:        "pepe@example.com",
		PasswordHash: hash,
	})
	require.NoError(t, err)

	auther := accounts.NewAuthenticator(cfg, repo.Principals(), repo.RefreshTokens())

	_, pair, err := auther.Login(ctx, accounts.KindUser, "pepe@example.com", "correct-password", false)
	require.NoError(t, err)

	// the refresh token can be exchanged repeatedly, nothing rotates
	for i := 0; i < 2; i++ {
		access, err := auther.RefreshAccessToken(ctx, pair.RefreshToken)
		require.NoError(t, err)

		subject, err := auther.TokenService().Decode(access, accounts.TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, accounts.FormatSubject(accounts.KindUser, user.ID), subject)
	}

	require.NoError(t, auther.Logout(ctx, accounts.KindUser, user.ID))

	// still a validly signed token, but its row is gone
	_, err = auther.RefreshAccessToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, accounts.ErrInvalidToken)
}

func TestAuthenticator_Logout(t *testing.T) {
	refreshTokens := &MockRefreshTokenStore{}
	refreshTokens.On("DeleteAllForPrincipal", mock.Anything, accounts.KindUser, int64(42)).
		Return(int64(3), nil)

	auther := accounts.NewAuthenticator(newTestConfig(), &MockPrincipalStore{}, refreshTokens)
	err := auther.Logout(context.Background(), accounts.KindUser, 42)

	require.NoError(t, err)
	refreshTokens.AssertExpectations(t)
}

func TestAuthenticator_ChangePassword(t *testing.T) {
	cfg := newTestConfig()

	hash, err := accounts.HashPassword("old-password")
	require.NoError(t, err)

	t.Run("replaces the hash and notifies", func(t *testing.T) {
		principals := &MockPrincipalStore{}
		principals.On("SetPasswordHash", mock.Anything, accounts.KindUser, int64(42), mock.Anything).
			Return(nil)

		notifier := &MockNotifier{}
		notifier.On("Notify", mock.Anything, accounts.KindUser, int64(42), "You have successfully changed your password").
			Return(nil)

		auther := accounts.NewAuthenticator(cfg, principals, &MockRefreshTokenStore{}).
			WithNotifier(notifier)

		principal := &accounts.Principal{Kind: accounts.KindUser, ID: 42, PasswordHash: hash}
		updated, err := auther.ChangePassword(context.Background(), principal, "old-password", "new-password")

		require.NoError(t, err)
		assert.True(t, accounts.VerifyPassword("new-password", updated.PasswordHash))
		principals.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("wrong old password", func(t *testing.T) {
		auther := accounts.NewAuthenticator(cfg, &MockPrincipalStore{}, &MockRefreshTokenStore{})
		principal := &accounts.Principal{Kind: accounts.KindUser, ID: 42, PasswordHash: hash}

		_, err := auther.ChangePassword(context.Background(), principal, "not-the-old-password", "new-password")
		assert.ErrorIs(t, err, accounts.ErrIncorrectPassword)
	})
}

func TestAuthenticator_ConfirmPassword(t *testing.T) {
	hash, err := accounts.HashPassword("the-password")
	require.NoError(t, err)

	auther := accounts.NewAuthenticator(newTestConfig(), &MockPrincipalStore{}, &MockRefreshTokenStore{})
	principal := &accounts.Principal{Kind: accounts.KindUser, ID: 42, PasswordHash: hash}

	assert.True(t, auther.ConfirmPassword(context.Background(), principal, "the-password"))
	assert.False(t, auther.ConfirmPassword(context.Background(), principal, "nope"))
}

// stubRefreshStore accepts any FindByValue lookup, as if the row exists.
func stubRefreshStore(t *testing.T) *MockRefreshTokenStore {
	t.Helper()
	store := &MockRefreshTokenStore{}
	store.On("FindByValue", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&accounts.RefreshToken{}, nil)
	return store
}

// refreshTokenExpiry decodes the refresh token and reports its expiry time.
func refreshTokenExpiry(t *testing.T, cfg *testConfig, raw string) time.Time {
	t.Helper()

	claims := &accounts.TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.signingKey), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	require.NotNil(t, claims.ExpiresAt)
	return claims.ExpiresAt.Time
}
