package accounts_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	accounts "github.com/shipnlogic/go-accounts"
)

// testConfig implements accounts.Config
type testConfig struct {
	signingKey    string
	signingMethod string
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	extendedTTL   time.Duration
}

func newTestConfig() *testConfig {
	return &testConfig{
		signingKey:    "test-signing-key",
		signingMethod: "HS256",
		issuer:        "shipnlogic.com",
		accessTTL:     30 * time.Minute,
		refreshTTL:    24 * time.Hour,
		extendedTTL:   720 * time.Hour,
	}
}

func (c *testConfig) GetSigningKey() string             { return c.signingKey }
func (c *testConfig) GetSigningMethod() string          { return c.signingMethod }
func (c *testConfig) GetIssuer() string                 { return c.issuer }
func (c *testConfig) GetAccessTokenTTL() time.Duration  { return c.accessTTL }
func (c *testConfig) GetRefreshTokenTTL() time.Duration { return c.refreshTTL }
func (c *testConfig) GetExtendedRefreshTokenTTL() time.Duration {
	return c.extendedTTL
}

// MockLogger implements accounts.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) { m.Called(format, args) }
func (m *MockLogger) Info(format string, args ...any)  { m.Called(format, args) }
func (m *MockLogger) Warn(format string, args ...any)  { m.Called(format, args) }
func (m *MockLogger) Error(format string, args ...any) { m.Called(format, args) }

// MockPrincipalStore implements accounts.PrincipalStore
type MockPrincipalStore struct {
	mock.Mock
}

func (m *MockPrincipalStore) GetByID(ctx context.Context, kind accounts.PrincipalKind, id int64) (*accounts.Principal, error) {
	args := m.Called(ctx, kind, id)
	if p, ok := args.Get(0).(*accounts.Principal); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPrincipalStore) GetByEmail(ctx context.Context, kind accounts.PrincipalKind, email string) (*accounts.Principal, error) {
	args := m.Called(ctx, kind, email)
	if p, ok := args.Get(0).(*accounts.Principal); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPrincipalStore) Exists(ctx context.Context, kind accounts.PrincipalKind, id int64) (bool, error) {
	args := m.Called(ctx, kind, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPrincipalStore) TrackLogin(ctx context.Context, kind accounts.PrincipalKind, id int64, at time.Time) error {
	args := m.Called(ctx, kind, id, at)
	return args.Error(0)
}

func (m *MockPrincipalStore) SetPasswordHash(ctx context.Context, kind accounts.PrincipalKind, id int64, hash string) error {
	args := m.Called(ctx, kind, id, hash)
	return args.Error(0)
}

// MockRefreshTokenStore implements accounts.RefreshTokenStore
type MockRefreshTokenStore struct {
	mock.Mock
}

func (m *MockRefreshTokenStore) Create(ctx context.Context, kind accounts.PrincipalKind, principalID int64, token string) (*accounts.RefreshToken, error) {
	args := m.Called(ctx, kind, principalID, token)
	if t, ok := args.Get(0).(*accounts.RefreshToken); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRefreshTokenStore) FindByValue(ctx context.Context, kind accounts.PrincipalKind, principalID int64, token string) (*accounts.RefreshToken, error) {
	args := m.Called(ctx, kind, principalID, token)
	if t, ok := args.Get(0).(*accounts.RefreshToken); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRefreshTokenStore) DeleteAllForPrincipal(ctx context.Context, kind accounts.PrincipalKind, principalID int64) (int64, error) {
	args := m.Called(ctx, kind, principalID)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotifier implements accounts.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, kind accounts.PrincipalKind, principalID int64, content string) error {
	args := m.Called(ctx, kind, principalID, content)
	return args.Error(0)
}
