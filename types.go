package accounts

import (
	"context"
	"fmt"
	"time"
)

// Logger is the minimal logging surface the package needs. Hosts plug in
// their own implementation via the With* options.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the auth options read once at process start. Implementations
// must be immutable after construction; the signing secret and algorithm are
// process-wide constants (tokens signed under an old secret become
// unverifiable after a restart with a new one).
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetIssuer() string
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetExtendedRefreshTokenTTL() time.Duration
}

// PrincipalStore is the persistence collaborator the auth core reads and
// updates principals through. Lookups that miss return a not-found error;
// they never fabricate zero-value records.
type PrincipalStore interface {
	GetByID(ctx context.Context, kind PrincipalKind, id int64) (*Principal, error)
	GetByEmail(ctx context.Context, kind PrincipalKind, email string) (*Principal, error)
	Exists(ctx context.Context, kind PrincipalKind, id int64) (bool, error)
	TrackLogin(ctx context.Context, kind PrincipalKind, id int64, at time.Time) error
	SetPasswordHash(ctx context.Context, kind PrincipalKind, id int64, hash string) error
}

// RefreshTokenStore persists issued refresh tokens. A refresh token is
// usable only while its row exists; logout revokes by bulk delete, not by
// invalidating the signed token.
type RefreshTokenStore interface {
	Create(ctx context.Context, kind PrincipalKind, principalID int64, token string) (*RefreshToken, error)
	FindByValue(ctx context.Context, kind PrincipalKind, principalID int64, token string) (*RefreshToken, error)
	DeleteAllForPrincipal(ctx context.Context, kind PrincipalKind, principalID int64) (int64, error)
}

// Notifier delivers in-app notifications. The auth core treats delivery as
// best-effort; failures are logged, never surfaced.
type Notifier interface {
	Notify(ctx context.Context, kind PrincipalKind, principalID int64, content string) error
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, kind PrincipalKind, principalID int64, content string) error

func (f NotifierFunc) Notify(ctx context.Context, kind PrincipalKind, principalID int64, content string) error {
	if f == nil {
		return nil
	}
	return f(ctx, kind, principalID, content)
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, PrincipalKind, int64, string) error { return nil }

func normalizeNotifier(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
