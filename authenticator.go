package accounts

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// TokenPair is the credential pair handed back on login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Authenticator composes the token codec, credential verifier, refresh
// token store, and principal store into the login, refresh, logout, and
// password flows.
type Authenticator struct {
	tokens        *TokenService
	principals    PrincipalStore
	refreshTokens RefreshTokenStore
	notifier      Notifier
	cfg           Config
	logger        Logger
}

// NewAuthenticator returns a new Authenticator.
func NewAuthenticator(cfg Config, principals PrincipalStore, refreshTokens RefreshTokenStore) *Authenticator {
	return &Authenticator{
		tokens:        NewTokenService(cfg, defLogger{}),
		principals:    principals,
		refreshTokens: refreshTokens,
		notifier:      noopNotifier{},
		cfg:           cfg,
		logger:        defLogger{},
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
		a.tokens = a.tokens.WithLogger(logger)
	}
	return a
}

// WithNotifier configures best-effort notification delivery for the
// password-change flow.
func (a *Authenticator) WithNotifier(n Notifier) *Authenticator {
	a.notifier = normalizeNotifier(n)
	return a
}

// TokenService returns the codec used by this Authenticator.
func (a *Authenticator) TokenService() *TokenService {
	return a.tokens
}

// wastedCompareHash is a fixed bcrypt hash the login path compares against
// when the email is unknown, so both failure paths cost one comparison.
var wastedCompareHash = sync.OnceValue(func() string {
	h, err := HashPassword("shipnlogic-timing-pad")
	if err != nil {
		return RandomPasswordHash()
	}
	return h
})

// Login verifies credentials, tracks last_login, and issues an access token
// plus a persisted refresh token. Unknown email and wrong password both
// yield ErrInvalidCredentials with comparable work on each path.
func (a *Authenticator) Login(ctx context.Context, kind PrincipalKind, email, password string, remember bool) (*Principal, *TokenPair, error) {
	principal, err := a.principals.GetByEmail(ctx, kind, email)
	if err != nil {
		if IsNotFound(err) {
			// Burn a comparison so missing accounts are not distinguishable
			// from wrong passwords by response time.
			_ = VerifyPassword(password, wastedCompareHash())
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load principal during login")
	}

	if !VerifyPassword(password, principal.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	if !principal.IsActive {
		return nil, nil, ErrInactivePrincipal
	}

	now := time.Now()
	if err := a.principals.TrackLogin(ctx, kind, principal.ID, now); err != nil {
		return nil, nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to track login")
	}
	principal.LastLogin = &now

	refreshTTL := a.cfg.GetRefreshTokenTTL()
	if remember {
		refreshTTL = a.cfg.GetExtendedRefreshTokenTTL()
	}

	accessToken, err := a.tokens.Encode(TokenTypeAccess, principal.Subject(), a.cfg.GetAccessTokenTTL())
	if err != nil {
		return nil, nil, err
	}

	refreshToken, err := a.tokens.Encode(TokenTypeRefresh, principal.Subject(), refreshTTL)
	if err != nil {
		return nil, nil, err
	}

	if _, err := a.refreshTokens.Create(ctx, kind, principal.ID, refreshToken); err != nil {
		return nil, nil, err
	}

	return principal, &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshAccessToken exchanges a live refresh token for a fresh access
// token. The refresh token must both cryptographically verify and still
// have a stored row; the row check is what makes logout durable against
// replay of an otherwise valid signed token. The refresh token itself is
// not rotated.
func (a *Authenticator) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	subject, err := a.tokens.Decode(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	kind, id, err := ParseSubject(subject)
	if err != nil {
		return "", err
	}

	if _, err := a.refreshTokens.FindByValue(ctx, kind, id, refreshToken); err != nil {
		return "", ErrInvalidToken
	}

	principal, err := a.principals.GetByID(ctx, kind, id)
	if err != nil {
		if IsNotFound(err) {
			return "", ErrPrincipalNotFound
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load principal during token refresh")
	}

	if err := a.principals.TrackLogin(ctx, kind, principal.ID, time.Now()); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to track login")
	}

	return a.tokens.Encode(TokenTypeAccess, principal.Subject(), a.cfg.GetAccessTokenTTL())
}

// Logout revokes every refresh token issued to the principal. Already
// issued access tokens stay cryptographically valid until their own expiry.
func (a *Authenticator) Logout(ctx context.Context, kind PrincipalKind, principalID int64) error {
	deleted, err := a.refreshTokens.DeleteAllForPrincipal(ctx, kind, principalID)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to revoke refresh tokens")
	}

	a.logger.Debug("logout revoked %d refresh tokens for %s-%d", deleted, kind, principalID)
	return nil
}

// ChangePassword replaces the stored hash after verifying the old password.
// The success notification is fire and forget.
func (a *Authenticator) ChangePassword(ctx context.Context, principal *Principal, oldPassword, newPassword string) (*Principal, error) {
	if !VerifyPassword(oldPassword, principal.PasswordHash) {
		return nil, ErrIncorrectPassword
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
	}

	if err := a.principals.SetPasswordHash(ctx, principal.Kind, principal.ID, hash); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist new password hash")
	}
	principal.PasswordHash = hash

	if err := a.notifier.Notify(ctx, principal.Kind, principal.ID, "You have successfully changed your password"); err != nil {
		a.logger.Warn("password change notification failed: %v", err)
	}

	return principal, nil
}

// ConfirmPassword is a pure read-only check; a mismatch is false, never an
// error.
func (a *Authenticator) ConfirmPassword(_ context.Context, principal *Principal, password string) bool {
	return VerifyPassword(password, principal.PasswordHash)
}
