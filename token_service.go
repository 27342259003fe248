package accounts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenType discriminates what a signed token may be used for. A token's
// declared type must match the operation context; access and refresh tokens
// are never interchangeable.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

func (t TokenType) valid() bool {
	return t == TokenTypeAccess || t == TokenTypeRefresh
}

// TokenClaims is the claim set carried by every token the codec issues.
type TokenClaims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"type"`
}

// TokenService encodes and decodes signed, time-bound tokens. The signing
// key and algorithm come from Config at construction and never change for
// the life of the process.
type TokenService struct {
	signingKey []byte
	method     jwt.SigningMethod
	issuer     string
	logger     Logger
}

// NewTokenService creates a TokenService from the injected configuration.
// Unknown signing method names fall back to HS256.
func NewTokenService(cfg Config, logger Logger) *TokenService {
	if logger == nil {
		logger = defLogger{}
	}

	method := jwt.GetSigningMethod(cfg.GetSigningMethod())
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		method = jwt.SigningMethodHS256
	}

	return &TokenService{
		signingKey: []byte(cfg.GetSigningKey()),
		method:     method,
		issuer:     cfg.GetIssuer(),
		logger:     logger,
	}
}

// WithLogger overrides the service logger.
func (ts *TokenService) WithLogger(logger Logger) *TokenService {
	if logger != nil {
		ts.logger = logger
	}
	return ts
}

// Encode issues a signed token of the given type for the subject, valid for
// ttl from now. An out-of-enum type is a programmer error and surfaces as an
// internal fault, never as user input.
func (ts *TokenService) Encode(tokenType TokenType, subject string, ttl time.Duration) (string, error) {
	if !tokenType.valid() {
		ts.logger.Error("token encode called with invalid token type: %s", tokenType)
		return "", ErrInvalidTokenType
	}

	now := time.Now()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: tokenType,
	}

	signed, err := jwt.NewWithClaims(ts.method, claims).SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// Decode verifies signature and expiry and checks the embedded type against
// expectedType. Every rejection collapses to ErrInvalidToken so callers
// cannot tell why a token failed. On success it returns the raw subject.
func (ts *TokenService) Decode(raw string, expectedType TokenType) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token decode encountered unexpected signing method: %v", t.Header["alg"])
			return nil, ErrInvalidToken
		}
		return ts.signingKey, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.TokenType != expectedType {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
