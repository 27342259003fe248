package accounts

import (
	goerrors "github.com/goliatone/go-errors"
)

// Error taxonomy for the auth core. Every failure surfaced to a caller maps
// to one of these sentinels (or a wrapped variant carrying the same
// category), so the HTTP layer can translate category to status without
// inspecting messages.

// ErrInvalidToken covers every token rejection: malformed header, bad
// signature, expired token, wrong token type, unknown subject, revoked
// refresh token. The message is deliberately generic so callers cannot
// probe why a token failed.
var ErrInvalidToken = goerrors.New("Invalid token", goerrors.CategoryAuth).
	WithTextCode("INVALID_TOKEN").
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidCredentials merges unknown-email and wrong-password so login
// responses cannot be used for account enumeration.
var ErrInvalidCredentials = goerrors.New("Invalid login credentials", goerrors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(goerrors.CodeUnauthorized)

// ErrIncorrectPassword is the change-password old-password mismatch. Unlike
// login the caller is already authenticated, so this is a client error.
var ErrIncorrectPassword = goerrors.New("Incorrect password", goerrors.CategoryBadInput).
	WithTextCode("INCORRECT_PASSWORD")

// ErrPrincipalNotFound flags a principal id that should exist but does not,
// e.g. the account referenced by a validly decoded refresh token vanished.
var ErrPrincipalNotFound = goerrors.New("Principal not found", goerrors.CategoryNotFound).
	WithTextCode("PRINCIPAL_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// ErrInvalidTokenType means calling code passed an out-of-enum token type to
// the codec. Programmer error, logged as a server fault.
var ErrInvalidTokenType = goerrors.New("Internal Server Error: Invalid Token Type", goerrors.CategoryInternal).
	WithTextCode("INVALID_TOKEN_TYPE")

// ErrInactivePrincipal rejects logins for deactivated accounts.
var ErrInactivePrincipal = goerrors.New("Account is inactive", goerrors.CategoryAuth).
	WithTextCode("INACTIVE_PRINCIPAL").
	WithCode(goerrors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryValidation).
	WithTextCode("EMPTY_VALUE")

// ErrMismatchedHashAndPassword is the normalized bcrypt mismatch.
var ErrMismatchedHashAndPassword = goerrors.New("password does not match", goerrors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH").
	WithCode(goerrors.CodeUnauthorized)

// ErrEmptyPatch rejects partial edits that carry no fields.
var ErrEmptyPatch = goerrors.New("No data to update", goerrors.CategoryBadInput).
	WithTextCode("EMPTY_PATCH")

// ErrResetTokenUsed flags an already consumed password reset token.
var ErrResetTokenUsed = goerrors.New("password reset token has already been used", goerrors.CategoryConflict).
	WithTextCode("RESET_TOKEN_USED")

// ErrResetTokenExpired flags a password reset token outside its validity window.
var ErrResetTokenExpired = goerrors.New("password reset token has expired", goerrors.CategoryValidation).
	WithTextCode("RESET_TOKEN_EXPIRED")

// IsNotFound reports whether err is a record/principal miss of any shape.
func IsNotFound(err error) bool {
	return goerrors.IsNotFound(err)
}

// IsUnauthorized reports whether err belongs to the auth category, i.e. maps
// to a 401-class response.
func IsUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich.Category == goerrors.CategoryAuth
	}
	return false
}
