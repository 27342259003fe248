package accounts

import (
	"context"
	"strings"
)

// AuthScheme is the only scheme the resolver accepts.
const AuthScheme = "Bearer"

// Resolver turns an Authorization header into a stored principal. It is the
// dependency injected into every protected endpoint; each call re-verifies
// the signature and re-queries persistence (a primary key lookup), with no
// caching in between.
type Resolver struct {
	tokens     *TokenService
	principals PrincipalStore
	logger     Logger
}

// NewResolver wires a Resolver from the token codec and principal store.
func NewResolver(tokens *TokenService, principals PrincipalStore) *Resolver {
	return &Resolver{
		tokens:     tokens,
		principals: principals,
		logger:     defLogger{},
	}
}

// WithLogger overrides the resolver logger.
func (r *Resolver) WithLogger(logger Logger) *Resolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Resolve validates "Bearer <token>" and loads the principal the token
// names. Every failure, including an unknown principal id, surfaces as
// ErrInvalidToken so responses never reveal which ids exist.
func (r *Resolver) Resolve(ctx context.Context, authorization string) (*Principal, error) {
	scheme, value, found := strings.Cut(authorization, " ")
	if !found || scheme == "" || value == "" || strings.Contains(value, " ") {
		return nil, ErrInvalidToken
	}

	if scheme != AuthScheme {
		return nil, ErrInvalidToken
	}

	subject, err := r.tokens.Decode(value, TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	kind, id, err := ParseSubject(subject)
	if err != nil {
		return nil, err
	}

	principal, err := r.principals.GetByID(ctx, kind, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		r.logger.Error("resolver principal lookup failed: %v", err)
		return nil, err
	}

	return principal, nil
}
