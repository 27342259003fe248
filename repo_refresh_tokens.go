package accounts

import (
	"context"
	"database/sql"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type refreshTokens struct {
	db         *bun.DB
	principals PrincipalStore
}

var _ RefreshTokenStore = (*refreshTokens)(nil)

// NewRefreshTokenStore returns the bun-backed refresh token store. The
// principal store is consulted on Create so orphan rows are never written.
func NewRefreshTokenStore(db *bun.DB, principals PrincipalStore) RefreshTokenStore {
	return &refreshTokens{db: db, principals: principals}
}

func (r *refreshTokens) Create(ctx context.Context, kind PrincipalKind, principalID int64, token string) (*RefreshToken, error) {
	exists, err := r.principals.Exists(ctx, kind, principalID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not check principal existence")
	}
	if !exists {
		return nil, ErrPrincipalNotFound
	}

	record := &RefreshToken{
		PrincipalKind: kind,
		PrincipalID:   principalID,
		Token:         token,
		CreatedAt:     time.Now(),
	}

	// No dedupe: one row per login, multi-device sessions accumulate.
	if _, err := r.db.NewInsert().Model(record).Returning("*").Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not store refresh token")
	}

	return record, nil
}

func (r *refreshTokens) FindByValue(ctx context.Context, kind PrincipalKind, principalID int64, token string) (*RefreshToken, error) {
	record := &RefreshToken{}
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.principal_kind = ?", kind).
		Where("?TableAlias.principal_id = ?", principalID).
		Where("?TableAlias.token = ?", token).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not look up refresh token")
	}
	return record, nil
}

func (r *refreshTokens) DeleteAllForPrincipal(ctx context.Context, kind PrincipalKind, principalID int64) (int64, error) {
	res, err := r.db.NewDelete().Model((*RefreshToken)(nil)).
		Where("principal_kind = ?", kind).
		Where("principal_id = ?", principalID).
		Exec(ctx)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "could not delete refresh tokens")
	}

	// Deleting zero rows is a valid logout.
	return affectedRows(res)
}
