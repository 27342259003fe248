package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PasswordResets manages single-use reset tokens. Tokens are opaque uuid
// strings, never JWTs, and expire a fixed period after creation.
type PasswordResets interface {
	Create(ctx context.Context, userID int64) (*PasswordResetToken, error)
	GetByToken(ctx context.Context, token string) (*PasswordResetToken, error)
	MarkUsed(ctx context.Context, id int64) error
}

type passwordResets struct {
	db *bun.DB
}

var _ PasswordResets = (*passwordResets)(nil)

// NewPasswordResetRepository returns the bun-backed reset token repository.
func NewPasswordResetsRepository(db *bun.DB) PasswordResets {
	return &passwordResets{db: db}
}

func (r *passwordResets) Create(ctx context.Context, userID int64) (*PasswordResetToken, error) {
	record := &PasswordResetToken{
		UserID:    userID,
		Token:     uuid.NewString(),
		CreatedAt: time.Now(),
	}
	if _, err := r.db.NewInsert().Model(record).Returning("*").Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create password reset token")
	}
	return record, nil
}

func (r *passwordResets) GetByToken(ctx context.Context, token string) (*PasswordResetToken, error) {
	record := new(PasswordResetToken)
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.token = ?", token).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapRecordErr(err, "password reset token not found", map[string]any{
			"token": token,
		})
	}
	return record, nil
}

func (r *passwordResets) MarkUsed(ctx context.Context, id int64) error {
	res, err := r.db.NewUpdate().Model((*PasswordResetToken)(nil)).
		Set("is_used = ?", true).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not mark reset token used")
	}
	return requireAffected(res, "password reset token not found", map[string]any{
		"id": id,
	})
}
