package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Support is the help-desk ticket repository.
type Support interface {
	Create(ctx context.Context, userID int64, subject, message string) (*SupportRequest, error)
	ListForUser(ctx context.Context, userID int64) ([]SupportRequest, error)
}

type support struct {
	db *bun.DB
}

var _ Support = (*support)(nil)

// NewSupportRepository returns the bun-backed support repository.
func NewSupportRepository(db *bun.DB) Support {
	return &support{db: db}
}

func (r *support) Create(ctx context.Context, userID int64, subject, message string) (*SupportRequest, error) {
	record := &SupportRequest{
		UserID:    userID,
		Subject:   subject,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if _, err := r.db.NewInsert().Model(record).Returning("*").Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create support request")
	}
	return record, nil
}

func (r *support) ListForUser(ctx context.Context, userID int64) ([]SupportRequest, error) {
	var records []SupportRequest
	err := r.db.NewSelect().Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not list support requests")
	}
	return records, nil
}
