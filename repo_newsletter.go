package accounts

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Newsletter is the newsletter signup repository.
type Newsletter interface {
	Subscribe(ctx context.Context, email string) (*NewsletterSubscriber, error)
	IsSubscribed(ctx context.Context, email string) (bool, error)
}

type newsletter struct {
	db *bun.DB
}

var _ Newsletter = (*newsletter)(nil)

// NewNewsletterRepository returns the bun-backed newsletter repository.
func NewNewsletterRepository(db *bun.DB) Newsletter {
	return &newsletter{db: db}
}

func (r *newsletter) Subscribe(ctx context.Context, email string) (*NewsletterSubscriber, error) {
	subscribed, err := r.IsSubscribed(ctx, email)
	if err != nil {
		return nil, err
	}
	if subscribed {
		return nil, goerrors.New(fmt.Sprintf("email %s already subscribed", email), goerrors.CategoryConflict).
			WithTextCode("ALREADY_SUBSCRIBED")
	}

	record := &NewsletterSubscriber{
		Email:     email,
		CreatedAt: time.Now(),
	}
	if _, err := r.db.NewInsert().Model(record).Returning("*").Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create newsletter subscription")
	}
	return record, nil
}

func (r *newsletter) IsSubscribed(ctx context.Context, email string) (bool, error) {
	exists, err := r.db.NewSelect().Model((*NewsletterSubscriber)(nil)).
		Where("?TableAlias.email = ?", email).
		Exists(ctx)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "could not check newsletter subscription")
	}
	return exists, nil
}
