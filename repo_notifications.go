package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// NotificationPage is one page of a principal's notification feed.
type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	Unread        bool           `json:"unread"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	Total         int            `json:"total"`
}

// Notifications is the in-app notification repository.
type Notifications interface {
	Notifier

	ListForPrincipal(ctx context.Context, kind PrincipalKind, principalID int64, page, size int) (*NotificationPage, error)
	MarkAllRead(ctx context.Context, kind PrincipalKind, principalID int64) (int64, error)
}

type notifications struct {
	db *bun.DB
}

var _ Notifications = (*notifications)(nil)

// NewNotificationsRepository returns the bun-backed notification repository.
func NewNotificationsRepository(db *bun.DB) Notifications {
	return &notifications{db: db}
}

func (r *notifications) Notify(ctx context.Context, kind PrincipalKind, principalID int64, content string) error {
	record := &Notification{
		PrincipalKind: kind,
		PrincipalID:   principalID,
		Content:       content,
		CreatedAt:     time.Now(),
	}
	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create notification")
	}
	return nil
}

func (r *notifications) ListForPrincipal(ctx context.Context, kind PrincipalKind, principalID int64, page, size int) (*NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	q := r.db.NewSelect().Model((*Notification)(nil)).
		Where("?TableAlias.principal_kind = ?", kind).
		Where("?TableAlias.principal_id = ?", principalID)

	total, err := q.Count(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not count notifications")
	}

	var records []Notification
	err = r.db.NewSelect().Model(&records).
		Where("?TableAlias.principal_kind = ?", kind).
		Where("?TableAlias.principal_id = ?", principalID).
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not list notifications")
	}

	unread := false
	for _, n := range records {
		if !n.IsRead {
			unread = true
			break
		}
	}

	return &NotificationPage{
		Notifications: records,
		Unread:        unread,
		Page:          page,
		Size:          size,
		Total:         total,
	}, nil
}

func (r *notifications) MarkAllRead(ctx context.Context, kind PrincipalKind, principalID int64) (int64, error) {
	res, err := r.db.NewUpdate().Model((*Notification)(nil)).
		Set("is_read = ?", true).
		Where("principal_kind = ?", kind).
		Where("principal_id = ?", principalID).
		Where("is_read = ?", false).
		Exec(ctx)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "could not mark notifications read")
	}

	return affectedRows(res)
}
