package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Admins is the back-office account repository.
type Admins interface {
	GetByID(ctx context.Context, id int64) (*Admin, error)
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, record *Admin) (*Admin, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Admin) (*Admin, error)
	Edit(ctx context.Context, id int64, patch AdminPatch) (*Admin, error)
	TrackLogin(ctx context.Context, id int64, at time.Time) error
	SetPasswordHash(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
}

type admins struct {
	db *bun.DB
}

var _ Admins = (*admins)(nil)

// NewAdminsRepository returns the bun-backed Admins repository.
func NewAdminsRepository(db *bun.DB) Admins {
	return &admins{db: db}
}

func (r *admins) GetByID(ctx context.Context, id int64) (*Admin, error) {
	record := &Admin{}
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapRecordErr(err, "admin not found", map[string]any{"id": id})
	}
	return record, nil
}

func (r *admins) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	record := &Admin{}
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapRecordErr(err, "admin not found", map[string]any{"email": email})
	}
	return record, nil
}

func (r *admins) Exists(ctx context.Context, id int64) (bool, error) {
	return r.db.NewSelect().Model((*Admin)(nil)).
		Where("?TableAlias.id = ?", id).
		Exists(ctx)
}

func (r *admins) Create(ctx context.Context, record *Admin) (*Admin, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *admins) CreateTx(ctx context.Context, tx bun.IDB, record *Admin) (*Admin, error) {
	prepareAdminDefaults(record)
	if _, err := tx.NewInsert().Model(record).Returning("*").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "could not create admin")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create admin")
	}
	return record, nil
}

func (r *admins) Edit(ctx context.Context, id int64, patch AdminPatch) (*Admin, error) {
	record, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := patch.Apply(record); err != nil {
		return nil, err
	}

	if _, err := r.db.NewUpdate().Model(record).WherePK().Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not update admin")
	}

	return record, nil
}

func (r *admins) TrackLogin(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.NewUpdate().Model((*Admin)(nil)).
		Set("last_login = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not track admin login")
	}
	return requireAffected(res, "admin not found", map[string]any{"id": id})
}

func (r *admins) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.db.NewUpdate().Model((*Admin)(nil)).
		Set("password_hash = ?", hash).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not update admin password")
	}
	return requireAffected(res, "admin not found", map[string]any{"id": id})
}

func (r *admins) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().Model((*Admin)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not delete admin")
	}
	return nil
}

func prepareAdminDefaults(record *Admin) {
	if record == nil {
		return
	}

	if record.ProfilePictureURL == "" {
		record.ProfilePictureURL = DefaultProfilePicture
	}

	if record.Permission == "" {
		record.Permission = PermissionAdmin
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	record.IsActive = true
}
