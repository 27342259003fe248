package accounts

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Users is the user account repository.
type Users interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, record *User) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)
	Edit(ctx context.Context, id int64, patch UserPatch) (*User, error)
	TrackLogin(ctx context.Context, id int64, at time.Time) error
	SetPasswordHash(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository returns the bun-backed Users repository.
func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

func (r *users) GetByID(ctx context.Context, id int64) (*User, error) {
	record := &User{}
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapRecordErr(err, "user not found", map[string]any{"id": id})
	}
	return record, nil
}

func (r *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapRecordErr(err, "user not found", map[string]any{"email": email})
	}
	return record, nil
}

func (r *users) Exists(ctx context.Context, id int64) (bool, error) {
	return r.db.NewSelect().Model((*User)(nil)).
		Where("?TableAlias.id = ?", id).
		Exists(ctx)
}

func (r *users) Create(ctx context.Context, record *User) (*User, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *users) CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	prepareUserDefaults(record)
	if _, err := tx.NewInsert().Model(record).Returning("*").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
	}
	return record, nil
}

func (r *users) Edit(ctx context.Context, id int64, patch UserPatch) (*User, error) {
	record, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := patch.Apply(record); err != nil {
		return nil, err
	}

	if _, err := r.db.NewUpdate().Model(record).WherePK().Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not update user")
	}

	return record, nil
}

func (r *users) TrackLogin(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.NewUpdate().Model((*User)(nil)).
		Set("last_login = ?", at).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not track user login")
	}
	return requireAffected(res, "user not found", map[string]any{"id": id})
}

func (r *users) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.db.NewUpdate().Model((*User)(nil)).
		Set("password_hash = ?", hash).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not update user password")
	}
	return requireAffected(res, "user not found", map[string]any{"id": id})
}

func (r *users) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().Model((*User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not delete user")
	}
	return nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ProfilePictureURL == "" {
		record.ProfilePictureURL = DefaultProfilePicture
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	record.IsActive = true
}

// wrapRecordErr normalizes bun scan errors: a row miss becomes a
// CategoryNotFound error, anything else surfaces as internal.
func wrapRecordErr(err error, msg string, metadata map[string]any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return goerrors.New(msg, goerrors.CategoryNotFound).
			WithCode(goerrors.CodeNotFound).
			WithMetadata(metadata)
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg)
}

func requireAffected(res sql.Result, msg string, metadata map[string]any) error {
	affected, err := affectedRows(res)
	if err != nil {
		return err
	}
	if affected == 0 {
		return goerrors.New(msg, goerrors.CategoryNotFound).
			WithCode(goerrors.CodeNotFound).
			WithMetadata(metadata)
	}
	return nil
}

// affectedRows reads the affected row count, surfacing a driver that
// cannot report it instead of passing the write off as a success.
func affectedRows(res sql.Result) (int64, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "could not read affected row count")
	}
	return affected, nil
}

// isUniqueViolation reports whether an insert failed on a unique
// constraint, for the Postgres driver (SQLSTATE 23505) and the sqlite
// driver the tests run on.
func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint")
}
