package accounts

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Configurations is the per-principal preferences repository.
type Configurations interface {
	Create(ctx context.Context, kind PrincipalKind, principalID int64) (*Configuration, error)
	GetForPrincipal(ctx context.Context, kind PrincipalKind, principalID int64) (*Configuration, error)
	Edit(ctx context.Context, kind PrincipalKind, principalID int64, patch ConfigurationPatch) (*Configuration, error)
	DeleteForPrincipal(ctx context.Context, kind PrincipalKind, principalID int64) error
}

type configurations struct {
	db *bun.DB
}

var _ Configurations = (*configurations)(nil)

// NewConfigurationsRepository returns the bun-backed configuration repository.
func NewConfigurationsRepository(db *bun.DB) Configurations {
	return &configurations{db: db}
}

// Create inserts the default configuration row for a freshly registered
// principal. A second row for the same principal is a data-consistency
// fault, not user error.
func (r *configurations) Create(ctx context.Context, kind PrincipalKind, principalID int64) (*Configuration, error) {
	exists, err := r.db.NewSelect().Model((*Configuration)(nil)).
		Where("?TableAlias.principal_kind = ?", kind).
		Where("?TableAlias.principal_id = ?", principalID).
		Exists(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not check configuration existence")
	}
	if exists {
		return nil, goerrors.New("configuration already exists for principal", goerrors.CategoryInternal).
			WithMetadata(map[string]any{"kind": kind, "principal_id": principalID})
	}

	record := &Configuration{
		PrincipalKind:     kind,
		PrincipalID:       principalID,
		NotificationEmail: true,
		NotificationInapp: true,
	}
	if _, err := r.db.NewInsert().Model(record).Returning("*").Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create configuration")
	}
	return record, nil
}

func (r *configurations) GetForPrincipal(ctx context.Context, kind PrincipalKind, principalID int64) (*Configuration, error) {
	record := &Configuration{}
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.principal_kind = ?", kind).
		Where("?TableAlias.principal_id = ?", principalID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A principal without a configuration row means registration was
			// left half done; surface as an internal fault.
			return nil, goerrors.New("configuration not found for principal", goerrors.CategoryInternal).
				WithMetadata(map[string]any{"kind": kind, "principal_id": principalID})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not load configuration")
	}
	return record, nil
}

func (r *configurations) Edit(ctx context.Context, kind PrincipalKind, principalID int64, patch ConfigurationPatch) (*Configuration, error) {
	record, err := r.GetForPrincipal(ctx, kind, principalID)
	if err != nil {
		return nil, err
	}

	if err := patch.Apply(record); err != nil {
		return nil, err
	}

	if _, err := r.db.NewUpdate().Model(record).WherePK().Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not update configuration")
	}

	return record, nil
}

func (r *configurations) DeleteForPrincipal(ctx context.Context, kind PrincipalKind, principalID int64) error {
	_, err := r.db.NewDelete().Model((*Configuration)(nil)).
		Where("principal_kind = ?", kind).
		Where("principal_id = ?", principalID).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not delete configuration")
	}
	return nil
}
