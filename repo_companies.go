package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Companies is the company record repository.
type Companies interface {
	Create(ctx context.Context, userID int64, record *Company) (*Company, error)
	GetForUser(ctx context.Context, userID int64) (*Company, error)
	Edit(ctx context.Context, userID int64, patch CompanyPatch) (*Company, error)
}

type companies struct {
	db *bun.DB
}

var _ Companies = (*companies)(nil)

// NewCompaniesRepository returns the bun-backed company repository.
func NewCompaniesRepository(db *bun.DB) Companies {
	return &companies{db: db}
}

func (r *companies) Create(ctx context.Context, userID int64, record *Company) (*Company, error) {
	if err := r.checkConflicts(ctx, 0, record.Email, record.TaxIdentificationNumber, record.RegistrationNumber, record.Phone); err != nil {
		return nil, err
	}

	record.UserID = userID
	if _, err := r.db.NewInsert().Model(record).Returning("*").Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create company")
	}
	return record, nil
}

func (r *companies) GetForUser(ctx context.Context, userID int64) (*Company, error) {
	record := &Company{}
	err := r.db.NewSelect().Model(record).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, wrapRecordErr(err, "company not found", map[string]any{"user_id": userID})
	}
	return record, nil
}

func (r *companies) Edit(ctx context.Context, userID int64, patch CompanyPatch) (*Company, error) {
	record, err := r.GetForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := r.checkConflicts(ctx, record.ID,
		strDeref(patch.Email),
		strDeref(patch.TaxIdentificationNumber),
		strDeref(patch.RegistrationNumber),
		strDeref(patch.Phone),
	); err != nil {
		return nil, err
	}

	if err := patch.Apply(record); err != nil {
		return nil, err
	}

	if _, err := r.db.NewUpdate().Model(record).WherePK().Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not update company")
	}

	return record, nil
}

// checkConflicts looks for another company already using any of the
// identifying fields and reports every clashing field in one message.
func (r *companies) checkConflicts(ctx context.Context, excludeID int64, email, taxID, regNumber, phone string) error {
	if email == "" && taxID == "" && regNumber == "" && phone == "" {
		return nil
	}

	existing := &Company{}
	q := r.db.NewSelect().Model(existing).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereOr("?TableAlias.email = ?", email).
				WhereOr("?TableAlias.tax_identification_number = ?", taxID).
				WhereOr("?TableAlias.registration_number = ?", regNumber).
				WhereOr("?TableAlias.phone = ?", phone)
		})

	if excludeID != 0 {
		q = q.Where("?TableAlias.id != ?", excludeID)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not check company conflicts")
	}

	var conflicting []string
	if email != "" && existing.Email == email {
		conflicting = append(conflicting, "email")
	}
	if taxID != "" && existing.TaxIdentificationNumber == taxID {
		conflicting = append(conflicting, "tax identification number")
	}
	if regNumber != "" && existing.RegistrationNumber == regNumber {
		conflicting = append(conflicting, "registration number")
	}
	if phone != "" && existing.Phone == phone {
		conflicting = append(conflicting, "phone")
	}

	if len(conflicting) == 0 {
		return nil
	}

	return goerrors.New(conflictMessage(conflicting), goerrors.CategoryConflict).
		WithTextCode("COMPANY_FIELDS_IN_USE")
}

func conflictMessage(fields []string) string {
	if len(fields) == 1 {
		return fmt.Sprintf("The %s is already in use.", fields[0])
	}
	joined := strings.Join(fields[:len(fields)-1], ", ") + " and " + fields[len(fields)-1]
	return fmt.Sprintf("The following fields are already in use: %s.", joined)
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
