package accounts

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Users() Users
	Admins() Admins
	Principals() PrincipalStore
	RefreshTokens() RefreshTokenStore
	PasswordResets() PasswordResets
	Notifications() Notifications
	Configurations() Configurations
	Companies() Companies
	Newsletter() Newsletter
	Support() Support
}

type mngr struct {
	db             *bun.DB
	users          Users
	admins         Admins
	principals     PrincipalStore
	refreshTokens  RefreshTokenStore
	passwordResets PasswordResets
	notifications  Notifications
	configurations Configurations
	companies      Companies
	newsletter     Newsletter
	support        Support
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	users := NewUsersRepository(db)
	admins := NewAdminsRepository(db)
	principals := NewPrincipalStore(users, admins)
	return &mngr{
		db:             db,
		users:          users,
		admins:         admins,
		principals:     principals,
		refreshTokens:  NewRefreshTokenStore(db, principals),
		passwordResets: NewPasswordResetsRepository(db),
		notifications:  NewNotificationsRepository(db),
		configurations: NewConfigurationsRepository(db),
		companies:      NewCompaniesRepository(db),
		newsletter:     NewNewsletterRepository(db),
		support:        NewSupportRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.admins == nil {
		return errors.New("repository admins should be initialized")
	}

	if m.refreshTokens == nil {
		return errors.New("repository refreshTokens should be initialized")
	}

	if m.passwordResets == nil {
		return errors.New("repository passwordResets should be initialized")
	}

	if m.notifications == nil {
		return errors.New("repository notifications should be initialized")
	}

	if m.configurations == nil {
		return errors.New("repository configurations should be initialized")
	}

	if m.companies == nil {
		return errors.New("repository companies should be initialized")
	}

	if m.newsletter == nil {
		return errors.New("repository newsletter should be initialized")
	}

	if m.support == nil {
		return errors.New("repository support should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Admins() Admins {
	return m.admins
}

func (m mngr) Principals() PrincipalStore {
	return m.principals
}

func (m mngr) RefreshTokens() RefreshTokenStore {
	return m.refreshTokens
}

func (m mngr) PasswordResets() PasswordResets {
	return m.passwordResets
}

func (m mngr) Notifications() Notifications {
	return m.notifications
}

func (m mngr) Configurations() Configurations {
	return m.configurations
}

func (m mngr) Companies() Companies {
	return m.companies
}

func (m mngr) Newsletter() Newsletter {
	return m.newsletter
}

func (m mngr) Support() Support {
	return m.support
}
