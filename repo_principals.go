package accounts

import (
	"context"
	"time"
)

// principalStore adapts the kind-specific Users and Admins repositories to
// the kind-agnostic PrincipalStore the auth core consumes.
type principalStore struct {
	users  Users
	admins Admins
}

var _ PrincipalStore = (*principalStore)(nil)

// NewPrincipalStore dispatches principal operations to the table the kind
// names.
func NewPrincipalStore(users Users, admins Admins) PrincipalStore {
	return &principalStore{users: users, admins: admins}
}

func (s *principalStore) GetByID(ctx context.Context, kind PrincipalKind, id int64) (*Principal, error) {
	switch kind {
	case KindAdmin:
		admin, err := s.admins.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return admin.Principal(), nil
	default:
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return user.Principal(), nil
	}
}

func (s *principalStore) GetByEmail(ctx context.Context, kind PrincipalKind, email string) (*Principal, error) {
	switch kind {
	case KindAdmin:
		admin, err := s.admins.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return admin.Principal(), nil
	default:
		user, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return user.Principal(), nil
	}
}

func (s *principalStore) Exists(ctx context.Context, kind PrincipalKind, id int64) (bool, error) {
	if kind == KindAdmin {
		return s.admins.Exists(ctx, id)
	}
	return s.users.Exists(ctx, id)
}

func (s *principalStore) TrackLogin(ctx context.Context, kind PrincipalKind, id int64, at time.Time) error {
	if kind == KindAdmin {
		return s.admins.TrackLogin(ctx, id, at)
	}
	return s.users.TrackLogin(ctx, id, at)
}

func (s *principalStore) SetPasswordHash(ctx context.Context, kind PrincipalKind, id int64, hash string) error {
	if kind == KindAdmin {
		return s.admins.SetPasswordHash(ctx, id, hash)
	}
	return s.users.SetPasswordHash(ctx, id, hash)
}
