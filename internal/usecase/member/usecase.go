package member

import (
	"context"
	"errors"
	"strings"

	"sacco-backend/internal/domain/session"
	"sacco-backend/internal/domain/uow"
	"sacco-backend/internal/domain/user"
)

type Usecase struct {
	repo user.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(r user.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: r, uow: tx}
}

// EnsureProfile creates the caller's profile on first sign-in and returns it.
// The first profile ever created is made admin so a fresh deployment can be
// administered at all.
func (u *Usecase) EnsureProfile(ctx context.Context, s session.Session) (*user.User, error) {
	if strings.TrimSpace(s.Email) == "" {
		return nil, user.ErrMissingEmail
	}
	if existing, err := u.repo.GetByUserID(ctx, s.UserID); err == nil {
		return existing, nil
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	var created *user.User
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		n, err := r.Users.Count(ctx)
		if err != nil {
			return err
		}
		created = newProfile(s, n == 0)
		return r.Users.Create(ctx, created)
	})
	if errors.Is(err, user.ErrAlreadyExists) && created != nil && created.Bootstrap != nil {
		// another first sign-in claimed the bootstrap admin slot
		created = newProfile(s, false)
		err = u.repo.Create(ctx, created)
	}
	if errors.Is(err, user.ErrAlreadyExists) {
		// lost a race with a concurrent sign-in
		return u.repo.GetByUserID(ctx, s.UserID)
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

func newProfile(s session.Session, bootstrap bool) *user.User {
	p := &user.User{
		UserID: s.UserID,
		Email:  strings.TrimSpace(s.Email),
		Name:   s.DisplayName(),
		Role:   user.RoleUser,
	}
	if bootstrap {
		claimed := true
		p.Role = user.RoleAdmin
		p.Bootstrap = &claimed
	}
	return p
}

func (u *Usecase) Me(ctx context.Context, s session.Session) (*user.User, error) {
	return u.repo.GetByUserID(ctx, s.UserID)
}

// Role is what the auth middleware stamps on a session. Identities without a
// profile yet are plain members.
func (u *Usecase) Role(ctx context.Context, userID string) (user.Role, error) {
	p, err := u.repo.GetByUserID(ctx, userID)
	if errors.Is(err, user.ErrNotFound) {
		return user.RoleUser, nil
	}
	if err != nil {
		return "", err
	}
	return p.Role, nil
}

func (u *Usecase) List(ctx context.Context, s session.Session) ([]user.User, error) {
	if !s.IsAdmin() {
		return nil, session.ErrAdminOnly
	}
	return u.repo.List(ctx)
}

func (u *Usecase) GrantAdmin(ctx context.Context, s session.Session, userID string) (*user.User, error) {
	return u.setRole(ctx, s, userID, user.RoleAdmin)
}

func (u *Usecase) RevokeAdmin(ctx context.Context, s session.Session, userID string) (*user.User, error) {
	if userID == s.UserID {
		return nil, user.ErrSelfDemotion
	}
	return u.setRole(ctx, s, userID, user.RoleUser)
}

func (u *Usecase) setRole(ctx context.Context, s session.Session, userID string, role user.Role) (*user.User, error) {
	if !s.IsAdmin() {
		return nil, session.ErrAdminOnly
	}
	if err := u.repo.UpdateRole(ctx, userID, role); err != nil {
		return nil, err
	}
	return u.repo.GetByUserID(ctx, userID)
}
