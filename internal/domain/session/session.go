// Package session carries the authenticated caller through the request.
//
// A Session is built once per request by the auth middleware and handed to
// use cases explicitly; nothing in the service subscribes to auth state.
package session

import (
	"context"
	"errors"

	"sacco-backend/internal/domain/user"
)

var ErrAdminOnly = errors.New("admin role required")

type Session struct {
	UserID string
	Email  string
	Name   string
	Role   user.Role
}

func (s Session) IsAdmin() bool { return s.Role == user.RoleAdmin }

// DisplayName falls back to "Member" when the identity carries no name.
func (s Session) DisplayName() string {
	if s.Name == "" {
		return "Member"
	}
	return s.Name
}

type ctxKey struct{}

func WithContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
