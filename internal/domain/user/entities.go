package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("member not found")
	ErrAlreadyExists = errors.New("member profile already exists")
	ErrSelfDemotion  = errors.New("admins cannot revoke their own role")
	ErrMissingEmail  = errors.New("identity has no email")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID    string    `gorm:"size:128;uniqueIndex:ux_users_user_id" json:"user_id"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Name      string    `gorm:"size:255" json:"name"`
	Role      Role      `gorm:"type:varchar(16);not null;default:'user'" json:"role"`
	// Bootstrap is set only on the deployment's first admin; the unique
	// index lets exactly one concurrent first sign-in claim it.
	Bootstrap *bool     `gorm:"uniqueIndex:ux_users_bootstrap" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, userID string, role Role) error
	Count(ctx context.Context) (int64, error)
}
