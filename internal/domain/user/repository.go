package user

import (
	"context"
)

type UserFilter struct {
	Role       *Role
	ActiveOnly bool
	StaffOnly  bool
}

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// GetByLogin matches either the username or the email address.
	GetByLogin(ctx context.Context, nameOrEmail string) (User, error)
	GetByPhone(ctx context.Context, phone string) (User, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]User, error)
	Update(ctx context.Context, u User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, userID string) error
	CountAdmins(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}
