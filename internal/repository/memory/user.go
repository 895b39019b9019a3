package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
)

type userRepository struct {
	s *Store
}

func (s *Store) Users() user.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Name, newUser.Name) {
			return user.User{}, user.ErrUsernameExists
		}
		if newUser.Email != nil && u.Email != nil && strings.EqualFold(*u.Email, *newUser.Email) {
			return user.User{}, user.ErrEmailExists
		}
		if newUser.EmployeeCode != nil && u.EmployeeCode != nil && *u.EmployeeCode == *newUser.EmployeeCode {
			return user.User{}, user.ErrEmployeeCodeExists
		}
	}

	newUser.ID = newID()
	newUser.CreatedAt = r.s.now()
	newUser.UpdatedAt = newUser.CreatedAt
	put(ctx, r.s.st.users, newUser.ID, newUser)
	return newUser, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.st.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, nameOrEmail string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.st.users {
		if u.Name == nameOrEmail || (u.Email != nil && strings.EqualFold(*u.Email, nameOrEmail)) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.st.users {
		if u.Phone != nil && *u.Phone == phone {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.st.users {
		if u.ID != excludeID && strings.EqualFold(u.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.st.users {
		if u.ID != excludeID && u.Email != nil && strings.EqualFold(*u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepository) List(ctx context.Context, filter user.UserFilter) ([]user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []user.User
	for _, u := range r.s.st.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.ActiveOnly && !u.IsActive {
			continue
		}
		if filter.StaffOnly && !u.IsStaff {
			continue
		}
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b user.User) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *userRepository) Update(ctx context.Context, u user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	u.UpdatedAt = r.s.now()
	put(ctx, r.s.st.users, u.ID, u)
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.st.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = r.s.now()
	put(ctx, r.s.st.users, userID, u)
	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.st.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	now := r.s.now()
	u.LastLoginAt = &now
	put(ctx, r.s.st.users, userID, u)
	return nil
}

func (r *userRepository) CountAdmins(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, u := range r.s.st.users {
		if u.Role == user.RoleAdmin {
			n++
		}
	}
	return n, nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.st.users), nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.users[id]; !ok {
		return user.ErrUserNotFound
	}
	remove(ctx, r.s.st.users, id)
	return nil
}
