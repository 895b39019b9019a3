package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const userColumns = `
	id, name, email, password_hash, employee_code, department, role, phone,
	profile_picture, is_active, is_staff, position, visa_type, weekly_hour_limit,
	last_login_at, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.EmployeeCode,
		&u.Department,
		&u.Role,
		&u.Phone,
		&u.ProfilePicture,
		&u.IsActive,
		&u.IsStaff,
		&u.Position,
		&u.VisaType,
		&u.WeeklyHourLimit,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func mapUserConflict(err error) error {
	switch uniqueViolation(err) {
	case "":
		return err
	case "users_name_lower_idx":
		return user.ErrUsernameExists
	case "users_email_lower_idx":
		return user.ErrEmailExists
	case "users_employee_code_idx":
		return user.ErrEmployeeCodeExists
	}
	return err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			name, email, password_hash, employee_code, department, role, phone,
			profile_picture, is_active, is_staff, position, visa_type, weekly_hour_limit
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.Name,
		newUser.Email,
		newUser.PasswordHash,
		newUser.EmployeeCode,
		newUser.Department,
		newUser.Role,
		newUser.Phone,
		newUser.ProfilePicture,
		newUser.IsActive,
		newUser.IsStaff,
		newUser.Position,
		newUser.VisaType,
		newUser.WeeklyHourLimit,
	))
	if err != nil {
		return user.User{}, mapUserConflict(err)
	}
	return created, nil
}

func (r *userRepositoryImpl) getOne(ctx context.Context, where string, arg any) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, `SELECT`+userColumns+` FROM users WHERE `+where+` LIMIT 1`, arg))
	if err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	if !validID(id) {
		return user.User{}, user.ErrUserNotFound
	}
	return r.getOne(ctx, `id = $1`, id)
}

// GetByLogin implements user.UserRepository.
func (r *userRepositoryImpl) GetByLogin(ctx context.Context, nameOrEmail string) (user.User, error) {
	return r.getOne(ctx, `name = $1 OR lower(email) = lower($1)`, nameOrEmail)
}

// GetByPhone implements user.UserRepository.
func (r *userRepositoryImpl) GetByPhone(ctx context.Context, phone string) (user.User, error) {
	return r.getOne(ctx, `phone = $1`, phone)
}

// ExistsByName implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE lower(name) = lower($1) AND id::text <> $2)`
	var exists bool
	if err := q.QueryRow(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ExistsByEmail implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1) AND id::text <> $2)`
	var exists bool
	if err := q.QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.UserFilter) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conditions []string
		args       []any
	)
	if filter.Role != nil {
		args = append(args, *filter.Role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active")
	}
	if filter.StaffOnly {
		conditions = append(conditions, "is_staff")
	}

	query := `SELECT` + userColumns + ` FROM users`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update implements user.UserRepository. It writes every profile column.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) error {
	if !validID(u.ID) {
		return user.ErrUserNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET name = $2, email = $3, employee_code = $4, department = $5, role = $6,
			phone = $7, profile_picture = $8, is_active = $9, is_staff = $10,
			position = $11, visa_type = $12, weekly_hour_limit = $13, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		u.EmployeeCode,
		u.Department,
		u.Role,
		u.Phone,
		u.ProfilePicture,
		u.IsActive,
		u.IsStaff,
		u.Position,
		u.VisaType,
		u.WeeklyHourLimit,
	)
	if err != nil {
		return mapUserConflict(err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdatePassword implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	if !validID(userID) {
		return user.ErrUserNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, userID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin implements user.UserRepository.
func (r *userRepositoryImpl) UpdateLastLogin(ctx context.Context, userID string) error {
	if !validID(userID) {
		return user.ErrUserNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// CountAdmins implements user.UserRepository.
func (r *userRepositoryImpl) CountAdmins(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, user.RoleAdmin).Scan(&n)
	return n, err
}

// Count implements user.UserRepository.
func (r *userRepositoryImpl) Count(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return user.ErrUserNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
