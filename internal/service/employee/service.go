package employee

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/utils"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
)

// TemporaryPasswordLength is the length of generated first-login passwords.
const TemporaryPasswordLength = 12

// Dependent is a table holding rows owned by a user that must go when the
// user is deleted.
type Dependent interface {
	DeleteByUser(ctx context.Context, userID string) error
}

type EmployeeServiceImpl struct {
	db database.Transactor
	user.UserRepository
	dependents []Dependent
	audit      audit.Recorder
}

func NewEmployeeService(
	db database.Transactor,
	users user.UserRepository,
	recorder audit.Recorder,
	dependents ...Dependent,
) user.EmployeeService {
	return &EmployeeServiceImpl{
		db:             db,
		UserRepository: users,
		dependents:     dependents,
		audit:          recorder,
	}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

func phone(v *string) *string {
	if v == nil {
		return nil
	}
	s := validator.NormalizePhone(*v)
	if s == "" {
		return nil
	}
	return &s
}

func (s *EmployeeServiceImpl) List(ctx context.Context, actor user.Actor) ([]user.UserResponse, error) {
	if err := actor.Require(user.PermissionEmployeeManage); err != nil {
		return nil, err
	}
	users, err := s.UserRepository.List(ctx, user.UserFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	out := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, user.ToResponse(u))
	}
	return out, nil
}

// employeeCodeTaken scans users; codes are optional and rarely set.
func (s *EmployeeServiceImpl) employeeCodeTaken(ctx context.Context, code *string, excludeID string) (bool, error) {
	if code == nil {
		return false, nil
	}
	users, err := s.UserRepository.List(ctx, user.UserFilter{})
	if err != nil {
		return false, fmt.Errorf("failed to check employee code: %w", err)
	}
	for _, u := range users {
		if u.ID != excludeID && u.EmployeeCode != nil && strings.EqualFold(*u.EmployeeCode, *code) {
			return true, nil
		}
	}
	return false, nil
}

func (s *EmployeeServiceImpl) Create(ctx context.Context, actor user.Actor, req user.CreateEmployeeRequest) (user.CreateEmployeeResponse, error) {
	if err := actor.Require(user.PermissionEmployeeManage); err != nil {
		return user.CreateEmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.CreateEmployeeResponse{}, err
	}

	email := trimmed(req.Email)
	code := trimmed(req.EmployeeCode)

	exists, err := s.UserRepository.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return user.CreateEmployeeResponse{}, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return user.CreateEmployeeResponse{}, user.ErrUsernameExists
	}
	if email != nil {
		exists, err = s.UserRepository.ExistsByEmail(ctx, *email, "")
		if err != nil {
			return user.CreateEmployeeResponse{}, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return user.CreateEmployeeResponse{}, user.ErrEmailExists
		}
	}
	taken, err := s.employeeCodeTaken(ctx, code, "")
	if err != nil {
		return user.CreateEmployeeResponse{}, err
	}
	if taken {
		return user.CreateEmployeeResponse{}, user.ErrEmployeeCodeExists
	}

	password, err := utils.TemporaryPassword(TemporaryPasswordLength)
	if err != nil {
		return user.CreateEmployeeResponse{}, err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return user.CreateEmployeeResponse{}, err
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		Name:            req.Name,
		Email:           email,
		PasswordHash:    hash,
		EmployeeCode:    code,
		Department:      trimmed(req.Department),
		Role:            user.Role(req.Role),
		Phone:           phone(req.Phone),
		IsActive:        true,
		IsStaff:         req.IsStaff,
		Position:        trimmed(req.Position),
		VisaType:        trimmed(req.VisaType),
		WeeklyHourLimit: req.WeeklyHourLimit,
	})
	if err != nil {
		return user.CreateEmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionEmployeeAdded, fmt.Sprintf("Added %s (%s)", created.Name, created.Role))
	return user.CreateEmployeeResponse{
		User:              user.ToResponse(created),
		TemporaryPassword: password,
	}, nil
}

func (s *EmployeeServiceImpl) Update(ctx context.Context, actor user.Actor, req user.UpdateEmployeeRequest) (user.UserResponse, error) {
	if err := actor.Require(user.PermissionEmployeeManage); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	var updated user.User
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		target, err := s.UserRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.Role != nil && target.IsAdmin() && user.Role(*req.Role) != user.RoleAdmin {
			admins, err := s.UserRepository.CountAdmins(ctx)
			if err != nil {
				return fmt.Errorf("failed to count admins: %w", err)
			}
			if admins <= 1 {
				return user.ErrLastAdmin
			}
		}

		email := trimmed(req.Email)
		if email != nil {
			exists, err := s.UserRepository.ExistsByEmail(ctx, *email, target.ID)
			if err != nil {
				return fmt.Errorf("failed to check email: %w", err)
			}
			if exists {
				return user.ErrEmailExists
			}
		}
		code := trimmed(req.EmployeeCode)
		taken, err := s.employeeCodeTaken(ctx, code, target.ID)
		if err != nil {
			return err
		}
		if taken {
			return user.ErrEmployeeCodeExists
		}

		target.Email = email
		target.EmployeeCode = code
		target.Department = trimmed(req.Department)
		target.Phone = phone(req.Phone)
		target.Position = trimmed(req.Position)
		target.VisaType = trimmed(req.VisaType)
		target.WeeklyHourLimit = req.WeeklyHourLimit
		target.IsStaff = req.IsStaff
		if req.Role != nil {
			target.Role = user.Role(*req.Role)
		}

		if err := s.UserRepository.Update(ctx, target); err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}
		updated = target
		return nil
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionEmployeeUpdated, "Updated "+updated.Name)
	return user.ToResponse(updated), nil
}

func (s *EmployeeServiceImpl) ToggleActive(ctx context.Context, actor user.Actor, userID string) (user.UserResponse, error) {
	if err := actor.Require(user.PermissionEmployeeManage); err != nil {
		return user.UserResponse{}, err
	}

	target, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return user.UserResponse{}, err
	}
	if target.IsAdmin() {
		return user.UserResponse{}, user.ErrCannotModifyAdmin
	}

	target.IsActive = !target.IsActive
	if err := s.UserRepository.Update(ctx, target); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to toggle employee: %w", err)
	}

	state := "deactivated"
	if target.IsActive {
		state = "activated"
	}
	s.audit.Record(ctx, actor.UserID, audit.ActionEmployeeToggled, target.Name+" "+state)
	return user.ToResponse(target), nil
}

func (s *EmployeeServiceImpl) Delete(ctx context.Context, actor user.Actor, userID string) error {
	if err := actor.Require(user.PermissionEmployeeManage); err != nil {
		return err
	}

	var name string
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		target, err := s.UserRepository.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if target.IsAdmin() {
			return user.ErrCannotModifyAdmin
		}
		name = target.Name

		for _, d := range s.dependents {
			if err := d.DeleteByUser(ctx, userID); err != nil {
				return fmt.Errorf("failed to delete employee data: %w", err)
			}
		}
		if err := s.UserRepository.Delete(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionEmployeeDeleted, "Deleted "+name)
	return nil
}
