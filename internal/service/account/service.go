package account

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/utils"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
	"github.com/cmlabs-hris/timekeeper-go/internal/service/file"
)

type AccountServiceImpl struct {
	user.UserRepository
	files file.FileService
	audit audit.Recorder
}

func NewAccountService(users user.UserRepository, files file.FileService, recorder audit.Recorder) user.AccountService {
	return &AccountServiceImpl{
		UserRepository: users,
		files:          files,
		audit:          recorder,
	}
}

// respond exposes the stored picture key as a public URL.
func (s *AccountServiceImpl) respond(u user.User) user.UserResponse {
	resp := user.ToResponse(u)
	if u.ProfilePicture != nil {
		url := s.files.URL(*u.ProfilePicture)
		resp.ProfilePicture = &url
	}
	return resp
}

func (s *AccountServiceImpl) self(ctx context.Context, actor user.Actor) (user.User, error) {
	if err := actor.Require(user.PermissionProfileEditOwn); err != nil {
		return user.User{}, err
	}
	return s.UserRepository.GetByID(ctx, actor.UserID)
}

func (s *AccountServiceImpl) Me(ctx context.Context, actor user.Actor) (user.UserResponse, error) {
	u, err := s.self(ctx, actor)
	if err != nil {
		return user.UserResponse{}, err
	}
	return s.respond(u), nil
}

func (s *AccountServiceImpl) ChangePassword(ctx context.Context, actor user.Actor, req user.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	u, err := s.self(ctx, actor)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(u.PasswordHash, req.CurrentPassword) {
		return user.ErrIncorrectPassword
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.UserRepository.UpdatePassword(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionPasswordChanged, "Password changed")
	return nil
}

func (s *AccountServiceImpl) ChangeUsername(ctx context.Context, actor user.Actor, req user.ChangeUsernameRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	u, err := s.self(ctx, actor)
	if err != nil {
		return user.UserResponse{}, err
	}

	exists, err := s.UserRepository.ExistsByName(ctx, req.Name, u.ID)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return user.UserResponse{}, user.ErrUsernameExists
	}

	previous := u.Name
	u.Name = req.Name
	if err := s.UserRepository.Update(ctx, u); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to update username: %w", err)
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionProfileUpdated, fmt.Sprintf("Username changed from %s to %s", previous, u.Name))
	return s.respond(u), nil
}

// UpdateEmail sets or, with an empty value, clears the email address.
func (s *AccountServiceImpl) UpdateEmail(ctx context.Context, actor user.Actor, req user.UpdateEmailRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	u, err := s.self(ctx, actor)
	if err != nil {
		return user.UserResponse{}, err
	}

	u.Email = nil
	if req.Email != "" {
		exists, err := s.UserRepository.ExistsByEmail(ctx, req.Email, u.ID)
		if err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return user.UserResponse{}, user.ErrEmailExists
		}
		email := req.Email
		u.Email = &email
	}
	if err := s.UserRepository.Update(ctx, u); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to update email: %w", err)
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionProfileUpdated, "Email updated")
	return s.respond(u), nil
}

// UpdatePhone stores the number as digits with an optional leading "+".
// Input without digits clears it.
func (s *AccountServiceImpl) UpdatePhone(ctx context.Context, actor user.Actor, req user.UpdatePhoneRequest) (user.UserResponse, error) {
	u, err := s.self(ctx, actor)
	if err != nil {
		return user.UserResponse{}, err
	}

	u.Phone = nil
	if p := validator.NormalizePhone(req.Phone); p != "" {
		u.Phone = &p
	}
	if err := s.UserRepository.Update(ctx, u); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to update phone: %w", err)
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionProfileUpdated, "Phone updated")
	return s.respond(u), nil
}

func (s *AccountServiceImpl) UploadProfilePicture(ctx context.Context, actor user.Actor, r io.Reader, filename string) (user.UserResponse, error) {
	u, err := s.self(ctx, actor)
	if err != nil {
		return user.UserResponse{}, err
	}

	key, err := s.files.UploadProfilePicture(ctx, u.ID, r)
	if err != nil {
		return user.UserResponse{}, err
	}

	previous := u.ProfilePicture
	u.ProfilePicture = &key
	if err := s.UserRepository.Update(ctx, u); err != nil {
		if delErr := s.files.DeleteFile(ctx, key); delErr != nil {
			slog.Warn("failed to remove orphaned profile picture", "path", key, "error", delErr)
		}
		return user.UserResponse{}, fmt.Errorf("failed to save profile picture: %w", err)
	}
	if previous != nil && *previous != key {
		if err := s.files.DeleteFile(ctx, *previous); err != nil {
			slog.Warn("failed to remove previous profile picture", "path", *previous, "error", err)
		}
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionProfileUpdated, "Profile picture updated from "+filename)
	return s.respond(u), nil
}
