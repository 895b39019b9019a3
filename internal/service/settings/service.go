package settings

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timekeeper-go/internal/config"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/settings"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
)

type SettingsServiceImpl struct {
	settings.SettingsRepository
	defaults settings.Settings
	audit    audit.Recorder
}

func NewSettingsService(repo settings.SettingsRepository, defaults config.SettingsDefaults, recorder audit.Recorder) settings.SettingsService {
	return &SettingsServiceImpl{
		SettingsRepository: repo,
		defaults:           settings.FromDefaults(defaults),
		audit:              recorder,
	}
}

func (s *SettingsServiceImpl) Current(ctx context.Context) (settings.Settings, error) {
	current, err := s.SettingsRepository.GetOrCreate(ctx, s.defaults)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return current, nil
}

func (s *SettingsServiceImpl) Get(ctx context.Context, actor user.Actor) (settings.SettingsResponse, error) {
	if err := actor.Require(user.PermissionSettingsManage); err != nil {
		return settings.SettingsResponse{}, err
	}
	current, err := s.Current(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}
	return settings.ToResponse(current), nil
}

func (s *SettingsServiceImpl) Update(ctx context.Context, actor user.Actor, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	if err := actor.Require(user.PermissionSettingsManage); err != nil {
		return settings.SettingsResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}

	current, err := s.Current(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}
	req.Apply(&current)

	updated, err := s.SettingsRepository.Update(ctx, current)
	if err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to update settings: %w", err)
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionOvertimeRulesUpdated, fmt.Sprintf(
		"Threshold: %gh/week, multiplier: %gx, %gh/day",
		updated.OvertimeThresholdHours, updated.OvertimeMultiplier, updated.WorkingHoursPerDay,
	))

	return settings.ToResponse(updated), nil
}
