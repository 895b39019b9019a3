package memory

import (
	"context"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/settings"
)

type settingsRepository struct {
	s *Store
}

func (s *Store) Settings() settings.SettingsRepository {
	return &settingsRepository{s: s}
}

func (r *settingsRepository) GetOrCreate(ctx context.Context, defaults settings.Settings) (settings.Settings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.st.settings == nil {
		defaults.ID = settings.SingletonID
		defaults.UpdatedAt = r.s.now()
		r.s.setSettings(ctx, &defaults)
	}
	return *r.s.st.settings, nil
}

func (r *settingsRepository) Update(ctx context.Context, s settings.Settings) (settings.Settings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	s.ID = settings.SingletonID
	s.UpdatedAt = r.s.now()
	r.s.setSettings(ctx, &s)
	return s, nil
}
