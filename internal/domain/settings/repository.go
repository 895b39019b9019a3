package settings

import "context"

type SettingsRepository interface {
	// GetOrCreate returns the singleton row, inserting defaults when absent.
	GetOrCreate(ctx context.Context, defaults Settings) (Settings, error)
	Update(ctx context.Context, s Settings) (Settings, error)
}
