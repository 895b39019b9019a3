package settings

import (
	"context"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
)

type SettingsService interface {
	// Current returns the active settings; used internally by other services.
	Current(ctx context.Context) (Settings, error)
	Get(ctx context.Context, actor user.Actor) (SettingsResponse, error)
	Update(ctx context.Context, actor user.Actor, req UpdateSettingsRequest) (SettingsResponse, error)
}
