package cron

import (
	"context"
	"log/slog"
	"time"
)

// TokenPurger removes used or expired password reset tokens.
type TokenPurger interface {
	PurgeResetTokens(ctx context.Context) (int64, error)
}

// RevocationPurger drops revoked access tokens past their expiry.
type RevocationPurger interface {
	PurgeRevoked(now time.Time) int
}

type CleanupJobs struct {
	tokens  TokenPurger
	revoked RevocationPurger
}

func NewCleanupJobs(tokens TokenPurger, revoked RevocationPurger) *CleanupJobs {
	return &CleanupJobs{tokens: tokens, revoked: revoked}
}

func (j *CleanupJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_reset_tokens", 1*time.Hour, j.PurgeResetTokens)
	scheduler.AddJob("purge_revoked_access_tokens", 15*time.Minute, j.PurgeRevokedTokens)
}

func (j *CleanupJobs) PurgeResetTokens(ctx context.Context) error {
	n, err := j.tokens.PurgeResetTokens(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("Cron: purged password reset tokens", "count", n)
	}
	return nil
}

func (j *CleanupJobs) PurgeRevokedTokens(ctx context.Context) error {
	if n := j.revoked.PurgeRevoked(time.Now()); n > 0 {
		slog.Info("Cron: purged revoked access tokens", "count", n)
	}
	return nil
}
