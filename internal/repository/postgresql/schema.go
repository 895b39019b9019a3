package postgresql

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var schema string

// Migrate creates any missing tables and indexes. It is safe to run on every start.
func Migrate(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// validID filters ids that can never match a UUID primary key, which
// postgres would otherwise reject with a syntax error.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// uniqueViolation returns the violated constraint name, or "" when err is
// not a unique violation.
func uniqueViolation(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}

// civil re-anchors a DATE column, which pgx scans as UTC midnight, to loc.
func civil(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func civilPtr(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	c := civil(*t, loc)
	return &c
}

// dateArg formats a calendar date for a DATE parameter so the caller's
// location never shifts the day.
func dateArg(t time.Time) string {
	return t.Format("2006-01-02")
}

func dateArgPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := dateArg(*t)
	return &s
}
