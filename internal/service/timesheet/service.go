package timesheet

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/settings"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/weeklock"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/metrics"
)

type TimesheetServiceImpl struct {
	db database.Transactor
	timeentry.TimeEntryRepository
	settings settings.SettingsService
	ledger   weeklock.Ledger
	audit    audit.Recorder
	metrics  *metrics.Metrics
	loc      *time.Location
	now      func() time.Time
}

func NewTimesheetService(
	db database.Transactor,
	entries timeentry.TimeEntryRepository,
	settingsService settings.SettingsService,
	ledger weeklock.Ledger,
	recorder audit.Recorder,
	m *metrics.Metrics,
	loc *time.Location,
) timesheet.TimesheetService {
	return &TimesheetServiceImpl{
		db:                  db,
		TimeEntryRepository: entries,
		settings:            settingsService,
		ledger:              ledger,
		audit:               recorder,
		metrics:             m,
		loc:                 loc,
		now:                 time.Now,
	}
}

func (s *TimesheetServiceImpl) ListPending(ctx context.Context, actor user.Actor) ([]timesheet.PendingTimesheet, error) {
	if err := actor.Require(user.PermissionTimesheetApprove); err != nil {
		return nil, err
	}

	current, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.TimeEntryRepository.ListPendingReview(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending timesheets: %w", err)
	}

	pending := make([]timesheet.PendingTimesheet, 0, len(entries))
	for _, e := range entries {
		day := timeentry.CivilDay(e.Day, s.loc)
		week := weeklock.WeekOf(day)
		locked, err := s.ledger.IsLocked(ctx, e.UserID, day)
		if err != nil {
			return nil, err
		}
		resp := timeentry.ToResponse(e)
		pending = append(pending, timesheet.PendingTimesheet{
			Entry:           resp,
			WorkHours:       timeentry.Hours(resp.WorkMinutes),
			OvertimeMinutes: timeentry.DailyOvertimeMinutes(resp.WorkMinutes, current.DailyThresholdMinutes()),
			WeekStart:       week.Start.Format("2006-01-02"),
			WeekEnd:         week.End.Format("2006-01-02"),
			IsLocked:        locked,
		})
	}
	return pending, nil
}

// Review stamps the decision on the entry. Approval with LockWeek also locks
// the entry's week with the same reviewer and timestamp.
func (s *TimesheetServiceImpl) Review(ctx context.Context, actor user.Actor, req timesheet.ReviewRequest) (timesheet.ReviewResponse, error) {
	if err := actor.Require(user.PermissionTimesheetApprove); err != nil {
		return timesheet.ReviewResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return timesheet.ReviewResponse{}, err
	}

	var (
		entry  timeentry.TimeEntry
		locked bool
		week   weeklock.Week
	)
	reviewedAt := s.now().Truncate(time.Second)

	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.TimeEntryRepository.GetByID(ctx, req.EntryID)
		if err != nil {
			return err
		}
		if !entry.IsComplete() {
			return timeentry.ErrNotComplete
		}

		entry.Status = timeentry.StatusRejected
		if req.Decision == timesheet.DecisionApprove {
			entry.Status = timeentry.StatusApproved
		}
		reviewer := actor.UserID
		entry.ApprovedBy = &reviewer
		entry.ApprovedAt = &reviewedAt
		entry.Notes = req.Notes

		if err := s.TimeEntryRepository.Update(ctx, entry); err != nil {
			return fmt.Errorf("failed to update timesheet: %w", err)
		}

		if req.Decision != timesheet.DecisionApprove || !req.LockWeek {
			return nil
		}
		day := timeentry.CivilDay(entry.Day, s.loc)
		week = weeklock.WeekOf(day)
		if _, err := s.ledger.Lock(ctx, entry.UserID, day, actor.UserID, reviewedAt); err != nil {
			return err
		}
		locked = true
		return nil
	})
	if err != nil {
		return timesheet.ReviewResponse{}, err
	}

	s.metrics.ObserveReview("timesheet", string(req.Decision))

	if locked {
		s.audit.Record(ctx, actor.UserID, audit.ActionWeekLocked, fmt.Sprintf(
			"Locked week %s to %s for %s",
			week.Start.Format("2006-01-02"), week.End.Format("2006-01-02"), entry.UserName))
	}
	action := audit.ActionTimesheetRejected
	if req.Decision == timesheet.DecisionApprove {
		action = audit.ActionTimesheetApproved
	}
	s.audit.Record(ctx, actor.UserID, action, fmt.Sprintf(
		"Timesheet for %s on %s", entry.UserName, entry.Day.Format("2006-01-02")))

	return timesheet.ReviewResponse{Entry: timeentry.ToResponse(entry), WeekLocked: locked}, nil
}
