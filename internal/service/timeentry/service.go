package timeentry

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/notification"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/settings"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/weeklock"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/metrics"
)

type TimeEntryServiceImpl struct {
	db database.Transactor
	timeentry.TimeEntryRepository
	user.UserRepository
	settings settings.SettingsService
	ledger   weeklock.Ledger
	audit    audit.Recorder
	notifier notification.Notifier
	metrics  *metrics.Metrics
	loc      *time.Location
	now      func() time.Time
}

func NewTimeEntryService(
	db database.Transactor,
	entries timeentry.TimeEntryRepository,
	users user.UserRepository,
	settingsService settings.SettingsService,
	ledger weeklock.Ledger,
	recorder audit.Recorder,
	notifier notification.Notifier,
	m *metrics.Metrics,
	loc *time.Location,
) timeentry.TimeEntryService {
	return &TimeEntryServiceImpl{
		db:                  db,
		TimeEntryRepository: entries,
		UserRepository:      users,
		settings:            settingsService,
		ledger:              ledger,
		audit:               recorder,
		notifier:            notifier,
		metrics:             m,
		loc:                 loc,
		now:                 time.Now,
	}
}

func (s *TimeEntryServiceImpl) localNow() time.Time {
	return s.now().In(s.loc)
}

func (s *TimeEntryServiceImpl) today() time.Time {
	return timeentry.DayOf(s.localNow())
}

// todayEntry returns the user's entry for today, creating it when absent.
func (s *TimeEntryServiceImpl) todayEntry(ctx context.Context, userID string) (timeentry.TimeEntry, error) {
	day := s.today()
	existing, err := s.TimeEntryRepository.GetByUserAndDay(ctx, userID, day)
	if err != nil {
		return timeentry.TimeEntry{}, fmt.Errorf("failed to get today's entry: %w", err)
	}
	if existing != nil {
		existing.Day = timeentry.CivilDay(existing.Day, s.loc)
		return *existing, nil
	}

	created, err := s.TimeEntryRepository.Create(ctx, timeentry.TimeEntry{
		UserID: userID,
		Day:    day,
		Status: timeentry.StatusPending,
	})
	if err != nil {
		return timeentry.TimeEntry{}, fmt.Errorf("failed to create today's entry: %w", err)
	}
	created.Day = timeentry.CivilDay(created.Day, s.loc)
	return created, nil
}

func (s *TimeEntryServiceImpl) Today(ctx context.Context, actor user.Actor) (timeentry.TodayResponse, error) {
	if err := actor.Require(user.PermissionEntryViewOwn); err != nil {
		return timeentry.TodayResponse{}, err
	}

	entry, err := s.todayEntry(ctx, actor.UserID)
	if err != nil {
		return timeentry.TodayResponse{}, err
	}

	locked, err := s.ledger.IsLocked(ctx, actor.UserID, entry.Day)
	if err != nil {
		return timeentry.TodayResponse{}, err
	}

	resp := timeentry.ToResponse(entry)
	return timeentry.TodayResponse{
		Entry:     resp,
		WorkHours: timeentry.Hours(resp.WorkMinutes),
		IsLocked:  locked,
	}, nil
}

func (s *TimeEntryServiceImpl) Punch(ctx context.Context, actor user.Actor, action timeentry.Action) (timeentry.EntryResponse, error) {
	resp, err := s.punch(ctx, actor, action)
	s.metrics.ObservePunch(string(action), err)
	return resp, err
}

func (s *TimeEntryServiceImpl) punch(ctx context.Context, actor user.Actor, action timeentry.Action) (timeentry.EntryResponse, error) {
	if err := actor.Require(user.PermissionPunch); err != nil {
		return timeentry.EntryResponse{}, err
	}
	if _, err := timeentry.ParseAction(string(action)); err != nil {
		return timeentry.EntryResponse{}, err
	}

	// The lock is checked before the entry is fetched or created.
	if err := s.ledger.EnsureUnlocked(ctx, actor.UserID, s.today()); err != nil {
		return timeentry.EntryResponse{}, err
	}

	var entry timeentry.TimeEntry
	now := s.localNow().Truncate(time.Second)
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.todayEntry(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if err := entry.Apply(action, now); err != nil {
			return err
		}
		if err := s.TimeEntryRepository.Update(ctx, entry); err != nil {
			return fmt.Errorf("failed to save punch: %w", err)
		}
		return nil
	})
	if err != nil {
		return timeentry.EntryResponse{}, err
	}

	s.audit.Record(ctx, actor.UserID, action.AuditCode(), punchDetail(action, now))

	if action == timeentry.ActionClockOut {
		s.sendDailySummary(ctx, actor, entry)
	}

	return timeentry.ToResponse(entry), nil
}

func punchDetail(action timeentry.Action, at time.Time) string {
	labels := map[timeentry.Action]string{
		timeentry.ActionClockIn:     "Clocked in",
		timeentry.ActionLunchStart:  "Lunch started",
		timeentry.ActionLunchEnd:    "Lunch ended",
		timeentry.ActionDinnerStart: "Dinner started",
		timeentry.ActionDinnerEnd:   "Dinner ended",
		timeentry.ActionClockOut:    "Clocked out",
	}
	return fmt.Sprintf("%s at %s", labels[action], at.Format("15:04"))
}

// sendDailySummary queues the clock-out email. Failures are logged only.
func (s *TimeEntryServiceImpl) sendDailySummary(ctx context.Context, actor user.Actor, entry timeentry.TimeEntry) {
	if s.notifier == nil {
		return
	}
	u, err := s.UserRepository.GetByID(ctx, actor.UserID)
	if err != nil {
		slog.Warn("daily summary skipped", "user_id", actor.UserID, "error", err)
		return
	}
	if u.Email == nil || *u.Email == "" {
		return
	}

	work, brk := timeentry.WorkAndBreakMinutes(entry)
	date := entry.Day.Format("2006-01-02")
	worked := strconv.FormatFloat(timeentry.Hours(work), 'f', 2, 64)
	msg := notification.Message{
		Channel:  notification.ChannelEmail,
		To:       *u.Email,
		Subject:  "Daily Work Summary",
		Template: notification.TemplateDailySummary,
		Body: fmt.Sprintf("Hi %s,\n\nDate: %s\nWorked: %sh\nBreaks: %dm\n\nThanks,\nTimeTracker",
			u.Name, date, worked, brk),
		Data: map[string]string{
			"Name":         u.Name,
			"Date":         date,
			"WorkedHours":  worked,
			"BreakMinutes": strconv.Itoa(brk),
		},
	}
	if err := s.notifier.Notify(context.WithoutCancel(ctx), msg); err != nil {
		slog.Error("failed to queue daily summary", "user_id", actor.UserID, "error", err)
	}
}

func (s *TimeEntryServiceImpl) SaveNotes(ctx context.Context, actor user.Actor, req timeentry.SaveNotesRequest) (timeentry.EntryResponse, error) {
	if err := actor.Require(user.PermissionPunch); err != nil {
		return timeentry.EntryResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return timeentry.EntryResponse{}, err
	}
	if err := s.ledger.EnsureUnlocked(ctx, actor.UserID, s.today()); err != nil {
		return timeentry.EntryResponse{}, err
	}

	var entry timeentry.TimeEntry
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.todayEntry(ctx, actor.UserID)
		if err != nil {
			return err
		}
		notes := req.ShiftNotes
		entry.ShiftNotes = &notes
		if err := s.TimeEntryRepository.Update(ctx, entry); err != nil {
			return fmt.Errorf("failed to save shift notes: %w", err)
		}
		return nil
	})
	if err != nil {
		return timeentry.EntryResponse{}, err
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionShiftNotesUpdated, "Updated shift notes for "+entry.Day.Format("2006-01-02"))
	return timeentry.ToResponse(entry), nil
}

func (s *TimeEntryServiceImpl) Week(ctx context.Context, actor user.Actor, day time.Time) (timeentry.WeekResponse, error) {
	if err := actor.Require(user.PermissionEntryViewOwn); err != nil {
		return timeentry.WeekResponse{}, err
	}
	if day.IsZero() {
		day = s.today()
	} else {
		day = timeentry.CivilDay(day, s.loc)
	}

	current, err := s.settings.Current(ctx)
	if err != nil {
		return timeentry.WeekResponse{}, err
	}
	u, err := s.UserRepository.GetByID(ctx, actor.UserID)
	if err != nil {
		return timeentry.WeekResponse{}, err
	}

	monday, sunday := timeentry.WeekRange(day)
	entries, err := s.TimeEntryRepository.ListByUserRange(ctx, actor.UserID, monday, sunday)
	if err != nil {
		return timeentry.WeekResponse{}, fmt.Errorf("failed to list week entries: %w", err)
	}
	locked, err := s.ledger.IsLocked(ctx, actor.UserID, monday)
	if err != nil {
		return timeentry.WeekResponse{}, err
	}

	totals := timeentry.SummarizeWeek(entries, current.WeeklyThresholdMinutes())
	workHours := timeentry.Hours(totals.WorkMinutes)

	resp := timeentry.WeekResponse{
		WeekStart:       monday.Format("2006-01-02"),
		WeekEnd:         sunday.Format("2006-01-02"),
		Entries:         make([]timeentry.EntryResponse, 0, len(entries)),
		WorkHours:       workHours,
		BreakHours:      timeentry.Hours(totals.BreakMinutes),
		TargetHours:     current.WeeklyTargetHours,
		RemainingHours:  max(0, current.WeeklyTargetHours-workHours),
		WeeklyHourLimit: u.WeeklyHourLimit,
		IsLocked:        locked,
	}
	for _, e := range entries {
		if e.ClockIn == nil {
			continue
		}
		resp.Entries = append(resp.Entries, timeentry.ToResponse(e))
	}
	if u.WeeklyHourLimit != nil {
		remaining := max(0, *u.WeeklyHourLimit-workHours)
		resp.LimitRemaining = &remaining
		resp.OverLimit = workHours > *u.WeeklyHourLimit
	}
	return resp, nil
}

func (s *TimeEntryServiceImpl) Calendar(ctx context.Context, actor user.Actor, year int, month time.Month) (timeentry.CalendarResponse, error) {
	if err := actor.Require(user.PermissionEntryViewOwn); err != nil {
		return timeentry.CalendarResponse{}, err
	}
	if year == 0 || month < time.January || month > time.December {
		today := s.today()
		year, month = today.Year(), today.Month()
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	last := first.AddDate(0, 1, -1)
	entries, err := s.TimeEntryRepository.ListByUserRange(ctx, actor.UserID, first, last)
	if err != nil {
		return timeentry.CalendarResponse{}, fmt.Errorf("failed to list month entries: %w", err)
	}

	resp := timeentry.CalendarResponse{Year: year, Month: int(month), Days: []timeentry.CalendarDay{}}
	for _, e := range entries {
		if e.ClockIn == nil {
			continue
		}
		work, brk := timeentry.WorkAndBreakMinutes(e)
		resp.Days = append(resp.Days, timeentry.CalendarDay{
			Date:         e.Day.Format("2006-01-02"),
			WorkHours:    timeentry.Hours(work),
			BreakMinutes: brk,
			Status:       string(e.Status),
		})
	}
	return resp, nil
}

func (s *TimeEntryServiceImpl) ResetEntry(ctx context.Context, actor user.Actor, entryID string) (timeentry.EntryResponse, error) {
	var entry timeentry.TimeEntry
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.TimeEntryRepository.GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		if !actor.Owns(entry.UserID) && !actor.Can(user.PermissionEntryEdit) {
			return user.ErrInsufficientPermissions
		}
		if err := s.ledger.EnsureUnlocked(ctx, entry.UserID, timeentry.CivilDay(entry.Day, s.loc)); err != nil {
			return err
		}

		entry.ClearPunches()
		entry.ResetApproval()
		if err := s.TimeEntryRepository.Update(ctx, entry); err != nil {
			return fmt.Errorf("failed to reset entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return timeentry.EntryResponse{}, err
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionEntryReset, fmt.Sprintf(
		"Reset entry for %s on %s", entry.UserName, entry.Day.Format("2006-01-02")))
	return timeentry.ToResponse(entry), nil
}

func (s *TimeEntryServiceImpl) EditEntry(ctx context.Context, actor user.Actor, req timeentry.EditEntryRequest) (timeentry.EntryResponse, error) {
	if err := actor.Require(user.PermissionEntryEdit); err != nil {
		return timeentry.EntryResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return timeentry.EntryResponse{}, err
	}

	target, err := s.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return timeentry.EntryResponse{}, err
	}
	day := timeentry.CivilDay(req.Day, s.loc)
	if err := s.ledger.EnsureUnlocked(ctx, target.ID, day); err != nil {
		return timeentry.EntryResponse{}, err
	}

	var entry timeentry.TimeEntry
	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.TimeEntryRepository.GetByUserAndDay(ctx, target.ID, day)
		if err != nil {
			return fmt.Errorf("failed to get entry: %w", err)
		}
		if existing == nil {
			created, err := s.TimeEntryRepository.Create(ctx, timeentry.TimeEntry{
				UserID: target.ID,
				Day:    day,
				Status: timeentry.StatusPending,
			})
			if err != nil {
				return fmt.Errorf("failed to create entry: %w", err)
			}
			existing = &created
		}
		entry = *existing
		entry.Day = day

		req.ApplyTo(&entry)
		if err := timeentry.ValidateOrder(entry); err != nil {
			return err
		}
		return s.TimeEntryRepository.Update(ctx, entry)
	})
	if err != nil {
		return timeentry.EntryResponse{}, err
	}

	entry.UserName = target.Name
	s.audit.Record(ctx, actor.UserID, audit.ActionEntryEdited, fmt.Sprintf(
		"Edited entry for %s on %s", target.Name, day.Format("2006-01-02")))
	return timeentry.ToResponse(entry), nil
}

func (s *TimeEntryServiceImpl) ResetWeek(ctx context.Context, actor user.Actor, req timeentry.ResetWeekRequest) (int64, error) {
	if err := actor.Require(user.PermissionEntryEdit); err != nil {
		return 0, err
	}
	if err := req.Validate(); err != nil {
		return 0, err
	}

	target, err := s.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return 0, err
	}

	today := s.today()
	if err := s.ledger.EnsureUnlocked(ctx, target.ID, today); err != nil {
		return 0, err
	}

	monday, sunday := timeentry.WeekRange(today)
	deleted, err := s.TimeEntryRepository.DeleteByUserRange(ctx, target.ID, monday, sunday)
	if err != nil {
		return 0, fmt.Errorf("failed to reset week: %w", err)
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionWeekReset, fmt.Sprintf(
		"Reset week %s to %s for %s (%d entries)",
		monday.Format("2006-01-02"), sunday.Format("2006-01-02"), target.Name, deleted))
	return deleted, nil
}
