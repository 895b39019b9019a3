package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/roster"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
)

type RosterServiceImpl struct {
	db database.Transactor
	roster.RosterRepository
	user.UserRepository
	audit audit.Recorder
	loc   *time.Location
	now   func() time.Time
}

func NewRosterService(
	db database.Transactor,
	rosters roster.RosterRepository,
	users user.UserRepository,
	recorder audit.Recorder,
	loc *time.Location,
) roster.RosterService {
	return &RosterServiceImpl{
		db:               db,
		RosterRepository: rosters,
		UserRepository:   users,
		audit:            recorder,
		loc:              loc,
		now:              time.Now,
	}
}

func (s *RosterServiceImpl) currentWeek() (time.Time, time.Time) {
	return timeentry.WeekRange(s.now().In(s.loc))
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func (s *RosterServiceImpl) MyWeek(ctx context.Context, actor user.Actor) ([]roster.RosterResponse, error) {
	if err := actor.Require(user.PermissionRosterViewOwn); err != nil {
		return nil, err
	}
	monday, _ := s.currentWeek()
	rows, err := s.RosterRepository.ListForUserWeek(ctx, actor.UserID, monday)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	roster.SortByDay(rows)
	return roster.ToResponses(rows), nil
}

// SetShift writes the user's shift for a weekday of the current week. The
// row is marked working, its notes cleared and its title taken from the
// user's position.
func (s *RosterServiceImpl) SetShift(ctx context.Context, actor user.Actor, req roster.SetShiftRequest) (roster.RosterResponse, error) {
	if err := actor.Require(user.PermissionRosterManage); err != nil {
		return roster.RosterResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return roster.RosterResponse{}, err
	}

	target, err := s.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return roster.RosterResponse{}, err
	}

	monday, sunday := s.currentWeek()
	row, err := s.RosterRepository.Find(ctx, target.ID, req.DayOfWeek, &monday)
	if err != nil {
		return roster.RosterResponse{}, fmt.Errorf("failed to find roster row: %w", err)
	}
	if row == nil {
		row = &roster.Roster{UserID: target.ID, DayOfWeek: req.DayOfWeek, WeekStart: &monday, WeekEnd: &sunday}
	}
	row.StartTime = optional(req.StartTime)
	row.EndTime = optional(req.EndTime)
	row.IsOff = false
	row.Notes = nil
	row.RoleTitle = target.Position

	saved, err := s.RosterRepository.Upsert(ctx, *row)
	if err != nil {
		return roster.RosterResponse{}, fmt.Errorf("failed to save roster row: %w", err)
	}
	saved.UserName = target.Name

	s.audit.Record(ctx, actor.UserID, audit.ActionRosterUpdated, fmt.Sprintf(
		"%s %s %s-%s", target.Name, req.DayOfWeek, req.StartTime, req.EndTime))
	return roster.ToResponse(saved), nil
}

// SetShiftForAll writes a template row for every active user.
func (s *RosterServiceImpl) SetShiftForAll(ctx context.Context, actor user.Actor, req roster.SetShiftForAllRequest) (int, error) {
	if err := actor.Require(user.PermissionRosterManage); err != nil {
		return 0, err
	}
	if err := req.Validate(); err != nil {
		return 0, err
	}

	users, err := s.UserRepository.List(ctx, user.UserFilter{ActiveOnly: true})
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, u := range users {
			row, err := s.RosterRepository.Find(ctx, u.ID, req.DayOfWeek, nil)
			if err != nil {
				return fmt.Errorf("failed to find roster row: %w", err)
			}
			if row == nil {
				row = &roster.Roster{UserID: u.ID, DayOfWeek: req.DayOfWeek}
			}
			row.StartTime = optional(req.StartTime)
			row.EndTime = optional(req.EndTime)
			if _, err := s.RosterRepository.Upsert(ctx, *row); err != nil {
				return fmt.Errorf("failed to save roster row: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionRosterUpdated, fmt.Sprintf(
		"All employees %s %s-%s", req.DayOfWeek, req.StartTime, req.EndTime))
	return len(users), nil
}

func (s *RosterServiceImpl) weekOf(day time.Time) (time.Time, time.Time) {
	if day.IsZero() {
		return s.currentWeek()
	}
	return timeentry.WeekRange(timeentry.CivilDay(day, s.loc))
}

// BulkUpsertWeek applies board cells for active staff users. Cells for
// anyone else are ignored.
func (s *RosterServiceImpl) BulkUpsertWeek(ctx context.Context, actor user.Actor, req roster.BulkWeekRequest) (roster.BoardResponse, error) {
	if err := actor.Require(user.PermissionRosterManage); err != nil {
		return roster.BoardResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return roster.BoardResponse{}, err
	}

	monday, sunday := s.weekOf(req.Start)
	staff, err := s.UserRepository.List(ctx, user.UserFilter{ActiveOnly: true, StaffOnly: true})
	if err != nil {
		return roster.BoardResponse{}, fmt.Errorf("failed to list staff: %w", err)
	}
	byID := make(map[string]user.User, len(staff))
	for _, u := range staff {
		byID[u.ID] = u
	}

	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, cell := range req.Cells {
			u, ok := byID[cell.UserID]
			if !ok {
				continue
			}
			row, err := s.RosterRepository.Find(ctx, u.ID, cell.DayOfWeek, &monday)
			if err != nil {
				return fmt.Errorf("failed to find roster row: %w", err)
			}
			if row == nil {
				row = &roster.Roster{UserID: u.ID, DayOfWeek: cell.DayOfWeek, WeekStart: &monday, WeekEnd: &sunday}
			}
			row.StartTime = optional(cell.StartTime)
			row.EndTime = optional(cell.EndTime)
			row.SetOff(cell.IsOff)
			row.Notes = cell.Notes
			row.RoleTitle = u.Position
			if _, err := s.RosterRepository.Upsert(ctx, *row); err != nil {
				return fmt.Errorf("failed to save roster row: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return roster.BoardResponse{}, err
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionRosterUpdated, "Weekly roster updated for "+monday.Format("2006-01-02"))
	return s.board(ctx, monday, sunday, staff)
}

func (s *RosterServiceImpl) WeekBoard(ctx context.Context, actor user.Actor, day time.Time) (roster.BoardResponse, error) {
	if err := actor.Require(user.PermissionRosterManage); err != nil {
		return roster.BoardResponse{}, err
	}
	monday, sunday := s.weekOf(day)
	staff, err := s.UserRepository.List(ctx, user.UserFilter{ActiveOnly: true, StaffOnly: true})
	if err != nil {
		return roster.BoardResponse{}, fmt.Errorf("failed to list staff: %w", err)
	}
	return s.board(ctx, monday, sunday, staff)
}

func (s *RosterServiceImpl) board(ctx context.Context, monday, sunday time.Time, staff []user.User) (roster.BoardResponse, error) {
	rows, err := s.RosterRepository.ListByWeek(ctx, monday)
	if err != nil {
		return roster.BoardResponse{}, fmt.Errorf("failed to list weekly roster: %w", err)
	}
	roster.SortByDay(rows)

	resp := roster.BoardResponse{
		WeekStart: monday.Format("2006-01-02"),
		WeekEnd:   sunday.Format("2006-01-02"),
		Days:      roster.Days,
		Staff:     make([]roster.BoardStaff, 0, len(staff)),
		Entries:   roster.ToResponses(rows),
	}
	for _, u := range staff {
		resp.Staff = append(resp.Staff, roster.BoardStaff{UserID: u.ID, Name: u.Name, Position: u.Position})
	}
	return resp, nil
}
