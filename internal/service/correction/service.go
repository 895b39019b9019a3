package correction

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/correction"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/weeklock"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/metrics"
)

type CorrectionServiceImpl struct {
	db database.Transactor
	correction.CorrectionRepository
	timeentry.TimeEntryRepository
	ledger  weeklock.Ledger
	audit   audit.Recorder
	metrics *metrics.Metrics
	loc     *time.Location
	now     func() time.Time
}

func NewCorrectionService(
	db database.Transactor,
	corrections correction.CorrectionRepository,
	entries timeentry.TimeEntryRepository,
	ledger weeklock.Ledger,
	recorder audit.Recorder,
	m *metrics.Metrics,
	loc *time.Location,
) correction.CorrectionService {
	return &CorrectionServiceImpl{
		db:                   db,
		CorrectionRepository: corrections,
		TimeEntryRepository:  entries,
		ledger:               ledger,
		audit:                recorder,
		metrics:              m,
		loc:                  loc,
		now:                  time.Now,
	}
}

func toResponses(items []correction.CorrectionRequest) []correction.CorrectionResponse {
	resp := make([]correction.CorrectionResponse, 0, len(items))
	for _, c := range items {
		resp = append(resp, correction.ToResponse(c))
	}
	return resp
}

func (s *CorrectionServiceImpl) Submit(ctx context.Context, actor user.Actor, req correction.SubmitRequest) (correction.CorrectionResponse, error) {
	if err := actor.Require(user.PermissionCorrectionOwn); err != nil {
		return correction.CorrectionResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	req.Day = timeentry.CivilDay(req.Day, s.loc)
	if err := s.ledger.EnsureUnlocked(ctx, actor.UserID, req.Day); err != nil {
		return correction.CorrectionResponse{}, err
	}

	created, err := s.CorrectionRepository.Create(ctx, req.ToEntity(actor.UserID))
	if err != nil {
		return correction.CorrectionResponse{}, fmt.Errorf("failed to create correction request: %w", err)
	}

	s.audit.Record(ctx, actor.UserID, audit.ActionCorrectionRequested, "Correction for "+req.Day.Format("2006-01-02"))
	return correction.ToResponse(created), nil
}

func (s *CorrectionServiceImpl) ListMine(ctx context.Context, actor user.Actor) ([]correction.CorrectionResponse, error) {
	if err := actor.Require(user.PermissionCorrectionOwn); err != nil {
		return nil, err
	}
	items, err := s.CorrectionRepository.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list correction requests: %w", err)
	}
	return toResponses(items), nil
}

func (s *CorrectionServiceImpl) ListPending(ctx context.Context, actor user.Actor) ([]correction.CorrectionResponse, error) {
	if err := actor.Require(user.PermissionCorrectionApprove); err != nil {
		return nil, err
	}
	items, err := s.CorrectionRepository.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending corrections: %w", err)
	}
	return toResponses(items), nil
}

func (s *CorrectionServiceImpl) Review(ctx context.Context, actor user.Actor, req correction.ReviewRequest) (correction.CorrectionResponse, error) {
	if err := actor.Require(user.PermissionCorrectionApprove); err != nil {
		return correction.CorrectionResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	request, err := s.CorrectionRepository.GetByID(ctx, req.ID)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}
	if !request.IsPending() {
		return correction.CorrectionResponse{}, correction.ErrAlreadyReviewed
	}

	day := timeentry.CivilDay(request.Day, s.loc)
	if req.Decision == correction.DecisionApprove {
		if err := s.ledger.EnsureUnlocked(ctx, request.UserID, day); err != nil {
			return correction.CorrectionResponse{}, err
		}
	}

	reviewedAt := s.now().Truncate(time.Second)
	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if req.Decision == correction.DecisionApprove {
			if err := s.applyToEntry(ctx, request, day); err != nil {
				return err
			}
			request.Status = correction.StatusApproved
		} else {
			request.Status = correction.StatusRejected
		}
		reviewer := actor.UserID
		request.ReviewedBy = &reviewer
		request.ReviewedAt = &reviewedAt
		if err := s.CorrectionRepository.UpdateStatus(ctx, request); err != nil {
			return fmt.Errorf("failed to update correction request: %w", err)
		}
		return nil
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	s.metrics.ObserveReview("correction", string(req.Decision))
	s.audit.Record(ctx, actor.UserID, audit.ActionCorrectionReviewed, fmt.Sprintf(
		"Correction %s for %s on %s", request.Status, request.UserName, day.Format("2006-01-02")))
	return correction.ToResponse(request), nil
}

// applyToEntry writes every requested time onto the day's entry, creating it
// when needed. A resulting order violation aborts the surrounding unit.
func (s *CorrectionServiceImpl) applyToEntry(ctx context.Context, request correction.CorrectionRequest, day time.Time) error {
	existing, err := s.TimeEntryRepository.GetByUserAndDay(ctx, request.UserID, day)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}
	if existing == nil {
		created, err := s.TimeEntryRepository.Create(ctx, timeentry.TimeEntry{
			UserID: request.UserID,
			Day:    day,
			Status: timeentry.StatusPending,
		})
		if err != nil {
			return fmt.Errorf("failed to create entry: %w", err)
		}
		existing = &created
	}
	entry := *existing
	entry.Day = day

	set := func(dst **time.Time, hhmm *string) {
		if hhmm == nil || *hhmm == "" {
			return
		}
		if t := timeentry.ClockOn(entry, *hhmm); t != nil {
			*dst = t
		}
	}
	set(&entry.ClockIn, request.RequestedClockIn)
	set(&entry.ClockOut, request.RequestedClockOut)
	set(&entry.LunchStart, request.RequestedLunchStart)
	set(&entry.LunchEnd, request.RequestedLunchEnd)

	if err := timeentry.ValidateOrder(entry); err != nil {
		return err
	}
	return s.TimeEntryRepository.Update(ctx, entry)
}
