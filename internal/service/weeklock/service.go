package weeklock

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/weeklock"
)

type LedgerImpl struct {
	weeklock.WeekApprovalRepository
}

func NewLedger(repo weeklock.WeekApprovalRepository) weeklock.Ledger {
	return &LedgerImpl{WeekApprovalRepository: repo}
}

func (l *LedgerImpl) state(ctx context.Context, userID string, week weeklock.Week) (weeklock.State, *weeklock.WeekApproval, error) {
	row, err := l.WeekApprovalRepository.GetByUserWeek(ctx, userID, week.Start)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get week approval: %w", err)
	}
	if row == nil || row.State == "" {
		return weeklock.StateUnlocked, row, nil
	}
	return row.State, row, nil
}

func (l *LedgerImpl) IsLocked(ctx context.Context, userID string, day time.Time) (bool, error) {
	st, _, err := l.state(ctx, userID, weeklock.WeekOf(day))
	if err != nil {
		return false, err
	}
	return st == weeklock.StateLocked, nil
}

func (l *LedgerImpl) EnsureUnlocked(ctx context.Context, userID string, day time.Time) error {
	locked, err := l.IsLocked(ctx, userID, day)
	if err != nil {
		return err
	}
	if locked {
		return weeklock.ErrWeekLocked
	}
	return nil
}

func (l *LedgerImpl) Lock(ctx context.Context, userID string, day time.Time, by string, at time.Time) (weeklock.WeekApproval, error) {
	week := weeklock.WeekOf(day)
	current, row, err := l.state(ctx, userID, week)
	if err != nil {
		return weeklock.WeekApproval{}, err
	}

	next, err := weeklock.Next(current, weeklock.EventLock)
	if err != nil {
		return weeklock.WeekApproval{}, err
	}

	approval := weeklock.WeekApproval{UserID: userID, WeekStart: week.Start, WeekEnd: week.End}
	if row != nil {
		approval = *row
	}
	approval.State = next
	approval.ApprovedBy = &by
	approval.ApprovedAt = &at

	saved, err := l.WeekApprovalRepository.Upsert(ctx, approval)
	if err != nil {
		return weeklock.WeekApproval{}, fmt.Errorf("failed to lock week: %w", err)
	}
	return saved, nil
}

func (l *LedgerImpl) LockedUsers(ctx context.Context, weekStart time.Time) (map[string]bool, error) {
	rows, err := l.WeekApprovalRepository.ListByWeek(ctx, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to list week approvals: %w", err)
	}
	locked := make(map[string]bool, len(rows))
	for _, r := range rows {
		if r.IsLocked() {
			locked[r.UserID] = true
		}
	}
	return locked, nil
}
