// Package memory keeps every repository in process memory. It backs
// DB_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/correction"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/handover"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/leave"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/passwordreset"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/roster"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/settings"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/weeklock"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/database"
	"github.com/google/uuid"
)

type state struct {
	users       map[string]user.User
	entries     map[string]timeentry.TimeEntry
	weeks       map[string]weeklock.WeekApproval
	corrections map[string]correction.CorrectionRequest
	leaves      map[string]leave.LeaveRequest
	rosters     map[string]roster.Roster
	tokens      map[string]passwordreset.Token
	settings    *settings.Settings
	logs        []audit.ActivityLog
	handovers   []handover.Message
}

// Store holds all tables. Reads and writes take mu; WithinTransaction
// serializes units of work on txMu and, on error, undoes only the writes
// made through its own ctx.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	st   state
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		st: state{
			users:       map[string]user.User{},
			entries:     map[string]timeentry.TimeEntry{},
			weeks:       map[string]weeklock.WeekApproval{},
			corrections: map[string]correction.CorrectionRequest{},
			leaves:      map[string]leave.LeaveRequest{},
			rosters:     map[string]roster.Roster{},
			tokens:      map[string]passwordreset.Token{},
		},
		now: time.Now,
	}
}

// SetClock overrides the clock used for created/updated stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func newID() string {
	return uuid.New().String()
}

type txKey struct{}

// journal collects the undo steps of one unit of work.
type journal struct {
	undo []func()
}

func journalFrom(ctx context.Context) *journal {
	j, _ := ctx.Value(txKey{}).(*journal)
	return j
}

// record registers an undo step when ctx belongs to a unit of work.
// Callers hold mu.
func record(ctx context.Context, undo func()) {
	if j := journalFrom(ctx); j != nil {
		j.undo = append(j.undo, undo)
	}
}

// put stores m[k] = v and journals the previous value.
func put[K comparable, V any](ctx context.Context, m map[K]V, k K, v V) {
	if journalFrom(ctx) != nil {
		old, had := m[k]
		record(ctx, func() {
			if had {
				m[k] = old
			} else {
				delete(m, k)
			}
		})
	}
	m[k] = v
}

// remove deletes m[k] and journals the removed value.
func remove[K comparable, V any](ctx context.Context, m map[K]V, k K) {
	if old, had := m[k]; had {
		record(ctx, func() { m[k] = old })
	}
	delete(m, k)
}

func (s *Store) setSettings(ctx context.Context, v *settings.Settings) {
	old := s.st.settings
	record(ctx, func() { s.st.settings = old })
	s.st.settings = v
}

type transactor struct {
	s *Store
}

// Transactor returns the unit-of-work runner for this store.
func (s *Store) Transactor() database.Transactor {
	return &transactor{s: s}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if journalFrom(ctx) != nil {
		return fn(ctx)
	}

	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	j := &journal{}
	if err := fn(context.WithValue(ctx, txKey{}, j)); err != nil {
		t.s.mu.Lock()
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
		t.s.mu.Unlock()
		return err
	}
	return nil
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func inRange(day, from, to time.Time) bool {
	d := dateKey(day)
	return d >= dateKey(from) && d <= dateKey(to)
}

func (s *Store) userName(id string) string {
	return s.st.users[id].Name
}
