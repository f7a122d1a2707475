package daystore

import (
	"sync"
	"time"

	"github.com/pulsemon/pulsemon/internal/domain"
	"github.com/pulsemon/pulsemon/internal/stats"
)

// Store owns the active day bucket and the history of completed days.
// All mutation goes through Record; Snapshot hands out copies, so a
// reader never observes a half-appended bucket.
type Store struct {
	mu      sync.RWMutex
	loc     *time.Location
	now     func() time.Time
	active  domain.DayBucket
	history []domain.DayBucket // most recent first
}

func New(loc *time.Location) *Store {
	return NewWithClock(loc, time.Now)
}

// NewWithClock lets tests control the wall clock.
func NewWithClock(loc *time.Location, now func() time.Time) *Store {
	if loc == nil {
		loc = time.Local
	}
	s := &Store{loc: loc, now: now}
	start := now()
	s.active = newBucket(domain.DayKeyOf(start, loc), start)
	return s
}

func newBucket(day domain.DayKey, startedAt time.Time) domain.DayBucket {
	return domain.DayBucket{
		Day:       day,
		StartedAt: startedAt,
		Log:       make([]domain.CheckResult, 0, 64),
		Summary:   stats.Summarize(nil),
	}
}

// Record appends one result to the current day, rolling the active bucket
// into history first if the calendar day has advanced. It reports whether
// a rollover happened. The rollover runs before the append, so a result
// whose probe was dispatched before midnight still lands in the bucket of
// the day observed now. A gap of more than one day rolls over exactly
// once, dated to the current day.
func (s *Store) Record(r domain.CheckResult) (rolledOver bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	today := domain.DayKeyOf(now, s.loc)
	if today != s.active.Day {
		s.history = append([]domain.DayBucket{s.active}, s.history...)
		s.active = newBucket(today, now)
		rolledOver = true
	}

	s.active.Log = append(s.active.Log, r)
	s.active.Summary = stats.Summarize(s.active.Log)
	return rolledOver
}

// Snapshot returns a point-in-time copy of the store state.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := make([]domain.DayBucket, 0, len(s.history)+1)
	days = append(days, copyBucket(s.active))
	for _, b := range s.history {
		days = append(days, copyBucket(b))
	}
	return domain.Snapshot{Current: copyBucket(s.active), Days: days}
}

// Days returns the day list alone, active bucket first.
func (s *Store) Days() []domain.DayBucket {
	return s.Snapshot().Days
}

// Summary returns the active bucket's current summary.
func (s *Store) Summary() domain.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Summary
}

func copyBucket(b domain.DayBucket) domain.DayBucket {
	out := b
	out.Log = make([]domain.CheckResult, len(b.Log))
	copy(out.Log, b.Log)
	return out
}
