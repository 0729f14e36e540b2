package clock

import (
	"sync"
	"time"
)

// Clock supplies recordedAt and audit timestamps.
type Clock interface {
	Now() time.Time
}

// Monotonic hands out strictly increasing timestamps at microsecond resolution, the
// finest precision every store adapter keeps. Two calls in the same microsecond are
// pushed one microsecond apart so append order always matches recordedAt order.
type Monotonic struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func NewMonotonic(now func() time.Time) *Monotonic {
	if now == nil {
		now = time.Now
	}
	return &Monotonic{now: now}
}

func (m *Monotonic) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.now().Round(0).Truncate(time.Microsecond)
	if !t.After(m.last) {
		t = m.last.Add(time.Microsecond)
	}
	m.last = t
	return t
}
