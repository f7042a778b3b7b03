package schedule

import (
	"time"

	"github.com/dropbox/godropbox/time2"
)

// Manual is a virtual-time scheduler. Time only moves when Advance or
// RunUntilIdle is called, and due callbacks fire in order of due time, then
// scheduling order. It backs headless simulations and tests.
type Manual struct {
	clock  *time2.MockClock
	timers []*manualTimer
	seq    uint64
}

type manualTimer struct {
	due     time.Time
	seq     uint64
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// NewManual returns a scheduler whose virtual clock reads start.
func NewManual(start time.Time) *Manual {
	return &Manual{clock: time2.NewMockClock(start)}
}

// Clock returns the mock clock that tracks virtual time.
func (m *Manual) Clock() time2.Clock {
	return m.clock
}

func (m *Manual) Now() time.Time {
	return m.clock.Now()
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{due: m.clock.Now().Add(d), seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	return t
}

// Post schedules f at the current virtual time.
func (m *Manual) Post(f func()) bool {
	m.AfterFunc(0, f)
	return true
}

// Pending returns the number of callbacks still waiting to fire.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves virtual time forward by d, firing every callback that
// becomes due on the way, including ones scheduled by earlier callbacks.
// It returns how many callbacks fired.
func (m *Manual) Advance(d time.Duration) int {
	target := m.clock.Now().Add(d)
	fired := 0
	for {
		t := m.next()
		if t == nil || t.due.After(target) {
			break
		}
		m.fire(t)
		fired++
	}
	m.advanceTo(target)
	return fired
}

// RunUntilIdle fires callbacks in due order until none are pending or limit
// callbacks have fired. It returns how many fired.
func (m *Manual) RunUntilIdle(limit int) int {
	fired := 0
	for fired < limit {
		t := m.next()
		if t == nil {
			break
		}
		m.fire(t)
		fired++
	}
	return fired
}

func (m *Manual) fire(t *manualTimer) {
	m.advanceTo(t.due)
	t.stopped = true
	t.f()
}

func (m *Manual) next() *manualTimer {
	live := m.timers[:0]
	var best *manualTimer
	for _, t := range m.timers {
		if t.stopped {
			continue
		}
		live = append(live, t)
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && t.seq < best.seq) {
			best = t
		}
	}
	m.timers = live
	return best
}

func (m *Manual) advanceTo(ts time.Time) {
	if now := m.clock.Now(); ts.After(now) {
		m.clock.Advance(ts.Sub(now))
	}
}
