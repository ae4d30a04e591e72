package interact

import (
	"sort"
	"time"
)

// Scheduler runs periodic callbacks for auto-pan.
type Scheduler interface {
	// Every calls fn every d until the returned stop function is called.
	Every(d time.Duration, fn func()) (stop func())
}

// ManualScheduler is a [Scheduler] whose clock only moves when Advance is
// called. Callbacks run on the caller's goroutine, which keeps gestures
// single-threaded.
type ManualScheduler struct {
	now   time.Duration
	next  int
	tasks map[int]*task
}

type task struct {
	every time.Duration
	due   time.Duration
	fn    func()
}

// NewManualScheduler creates a scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{tasks: make(map[int]*task)}
}

// Every implements [Scheduler].
func (m *ManualScheduler) Every(d time.Duration, fn func()) func() {
	if d <= 0 {
		d = time.Millisecond
	}
	id := m.next
	m.next++
	m.tasks[id] = &task{every: d, due: m.now + d, fn: fn}
	return func() { delete(m.tasks, id) }
}

// Advance moves the clock forward by d, firing every task that comes due in
// time order. A task stopped by an earlier callback does not fire.
func (m *ManualScheduler) Advance(d time.Duration) {
	end := m.now + d
	for {
		id, t, ok := m.earliest(end)
		if !ok {
			break
		}
		m.now = t.due
		t.due += t.every
		if _, live := m.tasks[id]; live {
			t.fn()
		}
	}
	m.now = end
}

func (m *ManualScheduler) earliest(end time.Duration) (int, *task, bool) {
	ids := make([]int, 0, len(m.tasks))
	for id := range m.tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	best := -1
	for _, id := range ids {
		t := m.tasks[id]
		if t.due > end {
			continue
		}
		if best < 0 || t.due < m.tasks[best].due {
			best = id
		}
	}
	if best < 0 {
		return 0, nil, false
	}
	return best, m.tasks[best], true
}

// Pending returns the number of running tasks.
func (m *ManualScheduler) Pending() int { return len(m.tasks) }

// Now returns the scheduler clock.
func (m *ManualScheduler) Now() time.Duration { return m.now }
