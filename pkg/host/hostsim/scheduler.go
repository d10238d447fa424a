package hostsim

import (
	"context"
	"sync"
	"time"
)

// DefaultTickRate is the simulated game tick frequency in Hz.
const DefaultTickRate = 20

// Scheduler is a deterministic implementation of host.Scheduler. Tests
// drive it with Advance; the daemon drives it from a wall-clock ticker
// via Run. Tasks fire in registration order within a tick.
type Scheduler struct {
	mu    sync.Mutex
	tick  int64
	seq   int
	tasks map[int]*task
	order []int
}

type task struct {
	fn     func()
	period int
	next   int64
}

// NewScheduler creates a scheduler at tick zero with no tasks.
func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make(map[int]*task)}
}

// ScheduleRepeating runs fn every periodTicks ticks, first firing
// periodTicks from now. The returned stop function cancels the task
// and is safe to call more than once.
func (s *Scheduler) ScheduleRepeating(fn func(), periodTicks int) func() {
	if periodTicks < 1 {
		periodTicks = 1
	}
	s.mu.Lock()
	s.seq++
	id := s.seq
	s.tasks[id] = &task{fn: fn, period: periodTicks, next: s.tick + int64(periodTicks)}
	s.order = append(s.order, id)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.tasks[id]; !ok {
			return
		}
		delete(s.tasks, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// ActiveTasks returns how many recurring tasks are currently live.
func (s *Scheduler) ActiveTasks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Tick returns the current tick count.
func (s *Scheduler) Tick() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Advance moves the clock forward n ticks, firing due tasks as each
// tick elapses. A task cancelled by an earlier callback in the same
// tick does not fire.
func (s *Scheduler) Advance(n int) {
	for i := 0; i < n; i++ {
		s.mu.Lock()
		s.tick++
		var due []int
		for _, id := range s.order {
			t := s.tasks[id]
			if t != nil && t.next <= s.tick {
				t.next += int64(t.period)
				due = append(due, id)
			}
		}
		s.mu.Unlock()

		for _, id := range due {
			s.mu.Lock()
			t, ok := s.tasks[id]
			s.mu.Unlock()
			if ok {
				t.fn()
			}
		}
	}
}

// Run advances the scheduler from a wall-clock ticker until ctx is
// cancelled. tickHz values below 1 fall back to DefaultTickRate.
func (s *Scheduler) Run(ctx context.Context, tickHz int) {
	if tickHz < 1 {
		tickHz = DefaultTickRate
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickHz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Advance(1)
		}
	}
}
