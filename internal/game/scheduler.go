// internal/game/scheduler.go
//
// Delayed work for pages (riddle reverts, matching clears, door animation,
// candle auto-advance).
//
// Every mounted page owns a task group. Tearing the page down stops the
// group, so no callback can touch a page after it was navigated away from.

package game

import (
	"sort"
	"sync"
	"time"
)

// Task is a pending callback.
type Task interface {
	// Stop prevents the callback from running; it reports whether the call
	// stopped it (false if it already ran or was stopped).
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

type wallScheduler struct{}

// WallClock returns a Scheduler backed by time.AfterFunc.
func WallClock() Scheduler { return wallScheduler{} }

func (wallScheduler) AfterFunc(d time.Duration, f func()) Task { return time.AfterFunc(d, f) }

// ManualScheduler runs callbacks only when virtual time is advanced.
// Used by tests and by deterministic replays.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTask
}

type manualTask struct {
	s    *ManualScheduler
	at   time.Duration
	seq  int
	f    func()
	done bool
}

func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTask{s: s, at: s.now + d, seq: s.seq, f: f}
	s.pending = append(s.pending, t)
	return t
}

func (t *manualTask) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// Advance moves virtual time forward by d, running every callback that
// falls due in order. Callbacks scheduled while advancing run too if they
// fall due before the new time.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		next.done = true
		s.now = next.at
		s.mu.Unlock()
		next.f()
		s.mu.Lock()
	}
	s.now = target
	s.mu.Unlock()
}

// Pending reports how many callbacks are still waiting.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.done {
			n++
		}
	}
	return n
}

// nextDue must be called with s.mu held.
func (s *ManualScheduler) nextDue(limit time.Duration) *manualTask {
	live := s.pending[:0]
	for _, t := range s.pending {
		if !t.done {
			live = append(live, t)
		}
	}
	s.pending = live
	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].at != s.pending[j].at {
			return s.pending[i].at < s.pending[j].at
		}
		return s.pending[i].seq < s.pending[j].seq
	})
	if len(s.pending) == 0 || s.pending[0].at > limit {
		return nil
	}
	return s.pending[0]
}

// tasks is the task group of one mounted page. It is not safe for
// concurrent use on its own; the owning session serialises access, and
// run wraps every callback with the session lock.
type tasks struct {
	sched   Scheduler
	run     func(f func())
	pending map[int]Task
	next    int
	stopped bool
}

func newTasks(sched Scheduler, run func(f func())) *tasks {
	return &tasks{sched: sched, run: run, pending: make(map[int]Task)}
}

// after schedules f and returns a handle for cancel. Returns -1 once the
// group is stopped.
func (t *tasks) after(d time.Duration, f func()) int {
	if t.stopped {
		return -1
	}
	id := t.next
	t.next++
	t.pending[id] = t.sched.AfterFunc(d, func() {
		t.run(func() {
			if _, ok := t.pending[id]; !ok || t.stopped {
				return
			}
			delete(t.pending, id)
			f()
		})
	})
	return id
}

func (t *tasks) cancel(id int) {
	if task, ok := t.pending[id]; ok {
		task.Stop()
		delete(t.pending, id)
	}
}

func (t *tasks) stopAll() {
	t.stopped = true
	for id, task := range t.pending {
		task.Stop()
		delete(t.pending, id)
	}
}

func (t *tasks) len() int { return len(t.pending) }
