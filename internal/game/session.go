// internal/game/session.go
//
// Page sequencing controller for one visitor.
//
// Responsibilities:
//   - Hold the current page index (1..Pages) and the mounted page instance.
//   - Raw transitions (Advance/Retreat) and the page affordances built on
//     them (Continue/Previous).
//   - Mount a fresh page on every index change and tear the old one down,
//     stopping its pending tasks.
//   - Route page operations to the mounted page (ErrWrongPage otherwise).
//   - Report snapshots and milestones to an observer after every change,
//     including timer-driven ones.
//
// Notes:
//   - A Session is safe for concurrent use; page code always runs under mu.
//   - The observer is called without mu held, so it may call back in.

package game

import (
	"fmt"
	"sync"
	"time"
)

// DefaultViewportWidth is assumed when a client does not report its width.
// Reported widths are clamped to [MinViewportWidth, MaxViewportWidth].
const (
	DefaultViewportWidth = 800
	MinViewportWidth     = 320
	MaxViewportWidth     = 3840
)

// MaxStrokePoints bounds the points accepted in one scratch stroke.
const MaxStrokePoints = 2048

// Options configures a session. Zero values pick wall-clock scheduling,
// a random seed and DefaultViewportWidth.
type Options struct {
	Scheduler     Scheduler
	RNG           RNG
	ViewportWidth int
	OnEvent       func(Event)
	Now           func() time.Time
}

type Session struct {
	id       string
	script   *Script
	sched    Scheduler
	rng      RNG
	viewport int
	onEvent  func(Event)
	now      func() time.Time

	mu      sync.Mutex
	page    int
	current Page
	tasks   *tasks
	done    bool
	closed  bool
	pending []Milestone
	touched time.Time
	version uint64
}

// NewSession starts a session on page 1.
func NewSession(id string, script *Script, opts Options) *Session {
	s := &Session{
		id:       id,
		script:   script,
		sched:    opts.Scheduler,
		rng:      opts.RNG,
		viewport: opts.ViewportWidth,
		onEvent:  opts.OnEvent,
		now:      opts.Now,
		page:     1,
	}
	if s.sched == nil {
		s.sched = WallClock()
	}
	if s.rng == nil {
		s.rng = NewRNG(0)
	}
	if s.viewport <= 0 {
		s.viewport = DefaultViewportWidth
	}
	s.viewport = clampInt(s.viewport, MinViewportWidth, MaxViewportWidth)
	if s.now == nil {
		s.now = time.Now
	}

	s.mu.Lock()
	s.milestone(MilestoneStarted)
	s.mountLocked(1)
	ev := s.settleLocked()
	s.mu.Unlock()
	s.emit(ev)
	return s
}

func (s *Session) ID() string { return s.id }

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// LastActive is the time of the last operation or timer transition.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// Advance moves to the next page regardless of the completion gate.
func (s *Session) Advance() (Snapshot, error) {
	return s.update(func() error {
		s.moveLocked(NavForward)
		return nil
	})
}

// Retreat moves to the previous page regardless of the page controls.
func (s *Session) Retreat() (Snapshot, error) {
	return s.update(func() error {
		s.moveLocked(NavBack)
		return nil
	})
}

// Continue presses the active page's continue control.
func (s *Session) Continue() (Snapshot, error) {
	return s.update(func() error {
		if !s.current.CanContinue() {
			return fmt.Errorf("%w: %s", ErrContinueLocked, s.current.Kind())
		}
		s.moveLocked(NavForward)
		return nil
	})
}

// Previous presses the active page's previous control.
func (s *Session) Previous() (Snapshot, error) {
	return s.update(func() error {
		if !sequence[s.page-1].hasPrevious {
			return fmt.Errorf("%w: %s", ErrNoPrevious, s.current.Kind())
		}
		s.moveLocked(NavBack)
		return nil
	})
}

// Close tears the active page down. Later calls fail with ErrSessionClosed.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.tasks.stopAll()
	s.closed = true
	s.version++
	s.milestone(MilestoneEnded)
	ev := Event{Snapshot: s.snapshotLocked(), Milestones: s.pending}
	s.pending = nil
	s.mu.Unlock()
	s.emit(ev)
}

// ---------------------------- page operations ------------------------------

func (s *Session) Scratch(points []Point) (Snapshot, error) {
	return onPage(s, func(p *Scratch) error {
		if len(points) > MaxStrokePoints {
			return fmt.Errorf("%w: %d points", ErrStrokeTooLong, len(points))
		}
		p.Stroke(points)
		return nil
	})
}

func (s *Session) ReleaseScratch() (Snapshot, error) {
	return onPage(s, func(p *Scratch) error {
		p.Release()
		return nil
	})
}

func (s *Session) AnswerRiddle(answer string) (Snapshot, error) {
	return onPage(s, func(p *Riddle) error {
		p.Submit(answer)
		return nil
	})
}

func (s *Session) OpenCollection(id string) (Snapshot, error) {
	return onPage(s, func(p *Gallery) error { return p.Open(id) })
}

func (s *Session) CloseCollection() (Snapshot, error) {
	return onPage(s, func(p *Gallery) error {
		p.Close()
		return nil
	})
}

func (s *Session) NextPhoto() (Snapshot, error) {
	return onPage(s, func(p *Gallery) error { return p.Next() })
}

func (s *Session) PrevPhoto() (Snapshot, error) {
	return onPage(s, func(p *Gallery) error { return p.Prev() })
}

func (s *Session) SelectCard(instance int) (Snapshot, error) {
	return onPage(s, func(p *Matching) error { return p.Select(instance) })
}

func (s *Session) Search(x, y, width, height float64) (Snapshot, error) {
	return onPage(s, func(p *Hunt) error {
		_, err := p.Click(x, y, width, height)
		return err
	})
}

func (s *Session) Reroll() (Snapshot, error) {
	return onPage(s, func(p *Hunt) error { return p.Reroll() })
}

func (s *Session) BlowCandle() (Snapshot, error) {
	return onPage(s, func(p *Candle) error {
		p.Blow()
		return nil
	})
}

func (s *Session) OpenLetter() (Snapshot, error) {
	return onPage(s, func(p *Letter) error {
		p.Open()
		return nil
	})
}

func onPage[P Page](s *Session, fn func(P) error) (Snapshot, error) {
	return s.update(func() error {
		p, ok := s.current.(P)
		if !ok {
			return fmt.Errorf("%w: %s is active", ErrWrongPage, s.current.Kind())
		}
		return fn(p)
	})
}

// ------------------------------- internals ---------------------------------

func (s *Session) update(fn func() error) (Snapshot, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Snapshot{}, ErrSessionClosed
	}
	err := fn()
	ev := s.settleLocked()
	s.mu.Unlock()
	s.emit(ev)
	return ev.Snapshot, err
}

// runTask is the lock wrapper for page tasks.
func (s *Session) runTask(f func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	f()
	ev := s.settleLocked()
	s.mu.Unlock()
	s.emit(ev)
}

func (s *Session) moveLocked(nav Nav) {
	next := Step(s.page, nav)
	if next == s.page {
		return
	}
	s.mountLocked(next)
}

// advanceLocked is handed to pages that move on by themselves (candle).
// It is only ever called from a task, so mu is already held.
func (s *Session) advanceLocked() { s.moveLocked(NavForward) }

func (s *Session) mountLocked(page int) {
	if s.tasks != nil {
		s.tasks.stopAll()
	}
	s.page = page
	s.tasks = newTasks(s.sched, s.runTask)
	s.current = sequence[page-1].mount(mountCtx{
		script:   s.script,
		rng:      s.rng,
		tasks:    s.tasks,
		viewport: s.viewport,
		advance:  s.advanceLocked,
	})
	s.done = s.current.Completed()
	s.milestone(MilestoneEntered)
}

func (s *Session) settleLocked() Event {
	if done := s.current.Completed(); done != s.done {
		if done {
			s.milestone(MilestoneCompleted)
		}
		s.done = done
	}
	s.touched = s.now()
	s.version++
	ev := Event{Snapshot: s.snapshotLocked(), Milestones: s.pending}
	s.pending = nil
	return ev
}

func (s *Session) milestone(kind MilestoneKind) {
	s.pending = append(s.pending, Milestone{
		Session:  s.id,
		Kind:     kind,
		Page:     s.page,
		PageKind: KindOf(s.page),
		At:       s.now(),
	})
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Session:     s.id,
		Version:     s.version,
		Page:        s.page,
		Pages:       Pages,
		Kind:        s.current.Kind(),
		CanContinue: s.current.CanContinue(),
		HasPrevious: sequence[s.page-1].hasPrevious,
		View:        s.current.View(),
	}
}

func (s *Session) emit(ev Event) {
	if s.onEvent != nil {
		s.onEvent(ev)
	}
}
