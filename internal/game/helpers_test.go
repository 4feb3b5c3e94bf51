package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gicheruj/birthday-present/internal/content"
)

func testScript(t *testing.T) *Script {
	t.Helper()
	script, err := NewScript(content.Default())
	require.NoError(t, err)
	return script
}

// inlineTasks runs callbacks directly, standing in for the session lock.
func inlineTasks(sched Scheduler) *tasks {
	return newTasks(sched, func(f func()) { f() })
}

type recorder struct {
	events []Event
}

func (r *recorder) record(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) milestones() []Milestone {
	var out []Milestone
	for _, ev := range r.events {
		out = append(out, ev.Milestones...)
	}
	return out
}

func newTestSession(t *testing.T) (*Session, *ManualScheduler, *recorder) {
	t.Helper()
	sched := NewManualScheduler()
	rec := &recorder{}
	clock := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	s := NewSession("s1", testScript(t), Options{
		Scheduler: sched,
		RNG:       NewRNG(42),
		OnEvent:   rec.record,
		Now:       func() time.Time { return clock },
	})
	return s, sched, rec
}

// goTo moves a fresh session to page n with raw advances.
func goTo(t *testing.T, s *Session, n int) {
	t.Helper()
	for s.Snapshot().Page < n {
		_, err := s.Advance()
		require.NoError(t, err)
	}
	require.Equal(t, n, s.Snapshot().Page)
}
