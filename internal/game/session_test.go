package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullSweep(width, height float64) []Point {
	var pts []Point
	for x := 0.0; x <= width; x += 20 {
		for y := 0.0; y <= height; y += 20 {
			pts = append(pts, Point{X: x, Y: y})
		}
	}
	return pts
}

func kinds(ms []Milestone) []MilestoneKind {
	out := make([]MilestoneKind, len(ms))
	for i, m := range ms {
		out[i] = m.Kind
	}
	return out
}

func TestSessionStartsOnFirstPage(t *testing.T) {
	s, _, rec := newTestSession(t)

	snap := s.Snapshot()
	assert.Equal(t, "s1", snap.Session)
	assert.Equal(t, 1, snap.Page)
	assert.Equal(t, Pages, snap.Pages)
	assert.Equal(t, KindWarmWelcome, snap.Kind)
	assert.True(t, snap.CanContinue)
	assert.False(t, snap.HasPrevious)

	require.Len(t, rec.events, 1)
	assert.Equal(t, []MilestoneKind{MilestoneStarted, MilestoneEntered}, kinds(rec.events[0].Milestones))
}

func TestSessionAdvanceAndRetreatClamp(t *testing.T) {
	s, _, _ := newTestSession(t)

	snap, err := s.Retreat()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Page)

	for i := 0; i < 8; i++ {
		snap, err = s.Advance()
		require.NoError(t, err)
	}
	assert.Equal(t, 9, snap.Page)
	assert.Equal(t, KindLetter, snap.Kind)

	snap, err = s.Advance()
	require.NoError(t, err)
	assert.Equal(t, 9, snap.Page)

	snap, err = s.Retreat()
	require.NoError(t, err)
	assert.Equal(t, 8, snap.Page)
}

func TestSessionContinueGate(t *testing.T) {
	s, _, _ := newTestSession(t)
	goTo(t, s, 3)

	_, err := s.Continue()
	assert.ErrorIs(t, err, ErrContinueLocked)
	assert.Equal(t, 3, s.Snapshot().Page)

	_, err = s.Scratch(fullSweep(720, 200))
	require.NoError(t, err)
	snap, err := s.ReleaseScratch()
	require.NoError(t, err)
	assert.True(t, snap.CanContinue)
	assert.True(t, snap.View.(ScratchView).Completed)

	snap, err = s.Continue()
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Page)
}

func TestSessionPreviousControl(t *testing.T) {
	s, _, _ := newTestSession(t)

	_, err := s.Previous()
	assert.ErrorIs(t, err, ErrNoPrevious)

	goTo(t, s, 2)
	snap, err := s.Previous()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Page)

	goTo(t, s, 8)
	assert.False(t, s.Snapshot().HasPrevious)
	_, err = s.Previous()
	assert.ErrorIs(t, err, ErrNoPrevious)
	assert.Equal(t, 8, s.Snapshot().Page)
}

func TestSessionRemountResetsPage(t *testing.T) {
	s, sched, _ := newTestSession(t)
	goTo(t, s, 4)

	snap, err := s.AnswerRiddle("a calendar")
	require.NoError(t, err)
	assert.Equal(t, RiddleWrong, snap.View.(RiddleView).Status)
	assert.Equal(t, 1, sched.Pending())

	_, err = s.Retreat()
	require.NoError(t, err)
	assert.Zero(t, sched.Pending())

	snap, err = s.Advance()
	require.NoError(t, err)
	v := snap.View.(RiddleView)
	assert.Equal(t, RiddleIdle, v.Status)
	assert.Empty(t, v.Message)
}

func TestSessionRiddleOpensByTimer(t *testing.T) {
	s, sched, rec := newTestSession(t)
	goTo(t, s, 4)

	_, err := s.AnswerRiddle("It's a deck of cards")
	require.NoError(t, err)
	before := len(rec.events)

	sched.Advance(2500 * time.Millisecond)
	snap := s.Snapshot()
	assert.True(t, snap.CanContinue)
	assert.Equal(t, RiddleOpened, snap.View.(RiddleView).Status)
	// one event per timer transition
	assert.Equal(t, before+2, len(rec.events))
	assert.Contains(t, kinds(rec.milestones()), MilestoneCompleted)

	snap, err = s.Continue()
	require.NoError(t, err)
	assert.Equal(t, KindMemory, snap.Kind)
}

func TestSessionCandleAutoAdvance(t *testing.T) {
	s, sched, rec := newTestSession(t)
	goTo(t, s, 8)

	_, err := s.Continue()
	assert.ErrorIs(t, err, ErrContinueLocked)

	snap, err := s.BlowCandle()
	require.NoError(t, err)
	assert.False(t, snap.View.(CandleView).Lit)
	assert.Equal(t, 8, snap.Page)

	sched.Advance(3 * time.Second)
	snap = s.Snapshot()
	assert.Equal(t, 9, snap.Page)
	assert.Equal(t, KindLetter, snap.Kind)

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, 9, last.Snapshot.Page)
	require.Len(t, last.Milestones, 1)
	assert.Equal(t, MilestoneEntered, last.Milestones[0].Kind)
	assert.Equal(t, KindLetter, last.Milestones[0].PageKind)

	// blowing again is impossible once the letter is mounted
	_, err = s.BlowCandle()
	assert.ErrorIs(t, err, ErrWrongPage)
}

func TestSessionTeardownCancelsCandle(t *testing.T) {
	s, sched, _ := newTestSession(t)
	goTo(t, s, 8)

	_, err := s.BlowCandle()
	require.NoError(t, err)
	_, err = s.Retreat()
	require.NoError(t, err)

	sched.Advance(time.Minute)
	assert.Equal(t, 7, s.Snapshot().Page)
}

func TestSessionWrongPage(t *testing.T) {
	s, _, _ := newTestSession(t)

	snap, err := s.SelectCard(0)
	assert.ErrorIs(t, err, ErrWrongPage)
	assert.ErrorContains(t, err, "warm_welcome")
	assert.Equal(t, 1, snap.Page)

	_, err = s.Search(1, 1, 100, 100)
	assert.ErrorIs(t, err, ErrWrongPage)
}

func TestSessionPageOperations(t *testing.T) {
	s, sched, _ := newTestSession(t)

	goTo(t, s, 5)
	snap, err := s.OpenCollection("memories")
	require.NoError(t, err)
	assert.Equal(t, "memories", snap.View.(GalleryView).Open)
	snap, err = s.PrevPhoto()
	require.NoError(t, err)
	assert.Equal(t, 8, snap.View.(GalleryView).Index)
	_, err = s.NextPhoto()
	require.NoError(t, err)
	snap, err = s.CloseCollection()
	require.NoError(t, err)
	assert.Nil(t, snap.View.(GalleryView).Photo)

	goTo(t, s, 6)
	snap, err = s.SelectCard(3)
	require.NoError(t, err)
	_, err = s.SelectCard(partner(3))
	require.NoError(t, err)
	sched.Advance(matchingClear)
	snap = s.Snapshot()
	assert.Equal(t, 1, snap.View.(MatchingView).Matched)
	assert.True(t, snap.CanContinue)

	goTo(t, s, 7)
	_, err = s.Search(10, 10, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidScene)
	snap, err = s.Reroll()
	require.NoError(t, err)
	assert.Zero(t, snap.View.(HuntView).Attempts)

	goTo(t, s, 9)
	snap, err = s.OpenLetter()
	require.NoError(t, err)
	assert.True(t, snap.View.(LetterView).Opened)
}

func TestSessionClose(t *testing.T) {
	s, sched, rec := newTestSession(t)
	goTo(t, s, 4)
	_, err := s.AnswerRiddle("deck of cards")
	require.NoError(t, err)

	s.Close()
	s.Close()
	sched.Advance(time.Minute)

	_, err = s.Advance()
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.NotEqual(t, RiddleOpened, s.Snapshot().View.(RiddleView).Status)

	ms := rec.milestones()
	assert.Equal(t, MilestoneEnded, ms[len(ms)-1].Kind)
	assert.Equal(t, 1, countKind(ms, MilestoneEnded))
}

func TestSessionVersionIncreases(t *testing.T) {
	s, sched, rec := newTestSession(t)
	goTo(t, s, 6)
	_, _ = s.SelectCard(0)
	_, _ = s.SelectCard(1)
	sched.Advance(matchingClear)
	s.Close()

	for i := 1; i < len(rec.events); i++ {
		assert.Greater(t, rec.events[i].Snapshot.Version, rec.events[i-1].Snapshot.Version)
	}
}

func TestSessionObserverMayCallBack(t *testing.T) {
	var s *Session
	pages := []int{}
	s = NewSession("cb", testScript(t), Options{
		Scheduler: NewManualScheduler(),
		RNG:       NewRNG(1),
		OnEvent: func(ev Event) {
			if s != nil {
				pages = append(pages, s.Snapshot().Page)
			}
		},
	})
	_, err := s.Advance()
	require.NoError(t, err)
	assert.Equal(t, []int{2}, pages)
}

func countKind(ms []Milestone, kind MilestoneKind) int {
	n := 0
	for _, m := range ms {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

func TestViewportWidthIsClamped(t *testing.T) {
	cases := []struct {
		viewport int
		want     int
	}{
		{0, 720},
		{10, 288},
		{1_000_000_000, 3456},
	}
	for _, tc := range cases {
		s := NewSession("v", testScript(t), Options{
			Scheduler:     NewManualScheduler(),
			RNG:           NewRNG(1),
			ViewportWidth: tc.viewport,
		})
		goTo(t, s, 3)
		v := s.Snapshot().View.(ScratchView)
		assert.Equal(t, tc.want, v.Width, "viewport %d", tc.viewport)
		assert.Equal(t, scratchHeight, v.Height)
	}
}

func TestScratchRejectsOversizedStroke(t *testing.T) {
	s, _, _ := newTestSession(t)
	goTo(t, s, 3)

	_, err := s.Scratch(make([]Point, MaxStrokePoints+1))
	require.ErrorIs(t, err, ErrStrokeTooLong)
	snap, err := s.ReleaseScratch()
	require.NoError(t, err)
	assert.Zero(t, snap.View.(ScratchView).Fraction)

	_, err = s.Scratch(make([]Point, MaxStrokePoints))
	require.NoError(t, err)
}
