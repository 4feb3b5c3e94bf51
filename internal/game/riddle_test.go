package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gicheruj/birthday-present/internal/content"
)

func newTestRiddle(t *testing.T) (*Riddle, *ManualScheduler) {
	t.Helper()
	accept, err := CompileAnswer(content.Default().Riddle.Accept)
	require.NoError(t, err)
	sched := NewManualScheduler()
	return NewRiddle(content.Default().Riddle, accept, inlineTasks(sched)), sched
}

func TestRiddleCorrectOpensDoor(t *testing.T) {
	r, sched := newTestRiddle(t)

	assert.Equal(t, RiddleCorrect, r.Submit("it has 13 hearts and is a deck of cards"))
	assert.Equal(t, msgRiddleCorrect, r.View().(RiddleView).Message)
	assert.False(t, r.CanContinue())

	sched.Advance(doorShake)
	assert.Equal(t, RiddleOpening, r.Status())

	sched.Advance(doorPause + doorOpen - time.Millisecond)
	assert.Equal(t, RiddleOpening, r.Status())
	assert.Empty(t, r.View().(RiddleView).Unlocks)

	sched.Advance(time.Millisecond)
	assert.Equal(t, RiddleOpened, r.Status())
	assert.True(t, r.CanContinue())
	assert.NotEmpty(t, r.View().(RiddleView).Unlocks)
}

func TestRiddleWrongReverts(t *testing.T) {
	r, sched := newTestRiddle(t)

	assert.Equal(t, RiddleWrong, r.Submit("a calendar"))
	assert.Equal(t, msgRiddleWrong, r.View().(RiddleView).Message)

	sched.Advance(riddleRevert - time.Millisecond)
	assert.Equal(t, RiddleWrong, r.Status())

	sched.Advance(time.Millisecond)
	assert.Equal(t, RiddleIdle, r.Status())
	assert.Empty(t, r.View().(RiddleView).Message)
}

func TestRiddleEmptyAnswer(t *testing.T) {
	r, sched := newTestRiddle(t)

	assert.Equal(t, RiddleWrong, r.Submit("   "))
	assert.Equal(t, msgRiddleEmpty, r.View().(RiddleView).Message)

	sched.Advance(riddleRevert)
	assert.Equal(t, RiddleIdle, r.Status())
	assert.Equal(t, msgRiddleEmpty, r.View().(RiddleView).Message)
}

func TestRiddleNormalisesAnswer(t *testing.T) {
	for _, answer := range []string{"  DECK of CARDS ", "cards in a deck", "Deck Of Cards"} {
		r, _ := newTestRiddle(t)
		assert.Equal(t, RiddleCorrect, r.Submit(answer), answer)
	}
	for _, answer := range []string{"deck", "cards", "a card"} {
		r, _ := newTestRiddle(t)
		assert.Equal(t, RiddleWrong, r.Submit(answer), answer)
	}
}

func TestRiddleResubmitCancelsRevert(t *testing.T) {
	r, sched := newTestRiddle(t)

	r.Submit("a calendar")
	sched.Advance(time.Second)
	r.Submit("deck of cards")

	sched.Advance(500 * time.Millisecond)
	assert.Equal(t, RiddleCorrect, r.Status())
	sched.Advance(400 * time.Millisecond)
	assert.Equal(t, RiddleOpening, r.Status())
}

func TestRiddleIgnoresInputOnceUnlocked(t *testing.T) {
	r, sched := newTestRiddle(t)
	r.Submit("deck of cards")

	assert.Equal(t, RiddleCorrect, r.Submit("a calendar"))
	sched.Advance(5 * time.Second)
	assert.Equal(t, RiddleOpened, r.Submit(""))
	assert.Equal(t, msgRiddleCorrect, r.View().(RiddleView).Message)
}

func TestCompileAnswerErrors(t *testing.T) {
	_, err := CompileAnswer(`answer.contains(`)
	assert.Error(t, err)

	_, err = CompileAnswer(`answer + "x"`)
	assert.ErrorContains(t, err, "boolean")

	_, err = CompileAnswer(`unknown == "x"`)
	assert.Error(t, err)

	accept, err := CompileAnswer(`answer == "yes"`)
	require.NoError(t, err)
	assert.True(t, accept("yes"))
	assert.False(t, accept("no"))
}
