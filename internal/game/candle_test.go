package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gicheruj/birthday-present/internal/content"
)

func TestCandleBlowAdvancesOnce(t *testing.T) {
	sched := NewManualScheduler()
	advanced := 0
	c := NewCandle(content.Candle{Prompt: "Make a wish", Done: "Wish made"}, inlineTasks(sched), func() { advanced++ })

	assert.True(t, c.Lit())
	assert.Equal(t, "Make a wish", c.View().(CandleView).Title)

	assert.True(t, c.Blow())
	assert.False(t, c.Blow())
	assert.Equal(t, 1, sched.Pending())
	assert.Equal(t, "Wish made", c.View().(CandleView).Title)
	assert.True(t, c.Completed())
	assert.False(t, c.CanContinue())

	sched.Advance(candleDelay - time.Millisecond)
	assert.Zero(t, advanced)
	sched.Advance(time.Millisecond)
	assert.Equal(t, 1, advanced)

	sched.Advance(time.Minute)
	assert.Equal(t, 1, advanced)
}

func TestCandleTeardownCancelsAdvance(t *testing.T) {
	sched := NewManualScheduler()
	group := inlineTasks(sched)
	advanced := false
	c := NewCandle(content.Candle{}, group, func() { advanced = true })

	c.Blow()
	group.stopAll()
	sched.Advance(candleDelay)
	assert.False(t, advanced)
}
