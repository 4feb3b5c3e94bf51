package game

import (
	"time"

	"github.com/gicheruj/birthday-present/internal/content"
)

// candleDelay is how long the session lingers on the blown-out candle
// before moving to the letter on its own.
const candleDelay = 3 * time.Second

// Candle has no continue control: blowing the candle out advances the
// session automatically after candleDelay.
type Candle struct {
	text    content.Candle
	tasks   *tasks
	advance func()
	lit     bool
}

type CandleView struct {
	Title string `json:"title"`
	Lit   bool   `json:"lit"`
}

func NewCandle(text content.Candle, t *tasks, advance func()) *Candle {
	return &Candle{text: text, tasks: t, advance: advance, lit: true}
}

func (c *Candle) Kind() Kind { return KindCandle }

func (c *Candle) CanContinue() bool { return false }

func (c *Candle) Completed() bool { return !c.lit }

// Lit reports whether the flame is still burning.
func (c *Candle) Lit() bool { return c.lit }

// Blow puts the flame out; it reports false if it was already out.
func (c *Candle) Blow() bool {
	if !c.lit {
		return false
	}
	c.lit = false
	c.tasks.after(candleDelay, c.advance)
	return true
}

func (c *Candle) View() any {
	v := CandleView{Title: c.text.Prompt, Lit: c.lit}
	if !c.lit {
		v.Title = c.text.Done
	}
	return v
}
