// internal/game/pages.go
//
// The fixed page sequence and the plain (non-game) pages.
//
// Pages are numbered 1..Pages. Each entry records whether the page offers
// a previous control and how to mount a fresh instance of it.

package game

import "github.com/gicheruj/birthday-present/internal/content"

// Pages is the length of the sequence.
const Pages = 9

// Nav is a controller transition.
type Nav int

const (
	NavForward Nav = 1
	NavBack    Nav = -1
)

// Step is the controller transition function. It clamps to [1, Pages]:
// advancing on the last page and retreating on the first are no-ops.
func Step(page int, nav Nav) int {
	return clampInt(page+int(nav), 1, Pages)
}

// mountCtx is what a page gets when it is mounted.
type mountCtx struct {
	script   *Script
	rng      RNG
	tasks    *tasks
	viewport int
	advance  func()
}

type pageSpec struct {
	kind        Kind
	hasPrevious bool
	mount       func(mountCtx) Page
}

var sequence = [Pages]pageSpec{
	{KindWarmWelcome, false, func(m mountCtx) Page {
		return &Greeting{kind: KindWarmWelcome, text: m.script.exp.WarmWelcome}
	}},
	{KindWelcome, true, func(m mountCtx) Page {
		return &Greeting{kind: KindWelcome, text: m.script.exp.Welcome}
	}},
	{KindMystery, true, func(m mountCtx) Page {
		return NewScratch(m.script.exp.Mystery, scratchWidth(m.viewport), scratchHeight)
	}},
	{KindRiddle, true, func(m mountCtx) Page {
		return NewRiddle(m.script.exp.Riddle, m.script.accept, m.tasks)
	}},
	{KindMemory, true, func(m mountCtx) Page {
		return NewGallery(m.script.exp.Gallery)
	}},
	{KindMatching, true, func(m mountCtx) Page {
		return NewMatching(m.script.exp.Matching, m.rng, m.tasks)
	}},
	{KindHunt, true, func(m mountCtx) Page {
		return NewHunt(m.script.exp.Hunt, m.rng)
	}},
	{KindCandle, false, func(m mountCtx) Page {
		return NewCandle(m.script.exp.Candle, m.tasks, m.advance)
	}},
	{KindLetter, false, func(m mountCtx) Page {
		return &Letter{text: m.script.exp.Letter}
	}},
}

// KindOf returns the page kind at a position in the sequence.
func KindOf(page int) Kind { return sequence[clampInt(page, 1, Pages)-1].kind }

// Greeting is a welcome page with a plain continue control.
type Greeting struct {
	kind Kind
	text content.Greeting
}

func (g *Greeting) Kind() Kind        { return g.kind }
func (g *Greeting) CanContinue() bool { return true }
func (g *Greeting) Completed() bool   { return true }
func (g *Greeting) View() any         { return g.text }

// Letter is the final page. The letter stays sealed until opened.
type Letter struct {
	text   content.Letter
	opened bool
}

type LetterView struct {
	Title  string `json:"title"`
	Opened bool   `json:"opened"`
	Body   string `json:"body,omitempty"`
}

func (l *Letter) Kind() Kind { return KindLetter }

// CanContinue is false: there is nothing after the letter.
func (l *Letter) CanContinue() bool { return false }

func (l *Letter) Completed() bool { return l.opened }

func (l *Letter) Open() { l.opened = true }

func (l *Letter) View() any {
	v := LetterView{Title: l.text.Title, Opened: l.opened}
	if l.opened {
		v.Body = l.text.Body
	}
	return v
}
