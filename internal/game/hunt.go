package game

import (
	"fmt"
	"math"

	"github.com/gicheruj/birthday-present/internal/content"
)

// Verdict classifies a search click.
type Verdict string

const (
	VerdictFound     Verdict = "found"
	VerdictVeryClose Verdict = "very_close"
	VerdictClose     Verdict = "close"
	VerdictNope      Verdict = "nope"
)

const (
	// placement margin, in percent of the scene
	huntMargin = 8
	// minimum find radius in pixels; otherwise 8% of the scene width
	huntMinThreshold   = 28.0
	huntThresholdRatio = 0.08

	msgHuntStart     = "Click anywhere in the scene to search for the hidden item."
	msgHuntVeryClose = "Very close! Try a nearby spot."
	msgHuntClose     = "Close! Keep searching around that area."
	msgHuntNope      = "Nope, try a different spot."
)

// Hunt is the hidden-object page. Positions are percentages of the scene;
// distances are measured in pixels of the scene as rendered at click time.
type Hunt struct {
	title    string
	items    []string
	rng      RNG
	x, y     int
	item     string
	found    bool
	attempts int
	message  string
	verdict  Verdict
	distance *int
}

type HuntView struct {
	Title    string  `json:"title"`
	Message  string  `json:"message"`
	Attempts int     `json:"attempts"`
	Found    bool    `json:"found"`
	Verdict  Verdict `json:"verdict,omitempty"`
	Distance *int    `json:"distance,omitempty"`
	// Item and position are only revealed once found.
	Item string `json:"item,omitempty"`
	X    *int   `json:"x,omitempty"`
	Y    *int   `json:"y,omitempty"`
}

// SearchResult is the outcome of one click.
type SearchResult struct {
	Verdict  Verdict `json:"verdict"`
	Distance float64 `json:"distance"`
	Attempts int     `json:"attempts"`
}

func NewHunt(text content.Hunt, rng RNG) *Hunt {
	h := &Hunt{title: text.Title, items: text.Items, rng: rng}
	h.place()
	return h
}

func (h *Hunt) Kind() Kind { return KindHunt }

func (h *Hunt) CanContinue() bool { return h.found }

func (h *Hunt) Completed() bool { return h.found }

// Click searches at (px, py), given in pixels relative to the scene's
// top-left corner, for a scene rendered at width x height pixels.
// Clicks after the item is found are ignored.
func (h *Hunt) Click(px, py, width, height float64) (SearchResult, error) {
	if width <= 0 || height <= 0 {
		return SearchResult{}, ErrInvalidScene
	}
	if h.found {
		return SearchResult{Verdict: VerdictFound, Attempts: h.attempts}, nil
	}
	pctX := px / width * 100
	pctY := py / height * 100
	dx := (pctX - float64(h.x)) / 100 * width
	dy := (pctY - float64(h.y)) / 100 * height
	dist := math.Hypot(dx, dy)

	h.attempts++
	rounded := int(math.Round(dist))
	h.distance = &rounded

	t := huntThreshold(width)
	var v Verdict
	switch {
	case dist <= t:
		v = VerdictFound
		h.found = true
		h.message = fmt.Sprintf("You found it! %s, great job 🎉", h.item)
	case dist <= 2*t:
		v, h.message = VerdictVeryClose, msgHuntVeryClose
	case dist <= 4*t:
		v, h.message = VerdictClose, msgHuntClose
	default:
		v, h.message = VerdictNope, msgHuntNope
	}
	h.verdict = v
	return SearchResult{Verdict: v, Distance: dist, Attempts: h.attempts}, nil
}

// Reroll hides a new item at a new spot and resets the attempt count.
func (h *Hunt) Reroll() error {
	if h.found {
		return ErrAlreadyFound
	}
	h.place()
	return nil
}

func (h *Hunt) place() {
	span := 100 - 2*huntMargin
	h.x = h.rng.IntN(span) + huntMargin
	h.y = h.rng.IntN(span) + huntMargin
	h.item = h.items[h.rng.IntN(len(h.items))]
	h.found = false
	h.attempts = 0
	h.distance = nil
	h.verdict = ""
	h.message = msgHuntStart
}

func huntThreshold(width float64) float64 {
	return math.Max(huntMinThreshold, width*huntThresholdRatio)
}

func (h *Hunt) View() any {
	v := HuntView{
		Title:    h.title,
		Message:  h.message,
		Attempts: h.attempts,
		Found:    h.found,
		Verdict:  h.verdict,
	}
	if h.found {
		x, y := h.x, h.y
		v.Item, v.X, v.Y = h.item, &x, &y
	} else if h.distance != nil {
		d := *h.distance
		v.Distance = &d
	}
	return v
}
