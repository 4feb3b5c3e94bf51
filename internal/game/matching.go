package game

import (
	"fmt"
	"time"

	"github.com/gicheruj/birthday-present/internal/content"
)

const matchingClear = 800 * time.Millisecond

const faceDown = "❓"

// Card is one dealt card. Instance identifies the physical card; Pair is
// shared by the two copies of a symbol.
type Card struct {
	Instance int
	Pair     int
	Symbol   string
	Message  string
}

// Deal duplicates the catalog and shuffles it.
func Deal(catalog []content.Symbol, rng RNG) []Card {
	cards := make([]Card, 0, 2*len(catalog))
	for copyN := 0; copyN < 2; copyN++ {
		for _, s := range catalog {
			cards = append(cards, Card{
				Instance: len(cards),
				Pair:     s.ID,
				Symbol:   s.Symbol,
				Message:  s.Message,
			})
		}
	}
	shuffle(rng, cards)
	return cards
}

// Matching is the pairs game. Continue is always available; finishing
// the board is not required.
type Matching struct {
	tasks   *tasks
	cards   []Card
	first   int
	second  int
	matched map[int]bool
	log     []string
}

type CardView struct {
	Card    int    `json:"card"`
	Symbol  string `json:"symbol"`
	FaceUp  bool   `json:"faceUp"`
	Matched bool   `json:"matched"`
}

type MatchingView struct {
	Cards      []CardView `json:"cards"`
	Messages   []string   `json:"messages"`
	Matched    int        `json:"matched"`
	Pairs      int        `json:"pairs"`
	AllMatched bool       `json:"allMatched"`
}

func NewMatching(catalog []content.Symbol, rng RNG, t *tasks) *Matching {
	return &Matching{
		tasks:   t,
		cards:   Deal(catalog, rng),
		first:   -1,
		second:  -1,
		matched: make(map[int]bool),
	}
}

func (m *Matching) Kind() Kind { return KindMatching }

func (m *Matching) CanContinue() bool { return true }

func (m *Matching) Completed() bool { return m.AllMatched() }

// Select turns a card over. Face-up cards and selections made while a pair
// is being resolved are ignored. When the second card is chosen the pair
// is scored and both selections are cleared after matchingClear.
func (m *Matching) Select(instance int) error {
	idx := m.indexOf(instance)
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownCard, instance)
	}
	if m.second >= 0 || m.faceUp(idx) {
		return nil
	}
	if m.first < 0 {
		m.first = idx
		return nil
	}
	m.second = idx

	a, b := m.cards[m.first], m.cards[m.second]
	if a.Pair == b.Pair {
		m.matched[a.Pair] = true
		m.log = append(m.log, a.Message)
	}
	m.tasks.after(matchingClear, func() {
		m.first, m.second = -1, -1
	})
	return nil
}

// AllMatched reports whether every pair has been found.
func (m *Matching) AllMatched() bool { return len(m.matched)*2 == len(m.cards) }

func (m *Matching) indexOf(instance int) int {
	for i, c := range m.cards {
		if c.Instance == instance {
			return i
		}
	}
	return -1
}

func (m *Matching) faceUp(idx int) bool {
	return idx == m.first || idx == m.second || m.matched[m.cards[idx].Pair]
}

func (m *Matching) View() any {
	v := MatchingView{
		Cards:      make([]CardView, len(m.cards)),
		Messages:   append([]string{}, m.log...),
		Matched:    len(m.matched),
		Pairs:      len(m.cards) / 2,
		AllMatched: m.AllMatched(),
	}
	for i, c := range m.cards {
		cv := CardView{Card: c.Instance, Symbol: faceDown, Matched: m.matched[c.Pair]}
		if m.faceUp(i) {
			cv.FaceUp = true
			cv.Symbol = c.Symbol
		}
		v.Cards[i] = cv
	}
	return v
}
