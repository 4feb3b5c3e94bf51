package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gicheruj/birthday-present/internal/content"
	"github.com/gicheruj/birthday-present/internal/game"
)

// The terminal hunt scene. Search coordinates are typed as percentages.
const (
	sceneWidth  = 640.0
	sceneHeight = 480.0
	// vertical spacing of scratch bands, in canvas pixels
	bandSpacing = 40.0
)

var errQuit = errors.New("quit")

const helpText = `commands:
  next | back                 continue / previous
  scratch                     scratch one band of the card
  answer <text>               answer the riddle
  open <collection> | > | < | close
  flip <card>                 turn a matching card over
  search <x%> <y%> | reroll   look for the hidden item
  blow                        blow out the candle
  read                        open the letter
  quit`

// player turns typed commands into session operations.
type player struct {
	sess *game.Session
	band int
	page int
}

func newPlayer(sess *game.Session) *player {
	return &player{sess: sess, page: sess.Snapshot().Page}
}

// run executes one command line and returns a status line.
func (p *player) run(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	if snap := p.sess.Snapshot(); snap.Page != p.page {
		p.page, p.band = snap.Page, 0
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]

	var (
		snap game.Snapshot
		err  error
	)
	switch verb {
	case "quit", "exit":
		return "", errQuit
	case "help", "?":
		return helpText, nil
	case "next", "n", "continue":
		snap, err = p.sess.Continue()
	case "back", "b", "previous":
		snap, err = p.sess.Previous()
	case "scratch":
		snap, err = p.scratch()
	case "answer":
		snap, err = p.sess.AnswerRiddle(strings.Join(args, " "))
	case "open":
		if len(args) != 1 {
			return "", errors.New("usage: open <collection>")
		}
		snap, err = p.sess.OpenCollection(args[0])
	case ">":
		snap, err = p.sess.NextPhoto()
	case "<":
		snap, err = p.sess.PrevPhoto()
	case "close":
		snap, err = p.sess.CloseCollection()
	case "flip":
		if len(args) != 1 {
			return "", errors.New("usage: flip <card>")
		}
		n, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return "", fmt.Errorf("flip: %q is not a card number", args[0])
		}
		snap, err = p.sess.SelectCard(n)
	case "search":
		if len(args) != 2 {
			return "", errors.New("usage: search <x%> <y%>")
		}
		x, errX := strconv.ParseFloat(args[0], 64)
		y, errY := strconv.ParseFloat(args[1], 64)
		if errX != nil || errY != nil {
			return "", errors.New("search: coordinates must be numbers")
		}
		snap, err = p.sess.Search(x/100*sceneWidth, y/100*sceneHeight, sceneWidth, sceneHeight)
	case "reroll":
		snap, err = p.sess.Reroll()
	case "blow":
		snap, err = p.sess.BlowCandle()
	case "read":
		snap, err = p.sess.OpenLetter()
	default:
		return "", fmt.Errorf("unknown command %q (try help)", verb)
	}
	if err != nil {
		return "", err
	}
	return status(snap), nil
}

// scratch sweeps the next horizontal band of the card and lifts the pointer.
func (p *player) scratch() (game.Snapshot, error) {
	v, ok := p.sess.Snapshot().View.(game.ScratchView)
	if !ok {
		return p.sess.ReleaseScratch() // reports the wrong page
	}
	y := bandSpacing/2 + float64(p.band)*bandSpacing
	if y > float64(v.Height) {
		y = float64(v.Height)
	}
	var pts []game.Point
	for x := 0.0; x <= float64(v.Width); x += 10 {
		pts = append(pts, game.Point{X: x, Y: y})
	}
	p.band++
	if _, err := p.sess.Scratch(pts); err != nil {
		return game.Snapshot{}, err
	}
	return p.sess.ReleaseScratch()
}

// status is the one-line outcome shown after a command.
func status(snap game.Snapshot) string {
	switch v := snap.View.(type) {
	case game.ScratchView:
		return fmt.Sprintf("%.0f%% revealed", v.Fraction*100)
	case game.RiddleView:
		if v.Message != "" {
			return v.Message
		}
	case game.HuntView:
		return v.Message
	case game.MatchingView:
		if n := len(v.Messages); n > 0 {
			return v.Messages[n-1]
		}
	}
	return fmt.Sprintf("page %d/%d: %s", snap.Page, snap.Pages, snap.Kind)
}

// renderPage draws the page body as plain text.
func renderPage(snap game.Snapshot) string {
	var b strings.Builder
	switch v := snap.View.(type) {
	case content.Greeting:
		fmt.Fprintf(&b, "%s\n%s", v.Title, v.Subtitle)
	case game.ScratchView:
		fmt.Fprintf(&b, "%s\n\n%s\n", v.Title, strings.Join(v.Grid, "\n"))
		if v.Completed {
			fmt.Fprintf(&b, "\n%s", v.Message)
		}
	case game.RiddleView:
		fmt.Fprintf(&b, "%s\n\n%s\n\ndoor: %s", v.Title, v.Question, v.Status)
		if v.Message != "" {
			fmt.Fprintf(&b, "\n%s", v.Message)
		}
		for _, u := range v.Unlocks {
			fmt.Fprintf(&b, "\n  %s", u)
		}
	case game.GalleryView:
		if v.Photo == nil {
			for _, c := range v.Collections {
				fmt.Fprintf(&b, "%-12s %s (%d photos)\n  %s\n", c.ID, c.Title, c.Photos, c.Subtitle)
			}
			break
		}
		fmt.Fprintf(&b, "%s  %d/%d\n%s", v.Open, v.Index+1, v.Count, v.Photo.Src)
		if v.Photo.Name != "" {
			fmt.Fprintf(&b, "\n%s", v.Photo.Name)
		}
	case game.MatchingView:
		for i, c := range v.Cards {
			fmt.Fprintf(&b, "%2d:%s ", c.Card, c.Symbol)
			if i%4 == 3 {
				b.WriteByte('\n')
			}
		}
		fmt.Fprintf(&b, "\n%d/%d pairs", v.Matched, v.Pairs)
		if v.AllMatched {
			b.WriteString(" - all matched!")
		}
	case game.HuntView:
		fmt.Fprintf(&b, "%s\n\nattempts: %d", v.Title, v.Attempts)
		if v.Distance != nil {
			fmt.Fprintf(&b, "  last distance: %dpx", *v.Distance)
		}
		if v.Found {
			fmt.Fprintf(&b, "\n%s was at %d%%, %d%%", v.Item, *v.X, *v.Y)
		}
	case game.CandleView:
		flame := "🕯️  (lit)"
		if !v.Lit {
			flame = "💨 (out)"
		}
		fmt.Fprintf(&b, "%s\n\n%s", v.Title, flame)
	case game.LetterView:
		b.WriteString(v.Title)
		if v.Opened {
			fmt.Fprintf(&b, "\n\n%s", v.Body)
		} else {
			b.WriteString("\n\n✉  (type read to open)")
		}
	default:
		fmt.Fprintf(&b, "%v", v)
	}
	return b.String()
}
