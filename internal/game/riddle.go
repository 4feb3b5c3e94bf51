package game

import (
	"strings"
	"time"

	"github.com/gicheruj/birthday-present/internal/content"
)

// RiddleStatus is the door state machine:
//
//	idle -> wrong -> idle        (after riddleRevert)
//	idle -> correct -> opening -> opened
type RiddleStatus string

const (
	RiddleIdle    RiddleStatus = "idle"
	RiddleWrong   RiddleStatus = "wrong"
	RiddleCorrect RiddleStatus = "correct"
	RiddleOpening RiddleStatus = "opening"
	RiddleOpened  RiddleStatus = "opened"
)

const (
	riddleRevert = 1400 * time.Millisecond
	doorShake    = 900 * time.Millisecond
	doorPause    = 500 * time.Millisecond
	doorOpen     = 1100 * time.Millisecond

	msgRiddleEmpty   = "Type your answer and press Enter."
	msgRiddleWrong   = "Not quite, try again!"
	msgRiddleCorrect = "Correct! Opening the door..."
)

type Riddle struct {
	text    content.Riddle
	accept  AnswerFunc
	tasks   *tasks
	status  RiddleStatus
	message string
	revert  int
}

type RiddleView struct {
	Title    string       `json:"title"`
	Question string       `json:"question"`
	Status   RiddleStatus `json:"status"`
	Message  string       `json:"message,omitempty"`
	Unlocks  []string     `json:"unlocks,omitempty"`
}

func NewRiddle(text content.Riddle, accept AnswerFunc, t *tasks) *Riddle {
	return &Riddle{text: text, accept: accept, tasks: t, status: RiddleIdle, revert: -1}
}

func (r *Riddle) Kind() Kind { return KindRiddle }

func (r *Riddle) CanContinue() bool { return r.status == RiddleOpened }

func (r *Riddle) Completed() bool { return r.status == RiddleOpened }

// Status returns the current door state.
func (r *Riddle) Status() RiddleStatus { return r.status }

// Submit checks an answer. Input is ignored once the door is unlocked.
func (r *Riddle) Submit(answer string) RiddleStatus {
	switch r.status {
	case RiddleCorrect, RiddleOpening, RiddleOpened:
		return r.status
	}
	r.tasks.cancel(r.revert)
	r.revert = -1

	normalized := strings.ToLower(strings.TrimSpace(answer))
	switch {
	case normalized == "":
		r.status, r.message = RiddleWrong, msgRiddleEmpty
		r.revert = r.tasks.after(riddleRevert, func() {
			r.status = RiddleIdle
			r.revert = -1
		})
	case r.accept(normalized):
		r.status, r.message = RiddleCorrect, msgRiddleCorrect
		r.openDoor()
	default:
		r.status, r.message = RiddleWrong, msgRiddleWrong
		r.revert = r.tasks.after(riddleRevert, func() {
			r.status, r.message = RiddleIdle, ""
			r.revert = -1
		})
	}
	return r.status
}

// openDoor runs the fixed sequence: shake, pause, open, reveal.
func (r *Riddle) openDoor() {
	r.tasks.after(doorShake, func() {
		r.status = RiddleOpening
		r.tasks.after(doorPause+doorOpen, func() {
			r.status = RiddleOpened
		})
	})
}

func (r *Riddle) View() any {
	v := RiddleView{
		Title:    r.text.Title,
		Question: r.text.Question,
		Status:   r.status,
		Message:  r.message,
	}
	if r.status == RiddleOpened {
		v.Unlocks = append([]string(nil), r.text.Unlocks...)
	}
	return v
}
