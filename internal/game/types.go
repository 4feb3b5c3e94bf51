// internal/game/types.go
//
// Core type definitions for the page sequence.
// Defines:
//   - Kind: which page component is mounted.
//   - Page: the contract every mounted page implements.
//   - Snapshot / Event / Milestone: what a session reports to observers.

package game

import "time"

// Kind identifies a page component.
type Kind string

const (
	KindWarmWelcome Kind = "warm_welcome"
	KindWelcome     Kind = "welcome"
	KindMystery     Kind = "mystery"
	KindRiddle      Kind = "riddle"
	KindMemory      Kind = "memory"
	KindMatching    Kind = "matching"
	KindHunt        Kind = "hunt"
	KindCandle      Kind = "candle"
	KindLetter      Kind = "letter"
)

// Page is one mounted page instance. Its state lives exactly as long as
// it stays the active page.
type Page interface {
	Kind() Kind
	// CanContinue reports whether the page currently shows its continue
	// control (the completion gate is open).
	CanContinue() bool
	// Completed reports whether the page's own goal has been reached.
	// Pages without a goal report true from the start.
	Completed() bool
	// View returns a copy of the page state safe to hand out of the lock.
	View() any
}

// Snapshot is the externally visible state of a session.
// Version increases with every change so observers can drop stale ones.
type Snapshot struct {
	Session     string `json:"session"`
	Version     uint64 `json:"version"`
	Page        int    `json:"page"`
	Pages       int    `json:"pages"`
	Kind        Kind   `json:"kind"`
	CanContinue bool   `json:"canContinue"`
	HasPrevious bool   `json:"hasPrevious"`
	View        any    `json:"view"`
}

// MilestoneKind classifies a journal-worthy moment of a session.
type MilestoneKind string

const (
	MilestoneStarted   MilestoneKind = "session_started"
	MilestoneEntered   MilestoneKind = "page_entered"
	MilestoneCompleted MilestoneKind = "page_completed"
	MilestoneEnded     MilestoneKind = "session_ended"
)

// Milestone records a notable transition.
type Milestone struct {
	Session  string        `json:"session"`
	Kind     MilestoneKind `json:"kind"`
	Page     int           `json:"page"`
	PageKind Kind          `json:"pageKind"`
	At       time.Time     `json:"at"`
}

// Event is delivered to a session observer after every state change.
type Event struct {
	Snapshot   Snapshot
	Milestones []Milestone
}
