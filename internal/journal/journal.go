// internal/journal/journal.go
//
// Durable record of session milestones (started, page entered, page
// completed, ended).
//
// Environment variables (read by internal/config):
//   JOURNAL_DSN=./data/journal.db   (empty disables the journal)

package journal

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gicheruj/birthday-present/internal/game"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// clampLimit maps a requested row count into [1, maxLimit], with
// defaultLimit for non-positive requests.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return min(limit, maxLimit)
}

// Entry is one stored milestone.
type Entry struct {
	ID       int64              `json:"id"`
	Session  string             `json:"session"`
	Kind     game.MilestoneKind `json:"kind"`
	Page     int                `json:"page"`
	PageKind game.Kind          `json:"pageKind"`
	At       time.Time          `json:"at"`
}

// Progress summarises one session.
type Progress struct {
	Session      string    `json:"session"`
	FurthestPage int       `json:"furthestPage"`
	StartedAt    time.Time `json:"startedAt"`
	LastAt       time.Time `json:"lastAt"`
	Ended        bool      `json:"ended"`
}

// Journal records and lists milestones.
type Journal interface {
	Record(ctx context.Context, ms ...game.Milestone) error
	// Recent lists the newest entries first. An empty session lists all.
	Recent(ctx context.Context, session string, limit int) ([]Entry, error)
	Progress(ctx context.Context, limit int) ([]Progress, error)
	Close() error
}

// Open returns a SQLite-backed journal, or a no-op one when dsn is empty.
func Open(dsn string) (Journal, error) {
	if dsn == "" {
		return Nop(), nil
	}
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(db, migrations); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteJournal{db: db}, nil
}

type sqliteJournal struct{ db *sql.DB }

func (j *sqliteJournal) Record(ctx context.Context, ms ...game.Milestone) error {
	if len(ms) == 0 {
		return nil
	}
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, m := range ms {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO milestones(session_id, kind, page, page_kind, at_ms) VALUES(?,?,?,?,?)`,
			m.Session, string(m.Kind), m.Page, string(m.PageKind), m.At.UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (j *sqliteJournal) Recent(ctx context.Context, session string, limit int) ([]Entry, error) {
	limit = clampLimit(limit)
	rows, err := j.db.QueryContext(ctx, `
        SELECT id, session_id, kind, page, page_kind, at_ms
        FROM milestones
        WHERE ? = '' OR session_id = ?
        ORDER BY id DESC
        LIMIT ?`, session, session, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, min(limit, defaultLimit))
	for rows.Next() {
		var (
			e    Entry
			kind string
			pk   string
			atMs int64
		)
		if err := rows.Scan(&e.ID, &e.Session, &kind, &e.Page, &pk, &atMs); err != nil {
			return nil, err
		}
		e.Kind, e.PageKind, e.At = game.MilestoneKind(kind), game.Kind(pk), time.UnixMilli(atMs).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (j *sqliteJournal) Progress(ctx context.Context, limit int) ([]Progress, error) {
	limit = clampLimit(limit)
	rows, err := j.db.QueryContext(ctx, `
        SELECT session_id, furthest_page, started_ms, last_ms, ended
        FROM session_progress
        ORDER BY last_ms DESC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Progress
	for rows.Next() {
		var (
			p             Progress
			started, last int64
			ended         int
		)
		if err := rows.Scan(&p.Session, &p.FurthestPage, &started, &last, &ended); err != nil {
			return nil, err
		}
		p.StartedAt, p.LastAt, p.Ended = time.UnixMilli(started).UTC(), time.UnixMilli(last).UTC(), ended != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

func (j *sqliteJournal) Close() error { return j.db.Close() }

// ErrDisabled is returned by listings of the no-op journal.
var ErrDisabled = errors.New("journal disabled")

type nop struct{}

// Nop returns a journal that drops every record.
func Nop() Journal { return nop{} }

func (nop) Record(context.Context, ...game.Milestone) error { return nil }

func (nop) Recent(context.Context, string, int) ([]Entry, error) { return nil, ErrDisabled }

func (nop) Progress(context.Context, int) ([]Progress, error) { return nil, ErrDisabled }

func (nop) Close() error { return nil }
