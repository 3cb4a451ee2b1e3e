// Package db stores privacy-conscious visitor analytics in SQLite: hashed
// page views and skill filter events.
package db

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02 15:04:05"

// Visit is a recorded page view.
type Visit struct {
	ID        int64     `db:"id" json:"id"`
	HashedIP  string    `db:"hashed_ip" json:"hashed_ip"`
	UserAgent string    `db:"user_agent" json:"user_agent"`
	Path      string    `db:"path" json:"path"`
	Timestamp time.Time `db:"-" json:"timestamp"`
}

// SkillEvent is a filter interaction.
type SkillEvent struct {
	Action    string    `json:"action"`
	Tag       string    `json:"tag"`
	VisitorID string    `json:"visitor_id"`
	Timestamp time.Time `json:"timestamp"`
}

// SkillCount is a tag with the number of times it was selected.
type SkillCount struct {
	Tag   string `db:"tag" json:"tag"`
	Count int64  `db:"count" json:"count"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors    int64        `json:"total_visitors"`
	UniqueVisitors   int64        `json:"unique_visitors"`
	VisitorsToday    int64        `json:"visitors_today"`
	VisitorsThisWeek int64        `json:"visitors_this_week"`
	FilterEvents     int64        `json:"filter_events"`
	TopSkills        []SkillCount `json:"top_skills"`
	RecentVisitors   []Visit      `json:"recent_visitors"`
}

// Store wraps the analytics database.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create database directory")
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		"PRAGMA busy_timeout=5000",
		`CREATE TABLE IF NOT EXISTS visitors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hashed_ip TEXT NOT NULL,
			user_agent TEXT NOT NULL DEFAULT '',
			path TEXT NOT NULL DEFAULT '',
			timestamp TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp)`,
		`CREATE TABLE IF NOT EXISTS skill_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			action TEXT NOT NULL,
			tag TEXT NOT NULL DEFAULT '',
			visitor_id TEXT NOT NULL DEFAULT '',
			timestamp TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_skill_events_tag ON skill_events(tag)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to apply schema")
		}
	}
	return nil
}

// RecordVisit stores a page view.
func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, timestamp) VALUES (?, ?, ?, ?)`,
		v.HashedIP, v.UserAgent, v.Path, v.Timestamp.UTC().Format(timeLayout))
	return errors.Wrap(err, "failed to record visit")
}

// RecordSkillEvent stores a filter interaction.
func (s *Store) RecordSkillEvent(ctx context.Context, e SkillEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO skill_events (action, tag, visitor_id, timestamp) VALUES (?, ?, ?, ?)`,
		e.Action, e.Tag, e.VisitorID, e.Timestamp.UTC().Format(timeLayout))
	return errors.Wrap(err, "failed to record skill event")
}

type visitRow struct {
	ID        int64  `db:"id"`
	HashedIP  string `db:"hashed_ip"`
	UserAgent string `db:"user_agent"`
	Path      string `db:"path"`
	Timestamp string `db:"timestamp"`
}

// RecentVisitors returns the newest limit visits.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visit, error) {
	var rows []visitRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, hashed_ip, user_agent, path, timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query visitors")
	}

	visits := make([]Visit, 0, len(rows))
	for _, r := range rows {
		ts, err := time.ParseInLocation(timeLayout, r.Timestamp, time.UTC)
		if err != nil {
			continue
		}
		visits = append(visits, Visit{
			ID:        r.ID,
			HashedIP:  r.HashedIP,
			UserAgent: r.UserAgent,
			Path:      r.Path,
			Timestamp: ts,
		})
	}
	return visits, nil
}

// TopSkills returns the most selected tags.
func (s *Store) TopSkills(ctx context.Context, limit int) ([]SkillCount, error) {
	var out []SkillCount
	err := s.db.SelectContext(ctx, &out, `
		SELECT tag, COUNT(*) AS count
		FROM skill_events
		WHERE action IN ('select', 'toggle') AND tag != ''
		GROUP BY tag
		ORDER BY count DESC, tag ASC
		LIMIT ?`, limit)
	return out, errors.Wrap(err, "failed to query skill events")
}

// Stats summarises activity relative to now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{}
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{today.Format(timeLayout)}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{now.AddDate(0, 0, -7).Format(timeLayout)}},
		{&stats.FilterEvents, `SELECT COUNT(*) FROM skill_events`, nil},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dst, c.query, c.args...); err != nil {
			return nil, errors.Wrap(err, "failed to count")
		}
	}

	var err error
	if stats.TopSkills, err = s.TopSkills(ctx, 10); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}

// Cleanup deletes visits and events recorded before cutoff.
func (s *Store) Cleanup(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64
	for _, table := range []string{"visitors", "skill_events"} {
		res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE timestamp < ?`, cutoff.UTC().Format(timeLayout))
		if err != nil {
			return total, errors.Wrapf(err, "failed to clean up %s", table)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}
