// Package audit records when a flow had to serve its deterministic fallback.
package audit

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"toolbox-ai/internal/common/errors"
)

// MaxExcerpt bounds how much rejected model text is stored per event.
const MaxExcerpt = 500

const Schema = `CREATE TABLE IF NOT EXISTS resolution_fallbacks (
	id          UUID PRIMARY KEY,
	flow        TEXT NOT NULL,
	stage       TEXT NOT NULL,
	reason      TEXT NOT NULL,
	raw_excerpt TEXT NOT NULL DEFAULT '',
	job_key     BIGINT,
	created_at  TIMESTAMPTZ NOT NULL
)`

const (
	insertFallbackQuery = `INSERT INTO resolution_fallbacks (id, flow, stage, reason, raw_excerpt, job_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	countByFlowQuery = `SELECT COUNT(*) FROM resolution_fallbacks WHERE flow = $1 AND created_at >= $2`
)

// Event is one fallback served by a flow.
type Event struct {
	Flow   string
	Stage  string
	Reason string
	Raw    string
	JobKey int64
}

type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() uuid.UUID
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now, newID: uuid.New}
}

// EnsureSchema creates the fallback table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s == nil {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return errors.NewQueryExecutionFailedError("ensure_schema", err)
	}
	return nil
}

// RecordFallback stores e and returns its id. A nil Store records nothing.
func (s *Store) RecordFallback(ctx context.Context, e Event) (string, error) {
	if s == nil {
		return "", nil
	}

	id := s.newID().String()
	var jobKey interface{}
	if e.JobKey != 0 {
		jobKey = e.JobKey
	}

	_, err := s.db.ExecContext(ctx, insertFallbackQuery,
		id, e.Flow, e.Stage, e.Reason, Excerpt(e.Raw), jobKey, s.now().UTC())
	if err != nil {
		return "", errors.NewDatabaseInsertFailedError(err)
	}
	return id, nil
}

// CountByFlow returns how many fallbacks flow served since the given time.
func (s *Store) CountByFlow(ctx context.Context, flow string, since time.Time) (int, error) {
	if s == nil {
		return 0, nil
	}

	var count int
	if err := s.db.QueryRowContext(ctx, countByFlowQuery, flow, since.UTC()).Scan(&count); err != nil {
		return 0, errors.NewQueryExecutionFailedError("count_fallbacks", err)
	}
	return count, nil
}

// Excerpt truncates raw to MaxExcerpt bytes without splitting a rune.
func Excerpt(raw string) string {
	if len(raw) <= MaxExcerpt {
		return raw
	}
	return strings.ToValidUTF8(raw[:MaxExcerpt], "")
}
