package audit

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolbox-ai/internal/common/errors"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewStore(db)
	store.now = func() time.Time { return fixedNow }
	store.newID = func() uuid.UUID { return uuid.MustParse("6f1c1f5e-8d7a-4b5c-9e2f-1a2b3c4d5e6f") }
	return store, mock
}

func TestRecordFallback(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO resolution_fallbacks")).
		WithArgs("6f1c1f5e-8d7a-4b5c-9e2f-1a2b3c4d5e6f", "diy-fix-guide", "normalized", "schema mismatch", "{broken", int64(42), fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := store.RecordFallback(context.Background(), Event{
		Flow:   "diy-fix-guide",
		Stage:  "normalized",
		Reason: "schema mismatch",
		Raw:    "{broken",
		JobKey: 42,
	})
	require.NoError(t, err)
	assert.Equal(t, "6f1c1f5e-8d7a-4b5c-9e2f-1a2b3c4d5e6f", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFallback_NoJobKey(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO resolution_fallbacks")).
		WithArgs(sqlmock.AnyArg(), "meeting-notes", "generation", "rate limited", "", nil, fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	_, err := store.RecordFallback(context.Background(), Event{Flow: "meeting-notes", Stage: "generation", Reason: "rate limited"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFallback_InsertFails(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO resolution_fallbacks")).
		WillReturnError(assert.AnError)

	_, err := store.RecordFallback(context.Background(), Event{Flow: "smart-shopping-list"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.Sentinel(errors.ErrCodeDatabaseInsertFailed, ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByFlow(t *testing.T) {
	store, mock := newTestStore(t)
	since := fixedNow.Add(-24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM resolution_fallbacks")).
		WithArgs("diy-fix-guide", since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := store.CountByFlow(context.Background(), "diy-fix-guide", since)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByFlow_QueryFails(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).WillReturnError(assert.AnError)

	_, err := store.CountByFlow(context.Background(), "diy-fix-guide", fixedNow)
	assert.ErrorIs(t, err, errors.Sentinel(errors.ErrCodeQueryExecutionFailed, ""))
}

func TestEnsureSchema(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS resolution_fallbacks")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNilStore(t *testing.T) {
	var store *Store

	id, err := store.RecordFallback(context.Background(), Event{Flow: "diy-fix-guide"})
	assert.NoError(t, err)
	assert.Empty(t, id)

	count, err := store.CountByFlow(context.Background(), "diy-fix-guide", fixedNow)
	assert.NoError(t, err)
	assert.Zero(t, count)
	assert.NoError(t, store.EnsureSchema(context.Background()))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("short"))

	long := strings.Repeat("a", MaxExcerpt-1) + "é" + "tail"
	got := Excerpt(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, MaxExcerpt-1, len(got))
}
