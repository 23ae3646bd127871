package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolbox-ai/internal/common/config"
	"toolbox-ai/internal/common/errors"
)

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := OpenRedis(context.Background(), config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer rdb.Close()

	require.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestOpenRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := OpenRedis(context.Background(), config.RedisConfig{Address: addr})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.Sentinel(errors.ErrCodeCacheUnavailable, ""))
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	require.NoError(t, Ping(context.Background(), db))

	mock.ExpectPing().WillReturnError(assert.AnError)
	err = Ping(context.Background(), db)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.Sentinel(errors.ErrCodeDatabaseConnectionFailed, ""))
	assert.ErrorIs(t, err, assert.AnError)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigurePool(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ConfigurePool(db, config.PostgresConfig{MaxConnections: 7, MaxIdle: 2})
	assert.Equal(t, 7, db.Stats().MaxOpenConnections)
}
