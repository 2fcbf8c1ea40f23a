// Package testutil boots the real stores on in-process backends for tests.
package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"Gin_postgres_redis_task_api/db"
	"Gin_postgres_redis_task_api/password"
)

// NewDB 返回迁移好的内存 sqlite。只开一个连接，否则每个连接各是一个空库
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	password.Cost = bcrypt.MinCost

	conn, err := db.Open("sqlite::memory:")
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(conn))
	return conn
}

func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}
