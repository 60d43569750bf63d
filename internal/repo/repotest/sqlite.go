// Package repotest 为测试提供迁移好的内存 SQLite。
package repotest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-office-rental/internal/core/database"
)

var seq atomic.Int64

// NewDB 每次返回独立的库；单连接保证并发测试下事务串行化
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:test%d?mode=memory&cache=shared&_busy_timeout=5000", seq.Add(1))
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: dsn, MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
