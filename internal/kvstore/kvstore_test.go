package kvstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fyerfyer/doc-dashboard/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// exerciseStore 对任意存储实现执行相同的读写检查
func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	// 不存在的键
	val, found, err := store.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, val)

	// 写入和读取
	require.NoError(t, store.Set(ctx, "documents", `[{"id":"1"}]`))
	val, found, err = store.Get(ctx, "documents")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, val)

	// 覆盖写入
	require.NoError(t, store.Set(ctx, "documents", `[]`))
	val, found, err = store.Get(ctx, "documents")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, val)

	// 删除
	require.NoError(t, store.Delete(ctx, "documents"))
	_, found, err = store.Get(ctx, "documents")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore(t *testing.T) {
	store, err := NewMemoryStore(Config{Type: "memory"})
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := NewRedisStore(Config{Type: "redis", RedisAddr: mr.Addr()})
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)

	// 写入的值不应带有过期时间
	require.NoError(t, store.Set(context.Background(), "persisted", "v"))
	assert.Equal(t, time.Duration(0), mr.TTL("persisted"))
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	store, err := NewRedisStore(Config{Type: "redis", RedisAddr: addr})
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestSQLiteStore_SharedDB(t *testing.T) {
	dbName := fmt.Sprintf("file:kv_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{})
	require.NoError(t, err)
	defer database.Close(db)

	store, err := NewSQLiteStore(Config{Type: "sqlite", DB: db})
	require.NoError(t, err)

	exerciseStore(t, store)

	// 共享连接不由存储关闭
	assert.NoError(t, store.Close())
	assert.NoError(t, db.Exec("SELECT 1").Error)
}

func TestSQLiteStore_FileDSN(t *testing.T) {
	dsn := t.TempDir() + "/kv.db"
	ctx := context.Background()

	store, err := NewSQLiteStore(Config{Type: "sqlite", DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "documents", `["persisted"]`))
	require.NoError(t, store.Close())

	// 重新打开后数据仍然存在
	reopened, err := NewSQLiteStore(Config{Type: "sqlite", DSN: dsn})
	require.NoError(t, err)
	defer reopened.Close()

	val, found, err := reopened.Get(ctx, "documents")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["persisted"]`, val)
}

func TestSQLiteStore_EmptyKey(t *testing.T) {
	store, err := NewSQLiteStore(Config{Type: "sqlite", DSN: t.TempDir() + "/kv.db"})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	assert.ErrorIs(t, store.Set(ctx, "", "v"), ErrEmptyKey)
	_, _, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
	assert.ErrorIs(t, store.Delete(ctx, ""), ErrEmptyKey)
}

func TestNew(t *testing.T) {
	// 空类型默认使用内存存储
	store, err := New(Config{})
	assert.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = New(Config{Type: "memory"})
	assert.NoError(t, err)
	assert.NotNil(t, store)

	// 未知类型返回错误
	store, err = New(Config{Type: "unknown-type"})
	assert.Error(t, err)
	assert.Nil(t, store)

	// Firestore缺少项目ID
	store, err = New(Config{Type: "firestore"})
	assert.Error(t, err)
	assert.Nil(t, store)
}
