package kvstore

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore 基于go-cache的进程内存储，进程退出后数据丢失
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore 创建内存存储
func NewMemoryStore(config Config) (Store, error) {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, 0),
	}, nil
}

// Get 读取值
func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	value, found := m.cache.Get(key)
	if !found {
		return "", false, nil
	}
	str, ok := value.(string)
	if !ok {
		return "", false, nil
	}
	return str, true, nil
}

// Set 写入值，永不过期
func (m *MemoryStore) Set(_ context.Context, key string, value string) error {
	m.cache.Set(key, value, gocache.NoExpiration)
	return nil
}

// Delete 删除键
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

// Close 清空内存
func (m *MemoryStore) Close() error {
	m.cache.Flush()
	return nil
}

func init() {
	Register("memory", NewMemoryStore)
}
