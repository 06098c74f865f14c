package kvstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Store 本地键值存储接口
// 值以字符串整体写入，整体读取，不支持部分更新
type Store interface {
	// Get 读取键对应的值，键不存在时found为false
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set 覆盖写入键对应的值
	Set(ctx context.Context, key string, value string) error
	// Delete 删除键
	Delete(ctx context.Context, key string) error
	// Close 释放底层连接
	Close() error
}

// ErrEmptyKey 键为空
var ErrEmptyKey = errors.New("kv store key cannot be empty")

// Factory 存储工厂函数类型
type Factory func(config Config) (Store, error)

// 注册的存储实现
var registry = make(map[string]Factory)

// Register 注册存储实现
func Register(name string, factory Factory) {
	registry[name] = factory
}

// New 根据配置创建存储实例
func New(config Config) (Store, error) {
	if config.Type == "" {
		return NewMemoryStore(config)
	}
	factory, ok := registry[config.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported kv store type: %s", config.Type)
	}
	return factory(config)
}

// Config 存储配置
type Config struct {
	// 存储类型: "memory", "sqlite", "redis", "firestore"
	Type string

	// Redis连接地址 (仅Redis使用)
	RedisAddr string
	// Redis密码 (仅Redis使用)
	RedisPassword string
	// Redis数据库编号 (仅Redis使用)
	RedisDB int

	// SQLite数据库文件路径 (仅SQLite使用，DB为空时生效)
	DSN string
	// 已打开的数据库连接 (仅SQLite使用)
	DB *gorm.DB

	// Firestore项目ID (仅Firestore使用)
	ProjectID string
	// Firestore集合名称 (仅Firestore使用)
	Collection string
}
