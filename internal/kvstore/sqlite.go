package kvstore

import (
	"context"
	"errors"

	"github.com/fyerfyer/doc-dashboard/internal/database"
	"github.com/fyerfyer/doc-dashboard/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLiteStore 基于GORM的设备本地存储
type SQLiteStore struct {
	db    *gorm.DB
	owned bool // 连接由本存储打开时，Close负责关闭
}

// NewSQLiteStore 创建SQLite存储
// 如果配置中提供了DB则直接复用，否则根据DSN打开新连接
func NewSQLiteStore(config Config) (Store, error) {
	if config.DB != nil {
		if err := database.Migrate(config.DB); err != nil {
			return nil, err
		}
		return &SQLiteStore{db: config.DB}, nil
	}

	dbCfg := database.DefaultConfig()
	if config.DSN != "" {
		dbCfg.DSN = config.DSN
	}
	db, err := database.Open(dbCfg, nil)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, owned: true}, nil
}

// Get 读取值
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	var entry models.KVEntry
	err := s.db.WithContext(ctx).Where(&models.KVEntry{Key: key}).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(entry.Value), true, nil
}

// Set 写入值，键已存在时覆盖
func (s *SQLiteStore) Set(ctx context.Context, key string, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	entry := models.KVEntry{
		Key:   key,
		Value: datatypes.JSON(value),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Delete 删除键
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.db.WithContext(ctx).Where(&models.KVEntry{Key: key}).Delete(&models.KVEntry{}).Error
}

// Close 关闭自己打开的连接
func (s *SQLiteStore) Close() error {
	if !s.owned {
		return nil
	}
	return database.Close(s.db)
}

func init() {
	Register("sqlite", NewSQLiteStore)
}
