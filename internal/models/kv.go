package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// KVEntry 本地键值存储的一条记录
// 集合快照以JSON的形式整体保存在一个键下
type KVEntry struct {
	Key       string         `gorm:"primaryKey;size:191"` // 存储键
	Value     datatypes.JSON `gorm:"type:text"`           // 序列化后的值
	UpdatedAt time.Time      `gorm:"not null"`            // 更新时间
}

// BeforeSave GORM的钩子函数，保存前刷新更新时间
func (e *KVEntry) BeforeSave(tx *gorm.DB) (err error) {
	e.UpdatedAt = time.Now()
	return nil
}

// TableName 明确指定表名
func (KVEntry) TableName() string {
	return "kv_entries"
}
