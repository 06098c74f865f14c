package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/fyerfyer/doc-dashboard/internal/kvstore"
	"github.com/fyerfyer/doc-dashboard/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultCapacity 默认最多保存的文档数量
	DefaultCapacity = 9
	// Unbounded 不限制文档数量
	Unbounded = 0
	// DefaultSnapshotKey 快照在键值存储中的键
	DefaultSnapshotKey = "documents"
)

// Store 文档集合
// 持有上传的文档列表，并将完整快照写入键值存储
type Store struct {
	mu       sync.RWMutex
	docs     []models.Document
	index    map[string]int // 文档ID -> 下标
	kv       kvstore.Store
	key      string
	capacity int
	dirty    bool // 最近一次快照写入失败，等待下一次写入或Close
	logger   *logrus.Logger
	now      func() time.Time
}

// Option 集合配置选项
type Option func(*Store)

// NewStore 创建文档集合，需要调用Init从存储中恢复
func NewStore(kv kvstore.Store, opts ...Option) *Store {
	s := &Store{
		index:    make(map[string]int),
		kv:       kv,
		key:      DefaultSnapshotKey,
		capacity: DefaultCapacity,
		logger:   logrus.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithCapacity 设置集合上限，0表示不限制
func WithCapacity(capacity int) Option {
	return func(s *Store) {
		if capacity >= 0 {
			s.capacity = capacity
		}
	}
}

// WithSnapshotKey 设置快照键
func WithSnapshotKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock 设置时间来源
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Init 从键值存储恢复集合
// 快照不存在、读取失败或内容损坏时都以空集合启动
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = nil
	s.index = make(map[string]int)
	s.dirty = false

	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"key":   s.key,
			"error": err.Error(),
		}).Warn("Failed to read collection snapshot, starting empty")
		return nil
	}
	if !found {
		s.logger.WithField("key", s.key).Debug("No collection snapshot found, starting empty")
		return nil
	}

	docs, err := decodeSnapshot(raw)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"key":   s.key,
			"error": err.Error(),
		}).Warn("Corrupt collection snapshot, starting empty")
		return nil
	}

	for _, doc := range docs {
		if doc.ID == "" {
			continue
		}
		if _, dup := s.index[doc.ID]; dup {
			continue
		}
		doc.UploadedAt = normalizeTime(doc.UploadedAt)
		s.index[doc.ID] = len(s.docs)
		s.docs = append(s.docs, doc)
	}

	if s.capacity > 0 && len(s.docs) > s.capacity {
		s.logger.WithFields(logrus.Fields{
			"restored": len(s.docs),
			"capacity": s.capacity,
		}).Warn("Snapshot exceeds capacity, keeping the earliest documents")
		s.truncateLocked(s.capacity)
	}

	s.logger.WithFields(logrus.Fields{
		"key":       s.key,
		"documents": len(s.docs),
	}).Info("Collection restored")
	return nil
}

// Add 追加文档
// 集合已满时返回ErrCollectionFull，集合不变
func (s *Store) Add(ctx context.Context, doc models.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fullLocked() {
		return models.ErrCollectionFull
	}
	if _, exists := s.index[doc.ID]; exists {
		return fmt.Errorf("document %s already exists", doc.ID)
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = s.now()
	}
	doc.UploadedAt = normalizeTime(doc.UploadedAt)

	s.index[doc.ID] = len(s.docs)
	s.docs = append(s.docs, doc.Clone())

	s.persistLocked(ctx)
	return nil
}

// Select 根据ID获取文档
func (s *Store) Select(id string) (models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return models.Document{}, fmt.Errorf("%w: %s", models.ErrDocumentNotFound, id)
	}
	return s.docs[i].Clone(), nil
}

// List 按上传顺序返回所有文档的副本
func (s *Store) List() []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Document, len(s.docs))
	for i, doc := range s.docs {
		out[i] = doc.Clone()
	}
	return out
}

// Len 返回文档数量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Cap 返回集合上限，0表示不限制
func (s *Store) Cap() int {
	return s.capacity
}

// Full 集合是否已满
func (s *Store) Full() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fullLocked()
}

// Close 将未写入的快照刷新到存储
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	if err := s.writeLocked(ctx); err != nil {
		return fmt.Errorf("failed to flush collection snapshot: %w", err)
	}
	return nil
}

func (s *Store) fullLocked() bool {
	return s.capacity > 0 && len(s.docs) >= s.capacity
}

func (s *Store) truncateLocked(n int) {
	for _, doc := range s.docs[n:] {
		delete(s.index, doc.ID)
	}
	s.docs = s.docs[:n]
}

// persistLocked 写入快照，失败只记录日志
func (s *Store) persistLocked(ctx context.Context) {
	if err := s.writeLocked(ctx); err != nil {
		s.logger.WithFields(logrus.Fields{
			"key":   s.key,
			"error": err.Error(),
		}).Warn("Failed to persist collection snapshot")
	}
}

func (s *Store) writeLocked(ctx context.Context) error {
	raw, err := encodeSnapshot(s.docs)
	if err != nil {
		s.dirty = true
		return err
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		s.dirty = true
		return err
	}
	s.dirty = false
	return nil
}

// encodeSnapshot 将集合序列化为JSON数组
// normalizeTime 去掉单调时钟读数并统一为UTC，快照读回后与内存中的值一致
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Round(0)
}

func encodeSnapshot(docs []models.Document) (string, error) {
	if docs == nil {
		docs = []models.Document{}
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return string(data), nil
}

// decodeSnapshot 解析JSON数组形式的快照
func decodeSnapshot(raw string) ([]models.Document, error) {
	var docs []models.Document
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return docs, nil
}
